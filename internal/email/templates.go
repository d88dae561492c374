package email

import "fmt"

// OfferLetterEmailHTML returns the HTML body for the offer letter email.
func OfferLetterEmailHTML(name string, appName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your offer letter</title>
</head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;background-color:#f4f5f7;">
<table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:40px 0;">
<tr><td align="center">
<table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,0.08);">
  <tr><td style="padding:32px 40px 24px;text-align:center;">
    <h1 style="margin:0;font-size:24px;color:#1a1a2e;">Congratulations, %s!</h1>
  </td></tr>
  <tr><td style="padding:0 40px 24px;">
    <p style="margin:0 0 16px;font-size:15px;color:#4a4a68;line-height:1.6;">
      We are delighted to welcome you to <strong>%s</strong>. Your offer letter is attached to this email as a PDF.
    </p>
    <p style="margin:0;font-size:15px;color:#4a4a68;line-height:1.6;">
      We look forward to the impact we will create together.
    </p>
  </td></tr>
  <tr><td style="padding:16px 40px;background-color:#f9f9fc;border-top:1px solid #eeeef2;">
    <p style="margin:0;font-size:12px;color:#aaaabc;text-align:center;">
      &copy; %s &mdash; This is an automated message, please do not reply.
    </p>
  </td></tr>
</table>
</td></tr>
</table>
</body>
</html>`, name, appName, appName)
}

// OfferLetterEmailText returns the plain-text body for the offer letter email.
func OfferLetterEmailText(name string, appName string) string {
	return fmt.Sprintf(`Congratulations %s!

Please find your offer letter attached.

Regards,
%s`, name, appName)
}
