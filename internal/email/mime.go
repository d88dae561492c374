package email

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
)

const (
	altBoundary   = "boundary_alt_fundraiser"
	mixedBoundary = "boundary_mixed_fundraiser"
)

// BuildMIME assembles the raw RFC 2822 message for msg. Messages with
// attachments become multipart/mixed wrapping a multipart/alternative body;
// plain messages keep the simpler single-part or alternative form.
func BuildMIME(from string, msg Message) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		writeBody(&b, msg)
		return []byte(b.String())
	}

	b.WriteString("Content-Type: multipart/mixed; boundary=" + mixedBoundary + "\r\n\r\n")

	b.WriteString("--" + mixedBoundary + "\r\n")
	writeBody(&b, msg)

	for _, att := range msg.Attachments {
		b.WriteString("\r\n--" + mixedBoundary + "\r\n")
		b.WriteString("Content-Type: " + att.ContentType + "; name=\"" + att.Filename + "\"\r\n")
		b.WriteString("Content-Disposition: attachment; filename=\"" + att.Filename + "\"\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(att.Content)))
		b.WriteString("\r\n")
	}

	b.WriteString("--" + mixedBoundary + "--\r\n")
	return []byte(b.String())
}

// writeBody writes the Content-Type header and body part(s) for the message
// text, without attachments.
func writeBody(b *strings.Builder, msg Message) {
	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		b.WriteString("Content-Type: multipart/alternative; boundary=" + altBoundary + "\r\n\r\n")
		b.WriteString("--" + altBoundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.TextBody + "\r\n")
		b.WriteString("--" + altBoundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTMLBody + "\r\n")
		b.WriteString("--" + altBoundary + "--\r\n")
	case msg.HTMLBody != "":
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTMLBody + "\r\n")
	default:
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.TextBody + "\r\n")
	}
}

// wrapBase64 folds base64 output at 76 characters per RFC 2045.
func wrapBase64(s string) string {
	var b strings.Builder
	for len(s) > 76 {
		b.WriteString(s[:76] + "\r\n")
		s = s[76:]
	}
	b.WriteString(s)
	return b.String()
}

// FormatAddress renders a display-name address pair.
func FormatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}
