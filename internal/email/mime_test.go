package email

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildMIMEPlainText(t *testing.T) {
	raw := string(BuildMIME("Unessa Foundation <no-reply@unessa.org>", Message{
		To:       "asha@example.com",
		Subject:  "Welcome",
		TextBody: "Hello Asha",
	}))

	if !strings.Contains(raw, "From: Unessa Foundation <no-reply@unessa.org>\r\n") {
		t.Error("From header missing")
	}
	if !strings.Contains(raw, "To: asha@example.com\r\n") {
		t.Error("To header missing")
	}
	if !strings.Contains(raw, "Content-Type: text/plain; charset=UTF-8") {
		t.Error("plain text content type missing")
	}
	if strings.Contains(raw, "multipart/") {
		t.Error("plain message should not be multipart")
	}
}

func TestBuildMIMEAlternative(t *testing.T) {
	raw := string(BuildMIME("no-reply@unessa.org", Message{
		To:       "asha@example.com",
		Subject:  "Welcome",
		TextBody: "Hello",
		HTMLBody: "<p>Hello</p>",
	}))

	if !strings.Contains(raw, "Content-Type: multipart/alternative") {
		t.Error("alternative content type missing")
	}
	textIdx := strings.Index(raw, "text/plain")
	htmlIdx := strings.Index(raw, "text/html")
	if textIdx == -1 || htmlIdx == -1 || textIdx > htmlIdx {
		t.Error("text part must precede html part")
	}
}

func TestBuildMIMEWithAttachment(t *testing.T) {
	pdf := bytes.Repeat([]byte("pdfdata"), 100)
	raw := string(BuildMIME("no-reply@unessa.org", Message{
		To:       "asha@example.com",
		Subject:  "Your Offer Letter",
		HTMLBody: "<p>Attached.</p>",
		TextBody: "Attached.",
		Attachments: []Attachment{{
			Filename:    "Offer_Letter_Asha_Rao.pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}))

	if !strings.Contains(raw, "Content-Type: multipart/mixed") {
		t.Error("mixed content type missing")
	}
	if !strings.Contains(raw, `Content-Disposition: attachment; filename="Offer_Letter_Asha_Rao.pdf"`) {
		t.Error("attachment disposition missing")
	}
	if !strings.Contains(raw, "Content-Transfer-Encoding: base64") {
		t.Error("base64 transfer encoding missing")
	}

	encoded := base64.StdEncoding.EncodeToString(pdf)
	if !strings.Contains(strings.ReplaceAll(raw, "\r\n", ""), encoded) {
		t.Error("attachment bytes not present after unfolding")
	}

	for _, line := range strings.Split(raw, "\r\n") {
		if len(line) > 78 {
			t.Errorf("line exceeds 78 chars: %d", len(line))
			break
		}
	}
}

func TestBuildMIMEEncodesSubject(t *testing.T) {
	raw := string(BuildMIME("no-reply@unessa.org", Message{
		To:      "asha@example.com",
		Subject: "Réussite",
	}))

	if !strings.Contains(raw, "Subject: =?UTF-8?q?") {
		t.Error("non-ASCII subject not Q-encoded")
	}
}

func TestFormatAddress(t *testing.T) {
	if got := FormatAddress("Unessa Foundation", "no-reply@unessa.org"); got != "Unessa Foundation <no-reply@unessa.org>" {
		t.Errorf("FormatAddress = %q", got)
	}
	if got := FormatAddress("", "no-reply@unessa.org"); got != "no-reply@unessa.org" {
		t.Errorf("FormatAddress without name = %q", got)
	}
}
