package email

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the configuration for the SMTP email sender.
type SMTPConfig struct {
	// Addr is the SMTP server address in host:port form.
	Addr string
	// Host is the SMTP server hostname, used for PLAIN auth.
	Host string
	// Username and Password authenticate against the server.
	Username string
	Password string
	// SenderAddress is the email address emails are sent from.
	SenderAddress string
	// SenderName is the display name for the sender.
	SenderName string
}

// SMTPSender implements Sender over plain SMTP with optional AUTH.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("smtp: server address is required")
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send sends an email via SMTP. The context is honoured only up to the
// point of dialing; net/smtp does not support mid-session cancellation.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := FormatAddress(s.cfg.SenderName, s.cfg.SenderAddress)
	raw := BuildMIME(from, msg)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(s.cfg.Addr, auth, s.cfg.SenderAddress, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return nil
}
