package notify

import (
	"context"
	"log/slog"

	"github.com/assetdocs/accessd/pkg/slogx"

	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the connection settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether enough settings are present to dial a server.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != 0 && c.From != ""
}

// SMTPMailer sends plain-text email over SMTP.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return err
	}

	slogx.FromContext(ctx).Debug("email sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
