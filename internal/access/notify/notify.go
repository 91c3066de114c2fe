// Package notify holds the outbound delivery channels: email for invitations
// and security alerts, SMS for step-up verification codes. Services depend on
// the interfaces so tests can capture messages instead of sending them.
package notify

import (
	"context"
	"log/slog"

	"github.com/assetdocs/accessd/pkg/slogx"
)

// Mailer delivers a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a text message to an E.164 phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogMailer writes the message to the request log instead of sending it.
// Used in development when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	slogx.FromContext(ctx).Info("email delivery skipped, no SMTP configured",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// LogSMSSender logs the message instead of sending it. Used in development
// when no SMS provider is configured.
type LogSMSSender struct{}

func (LogSMSSender) Send(ctx context.Context, phone, message string) error {
	slogx.FromContext(ctx).Info("sms delivery skipped, no provider configured",
		slog.String("phone", phone),
	)
	return nil
}
