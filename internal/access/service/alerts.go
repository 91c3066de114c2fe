package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/notify"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/pkg/idx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

var ErrInvalidAlertType = errors.New("invalid alert type")

// AlertService notifies an account holder about authentication-relevant
// events, respecting their notification preferences. Fire-and-forget per
// invocation; callers must not emit twice for one logical event.
type AlertService struct {
	Store  store.Store
	Mailer notify.Mailer
}

// EmitResult reports whether the alert was delivered or deliberately skipped.
type EmitResult struct {
	Skipped bool
	Reason  string
}

// Emit sends the alert email and records an in-app notification. The two
// writes are independent: either may fail without rolling back the other.
func (s *AlertService) Emit(ctx context.Context, alert domain.SecurityAlert) (EmitResult, error) {
	log := slogx.FromContext(ctx)

	if !alert.Type.Valid() {
		return EmitResult{}, ErrInvalidAlertType
	}

	// 1. The account may have been deleted between the triggering event and
	// dispatch. Not an error, just nothing to do.
	user, err := s.Store.Users().GetUserByID(ctx, alert.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return EmitResult{Skipped: true, Reason: "user not found"}, nil
		}
		log.Error("failed to resolve alert recipient", slog.Any("error", err))
		return EmitResult{}, err
	}

	// 2. Preference gates. Master toggle first, then the security-specific
	// one.
	if !user.EmailNotifications {
		return EmitResult{Skipped: true, Reason: "email notifications disabled"}, nil
	}
	if !user.SecurityAlerts {
		return EmitResult{Skipped: true, Reason: "security alerts disabled"}, nil
	}

	subject, body := renderAlert(alert, user)

	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var mailErr error
	if mailErr = s.Mailer.Send(ctx, user.Email, subject, body); mailErr != nil {
		log.Error("failed to send security alert email",
			slog.String("user_id", user.ID),
			slog.String("alert_type", string(alert.Type)),
			slog.Any("error", mailErr),
		)
	}

	record := domain.Notification{
		ID:        idx.New().String(),
		UserID:    user.ID,
		AlertType: alert.Type,
		Subject:   subject,
		Body:      body,
		CreatedAt: ts,
	}
	var storeErr error
	if storeErr = s.Store.Notifications().CreateNotification(ctx, record); storeErr != nil {
		log.Error("failed to record in-app notification",
			slog.String("user_id", user.ID),
			slog.String("alert_type", string(alert.Type)),
			slog.Any("error", storeErr),
		)
	}

	if mailErr != nil && storeErr != nil {
		return EmitResult{}, errors.Join(mailErr, storeErr)
	}

	log.Info("security alert emitted",
		slog.String("user_id", user.ID),
		slog.String("alert_type", string(alert.Type)),
	)
	return EmitResult{}, nil
}

// ListNotifications returns the user's in-app notification log, newest first.
func (s *AlertService) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Store.Notifications().ListForUser(ctx, userID, limit)
}

const alertCallToAction = "If this wasn't you, reset your password immediately and review your account activity."

// renderAlert builds the per-kind subject and body. Kinds that could indicate
// compromise carry the call-to-action.
func renderAlert(alert domain.SecurityAlert, user domain.User) (subject, body string) {
	name := user.FirstName
	if name == "" {
		name = user.Email
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)

	switch alert.Type {
	case domain.AlertNewLogin:
		subject = "New sign-in to your account"
		b.WriteString("Your account was just signed in to.\n")
		writeAlertMetadata(&b, alert.Metadata)
		b.WriteString("\n" + alertCallToAction + "\n")

	case domain.AlertPasswordChanged:
		subject = "Your password was changed"
		b.WriteString("The password on your account was changed.\n")
		writeAlertMetadata(&b, alert.Metadata)
		b.WriteString("\n" + alertCallToAction + "\n")

	case domain.AlertEmailChanged:
		subject = "Your account email was changed"
		b.WriteString("The email address on your account was changed.\n")
		writeAlertMetadata(&b, alert.Metadata)
		b.WriteString("\n" + alertCallToAction + "\n")

	case domain.AlertFailedLoginAttempt:
		subject = "Failed sign-in attempt on your account"
		b.WriteString("Someone tried and failed to sign in to your account.\n")
		writeAlertMetadata(&b, alert.Metadata)
		b.WriteString("\nIf this was you, you can ignore this message. Otherwise consider changing your password.\n")

	case domain.AlertTwoFactorEnabled:
		subject = "Two-factor authentication enabled"
		b.WriteString("Two-factor authentication was enabled on your account.\n")
		writeAlertMetadata(&b, alert.Metadata)

	case domain.AlertTwoFactorDisabled:
		subject = "Two-factor authentication disabled"
		b.WriteString("Two-factor authentication was disabled on your account.\n")
		writeAlertMetadata(&b, alert.Metadata)
		b.WriteString("\n" + alertCallToAction + "\n")
	}

	return subject, b.String()
}

func writeAlertMetadata(b *strings.Builder, metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("\nDetails:\n")
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, metadata[k])
	}
}
