package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/pkg/slogx"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidTOTPCode        = errors.New("invalid authenticator code")
	ErrTwoFactorNotEnrolled   = errors.New("two-factor authentication is not set up")
	ErrTwoFactorAlreadyActive = errors.New("two-factor authentication is already enabled")
)

// TwoFactorService manages TOTP enrolment. Enabling and disabling both emit
// security alerts.
type TwoFactorService struct {
	Store  store.Store
	Alerts *AlertService
	Issuer string // issuer name shown in authenticator apps
}

// Enrollment is returned from Enroll so the client can render a QR code.
type Enrollment struct {
	Secret     string
	OTPAuthURL string
}

// Enroll generates a TOTP secret for the user. Two-factor is not active until
// the user confirms a code via Activate.
func (s *TwoFactorService) Enroll(ctx context.Context, userID string) (Enrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return Enrollment{}, err
	}
	if user.TwoFactorEnabled != nil {
		return Enrollment{}, ErrTwoFactorAlreadyActive
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Store.Users().UpdateTwoFactorSecret(ctx, userID, key.Secret()); err != nil {
		return Enrollment{}, err
	}

	return Enrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// Activate turns two-factor on after the user proves possession of the
// enrolled secret.
func (s *TwoFactorService) Activate(ctx context.Context, userID string, code string, metadata map[string]string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == nil || *user.TwoFactorSecret == "" {
		return ErrTwoFactorNotEnrolled
	}
	if user.TwoFactorEnabled != nil {
		return ErrTwoFactorAlreadyActive
	}
	if !totp.Validate(code, *user.TwoFactorSecret) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().EnableTwoFactor(ctx, userID); err != nil {
		return err
	}

	log.Info("two-factor enabled", slog.String("user_id", userID))
	s.emit(ctx, userID, domain.AlertTwoFactorEnabled, metadata)
	return nil
}

// Deactivate turns two-factor off. A valid current code is required so a
// hijacked session cannot silently weaken the account.
func (s *TwoFactorService) Deactivate(ctx context.Context, userID string, code string, metadata map[string]string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled == nil || user.TwoFactorSecret == nil {
		return ErrTwoFactorNotEnrolled
	}
	if !totp.Validate(code, *user.TwoFactorSecret) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().DisableTwoFactor(ctx, userID); err != nil {
		return err
	}

	log.Info("two-factor disabled", slog.String("user_id", userID))
	s.emit(ctx, userID, domain.AlertTwoFactorDisabled, metadata)
	return nil
}

func (s *TwoFactorService) emit(ctx context.Context, userID string, kind domain.AlertType, metadata map[string]string) {
	if s.Alerts == nil {
		return
	}
	if _, err := s.Alerts.Emit(ctx, domain.SecurityAlert{
		UserID:   userID,
		Type:     kind,
		Metadata: metadata,
	}); err != nil {
		slogx.FromContext(ctx).Error("failed to emit two-factor alert",
			slog.String("user_id", userID),
			slog.String("alert_type", string(kind)),
			slog.Any("error", err),
		)
	}
}
