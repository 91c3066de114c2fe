package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/pkg/cryptox"
	"github.com/assetdocs/accessd/pkg/jwtx"
	"github.com/assetdocs/accessd/pkg/slogx"

	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTOTPRequired       = errors.New("authenticator code required")
	ErrSetupTokenInvalid  = errors.New("setup link is invalid or has expired")
	ErrWeakPassword       = errors.New("password must be at least 10 characters")
	ErrEmailTaken         = errors.New("email address is already in use")
	ErrInvalidEmail       = errors.New("not a valid email address")
)

const minPasswordLength = 10

// SessionService authenticates identities and issues session tokens. Every
// credential or MFA state change routes through here so the matching security
// alert is emitted exactly once per logical event.
type SessionService struct {
	Store        store.Store
	Signer       jwtx.Signer
	Alerts       *AlertService
	Contributors *ContributorService

	Issuer     string
	Audience   []string
	SessionTTL time.Duration // 0 means jwtx.DefaultSessionTTL
}

// Login verifies credentials (and TOTP when enrolled), claims any pending
// contributor invitations addressed to the email, and returns a signed
// session token.
func (s *SessionService) Login(
	ctx context.Context,
	email, password, totpCode string,
	metadata map[string]string,
) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Hash anyway so response timing doesn't reveal whether the email
			// exists.
			_ = cryptox.VerifyPassword(password, fakePasswordHash)
			return "", domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return "", domain.User{}, err
	}

	if user.PasswordHash == "" {
		// Provisioned identity that never completed setup.
		return "", domain.User{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login failed, bad password", slog.String("user_id", user.ID))
		s.emit(ctx, user.ID, domain.AlertFailedLoginAttempt, metadata)
		return "", domain.User{}, ErrInvalidCredentials
	}

	amr := []string{"pwd"}
	if user.TwoFactorEnabled != nil {
		if totpCode == "" {
			return "", domain.User{}, ErrTOTPRequired
		}
		if user.TwoFactorSecret == nil || !totp.Validate(totpCode, *user.TwoFactorSecret) {
			log.Warn("login failed, bad totp code", slog.String("user_id", user.ID))
			s.emit(ctx, user.ID, domain.AlertFailedLoginAttempt, metadata)
			return "", domain.User{}, ErrInvalidCredentials
		}
		amr = append(amr, "otp")
	}

	// Pending invitations addressed to this email become accepted grants the
	// moment the invitee proves the identity. Best effort, a failure here
	// must not block the login.
	if s.Contributors != nil {
		if err := s.Contributors.ClaimInvitations(ctx, user); err != nil {
			log.Error("failed to claim pending invitations on login",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}

	token, err := s.issueToken(user, amr)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("login succeeded", slog.String("user_id", user.ID))
	s.emit(ctx, user.ID, domain.AlertNewLogin, metadata)
	return token, user, nil
}

// CompleteSetup finishes a provisioned identity using the emailed setup
// token: sets the first password, clears the token, claims invitations, and
// signs the first session.
func (s *SessionService) CompleteSetup(
	ctx context.Context,
	setupToken, password string,
) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	if len(password) < minPasswordLength {
		return "", domain.User{}, ErrWeakPassword
	}

	fingerprint := cryptox.FingerprintToken(setupToken)
	user, err := s.Store.Users().GetUserBySetupTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, ErrSetupTokenInvalid
		}
		log.Error("failed to look up setup token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return "", domain.User{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Users().ClearSetupToken(ctx, user.ID)
	})
	if err != nil {
		log.Error("failed to complete account setup", slog.Any("error", err))
		return "", domain.User{}, err
	}
	user.PasswordHash = hash

	if s.Contributors != nil {
		if err := s.Contributors.ClaimInvitations(ctx, user); err != nil {
			log.Error("failed to claim pending invitations on setup",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}

	token, err := s.issueToken(user, []string{"pwd"})
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("account setup completed", slog.String("user_id", user.ID))
	return token, user, nil
}

// ChangePassword rotates the password after re-proving the current one.
func (s *SessionService) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
	metadata map[string]string,
) error {
	log := slogx.FromContext(ctx)

	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		log.Error("failed to update password", slog.Any("error", err))
		return err
	}

	log.Info("password changed", slog.String("user_id", userID))
	s.emit(ctx, userID, domain.AlertPasswordChanged, metadata)
	return nil
}

// ChangeEmail moves the account to a new address after re-proving the
// password. The alert goes to the old address, which is the one a hijack
// victim still reads.
func (s *SessionService) ChangeEmail(
	ctx context.Context,
	userID, password, newEmail string,
	metadata map[string]string,
) error {
	log := slogx.FromContext(ctx)

	if _, err := mail.ParseAddress(newEmail); err != nil || len(newEmail) > maxEmailLength {
		return ErrInvalidEmail
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.Store.Users().UpdateEmail(ctx, userID, newEmail); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrEmailTaken
		}
		log.Error("failed to update email", slog.Any("error", err))
		return err
	}

	md := make(map[string]string, len(metadata)+2)
	for k, v := range metadata {
		md[k] = v
	}
	md["old_email"] = user.Email
	md["new_email"] = newEmail

	log.Info("email changed", slog.String("user_id", userID))

	// Emit before the preference read would see the new address; the record
	// keys on user id either way.
	s.emit(ctx, userID, domain.AlertEmailChanged, md)
	return nil
}

func (s *SessionService) issueToken(user domain.User, amr []string) (string, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	claims := jwtx.NewSessionClaims(
		user.ID,
		jwtx.NewJTI(),
		amr,
		ttl,
		s.Issuer,
		s.Audience,
		user.Email,
		user.FullName(),
		time.Now().UTC(),
	)
	return s.Signer.Sign(claims)
}

func (s *SessionService) emit(ctx context.Context, userID string, kind domain.AlertType, metadata map[string]string) {
	if s.Alerts == nil {
		return
	}
	if _, err := s.Alerts.Emit(ctx, domain.SecurityAlert{
		UserID:   userID,
		Type:     kind,
		Metadata: metadata,
	}); err != nil {
		slogx.FromContext(ctx).Error("failed to emit security alert",
			slog.String("user_id", userID),
			slog.String("alert_type", string(kind)),
			slog.Any("error", err),
		)
	}
}

// fakePasswordHash is a valid argon2 encoding of a random throwaway password,
// used to equalize timing when the email doesn't exist.
const fakePasswordHash = "$argon2id$v=19$m=65536,t=3,p=2$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
