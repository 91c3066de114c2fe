package domain

import "time"

// User is an identity on the platform, either an account owner or a
// contributor (or both, for different accounts).
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // argon2 encoded; empty until setup is completed

	// Phone verification state. PhoneVerifiedAt is set if and only if
	// PhoneVerified is true; both are mutated only by a successful step-up
	// verification.
	Phone           string // E.164, empty if never provided
	PhoneVerified   bool
	PhoneVerifiedAt *time.Time

	// TOTP two-factor state.
	TwoFactorEnabled *time.Time // when 2FA was enabled (nullable)
	TwoFactorSecret  *string    // base32 TOTP secret (nullable)

	// Notification preferences. EmailNotifications is the master toggle;
	// SecurityAlerts gates security alerts specifically.
	EmailNotifications bool
	SecurityAlerts     bool

	// Account-setup token for identities provisioned through an invitation.
	// Cleared once setup completes.
	SetupTokenHash *string
	SetupExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name used in notification copy.
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
