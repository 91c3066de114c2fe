package store

import (
	"context"
	"errors"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to actively stop people from accidentally doing
// transactions within transactions.
type Store interface {
	Users() Users
	Contributors() Contributors
	OTPChallenges() OTPChallenges
	Notifications() Notifications

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail performs a case-insensitive email lookup.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByPhone returns the user whose profile carries this E.164 phone.
	GetUserByPhone(ctx context.Context, phone string) (domain.User, error)

	// GetUserBySetupTokenHash returns a provisioned identity by the
	// fingerprint of its setup token, only while the token is unexpired.
	GetUserBySetupTokenHash(ctx context.Context, hash string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateEmail changes the account email. Returns ErrAlreadyExists if the
	// new email is taken.
	UpdateEmail(ctx context.Context, userID string, newEmail string) error

	// SetPhone stores a phone on the profile in the unverified state,
	// clearing any prior verification timestamp.
	SetPhone(ctx context.Context, userID string, phone string) error

	// MarkPhoneVerified flips phone_verified for whichever user carries this
	// phone and stamps phone_verified_at. The timestamp is set if and only
	// if the flag is, per the profile invariant.
	MarkPhoneVerified(ctx context.Context, phone string, at time.Time) error

	// ClearSetupToken removes the setup token once account setup completes.
	ClearSetupToken(ctx context.Context, userID string) error

	// DeleteExpiredSetupTokens is housekeeping for provisioned identities
	// whose setup window lapsed.
	DeleteExpiredSetupTokens(ctx context.Context) error

	// UpdateTwoFactorSecret sets the TOTP secret for a user.
	UpdateTwoFactorSecret(ctx context.Context, userID string, secret string) error

	// EnableTwoFactor marks 2FA as enabled (sets two_factor_enabled timestamp).
	EnableTwoFactor(ctx context.Context, userID string) error

	// DisableTwoFactor disables 2FA (clears two_factor_enabled and the secret).
	DisableTwoFactor(ctx context.Context, userID string) error

	// UpdateNotificationPrefs sets the master and security-alert toggles.
	UpdateNotificationPrefs(ctx context.Context, userID string, emailNotifications, securityAlerts bool) error

	// DeleteUser cascades to contributors and notifications (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Contributors interface {
	// InsertPending creates a new grant in pending status. The storage layer
	// itself rejects a concurrent duplicate for the same (owner, email) pair
	// with ErrAlreadyExists; callers must not pre-check with a read.
	InsertPending(ctx context.Context, c domain.Contributor) error

	// GetContributorByID returns a grant by id.
	GetContributorByID(ctx context.Context, id string) (domain.Contributor, error)

	// ListForOwner returns an owner's contributors ordered by invitation
	// recency (newest first).
	ListForOwner(ctx context.Context, ownerID string) ([]domain.Contributor, error)

	// FindActiveGrant returns the accepted grant naming this identity as the
	// contributor, if any.
	FindActiveGrant(ctx context.Context, contributorUserID string) (domain.Contributor, error)

	// ListPendingByEmail returns pending grants addressed to this email,
	// used to claim invitations when the invitee authenticates.
	ListPendingByEmail(ctx context.Context, email string) ([]domain.Contributor, error)

	// MarkAccepted transitions pending -> accepted and links the contributor
	// identity. Returns ErrNotFound if the grant is not pending, so the
	// transition happens exactly once.
	MarkAccepted(ctx context.Context, contributorID string, userID string) error

	// Revoke sets status to revoked. Idempotent: revoking a revoked grant is
	// a no-op.
	Revoke(ctx context.Context, contributorID string) error

	// DeletePending removes a pending grant; used to compensate when the
	// invitation flow fails after the insert.
	DeletePending(ctx context.Context, contributorID string) error
}

type OTPChallenges interface {
	// CreateChallenge stores a freshly issued challenge.
	CreateChallenge(ctx context.Context, ch domain.OTPChallenge) error

	// GetActiveChallengeByPhone returns the unconsumed, unexpired challenge
	// for a phone. By construction there is at most one.
	GetActiveChallengeByPhone(ctx context.Context, phone string) (domain.OTPChallenge, error)

	// DeleteUnconsumedForPhone invalidates any outstanding challenge for the
	// phone; called in the same transaction as CreateChallenge so two valid
	// codes can never coexist.
	DeleteUnconsumedForPhone(ctx context.Context, phone string) error

	// IncrementAttempts bumps the failed-attempt counter and returns the new
	// count.
	IncrementAttempts(ctx context.Context, challengeID string) (int, error)

	// MarkConsumed consumes the code. Returns ErrNotFound if the challenge
	// was already consumed, which makes replay a storage-level impossibility
	// rather than a read-then-write check.
	MarkConsumed(ctx context.Context, challengeID string, at time.Time) error

	// DeleteExpiredChallenges is housekeeping.
	DeleteExpiredChallenges(ctx context.Context) error
}

type Notifications interface {
	// CreateNotification persists one in-app notification record.
	CreateNotification(ctx context.Context, n domain.Notification) error

	// ListForUser returns a user's notifications, newest first.
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}
