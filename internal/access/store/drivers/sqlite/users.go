package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, first_name, last_name, password_hash,
	phone, phone_verified, phone_verified_at,
	two_factor_enabled, two_factor_secret,
	email_notifications, security_alerts,
	setup_token_hash, setup_expires_at,
	created_at, updated_at`

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var (
		u               domain.User
		phone           sql.NullString
		phoneVerified   int
		phoneVerifiedAt sql.NullTime
		tfaEnabled      sql.NullTime
		tfaSecret       sql.NullString
		emailNotifs     int
		securityAlerts  int
		setupTokenHash  sql.NullString
		setupExpiresAt  sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&phone, &phoneVerified, &phoneVerifiedAt,
		&tfaEnabled, &tfaSecret,
		&emailNotifs, &securityAlerts,
		&setupTokenHash, &setupExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Phone = mapNullString(phone)
	u.PhoneVerified = phoneVerified != 0
	u.PhoneVerifiedAt = mapNullTimePtr(phoneVerifiedAt)
	u.TwoFactorEnabled = mapNullTimePtr(tfaEnabled)
	u.TwoFactorSecret = mapNullStringPtr(tfaSecret)
	u.EmailNotifications = emailNotifs != 0
	u.SecurityAlerts = securityAlerts != 0
	u.SetupTokenHash = mapNullStringPtr(setupTokenHash)
	u.SetupExpiresAt = mapNullTimePtr(setupExpiresAt)

	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserByPhone(ctx context.Context, phone string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = ?`, phone)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserBySetupTokenHash(ctx context.Context, hash string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE setup_token_hash = ? AND setup_expires_at > ?`,
		hash, time.Now().UTC())
	return r.scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (
			id, email, first_name, last_name, password_hash,
			phone, phone_verified, phone_verified_at,
			two_factor_enabled, two_factor_secret,
			email_notifications, security_alerts,
			setup_token_hash, setup_expires_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash,
		mapStringNull(u.Phone), boolToInt(u.PhoneVerified), mapOptionalTime(u.PhoneVerifiedAt),
		mapOptionalTime(u.TwoFactorEnabled), mapOptionalString(u.TwoFactorSecret),
		boolToInt(u.EmailNotifications), boolToInt(u.SecurityAlerts),
		mapOptionalString(u.SetupTokenHash), mapOptionalTime(u.SetupExpiresAt),
		time.Now().UTC(), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateEmail(ctx context.Context, userID string, newEmail string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, updated_at = ? WHERE id = ?`,
		newEmail, time.Now().UTC(), userID)
	return mapConstraint(err)
}

func (r *usersRepo) SetPhone(ctx context.Context, userID string, phone string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET phone = ?, phone_verified = 0, phone_verified_at = NULL, updated_at = ?
		 WHERE id = ?`,
		phone, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) MarkPhoneVerified(ctx context.Context, phone string, at time.Time) error {
	// Flag and timestamp are written in one statement so the "timestamp set
	// iff verified" invariant can't be observed half-applied.
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET phone_verified = 1, phone_verified_at = ?, updated_at = ?
		 WHERE phone = ?`,
		at.UTC(), time.Now().UTC(), phone)
	return err
}

func (r *usersRepo) ClearSetupToken(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET setup_token_hash = NULL, setup_expires_at = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) DeleteExpiredSetupTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET setup_token_hash = NULL, setup_expires_at = NULL
		 WHERE setup_token_hash IS NOT NULL AND setup_expires_at <= ?`,
		time.Now().UTC())
	return err
}

func (r *usersRepo) UpdateTwoFactorSecret(ctx context.Context, userID string, secret string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_secret = ?, updated_at = ? WHERE id = ?`,
		secret, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) EnableTwoFactor(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = ?, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) DisableTwoFactor(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET two_factor_enabled = NULL, two_factor_secret = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateNotificationPrefs(ctx context.Context, userID string, emailNotifications, securityAlerts bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email_notifications = ?, security_alerts = ?, updated_at = ?
		 WHERE id = ?`,
		boolToInt(emailNotifications), boolToInt(securityAlerts), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
