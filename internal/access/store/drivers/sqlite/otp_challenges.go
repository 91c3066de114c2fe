package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/store"
)

type otpChallengesRepo struct {
	db dbtx
}

func (r *otpChallengesRepo) CreateChallenge(ctx context.Context, ch domain.OTPChallenge) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO otp_challenges (id, phone, code_hash, attempts, issued_at, expires_at, consumed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ch.ID, ch.Phone, ch.CodeHash, ch.Attempts,
		ch.IssuedAt.UTC(), ch.ExpiresAt.UTC(), mapOptionalTime(ch.ConsumedAt),
	)
	return mapConstraint(err)
}

func (r *otpChallengesRepo) GetActiveChallengeByPhone(ctx context.Context, phone string) (domain.OTPChallenge, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, phone, code_hash, attempts, issued_at, expires_at, consumed_at
		 FROM otp_challenges
		 WHERE phone = ? AND consumed_at IS NULL AND expires_at > ?
		 LIMIT 1`,
		phone, time.Now().UTC())

	var (
		ch         domain.OTPChallenge
		consumedAt sql.NullTime
	)
	err := row.Scan(&ch.ID, &ch.Phone, &ch.CodeHash, &ch.Attempts, &ch.IssuedAt, &ch.ExpiresAt, &consumedAt)
	if err != nil {
		return domain.OTPChallenge{}, mapNotFound(err)
	}
	ch.ConsumedAt = mapNullTimePtr(consumedAt)
	return ch, nil
}

func (r *otpChallengesRepo) DeleteUnconsumedForPhone(ctx context.Context, phone string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_challenges WHERE phone = ? AND consumed_at IS NULL`, phone)
	return err
}

func (r *otpChallengesRepo) IncrementAttempts(ctx context.Context, challengeID string) (int, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE otp_challenges SET attempts = attempts + 1 WHERE id = ?`, challengeID)
	if err != nil {
		return 0, err
	}

	var attempts int
	err = r.db.QueryRowContext(ctx,
		`SELECT attempts FROM otp_challenges WHERE id = ?`, challengeID).Scan(&attempts)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *otpChallengesRepo) MarkConsumed(ctx context.Context, challengeID string, at time.Time) error {
	// The NULL guard is the single-use guarantee: the second consumer of the
	// same code updates zero rows.
	res, err := r.db.ExecContext(ctx,
		`UPDATE otp_challenges SET consumed_at = ? WHERE id = ? AND consumed_at IS NULL`,
		at.UTC(), challengeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *otpChallengesRepo) DeleteExpiredChallenges(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_challenges WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
