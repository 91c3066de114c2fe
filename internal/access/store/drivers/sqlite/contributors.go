package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/store"
)

type contributorsRepo struct {
	db dbtx
}

const contributorColumns = `id, account_owner_id, contributor_email, contributor_user_id,
	first_name, last_name, role, status, invited_at, created_at, updated_at`

func scanContributor(scan func(dest ...any) error) (domain.Contributor, error) {
	var (
		c      domain.Contributor
		userID sql.NullString
		role   string
		status string
	)

	err := scan(
		&c.ID, &c.AccountOwnerID, &c.Email, &userID,
		&c.FirstName, &c.LastName, &role, &status,
		&c.InvitedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Contributor{}, err
	}

	c.UserID = mapNullStringPtr(userID)
	c.Role = domain.Role(role)
	c.Status = domain.ContributorStatus(status)
	return c, nil
}

func (r *contributorsRepo) InsertPending(ctx context.Context, c domain.Contributor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contributors (
			id, account_owner_id, contributor_email, contributor_user_id,
			first_name, last_name, role, status, invited_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?, ?)`,
		c.ID, c.AccountOwnerID, c.Email, mapOptionalString(c.UserID),
		c.FirstName, c.LastName, string(c.Role), c.InvitedAt.UTC(),
		time.Now().UTC(), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *contributorsRepo) GetContributorByID(ctx context.Context, id string) (domain.Contributor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contributorColumns+` FROM contributors WHERE id = ?`, id)
	c, err := scanContributor(row.Scan)
	if err != nil {
		return domain.Contributor{}, mapNotFound(err)
	}
	return c, nil
}

func (r *contributorsRepo) ListForOwner(ctx context.Context, ownerID string) ([]domain.Contributor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contributorColumns+` FROM contributors
		 WHERE account_owner_id = ?
		 ORDER BY invited_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Contributor
	for rows.Next() {
		c, err := scanContributor(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contributorsRepo) FindActiveGrant(ctx context.Context, contributorUserID string) (domain.Contributor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contributorColumns+` FROM contributors
		 WHERE contributor_user_id = ? AND status = 'accepted'
		 ORDER BY updated_at DESC
		 LIMIT 1`, contributorUserID)
	c, err := scanContributor(row.Scan)
	if err != nil {
		return domain.Contributor{}, mapNotFound(err)
	}
	return c, nil
}

func (r *contributorsRepo) ListPendingByEmail(ctx context.Context, email string) ([]domain.Contributor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contributorColumns+` FROM contributors
		 WHERE contributor_email = ? AND status = 'pending'
		 ORDER BY invited_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Contributor
	for rows.Next() {
		c, err := scanContributor(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contributorsRepo) MarkAccepted(ctx context.Context, contributorID string, userID string) error {
	// The status guard makes pending -> accepted a one-shot transition even
	// under concurrent claims.
	res, err := r.db.ExecContext(ctx,
		`UPDATE contributors
		 SET status = 'accepted', contributor_user_id = ?, updated_at = ?
		 WHERE id = ? AND status = 'pending'`,
		userID, time.Now().UTC(), contributorID)
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

func (r *contributorsRepo) Revoke(ctx context.Context, contributorID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE contributors
		 SET status = 'revoked', updated_at = ?
		 WHERE id = ? AND status != 'revoked'`,
		time.Now().UTC(), contributorID)
	return err
}

func (r *contributorsRepo) DeletePending(ctx context.Context, contributorID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM contributors WHERE id = ? AND status = 'pending'`, contributorID)
	return err
}
