package sqlite

import (
	"context"

	"github.com/assetdocs/accessd/internal/access/domain"
)

type notificationsRepo struct {
	db dbtx
}

func (r *notificationsRepo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, alert_type, subject, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.AlertType), n.Subject, n.Body, n.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *notificationsRepo) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, alert_type, subject, body, created_at
		 FROM notifications
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n   domain.Notification
			typ string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Subject, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.AlertType = domain.AlertType(typ)
		out = append(out, n)
	}
	return out, rows.Err()
}
