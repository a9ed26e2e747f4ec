package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/pkg/errors"
)

type notificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) *notificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, scope, type, title, message, url, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.RecipientID,
		n.Scope,
		n.Type,
		n.Title,
		n.Message,
		n.URL,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return err
	}

	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, scope, type, title, message, url, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND scope = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	return r.listQuery(ctx, query, recipientID, domain.NotificationScopePersonal, limit, offset)
}

func (r *notificationRepository) ListAdmin(ctx context.Context, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, scope, type, title, message, url, is_read, created_at
		FROM notifications
		WHERE scope = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.listQuery(ctx, query, domain.NotificationScopeAdmin, limit, offset)
}

func (r *notificationRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var url sql.NullString
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.Scope,
			&n.Type,
			&n.Title,
			&n.Message,
			&url,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if url.Valid {
			n.URL = &url.String
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkRead flips is_read for a notification owned by the recipient. Scoping
// by recipient prevents marking someone else's notification.
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, recipientID string) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND (recipient_id = $2 OR scope = $3)
	`

	res, err := r.db.ExecContext(ctx, query, id, recipientID, domain.NotificationScopeAdmin)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Error(err))
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errors.ErrNotFound{Resource: "notification", ID: id.String()}
	}

	return nil
}
