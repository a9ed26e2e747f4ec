package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
)

type statusHistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStatusHistoryRepository creates a new status history repository
func NewStatusHistoryRepository(db *sql.DB, logger *zap.Logger) *statusHistoryRepository {
	return &statusHistoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *statusHistoryRepository) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	query := `
		INSERT INTO order_status_history (id, order_id, status, actor_id, actor_role, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.OrderID,
		entry.Status,
		entry.ActorID,
		entry.ActorRole,
		entry.Note,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append status history entry", zap.Error(err))
		return err
	}

	return nil
}

func (r *statusHistoryRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.StatusHistoryEntry, error) {
	query := `
		SELECT id, order_id, status, actor_id, actor_role, note, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get status history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.StatusHistoryEntry
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		var note sql.NullString
		err := rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.Status,
			&entry.ActorID,
			&entry.ActorRole,
			&note,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if note.Valid {
			entry.Note = &note.String
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
