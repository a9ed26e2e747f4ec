package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
)

type quoteLineRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewQuoteLineRepository creates a new quote line repository
func NewQuoteLineRepository(db *sql.DB, logger *zap.Logger) *quoteLineRepository {
	return &quoteLineRepository{
		db:     db,
		logger: logger,
	}
}

const quoteLineInsert = `
	INSERT INTO quote_lines (id, quote_id, product_id, name, quantity, unit_price, total_price, admin_note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (r *quoteLineRepository) CreateBatch(ctx context.Context, lines []*domain.QuoteLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertLines(ctx, tx, lines); err != nil {
		r.logger.Error("Failed to create quote lines", zap.Error(err))
		return err
	}

	return tx.Commit()
}

// ReplaceForQuote swaps the full line set of a quote in one transaction.
// Admin edits rewrite the whole set so line totals and quote totals always
// come from the same recomputation.
func (r *quoteLineRepository) ReplaceForQuote(ctx context.Context, quoteID uuid.UUID, lines []*domain.QuoteLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_lines WHERE quote_id = $1`, quoteID); err != nil {
		r.logger.Error("Failed to clear quote lines", zap.Error(err))
		return err
	}

	if err := insertLines(ctx, tx, lines); err != nil {
		r.logger.Error("Failed to replace quote lines", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func insertLines(ctx context.Context, tx *sql.Tx, lines []*domain.QuoteLine) error {
	now := time.Now()
	for _, line := range lines {
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		if line.CreatedAt.IsZero() {
			line.CreatedAt = now
		}
		_, err := tx.ExecContext(ctx, quoteLineInsert,
			line.ID,
			line.QuoteID,
			line.ProductID,
			line.Name,
			line.Quantity,
			line.UnitPrice,
			line.TotalPrice,
			line.AdminNote,
			line.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *quoteLineRepository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]*domain.QuoteLine, error) {
	query := `
		SELECT id, quote_id, product_id, name, quantity, unit_price, total_price, admin_note, created_at
		FROM quote_lines
		WHERE quote_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, quoteID)
	if err != nil {
		r.logger.Error("Failed to get quote lines", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lines []*domain.QuoteLine
	for rows.Next() {
		var line domain.QuoteLine
		var productID uuid.NullUUID
		var unitPrice sql.NullFloat64
		var totalPrice sql.NullFloat64
		var adminNote sql.NullString

		err := rows.Scan(
			&line.ID,
			&line.QuoteID,
			&productID,
			&line.Name,
			&line.Quantity,
			&unitPrice,
			&totalPrice,
			&adminNote,
			&line.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if productID.Valid {
			line.ProductID = &productID.UUID
		}
		if unitPrice.Valid {
			line.UnitPrice = &unitPrice.Float64
		}
		if totalPrice.Valid {
			line.TotalPrice = &totalPrice.Float64
		}
		if adminNote.Valid {
			line.AdminNote = &adminNote.String
		}
		lines = append(lines, &line)
	}

	return lines, rows.Err()
}
