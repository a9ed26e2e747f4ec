package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/pkg/errors"
)

type quotationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *sql.DB, logger *zap.Logger) *quotationRepository {
	return &quotationRepository{
		db:     db,
		logger: logger,
	}
}

const quoteColumns = `id, quote_number, user_id, email, phone, subtotal, discount, delivery_fee,
	final_amount, status, user_note, admin_note, valid_until, notified, viewed, attachments,
	created_at, updated_at`

func (r *quotationRepository) Create(ctx context.Context, quote *domain.Quotation) error {
	query := `
		INSERT INTO quotations (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	now := time.Now()
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = now
	}
	if quote.UpdatedAt.IsZero() {
		quote.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		quote.ID,
		quote.QuoteNumber,
		quote.UserID,
		quote.Email,
		quote.Phone,
		quote.Subtotal,
		quote.Discount,
		quote.DeliveryFee,
		quote.FinalAmount,
		quote.Status,
		quote.UserNote,
		quote.AdminNote,
		quote.ValidUntil,
		quote.Notified,
		quote.Viewed,
		pq.Array(quote.Attachments),
		quote.CreatedAt,
		quote.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create quotation", zap.Error(err))
		return err
	}

	return nil
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotations WHERE id = $1`

	quote, err := scanQuoteRow(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "quotation", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get quotation by ID", zap.Error(err))
		return nil, err
	}
	return quote, nil
}

func (r *quotationRepository) GetByQuoteNumber(ctx context.Context, quoteNumber string) (*domain.Quotation, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotations WHERE quote_number = $1`

	quote, err := scanQuoteRow(r.db.QueryRowContext(ctx, query, quoteNumber))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "quotation", ID: quoteNumber}
	}
	if err != nil {
		r.logger.Error("Failed to get quotation by number", zap.Error(err), zap.String("quote_number", quoteNumber))
		return nil, err
	}
	return quote, nil
}

func (r *quotationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Quotation, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.listQuery(ctx, query, userID, limit, offset)
}

func (r *quotationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Quotation, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.listQuery(ctx, query, limit, offset)
}

func (r *quotationRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*domain.Quotation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list quotations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var quotes []*domain.Quotation
	for rows.Next() {
		quote, err := scanQuoteRow(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	return quotes, rows.Err()
}

func (r *quotationRepository) Update(ctx context.Context, quote *domain.Quotation) error {
	query := `
		UPDATE quotations
		SET subtotal = $2, discount = $3, delivery_fee = $4, final_amount = $5,
			status = $6, user_note = $7, admin_note = $8, valid_until = $9,
			notified = $10, viewed = $11, updated_at = $12
		WHERE id = $1
	`

	quote.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		quote.ID,
		quote.Subtotal,
		quote.Discount,
		quote.DeliveryFee,
		quote.FinalAmount,
		quote.Status,
		quote.UserNote,
		quote.AdminNote,
		quote.ValidUntil,
		quote.Notified,
		quote.Viewed,
		quote.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update quotation", zap.Error(err))
		return err
	}

	return nil
}

func (r *quotationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) error {
	query := `
		UPDATE quotations
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update quotation status", zap.Error(err))
		return err
	}

	return nil
}

func (r *quotationRepository) MarkViewed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE quotations
		SET viewed = TRUE, updated_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error("Failed to mark quotation viewed", zap.Error(err))
		return err
	}

	return nil
}

func (r *quotationRepository) CountByYear(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COUNT(*) FROM quotations
		WHERE EXTRACT(YEAR FROM created_at) = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&count); err != nil {
		r.logger.Error("Failed to count quotations by year", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *quotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM quotations WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete quotation", zap.Error(err))
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errors.ErrNotFound{Resource: "quotation", ID: id.String()}
	}

	return nil
}

func scanQuoteRow(row rowScanner) (*domain.Quotation, error) {
	var quote domain.Quotation
	var phone sql.NullString
	var userNote sql.NullString
	var adminNote sql.NullString
	var validUntil sql.NullTime

	err := row.Scan(
		&quote.ID,
		&quote.QuoteNumber,
		&quote.UserID,
		&quote.Email,
		&phone,
		&quote.Subtotal,
		&quote.Discount,
		&quote.DeliveryFee,
		&quote.FinalAmount,
		&quote.Status,
		&userNote,
		&adminNote,
		&validUntil,
		&quote.Notified,
		&quote.Viewed,
		pq.Array(&quote.Attachments),
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		quote.Phone = &phone.String
	}
	if userNote.Valid {
		quote.UserNote = &userNote.String
	}
	if adminNote.Valid {
		quote.AdminNote = &adminNote.String
	}
	if validUntil.Valid {
		quote.ValidUntil = &validUntil.Time
	}

	return &quote, nil
}
