package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Order:          NewOrderRepository(db, logger),
		OrderItem:      NewOrderItemRepository(db, logger),
		StatusHistory:  NewStatusHistoryRepository(db, logger),
		Quotation:      NewQuotationRepository(db, logger),
		QuoteLine:      NewQuoteLineRepository(db, logger),
		Product:        NewProductRepository(db, logger),
		Notification:   NewNotificationRepository(db, logger),
		IdempotencyKey: NewIdempotencyKeyRepository(db, logger),
	}
}
