package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
)

// OrderRepository defines order data access methods
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdatePayment(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, method domain.PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderItemRepository defines order line item data access methods
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []*domain.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
}

// StatusHistoryRepository records order status changes. Append-only: there is
// deliberately no update or delete.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *domain.StatusHistoryEntry) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.StatusHistoryEntry, error)
}

// QuotationRepository defines quotation data access methods
type QuotationRepository interface {
	Create(ctx context.Context, quote *domain.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	GetByQuoteNumber(ctx context.Context, quoteNumber string) (*domain.Quotation, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Quotation, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Quotation, error)
	Update(ctx context.Context, quote *domain.Quotation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) error
	MarkViewed(ctx context.Context, id uuid.UUID) error
	CountByYear(ctx context.Context, year int) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuoteLineRepository defines quote line data access methods
type QuoteLineRepository interface {
	CreateBatch(ctx context.Context, lines []*domain.QuoteLine) error
	GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]*domain.QuoteLine, error)
	ReplaceForQuote(ctx context.Context, quoteID uuid.UUID, lines []*domain.QuoteLine) error
}

// ProductRepository defines catalog data access methods
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines notification data access methods
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*domain.Notification, error)
	ListAdmin(ctx context.Context, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, recipientID string) error
}

// IdempotencyKeyRepository defines idempotency key data access methods
type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, key *domain.IdempotencyKey) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Order          OrderRepository
	OrderItem      OrderItemRepository
	StatusHistory  StatusHistoryRepository
	Quotation      QuotationRepository
	QuoteLine      QuoteLineRepository
	Product        ProductRepository
	Notification   NotificationRepository
	IdempotencyKey IdempotencyKeyRepository
}
