package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a confirmed purchase
type Order struct {
	ID              uuid.UUID
	UserID          string
	Items           []OrderItem
	TotalAmount     float64
	ShippingAddress map[string]interface{} // JSONB
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a line within an order. Title and price are snapshots taken
// at checkout; later catalog edits do not touch them.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Title     string
	SKU       string
	UnitPrice float64
	Quantity  int
	Thumbnail *string
	CreatedAt time.Time
}

// StatusHistoryEntry is one append-only audit record of an order status change
type StatusHistoryEntry struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Status    OrderStatus
	ActorID   string
	ActorRole Role
	Note      *string
	CreatedAt time.Time
}

// Quotation represents a custom price negotiation, distinct from an Order
type Quotation struct {
	ID          uuid.UUID
	QuoteNumber string // human-readable, QT-<year>-<seq>
	UserID      string // authenticated user id or guest surrogate
	Email       string
	Phone       *string
	Lines       []QuoteLine
	Subtotal    float64
	Discount    float64
	DeliveryFee float64
	FinalAmount float64
	Status      QuoteStatus
	UserNote    *string
	AdminNote   *string // private, never returned to the customer
	ValidUntil  *time.Time
	Notified    bool
	Viewed      bool
	Attachments []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuoteLine is one requested product in a quotation. A nil ProductID means a
// free-text custom product not tied to catalog inventory. UnitPrice and
// TotalPrice stay nil until the admin prices the line.
type QuoteLine struct {
	ID         uuid.UUID
	QuoteID    uuid.UUID
	ProductID  *uuid.UUID
	Name       string
	Quantity   int
	UnitPrice  *float64
	TotalPrice *float64
	AdminNote  *string
	CreatedAt  time.Time
}

// IsExpired reports whether the validity deadline has passed. Expiration is
// observed lazily on read; nothing sweeps quotes into the expired status.
func (q *Quotation) IsExpired(now time.Time) bool {
	return q.ValidUntil != nil && now.After(*q.ValidUntil)
}

// EffectiveStatus folds lazy expiration into the stored status
func (q *Quotation) EffectiveStatus(now time.Time) QuoteStatus {
	if q.Status.IsTerminal() || q.Status == QuoteStatusAccepted {
		return q.Status
	}
	if q.IsExpired(now) {
		return QuoteStatusExpired
	}
	return q.Status
}

// Product is a catalog entry. Stock gates quantity clamping on checkout and
// quote-to-cart conversion.
type Product struct {
	ID          uuid.UUID
	Title       string
	SKU         string
	Description string
	Price       float64
	Stock       int
	Thumbnail   *string
	Images      []string
	SEOTitle    *string
	SEOKeywords *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Notification is an ephemeral side-channel record created by lifecycle
// side effects and read independently by its recipient.
type Notification struct {
	ID          uuid.UUID
	RecipientID string
	Scope       NotificationScope
	Type        string
	Title       string
	Message     string
	URL         *string
	IsRead      bool
	CreatedAt   time.Time
}

// IdempotencyKey stores idempotency information for checkout submissions
type IdempotencyKey struct {
	Key         string
	UserID      string
	OrderID     uuid.UUID
	RequestHash string
	CreatedAt   time.Time
}

// Identity is the authenticated caller extracted from the session token
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
