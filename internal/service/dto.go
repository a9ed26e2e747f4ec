package service

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutRequest is the cart submission payload
type CheckoutRequest struct {
	Items           []CheckoutItem         `json:"items" binding:"required,min=1,dive"`
	ShippingAddress map[string]interface{} `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	IdempotencyKey  string                 `json:"-"`
	RequestHash     string                 `json:"-"`
}

type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateQuoteRequest is the quotation submission payload. Contact email is
// required; guests get a surrogate user id synthesized by the service.
type CreateQuoteRequest struct {
	Email    string             `json:"email" binding:"required,email"`
	Phone    *string            `json:"phone,omitempty"`
	Lines    []QuoteLineRequest `json:"lines" binding:"required,min=1,dive"`
	UserNote *string            `json:"user_note,omitempty"`
}

// QuoteLineRequest is one requested product. A nil ProductID with a Name is
// a free-text custom product.
type QuoteLineRequest struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// EditQuoteRequest is the admin pricing/editing payload. The full line set is
// resubmitted; totals are always recomputed server-side before persisting.
type EditQuoteRequest struct {
	Lines       []QuoteLineEdit `json:"lines" binding:"required,min=1,dive"`
	Discount    float64         `json:"discount" binding:"min=0"`
	DeliveryFee float64         `json:"delivery_fee" binding:"min=0"`
	AdminNote   *string         `json:"admin_note,omitempty"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
}

type QuoteLineEdit struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
	UnitPrice *float64   `json:"unit_price,omitempty"`
	AdminNote *string    `json:"admin_note,omitempty"`
}

// CartLine is one entry produced when an accepted quote is converted into a
// cart. UnitPrice is the quoted price, not the catalog's live price.
type CartLine struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Title     string     `json:"title"`
	SKU       string     `json:"sku,omitempty"`
	UnitPrice float64    `json:"unit_price"`
	Quantity  int        `json:"quantity"`
	Thumbnail *string    `json:"thumbnail,omitempty"`
}
