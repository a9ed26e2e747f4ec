package domain

// OrderStatus represents the lifecycle status of a customer order
type OrderStatus string

const (
	// PENDING - new order, awaiting admin confirmation
	OrderStatusPending OrderStatus = "pending"
	// CONFIRMED - order confirmed by admin, being prepared
	OrderStatusConfirmed OrderStatus = "confirmed"
	// READY - order ready for pickup / delivery
	OrderStatusReady OrderStatus = "ready"
	// COMPLETED - order handed over
	OrderStatusCompleted OrderStatus = "completed"
	// CANCELLED - order cancelled
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusReady,
		OrderStatusCompleted,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no outbound transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if a status transition is valid regardless of actor.
// The chain is pending -> confirmed -> ready -> completed, one step at a time,
// with cancellation reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	if !s.IsTerminal() && newStatus == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return newStatus == OrderStatusReady
	case OrderStatusReady:
		return newStatus == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// PaymentStatus represents the payment state of an order, independent of
// its lifecycle status.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// PaymentMethod represents how an order is paid
type PaymentMethod string

const (
	// Online gateway; orders arrive already paid
	PaymentMethodOnline PaymentMethod = "online"
	// Cash on delivery; admin confirms payment manually
	PaymentMethodCash PaymentMethod = "cash"
	// Mobile money wallets; admin confirms payment manually
	PaymentMethodBkash PaymentMethod = "bkash"
	PaymentMethodNagad PaymentMethod = "nagad"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodOnline, PaymentMethodCash, PaymentMethodBkash, PaymentMethodNagad:
		return true
	default:
		return false
	}
}

// RequiresManualConfirmation reports whether the method needs an admin to
// mark the payment as paid (cash and mobile wallets).
func (m PaymentMethod) RequiresManualConfirmation() bool {
	return m == PaymentMethodCash || m == PaymentMethodBkash || m == PaymentMethodNagad
}

// QuoteStatus represents the status of a quotation
type QuoteStatus string

const (
	// PENDING - submitted by customer, awaiting admin pricing
	QuoteStatusPending QuoteStatus = "pending"
	// RESPONDED - admin has set prices, awaiting customer decision
	QuoteStatusResponded QuoteStatus = "responded"
	// WAITING_CUSTOMER - admin needs more information from the customer
	QuoteStatusWaitingCustomer QuoteStatus = "waiting_customer"
	// NEGOTIATION - back and forth on pricing
	QuoteStatusNegotiation QuoteStatus = "negotiation"
	// ACCEPTED - customer accepted the quoted prices
	QuoteStatusAccepted QuoteStatus = "accepted"
	// REJECTED - customer rejected the quote
	QuoteStatusRejected QuoteStatus = "rejected"
	// EXPIRED - validity deadline passed; derived on read, never swept
	QuoteStatusExpired QuoteStatus = "expired"
)

// IsValid checks if the quote status is valid
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusPending,
		QuoteStatusResponded,
		QuoteStatusWaitingCustomer,
		QuoteStatusNegotiation,
		QuoteStatusAccepted,
		QuoteStatusRejected,
		QuoteStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the quote admits no further transitions
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusRejected || s == QuoteStatusExpired
}

// NotificationScope partitions notifications between a single recipient and
// the whole admin back-office.
type NotificationScope string

const (
	NotificationScopePersonal NotificationScope = "personal"
	NotificationScopeAdmin    NotificationScope = "admin"
)
