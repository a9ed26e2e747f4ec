package domain

// CanUpdateOrderStatus decides whether an actor with the given role may move an
// order from current to requested. Payment status is part of the decision: a
// customer may only close out a ready order once it is paid.
func CanUpdateOrderStatus(role Role, current, requested OrderStatus, payment PaymentStatus) bool {
	if !role.Has(PermChangeOrderStatus) {
		return false
	}
	if !current.IsValid() || !requested.IsValid() {
		return false
	}
	// Out-of-order transitions are rejected regardless of role
	if !current.CanTransitionTo(requested) {
		return false
	}

	switch role {
	case RoleAdmin:
		return true
	case RoleUser:
		// Customers may only mark a ready, fully paid order as completed
		return current == OrderStatusReady &&
			requested == OrderStatusCompleted &&
			payment == PaymentStatusPaid
	default:
		return false
	}
}

// NextOrderStatuses lists every status the actor may move the order into
// from its current state, given the payment status.
func NextOrderStatuses(role Role, current OrderStatus, payment PaymentStatus) []OrderStatus {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusReady,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
	var next []OrderStatus
	for _, s := range all {
		if CanUpdateOrderStatus(role, current, s, payment) {
			next = append(next, s)
		}
	}
	return next
}

// CanUpdatePaymentStatus decides whether the actor may change the payment
// state (and optionally the payment method) of an order.
//
// Cash and mobile-wallet payments need admin confirmation to move
// pending -> paid. Online payments are marked paid by the gateway at
// creation and cannot be overridden by non-admin roles. Switching the
// payment method is only open while the payment is still pending; after
// that only an admin override is accepted.
func CanUpdatePaymentStatus(role Role, method PaymentMethod, current, requested PaymentStatus, requestedMethod PaymentMethod) bool {
	if !role.Has(PermProcessPayments) {
		return false
	}
	if !method.IsValid() || !current.IsValid() || !requested.IsValid() {
		return false
	}
	if requestedMethod != "" && !requestedMethod.IsValid() {
		return false
	}

	// Method change after the payment settled is an admin-only override
	methodChanged := requestedMethod != "" && requestedMethod != method
	if methodChanged && current != PaymentStatusPending && role != RoleAdmin {
		return false
	}

	if current == requested {
		// Status untouched; only the method change needs to be legal
		return !methodChanged || current == PaymentStatusPending || role == RoleAdmin
	}

	switch current {
	case PaymentStatusPending:
		switch requested {
		case PaymentStatusPaid:
			if method.RequiresManualConfirmation() {
				return role == RoleAdmin
			}
			// Gateway settlement is recorded by the payment collaborator;
			// only admin may force it by hand.
			return role == RoleAdmin
		case PaymentStatusFailed:
			return true
		default:
			return false
		}
	case PaymentStatusPaid:
		// Refunds only, and only by admin
		return requested == PaymentStatusRefunded && role == RoleAdmin
	case PaymentStatusFailed:
		// Retry path back to pending, or direct settlement by admin
		return requested == PaymentStatusPending ||
			(requested == PaymentStatusPaid && role == RoleAdmin)
	case PaymentStatusRefunded:
		return false // Terminal
	default:
		return false
	}
}

// CanUpdateQuoteStatus decides whether the actor may move a quotation from
// current to requested. Ownership matters: only the requesting customer may
// accept or reject, and only from responded.
func CanUpdateQuoteStatus(role Role, isOwner bool, current, requested QuoteStatus) bool {
	if !current.IsValid() || !requested.IsValid() {
		return false
	}
	if current.IsTerminal() || current == QuoteStatusAccepted {
		return false
	}

	switch requested {
	case QuoteStatusAccepted, QuoteStatusRejected:
		return isOwner && role != RoleGuest && current == QuoteStatusResponded
	case QuoteStatusResponded, QuoteStatusWaitingCustomer, QuoteStatusNegotiation:
		return role == RoleAdmin && role.Has(PermRespondQuotes)
	default:
		return false
	}
}
