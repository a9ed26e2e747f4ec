package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanUpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		current   OrderStatus
		requested OrderStatus
		payment   PaymentStatus
		want      bool
	}{
		{"admin confirms pending", RoleAdmin, OrderStatusPending, OrderStatusConfirmed, PaymentStatusPending, true},
		{"admin readies confirmed", RoleAdmin, OrderStatusConfirmed, OrderStatusReady, PaymentStatusPending, true},
		{"admin completes ready", RoleAdmin, OrderStatusReady, OrderStatusCompleted, PaymentStatusPending, true},
		{"admin cancels pending", RoleAdmin, OrderStatusPending, OrderStatusCancelled, PaymentStatusPending, true},
		{"admin cancels ready", RoleAdmin, OrderStatusReady, OrderStatusCancelled, PaymentStatusPaid, true},
		{"admin cannot skip a step", RoleAdmin, OrderStatusPending, OrderStatusReady, PaymentStatusPaid, false},
		{"admin cannot go backwards", RoleAdmin, OrderStatusReady, OrderStatusConfirmed, PaymentStatusPaid, false},
		{"admin cannot leave completed", RoleAdmin, OrderStatusCompleted, OrderStatusCancelled, PaymentStatusPaid, false},
		{"admin cannot revive cancelled", RoleAdmin, OrderStatusCancelled, OrderStatusPending, PaymentStatusPending, false},

		{"user completes paid ready order", RoleUser, OrderStatusReady, OrderStatusCompleted, PaymentStatusPaid, true},
		{"user cannot complete unpaid ready order", RoleUser, OrderStatusReady, OrderStatusCompleted, PaymentStatusPending, false},
		{"user cannot complete failed-payment ready order", RoleUser, OrderStatusReady, OrderStatusCompleted, PaymentStatusFailed, false},
		{"user cannot confirm", RoleUser, OrderStatusPending, OrderStatusConfirmed, PaymentStatusPaid, false},
		{"user cannot ready", RoleUser, OrderStatusConfirmed, OrderStatusReady, PaymentStatusPaid, false},
		{"user cannot cancel", RoleUser, OrderStatusPending, OrderStatusCancelled, PaymentStatusPending, false},

		{"guest can do nothing", RoleGuest, OrderStatusReady, OrderStatusCompleted, PaymentStatusPaid, false},
		{"unknown role can do nothing", Role("superuser"), OrderStatusPending, OrderStatusConfirmed, PaymentStatusPaid, false},
		{"invalid requested status", RoleAdmin, OrderStatusPending, OrderStatus("shipped"), PaymentStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUpdateOrderStatus(tt.role, tt.current, tt.requested, tt.payment)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextOrderStatuses(t *testing.T) {
	t.Run("admin on pending gets confirmed and cancelled", func(t *testing.T) {
		next := NextOrderStatuses(RoleAdmin, OrderStatusPending, PaymentStatusPending)
		assert.ElementsMatch(t, []OrderStatus{OrderStatusConfirmed, OrderStatusCancelled}, next)
	})

	t.Run("user on ready with paid gets completed only", func(t *testing.T) {
		next := NextOrderStatuses(RoleUser, OrderStatusReady, PaymentStatusPaid)
		assert.Equal(t, []OrderStatus{OrderStatusCompleted}, next)
	})

	t.Run("user on ready unpaid gets nothing", func(t *testing.T) {
		next := NextOrderStatuses(RoleUser, OrderStatusReady, PaymentStatusPending)
		assert.Empty(t, next)
	})

	t.Run("terminal statuses have no successors", func(t *testing.T) {
		assert.Empty(t, NextOrderStatuses(RoleAdmin, OrderStatusCompleted, PaymentStatusPaid))
		assert.Empty(t, NextOrderStatuses(RoleAdmin, OrderStatusCancelled, PaymentStatusPending))
	})
}

func TestCanUpdatePaymentStatus(t *testing.T) {
	tests := []struct {
		name            string
		role            Role
		method          PaymentMethod
		current         PaymentStatus
		requested       PaymentStatus
		requestedMethod PaymentMethod
		want            bool
	}{
		{"admin confirms cash payment", RoleAdmin, PaymentMethodCash, PaymentStatusPending, PaymentStatusPaid, "", true},
		{"admin confirms bkash payment", RoleAdmin, PaymentMethodBkash, PaymentStatusPending, PaymentStatusPaid, "", true},
		{"admin confirms nagad payment", RoleAdmin, PaymentMethodNagad, PaymentStatusPending, PaymentStatusPaid, "", true},
		{"admin marks pending as failed", RoleAdmin, PaymentMethodCash, PaymentStatusPending, PaymentStatusFailed, "", true},
		{"admin refunds paid order", RoleAdmin, PaymentMethodOnline, PaymentStatusPaid, PaymentStatusRefunded, "", true},
		{"admin retries failed payment", RoleAdmin, PaymentMethodOnline, PaymentStatusFailed, PaymentStatusPending, "", true},
		{"admin settles failed payment directly", RoleAdmin, PaymentMethodCash, PaymentStatusFailed, PaymentStatusPaid, "", true},
		{"refunded is terminal even for admin", RoleAdmin, PaymentMethodOnline, PaymentStatusRefunded, PaymentStatusPending, "", false},
		{"paid cannot go back to pending", RoleAdmin, PaymentMethodOnline, PaymentStatusPaid, PaymentStatusPending, "", false},

		{"user lacks payment permission", RoleUser, PaymentMethodCash, PaymentStatusPending, PaymentStatusPaid, "", false},
		{"user cannot refund", RoleUser, PaymentMethodOnline, PaymentStatusPaid, PaymentStatusRefunded, "", false},
		{"guest lacks payment permission", RoleGuest, PaymentMethodCash, PaymentStatusPending, PaymentStatusFailed, "", false},

		{"admin switches method while pending", RoleAdmin, PaymentMethodCash, PaymentStatusPending, PaymentStatusPending, PaymentMethodBkash, true},
		{"admin switches method after paid", RoleAdmin, PaymentMethodCash, PaymentStatusPaid, PaymentStatusPaid, PaymentMethodOnline, true},
		{"invalid requested method", RoleAdmin, PaymentMethodCash, PaymentStatusPending, PaymentStatusPaid, PaymentMethod("check"), false},
		{"invalid requested status", RoleAdmin, PaymentMethodCash, PaymentStatusPending, PaymentStatus("settled"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUpdatePaymentStatus(tt.role, tt.method, tt.current, tt.requested, tt.requestedMethod)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanUpdateQuoteStatus(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		isOwner   bool
		current   QuoteStatus
		requested QuoteStatus
		want      bool
	}{
		{"owner accepts responded quote", RoleUser, true, QuoteStatusResponded, QuoteStatusAccepted, true},
		{"owner rejects responded quote", RoleUser, true, QuoteStatusResponded, QuoteStatusRejected, true},
		{"owner cannot accept pending quote", RoleUser, true, QuoteStatusPending, QuoteStatusAccepted, false},
		{"owner cannot accept quote in negotiation", RoleUser, true, QuoteStatusNegotiation, QuoteStatusAccepted, false},
		{"non-owner cannot accept", RoleUser, false, QuoteStatusResponded, QuoteStatusAccepted, false},
		{"guest owner cannot accept", RoleGuest, true, QuoteStatusResponded, QuoteStatusAccepted, false},

		{"admin responds to pending quote", RoleAdmin, false, QuoteStatusPending, QuoteStatusResponded, true},
		{"admin asks customer for info", RoleAdmin, false, QuoteStatusPending, QuoteStatusWaitingCustomer, true},
		{"admin opens negotiation", RoleAdmin, false, QuoteStatusResponded, QuoteStatusNegotiation, true},
		{"admin re-responds after negotiation", RoleAdmin, false, QuoteStatusNegotiation, QuoteStatusResponded, true},
		{"admin cannot accept on behalf of customer", RoleAdmin, false, QuoteStatusResponded, QuoteStatusAccepted, false},

		{"accepted admits no transitions", RoleAdmin, true, QuoteStatusAccepted, QuoteStatusRejected, false},
		{"rejected admits no transitions", RoleAdmin, true, QuoteStatusRejected, QuoteStatusResponded, false},
		{"expired admits no transitions", RoleAdmin, true, QuoteStatusExpired, QuoteStatusResponded, false},
		{"invalid requested status", RoleAdmin, false, QuoteStatusPending, QuoteStatus("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUpdateQuoteStatus(tt.role, tt.isOwner, tt.current, tt.requested)
			assert.Equal(t, tt.want, got)
		})
	}
}
