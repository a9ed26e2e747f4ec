package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/notify"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
	"github.com/MDesign-Tech/awegift-sub000/pkg/errors"
)

type orderService struct {
	repos      *repository.Repositories
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) *orderService {
	return &orderService{
		repos:      repos,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateOrder creates an order from a checkout submission. Titles, prices and
// thumbnails are snapshotted from the catalog; quantities are clamped to
// available stock, with clamped lines surfaced as warnings. The total amount
// is frozen at creation and never retroactively recalculated.
func (s *orderService) CreateOrder(ctx context.Context, identity domain.Identity, req CheckoutRequest) (*domain.Order, []string, error) {
	if !identity.Role.Has(domain.PermCreateOrders) {
		return nil, nil, &errors.ErrForbidden{Message: "not allowed to create orders"}
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, nil, &errors.ErrValidation{
			Message: "invalid payment method",
			Fields:  map[string]string{"payment_method": req.PaymentMethod},
		}
	}

	var warnings []string
	var items []*domain.OrderItem
	var total float64

	for _, reqItem := range req.Items {
		product, err := s.repos.Product.GetByID(ctx, reqItem.ProductID)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				return nil, nil, &errors.ErrValidation{
					Message: "unknown product in cart",
					Fields:  map[string]string{"product_id": reqItem.ProductID.String()},
				}
			}
			return nil, nil, err
		}

		qty, clamped := domain.ClampQuantity(reqItem.Quantity, product.Stock)
		if clamped {
			warnings = append(warnings, fmt.Sprintf("quantity for %q reduced to available stock (%d)", product.Title, qty))
		}
		if qty == 0 {
			return nil, nil, &errors.ErrValidation{
				Message: "product out of stock",
				Fields:  map[string]string{"product_id": reqItem.ProductID.String()},
			}
		}

		items = append(items, &domain.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			SKU:       product.SKU,
			UnitPrice: product.Price,
			Quantity:  qty,
			Thumbnail: product.Thumbnail,
		})
		total += product.Price * float64(qty)
	}

	paymentStatus := domain.PaymentStatusPending
	if method == domain.PaymentMethodOnline {
		// Gateway orders arrive settled
		paymentStatus = domain.PaymentStatusPaid
	}

	order := &domain.Order{
		UserID:          identity.UserID,
		TotalAmount:     total,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		Status:          domain.OrderStatusPending,
	}

	s.logger.Info("Creating order", zap.String("user_id", identity.UserID), zap.Float64("total", total))
	if err := s.repos.Order.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, nil, err
	}

	for _, item := range items {
		item.OrderID = order.ID
	}
	if err := s.repos.OrderItem.CreateBatch(ctx, items); err != nil {
		s.logger.Error("Failed to create order items", zap.Error(err))
		return nil, nil, err
	}
	order.Items = make([]domain.OrderItem, len(items))
	for i, item := range items {
		order.Items[i] = *item
	}

	// Seed the status history with the creation entry
	s.appendHistory(ctx, order.ID, domain.OrderStatusPending, identity, nil)

	if req.IdempotencyKey != "" {
		key := &domain.IdempotencyKey{
			Key:         req.IdempotencyKey,
			UserID:      identity.UserID,
			OrderID:     order.ID,
			RequestHash: req.RequestHash,
		}
		if err := s.repos.IdempotencyKey.Create(ctx, key); err != nil {
			// The order exists either way; a lost key only costs dedup
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	s.dispatcher.Emit(notify.Event{
		Scope:   domain.NotificationScopeAdmin,
		Type:    "order_created",
		Title:   "New order",
		Message: fmt.Sprintf("Order %s placed for %.2f", order.ID, total),
		URL:     orderURL(order.ID),
	})

	return order, warnings, nil
}

// GetOrder returns an order visible to the caller. Non-owners get a not-found
// rather than a forbidden, so order ids cannot be probed.
func (s *orderService) GetOrder(ctx context.Context, identity domain.Identity, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if identity.Role != domain.RoleAdmin && order.UserID != identity.UserID {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID.String()}
	}

	items, err := s.repos.OrderItem.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = make([]domain.OrderItem, len(items))
	for i, item := range items {
		order.Items[i] = *item
	}

	return order, nil
}

// ListOrders lists the caller's own orders; admin sees everyone's, optionally
// filtered by status.
func (s *orderService) ListOrders(ctx context.Context, identity domain.Identity, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	if identity.Role == domain.RoleAdmin {
		if status != nil {
			return s.repos.Order.ListByStatus(ctx, *status, limit, offset)
		}
		return s.repos.Order.List(ctx, limit, offset)
	}
	return s.repos.Order.ListByUserID(ctx, identity.UserID, limit, offset)
}

// UpdateStatus runs a role-gated status transition: validator, persisted
// status change, appended history entry, then a notification to the
// counterpart party.
func (s *orderService) UpdateStatus(ctx context.Context, identity domain.Identity, orderID uuid.UUID, requested domain.OrderStatus, note *string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, identity, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanUpdateOrderStatus(identity.Role, order.Status, requested, order.PaymentStatus) {
		return nil, &errors.ErrInvalidStateTransition{
			Entity: "order",
			From:   string(order.Status),
			To:     string(requested),
		}
	}

	if err := s.repos.Order.UpdateStatus(ctx, orderID, requested); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, orderID, requested, identity, note)

	// Admin changes notify the customer; a customer completing an order
	// notifies the back office.
	if identity.Role == domain.RoleAdmin {
		s.dispatcher.Emit(notify.Event{
			RecipientID: order.UserID,
			Scope:       domain.NotificationScopePersonal,
			Type:        "order_status_changed",
			Title:       "Order update",
			Message:     fmt.Sprintf("Your order is now %s", requested),
			URL:         orderURL(orderID),
		})
	} else {
		s.dispatcher.Emit(notify.Event{
			Scope:   domain.NotificationScopeAdmin,
			Type:    "order_completed",
			Title:   "Order completed",
			Message: fmt.Sprintf("Order %s marked completed by the customer", orderID),
			URL:     orderURL(orderID),
		})
	}

	order.Status = requested
	return order, nil
}

// UpdatePayment changes the payment status and optionally the payment method,
// guarded by the payment validator.
func (s *orderService) UpdatePayment(ctx context.Context, identity domain.Identity, orderID uuid.UUID, requested domain.PaymentStatus, requestedMethod domain.PaymentMethod) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, identity, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanUpdatePaymentStatus(identity.Role, order.PaymentMethod, order.PaymentStatus, requested, requestedMethod) {
		return nil, &errors.ErrInvalidStateTransition{
			Entity: "payment",
			From:   string(order.PaymentStatus),
			To:     string(requested),
		}
	}

	method := order.PaymentMethod
	if requestedMethod != "" {
		method = requestedMethod
	}
	if err := s.repos.Order.UpdatePayment(ctx, orderID, requested, method); err != nil {
		return nil, err
	}

	if requested == domain.PaymentStatusPaid {
		s.dispatcher.Emit(notify.Event{
			RecipientID: order.UserID,
			Scope:       domain.NotificationScopePersonal,
			Type:        "payment_confirmed",
			Title:       "Payment received",
			Message:     fmt.Sprintf("Payment for order %s confirmed", orderID),
			URL:         orderURL(orderID),
		})
	}

	order.PaymentStatus = requested
	order.PaymentMethod = method
	return order, nil
}

// DeleteOrder removes an order. Admin only; the sole path that physically
// deletes order records.
func (s *orderService) DeleteOrder(ctx context.Context, identity domain.Identity, orderID uuid.UUID) error {
	if !identity.Role.Has(domain.PermDeleteOrders) {
		return &errors.ErrForbidden{Message: "not allowed to delete orders"}
	}
	return s.repos.Order.Delete(ctx, orderID)
}

// History returns the append-only status trail of an order the caller may see
func (s *orderService) History(ctx context.Context, identity domain.Identity, orderID uuid.UUID) ([]*domain.StatusHistoryEntry, error) {
	if _, err := s.GetOrder(ctx, identity, orderID); err != nil {
		return nil, err
	}
	return s.repos.StatusHistory.GetByOrderID(ctx, orderID)
}

func (s *orderService) appendHistory(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, identity domain.Identity, note *string) {
	entry := &domain.StatusHistoryEntry{
		OrderID:   orderID,
		Status:    status,
		ActorID:   identity.UserID,
		ActorRole: identity.Role,
		Note:      note,
	}
	if err := s.repos.StatusHistory.Append(ctx, entry); err != nil {
		// History is an audit trail, not a gate; the status change stands
		s.logger.Error("Failed to append status history", zap.Error(err), zap.String("order_id", orderID.String()))
	}
}

func orderURL(orderID uuid.UUID) *string {
	u := "/orders/" + orderID.String()
	return &u
}
