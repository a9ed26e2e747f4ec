package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/api/middleware"
	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/notify"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
	"github.com/MDesign-Tech/awegift-sub000/internal/service"
)

// OrderResponse represents the order response
type OrderResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Items           []OrderItemResponse    `json:"items"`
	TotalAmount     float64                `json:"total_amount"`
	ShippingAddress map[string]interface{} `json:"shipping_address"`
	PaymentMethod   domain.PaymentMethod   `json:"payment_method"`
	PaymentStatus   domain.PaymentStatus   `json:"payment_status"`
	Status          domain.OrderStatus     `json:"status"`
	NextStatuses    []domain.OrderStatus   `json:"next_statuses,omitempty"`
	Warnings        []string               `json:"warnings,omitempty"`
	CreatedAt       string                 `json:"created_at"`
	UpdatedAt       string                 `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	SKU       string  `json:"sku"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Thumbnail *string `json:"thumbnail,omitempty"`
}

// UpdateOrderStatusRequest represents a status transition request
type UpdateOrderStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Note   *string `json:"note,omitempty"`
}

// UpdatePaymentRequest represents a payment status/method change request
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

func orderResponse(order *domain.Order, identity domain.Identity, warnings []string) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID.String(),
			Title:     item.Title,
			SKU:       item.SKU,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Thumbnail: item.Thumbnail,
		}
	}
	return OrderResponse{
		ID:              order.ID.String(),
		UserID:          order.UserID,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		Status:          order.Status,
		NextStatuses:    domain.NextOrderStatuses(identity.Role, order.Status, order.PaymentStatus),
		Warnings:        warnings,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       order.UpdatedAt.Format(time.RFC3339),
	}
}

// HandleCreateOrder handles POST /v1/orders
func HandleCreateOrder(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Replayed checkout: return the order created by the first submission
		key, requestHash, existingID, isExisting := middleware.GetIdempotencyInfo(c)
		if isExisting {
			orderID, err := uuid.Parse(existingID)
			if err == nil {
				orderService := service.NewOrderService(repos, dispatcher, logger)
				if order, err := orderService.GetOrder(c.Request.Context(), identity, orderID); err == nil {
					c.JSON(http.StatusOK, orderResponse(order, identity, nil))
					return
				}
			}
		}

		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		req.IdempotencyKey = key
		req.RequestHash = requestHash

		orderService := service.NewOrderService(repos, dispatcher, logger)
		order, warnings, err := orderService.CreateOrder(c.Request.Context(), identity, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, orderResponse(order, identity, warnings))
	}
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		orderService := service.NewOrderService(repos, dispatcher, logger)
		order, err := orderService.GetOrder(c.Request.Context(), identity, orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, orderResponse(order, identity, nil))
	}
}

// HandleListOrders handles GET /v1/orders
func HandleListOrders(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var status *domain.OrderStatus
		if raw := c.Query("status"); raw != "" {
			s := domain.OrderStatus(raw)
			if !s.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			status = &s
		}

		limit, offset := paginationParams(c)
		orderService := service.NewOrderService(repos, dispatcher, logger)
		orders, err := orderService.ListOrders(c.Request.Context(), identity, status, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]OrderResponse, len(orders))
		for i, order := range orders {
			responses[i] = orderResponse(order, identity, nil)
		}
		c.JSON(http.StatusOK, gin.H{"orders": responses})
	}
}

// HandleUpdateOrderStatus handles POST /v1/orders/:id/status
func HandleUpdateOrderStatus(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		requested := domain.OrderStatus(req.Status)
		if !requested.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		orderService := service.NewOrderService(repos, dispatcher, logger)
		order, err := orderService.UpdateStatus(c.Request.Context(), identity, orderID, requested, req.Note)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":            order.ID.String(),
			"status":        order.Status,
			"next_statuses": domain.NextOrderStatuses(identity.Role, order.Status, order.PaymentStatus),
		})
	}
}

// HandleUpdatePayment handles POST /v1/orders/:id/payment
func HandleUpdatePayment(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req UpdatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		requested := domain.PaymentStatus(req.PaymentStatus)
		if !requested.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment status"})
			return
		}
		requestedMethod := domain.PaymentMethod(req.PaymentMethod)
		if req.PaymentMethod != "" && !requestedMethod.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
			return
		}

		orderService := service.NewOrderService(repos, dispatcher, logger)
		order, err := orderService.UpdatePayment(c.Request.Context(), identity, orderID, requested, requestedMethod)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":             order.ID.String(),
			"payment_status": order.PaymentStatus,
			"payment_method": order.PaymentMethod,
		})
	}
}

// HandleOrderHistory handles GET /v1/orders/:id/history
func HandleOrderHistory(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		orderService := service.NewOrderService(repos, dispatcher, logger)
		entries, err := orderService.History(c.Request.Context(), identity, orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		type historyEntry struct {
			Status    domain.OrderStatus `json:"status"`
			ActorID   string             `json:"actor_id"`
			ActorRole domain.Role        `json:"actor_role"`
			Note      *string            `json:"note,omitempty"`
			CreatedAt string             `json:"created_at"`
		}
		history := make([]historyEntry, len(entries))
		for i, e := range entries {
			history[i] = historyEntry{
				Status:    e.Status,
				ActorID:   e.ActorID,
				ActorRole: e.ActorRole,
				Note:      e.Note,
				CreatedAt: e.CreatedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, gin.H{"history": history})
	}
}

// HandleDeleteOrder handles DELETE /v1/admin/orders/:id
func HandleDeleteOrder(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		orderService := service.NewOrderService(repos, dispatcher, logger)
		if err := orderService.DeleteOrder(c.Request.Context(), identity, orderID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": orderID.String()})
	}
}
