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

// QuoteResponse represents the quotation response. AdminNote and per-line
// admin notes are only present for admin callers.
type QuoteResponse struct {
	ID          string              `json:"id"`
	QuoteNumber string              `json:"quote_number"`
	Email       string              `json:"email"`
	Phone       *string             `json:"phone,omitempty"`
	Lines       []QuoteLineResponse `json:"lines"`
	Subtotal    float64             `json:"subtotal"`
	Discount    float64             `json:"discount"`
	DeliveryFee float64             `json:"delivery_fee"`
	FinalAmount float64             `json:"final_amount"`
	Status      domain.QuoteStatus  `json:"status"`
	UserNote    *string             `json:"user_note,omitempty"`
	AdminNote   *string             `json:"admin_note,omitempty"`
	ValidUntil  *string             `json:"valid_until,omitempty"`
	Viewed      bool                `json:"viewed"`
	Warnings    []string            `json:"warnings,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

type QuoteLineResponse struct {
	ProductID  *string  `json:"product_id,omitempty"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	TotalPrice *float64 `json:"total_price,omitempty"`
	AdminNote  *string  `json:"admin_note,omitempty"`
}

func quoteResponse(quote *domain.Quotation, identity domain.Identity, warnings []string) QuoteResponse {
	isAdmin := identity.Role == domain.RoleAdmin

	lines := make([]QuoteLineResponse, len(quote.Lines))
	for i, line := range quote.Lines {
		resp := QuoteLineResponse{
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice,
		}
		if line.ProductID != nil {
			id := line.ProductID.String()
			resp.ProductID = &id
		}
		if isAdmin {
			resp.AdminNote = line.AdminNote
		}
		lines[i] = resp
	}

	resp := QuoteResponse{
		ID:          quote.ID.String(),
		QuoteNumber: quote.QuoteNumber,
		Email:       quote.Email,
		Phone:       quote.Phone,
		Lines:       lines,
		Subtotal:    quote.Subtotal,
		Discount:    quote.Discount,
		DeliveryFee: quote.DeliveryFee,
		FinalAmount: quote.FinalAmount,
		Status:      quote.Status,
		UserNote:    quote.UserNote,
		Viewed:      quote.Viewed,
		Warnings:    warnings,
		CreatedAt:   quote.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   quote.UpdatedAt.Format(time.RFC3339),
	}
	if isAdmin {
		resp.AdminNote = quote.AdminNote
	}
	if quote.ValidUntil != nil {
		v := quote.ValidUntil.Format(time.RFC3339)
		resp.ValidUntil = &v
	}
	return resp
}

// HandleCreateQuote handles POST /v1/quotes (guests allowed)
func HandleCreateQuote(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			identity = domain.Identity{Role: domain.RoleGuest}
		}

		var req service.CreateQuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		quote, err := quoteService.CreateQuote(c.Request.Context(), identity, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, quoteResponse(quote, identity, nil))
	}
}

// HandleGetQuote handles GET /v1/quotes/:id
func HandleGetQuote(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		quoteID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
			return
		}

		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		quote, err := quoteService.GetQuote(c.Request.Context(), identity, quoteID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, quoteResponse(quote, identity, nil))
	}
}

// HandleListQuotes handles GET /v1/quotes
func HandleListQuotes(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, offset := paginationParams(c)
		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		quotes, err := quoteService.ListQuotes(c.Request.Context(), identity, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]QuoteResponse, len(quotes))
		for i, quote := range quotes {
			responses[i] = quoteResponse(quote, identity, nil)
		}
		c.JSON(http.StatusOK, gin.H{"quotes": responses})
	}
}

// HandleEditQuote handles PUT /v1/admin/quotes/:id
func HandleEditQuote(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		quoteID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
			return
		}

		var req service.EditQuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		quote, warnings, err := quoteService.EditQuote(c.Request.Context(), identity, quoteID, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, quoteResponse(quote, identity, warnings))
	}
}

// HandleQuoteDecision handles POST /v1/quotes/:id/accept and /v1/quotes/:id/reject
func HandleQuoteDecision(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger, decision domain.QuoteStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		quoteID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
			return
		}

		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		quote, err := quoteService.UpdateStatus(c.Request.Context(), identity, quoteID, decision)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     quote.ID.String(),
			"status": quote.Status,
		})
	}
}

// AdminQuoteStatusRequest represents the admin status change payload
type AdminQuoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// HandleAdminQuoteStatus handles POST /v1/admin/quotes/:id/status (admin parks
// a quote in waiting_customer/negotiation or re-responds)
func HandleAdminQuoteStatus(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		quoteID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
			return
		}

		var req AdminQuoteStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		requested := domain.QuoteStatus(req.Status)
		if !requested.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		quote, err := quoteService.UpdateStatus(c.Request.Context(), identity, quoteID, requested)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     quote.ID.String(),
			"status": quote.Status,
		})
	}
}

// HandleQuoteToCart handles POST /v1/quotes/:id/to-cart
func HandleQuoteToCart(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		quoteID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
			return
		}

		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		cart, warnings, err := quoteService.ToCart(c.Request.Context(), identity, quoteID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lines":    cart,
			"warnings": warnings,
		})
	}
}

// HandleDeleteQuote handles DELETE /v1/admin/quotes/:id
func HandleDeleteQuote(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		quoteID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
			return
		}

		quoteService := service.NewQuoteService(repos, dispatcher, logger)
		if err := quoteService.DeleteQuote(c.Request.Context(), identity, quoteID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": quoteID.String()})
	}
}
