package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/api/middleware"
	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
	"github.com/MDesign-Tech/awegift-sub000/pkg/errors"
)

// ProductResponse represents a catalog entry
type ProductResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	SKU         string   `json:"sku"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
	SEOTitle    *string  `json:"seo_title,omitempty"`
	SEOKeywords *string  `json:"seo_keywords,omitempty"`
	IsActive    bool     `json:"is_active"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// ProductRequest is the admin create/update payload
type ProductRequest struct {
	Title       string   `json:"title" binding:"required"`
	SKU         string   `json:"sku" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"min=0"`
	Stock       int      `json:"stock" binding:"min=0"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
	SEOTitle    *string  `json:"seo_title,omitempty"`
	SEOKeywords *string  `json:"seo_keywords,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func productResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Thumbnail:   p.Thumbnail,
		Images:      p.Images,
		SEOTitle:    p.SEOTitle,
		SEOKeywords: p.SEOKeywords,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

// HandleListProducts handles GET /v1/products. Guests see active products
// only; admin sees the full catalog.
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentityFromContext(c)
		activeOnly := identity.Role != domain.RoleAdmin

		limit, offset := paginationParams(c)
		products, err := repos.Product.List(c.Request.Context(), activeOnly, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]ProductResponse, len(products))
		for i, p := range products {
			responses[i] = productResponse(p)
		}
		c.JSON(http.StatusOK, gin.H{"products": responses})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		identity, _ := middleware.GetIdentityFromContext(c)
		if !product.IsActive && identity.Role != domain.RoleAdmin {
			respondError(c, logger, &errors.ErrNotFound{Resource: "product", ID: productID.String()})
			return
		}

		c.JSON(http.StatusOK, productResponse(product))
	}
}

// HandleCreateProduct handles POST /v1/admin/products
func HandleCreateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok || !identity.Role.Has(domain.PermCreateProducts) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		product := &domain.Product{
			Title:       req.Title,
			SKU:         req.SKU,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			Thumbnail:   req.Thumbnail,
			Images:      req.Images,
			SEOTitle:    req.SEOTitle,
			SEOKeywords: req.SEOKeywords,
			IsActive:    true,
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if err := repos.Product.Create(c.Request.Context(), product); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, productResponse(product))
	}
}

// HandleUpdateProduct handles PUT /v1/admin/products/:id
func HandleUpdateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok || !identity.Role.Has(domain.PermUpdateProducts) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		product.Title = req.Title
		product.SKU = req.SKU
		product.Description = req.Description
		product.Price = req.Price
		product.Stock = req.Stock
		product.Thumbnail = req.Thumbnail
		product.Images = req.Images
		product.SEOTitle = req.SEOTitle
		product.SEOKeywords = req.SEOKeywords
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if err := repos.Product.Update(c.Request.Context(), product); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, productResponse(product))
	}
}

// HandleDeleteProduct handles DELETE /v1/admin/products/:id
func HandleDeleteProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok || !identity.Role.Has(domain.PermDeleteProducts) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		if err := repos.Product.Delete(c.Request.Context(), productID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": productID.String()})
	}
}
