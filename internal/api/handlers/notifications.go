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
)

// NotificationResponse represents a notification feed entry
type NotificationResponse struct {
	ID        string                   `json:"id"`
	Scope     domain.NotificationScope `json:"scope"`
	Type      string                   `json:"type"`
	Title     string                   `json:"title"`
	Message   string                   `json:"message"`
	URL       *string                  `json:"url,omitempty"`
	IsRead    bool                     `json:"is_read"`
	CreatedAt string                   `json:"created_at"`
}

// HandleListNotifications handles GET /v1/notifications. Admin callers get
// the shared back-office feed; customers get their personal feed.
func HandleListNotifications(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, offset := paginationParams(c)
		var notifications []*domain.Notification
		var err error
		if identity.Role == domain.RoleAdmin {
			notifications, err = repos.Notification.ListAdmin(c.Request.Context(), limit, offset)
		} else {
			notifications, err = repos.Notification.ListByRecipient(c.Request.Context(), identity.UserID, limit, offset)
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]NotificationResponse, len(notifications))
		for i, n := range notifications {
			responses[i] = NotificationResponse{
				ID:        n.ID.String(),
				Scope:     n.Scope,
				Type:      n.Type,
				Title:     n.Title,
				Message:   n.Message,
				URL:       n.URL,
				IsRead:    n.IsRead,
				CreatedAt: n.CreatedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": responses})
	}
}

// HandleMarkNotificationRead handles POST /v1/notifications/:id/read
func HandleMarkNotificationRead(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		notificationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
			return
		}

		if err := repos.Notification.MarkRead(c.Request.Context(), notificationID, identity.UserID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"read": notificationID.String()})
	}
}

// InternalNotifyRequest is the payload internal collaborators (email/SMS
// delivery services) post back into the notification feed.
type InternalNotifyRequest struct {
	RecipientID string  `json:"recipient_id"`
	Scope       string  `json:"scope" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Message     string  `json:"message" binding:"required"`
	URL         *string `json:"url,omitempty"`
}

// HandleInternalNotify handles POST /internal/notifications, authenticated by
// service key.
func HandleInternalNotify(dispatcher *notify.Dispatcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InternalNotifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		scope := domain.NotificationScope(req.Scope)
		if scope != domain.NotificationScopePersonal && scope != domain.NotificationScopeAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scope"})
			return
		}
		if scope == domain.NotificationScopePersonal && req.RecipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient_id required for personal scope"})
			return
		}

		dispatcher.Emit(notify.Event{
			RecipientID: req.RecipientID,
			Scope:       scope,
			Type:        req.Type,
			Title:       req.Title,
			Message:     req.Message,
			URL:         req.URL,
		})

		c.JSON(http.StatusAccepted, gin.H{"queued": true})
	}
}
