package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MDesign-Tech/awegift-sub000/internal/config"
	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
)

const IdentityContextKey = "identity"

// AuthMiddleware authenticates requests using the session provider's Bearer
// token and stores the caller identity in the gin context. Requests without
// a valid token are rejected before any lifecycle logic runs.
func AuthMiddleware(cfg config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identityFromRequest(c, cfg)
		if err != nil {
			logger.Warn("Failed to authenticate request", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves identity when a token is present and falls
// back to an anonymous guest otherwise. Used on endpoints open to guests,
// like quotation submission.
func OptionalAuthMiddleware(cfg config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(IdentityContextKey, domain.Identity{Role: domain.RoleGuest})
			c.Next()
			return
		}

		identity, err := identityFromRequest(c, cfg)
		if err != nil {
			logger.Warn("Failed to authenticate request", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentityFromContext(c)
		if !ok || identity.Role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ServiceKeyMiddleware authenticates internal collaborators (e.g. the email
// delivery service) by a shared key verified against its bcrypt hash.
func ServiceKeyMiddleware(cfg config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader("X-Service-Key"))
		if key == "" || cfg.ServiceKeyHash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cfg.ServiceKeyHash), []byte(key)); err != nil {
			logger.Warn("Invalid service key presented")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentityFromContext retrieves the caller identity from the gin context
func GetIdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	val, exists := c.Get(IdentityContextKey)
	if !exists {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}

func identityFromRequest(c *gin.Context, cfg config.AuthConfig) (domain.Identity, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return domain.Identity{}, fmt.Errorf("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.Identity{}, fmt.Errorf("invalid authorization header format")
	}

	token, err := jwt.Parse(strings.TrimSpace(parts[1]), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, fmt.Errorf("invalid token claims")
	}

	userID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	roleClaim, _ := claims["role"].(string)
	if userID == "" {
		return domain.Identity{}, fmt.Errorf("token missing subject")
	}

	role := domain.Role(roleClaim)
	if !role.IsValid() {
		role = domain.RoleUser
	}

	return domain.Identity{UserID: userID, Email: email, Role: role}, nil
}
