package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/pkg/errors"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unauthorized", &errors.ErrUnauthorized{}, http.StatusUnauthorized},
		{"forbidden", &errors.ErrForbidden{}, http.StatusForbidden},
		{"invalid transition maps to forbidden", &errors.ErrInvalidStateTransition{Entity: "order", From: "pending", To: "ready"}, http.StatusForbidden},
		{"not found", &errors.ErrNotFound{Resource: "order", ID: "x"}, http.StatusNotFound},
		{"validation", &errors.ErrValidation{Message: "bad input"}, http.StatusBadRequest},
		{"conflict", &errors.ErrConflict{}, http.StatusConflict},
		{"unknown errors stay generic", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			respondError(c, zap.NewNop(), tt.err)
			assert.Equal(t, tt.code, w.Code)
		})
	}

	t.Run("validation fields are surfaced", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		respondError(c, zap.NewNop(), &errors.ErrValidation{
			Message: "duplicate products in quotation",
			Fields:  map[string]string{"lines[1]": "duplicate product"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "lines[1]")
	})

	t.Run("internal error detail never leaks", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		respondError(c, zap.NewNop(), assert.AnError)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{"defaults", "", 50, 0},
		{"explicit values", "limit=20&offset=40", 20, 40},
		{"limit over cap resets", "limit=1000", 50, 0},
		{"negative offset resets", "offset=-5", 50, 0},
		{"zero limit resets", "limit=0", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/test?"+tt.query, nil)

			limit, offset := paginationParams(c)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}
