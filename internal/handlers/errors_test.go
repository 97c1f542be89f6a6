package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"merch_store_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "conflict", err: services.ErrEmailExists, status: http.StatusConflict, code: "CONFLICT"},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", services.ErrItemNotFound), status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "validation without details", err: services.ErrNoChanges, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "missing reference", err: services.ErrReferencedItemTypeAbsent, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "invalid credentials", err: services.ErrInvalidCredentials, status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "unknown", err: fmt.Errorf("pq: connection refused"), status: http.StatusInternalServerError, code: "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, "Test", tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeBody(t, w)["code"])
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := parseIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "sizeId", Value: "0"}}
	_, ok = parseIDParam(c, "sizeId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid sizeId format", decodeBody(t, w)["error"])
}
