package handlers

import (
	"context"
	"net/http"
	"testing"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubInventoryService keeps stock per (item, size); other methods are unused here.
type stubInventoryService struct {
	services.InventoryService
	stock map[[2]int64]int
	calls int
}

func (s *stubInventoryService) SetStock(_ context.Context, itemID, sizeID int64, req services.SetStockRequest) (*models.ItemAvailability, error) {
	s.calls++
	key := [2]int64{itemID, sizeID}
	if _, ok := s.stock[key]; !ok {
		return nil, services.ErrAvailabilityNotFound
	}
	s.stock[key] = *req.QuantityInStock
	return &models.ItemAvailability{ID: 1, ItemID: itemID, SizeID: sizeID, QuantityInStock: s.stock[key]}, nil
}

func newInventoryTestRouter(svc services.InventoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInventoryHandler(svc)
	r.PATCH("/item-availability/stock/:itemId/:sizeId", h.SetStock)
	return r
}

func TestSetStockOverwrites(t *testing.T) {
	svc := &stubInventoryService{stock: map[[2]int64]int{{1, 3}: 5}}
	r := newInventoryTestRouter(svc)

	for i := 0; i < 2; i++ {
		w := doRequest(r, http.MethodPatch, "/item-availability/stock/1/3", `{"quantityInStock":12}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(12), decodeBody(t, w)["quantityInStock"])
	}
	assert.Equal(t, 12, svc.stock[[2]int64{1, 3}])

	w := doRequest(r, http.MethodPatch, "/item-availability/stock/1/3", `{"quantityInStock":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.stock[[2]int64{1, 3}])
}

func TestSetStockRejects(t *testing.T) {
	svc := &stubInventoryService{stock: map[[2]int64]int{{1, 3}: 5}}
	r := newInventoryTestRouter(svc)

	w := doRequest(r, http.MethodPatch, "/item-availability/stock/1/3", `{"quantityInStock":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeBody(t, w)["code"])

	w = doRequest(r, http.MethodPatch, "/item-availability/stock/1/3", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPatch, "/item-availability/stock/zero/3", `{"quantityInStock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid itemId format", decodeBody(t, w)["error"])

	w = doRequest(r, http.MethodPatch, "/item-availability/stock/2/3", `{"quantityInStock":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, 5, svc.stock[[2]int64{1, 3}])
}
