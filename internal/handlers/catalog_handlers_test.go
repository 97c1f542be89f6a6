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

type stubCatalogService struct {
	services.CatalogService
	pairs map[[2]int64]bool
}

func (s *stubCatalogService) AddSizeToItemType(_ context.Context, req services.ItemTypeSizeRequest) (*models.ItemTypeSize, error) {
	if req.SizeID > 2 {
		return nil, services.ErrSizeNotFound
	}
	key := [2]int64{req.ItemTypeID, req.SizeID}
	if s.pairs[key] {
		return nil, services.ErrItemTypeSizeExists
	}
	s.pairs[key] = true
	return &models.ItemTypeSize{ItemTypeID: req.ItemTypeID, SizeID: req.SizeID}, nil
}

func (s *stubCatalogService) RemoveSizeFromItemType(_ context.Context, itemTypeID, sizeID int64) error {
	key := [2]int64{itemTypeID, sizeID}
	if !s.pairs[key] {
		return services.ErrItemTypeSizeNotFound
	}
	delete(s.pairs, key)
	return nil
}

func newCatalogTestRouter(svc services.CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler(svc)
	r.POST("/item-type-sizes", h.AddSizeToItemType)
	r.DELETE("/item-type-sizes/:itemTypeId/:sizeId", h.RemoveSizeFromItemType)
	return r
}

func TestItemTypeSizeHandlers(t *testing.T) {
	svc := &stubCatalogService{pairs: map[[2]int64]bool{}}
	r := newCatalogTestRouter(svc)

	w := doRequest(r, http.MethodPost, "/item-type-sizes", `{"itemTypeId":1,"sizeId":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodPost, "/item-type-sizes", `{"itemTypeId":1,"sizeId":2}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, http.MethodPost, "/item-type-sizes", `{"itemTypeId":1,"sizeId":7}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Size not found", decodeBody(t, w)["error"])

	w = doRequest(r, http.MethodDelete, "/item-type-sizes/1/2", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodDelete, "/item-type-sizes/1/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
