package handlers

import (
	"net/http"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves item types, sizes and the pairings between them.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// --- Item types ---

func (h *CatalogHandler) CreateItemType(c *gin.Context) {
	var req services.NameRequest
	if !bindJSON(c, "CreateItemType", &req) {
		return
	}
	itemType, err := h.catalogService.CreateItemType(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreateItemType", err)
		return
	}
	c.JSON(http.StatusCreated, itemType)
}

func (h *CatalogHandler) GetItemTypes(c *gin.Context) {
	itemTypes, err := h.catalogService.GetItemTypes(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetItemTypes", err)
		return
	}
	if itemTypes == nil {
		itemTypes = []models.ItemType{}
	}
	c.JSON(http.StatusOK, itemTypes)
}

// GetItemTypeByID returns the type with its sizes embedded.
func (h *CatalogHandler) GetItemTypeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemType, err := h.catalogService.GetItemTypeByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetItemTypeByID", err)
		return
	}
	c.JSON(http.StatusOK, itemType)
}

func (h *CatalogHandler) GetSizesForItemType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sizes, err := h.catalogService.GetSizesForItemType(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetSizesForItemType", err)
		return
	}
	if sizes == nil {
		sizes = []models.Size{}
	}
	c.JSON(http.StatusOK, sizes)
}

func (h *CatalogHandler) UpdateItemType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.NameRequest
	if !bindJSON(c, "UpdateItemType", &req) {
		return
	}
	itemType, err := h.catalogService.UpdateItemType(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, "UpdateItemType", err)
		return
	}
	c.JSON(http.StatusOK, itemType)
}

func (h *CatalogHandler) DeleteItemType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteItemType(c.Request.Context(), id); err != nil {
		respondServiceError(c, "DeleteItemType", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Sizes ---

func (h *CatalogHandler) CreateSize(c *gin.Context) {
	var req services.NameRequest
	if !bindJSON(c, "CreateSize", &req) {
		return
	}
	size, err := h.catalogService.CreateSize(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreateSize", err)
		return
	}
	c.JSON(http.StatusCreated, size)
}

func (h *CatalogHandler) GetSizes(c *gin.Context) {
	sizes, err := h.catalogService.GetSizes(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetSizes", err)
		return
	}
	if sizes == nil {
		sizes = []models.Size{}
	}
	c.JSON(http.StatusOK, sizes)
}

func (h *CatalogHandler) GetSizeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	size, err := h.catalogService.GetSizeByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetSizeByID", err)
		return
	}
	c.JSON(http.StatusOK, size)
}

func (h *CatalogHandler) UpdateSize(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.NameRequest
	if !bindJSON(c, "UpdateSize", &req) {
		return
	}
	size, err := h.catalogService.UpdateSize(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, "UpdateSize", err)
		return
	}
	c.JSON(http.StatusOK, size)
}

func (h *CatalogHandler) DeleteSize(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteSize(c.Request.Context(), id); err != nil {
		respondServiceError(c, "DeleteSize", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Item type sizes ---

func (h *CatalogHandler) GetItemTypeSizes(c *gin.Context) {
	pairs, err := h.catalogService.GetItemTypeSizes(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetItemTypeSizes", err)
		return
	}
	if pairs == nil {
		pairs = []models.ItemTypeSize{}
	}
	c.JSON(http.StatusOK, pairs)
}

func (h *CatalogHandler) AddSizeToItemType(c *gin.Context) {
	var req services.ItemTypeSizeRequest
	if !bindJSON(c, "AddSizeToItemType", &req) {
		return
	}
	pair, err := h.catalogService.AddSizeToItemType(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "AddSizeToItemType", err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}

func (h *CatalogHandler) RemoveSizeFromItemType(c *gin.Context) {
	itemTypeID, ok := parseIDParam(c, "itemTypeId")
	if !ok {
		return
	}
	sizeID, ok := parseIDParam(c, "sizeId")
	if !ok {
		return
	}
	if err := h.catalogService.RemoveSizeFromItemType(c.Request.Context(), itemTypeID, sizeID); err != nil {
		respondServiceError(c, "RemoveSizeFromItemType", err)
		return
	}
	c.Status(http.StatusNoContent)
}
