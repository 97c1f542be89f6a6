package handlers

import (
	"net/http"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// InventoryHandler serves the item availability (stock) endpoints.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

func (h *InventoryHandler) GetAvailabilities(c *gin.Context) {
	rows, err := h.inventoryService.GetAvailabilities(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetAvailabilities", err)
		return
	}
	if rows == nil {
		rows = []models.ItemAvailability{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryHandler) GetAvailabilityByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	a, err := h.inventoryService.GetAvailabilityByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetAvailabilityByID", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *InventoryHandler) GetAvailabilitiesByItemID(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	rows, err := h.inventoryService.GetAvailabilitiesByItemID(c.Request.Context(), itemID)
	if err != nil {
		respondServiceError(c, "GetAvailabilitiesByItemID", err)
		return
	}
	if rows == nil {
		rows = []models.ItemAvailability{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryHandler) CreateAvailability(c *gin.Context) {
	var req services.CreateAvailabilityRequest
	if !bindJSON(c, "CreateAvailability", &req) {
		return
	}
	a, err := h.inventoryService.CreateAvailability(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreateAvailability", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *InventoryHandler) UpdateAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateAvailabilityRequest
	if !bindJSON(c, "UpdateAvailability", &req) {
		return
	}
	a, err := h.inventoryService.UpdateAvailability(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, "UpdateAvailability", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// UpsertAvailability handles PUT /item-availability: set stock by item and size.
func (h *InventoryHandler) UpsertAvailability(c *gin.Context) {
	var req services.CreateAvailabilityRequest
	if !bindJSON(c, "UpsertAvailability", &req) {
		return
	}
	a, err := h.inventoryService.UpsertAvailability(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "UpsertAvailability", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// SetStock handles PATCH /item-availability/stock/:itemId/:sizeId.
func (h *InventoryHandler) SetStock(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	sizeID, ok := parseIDParam(c, "sizeId")
	if !ok {
		return
	}
	var req services.SetStockRequest
	if !bindJSON(c, "SetStock", &req) {
		return
	}
	a, err := h.inventoryService.SetStock(c.Request.Context(), itemID, sizeID, req)
	if err != nil {
		respondServiceError(c, "SetStock", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *InventoryHandler) DeleteAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteAvailability(c.Request.Context(), id); err != nil {
		respondServiceError(c, "DeleteAvailability", err)
		return
	}
	c.Status(http.StatusNoContent)
}
