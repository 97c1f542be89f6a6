package handlers

import (
	"net/http"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/services"
	"merch_store_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ItemHandler holds the item service.
type ItemHandler struct {
	itemService services.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(is services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: is}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req services.CreateItemRequest
	if !bindJSON(c, "CreateItem", &req) {
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreateItem", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems handles GET /items with an optional itemTypeId filter.
func (h *ItemHandler) GetItems(c *gin.Context) {
	var filters models.ItemFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid itemTypeId format", err.Error()))
		return
	}

	items, err := h.itemService.GetItems(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, "GetItems", err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// GetItemByID returns the item with its availability rows.
func (h *ItemHandler) GetItemByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetItemByID", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateItemRequest
	if !bindJSON(c, "UpdateItem", &req) {
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, "UpdateItem", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, "DeleteItem", err)
		return
	}
	c.Status(http.StatusNoContent)
}
