package handlers

import (
	"net/http"
	"strconv"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/services"
	"merch_store_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles the creation of a new order with its lines
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if !bindJSON(c, "CreateOrder", &req) {
		return
	}

	createdOrder, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreateOrder", err)
		return
	}
	c.JSON(http.StatusCreated, createdOrder)
}

// GetOrders handles fetching orders, newest first.
// Query: status, userId, page, pageSize. Without pageSize every order is returned.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters

	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, err := utils.StrToPositiveID(userIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid userId format", err.Error()))
			return
		}
		filters.UserID = &userID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid page format", "page must be a positive integer"))
			return
		}
		filters.Page = page
	}
	if pageSizeStr := c.Query("pageSize"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid pageSize format", "pageSize must be a positive integer"))
			return
		}
		filters.PageSize = pageSize
	}

	orders, err := h.orderService.GetOrders(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, "GetOrders", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID returns the order with its user and lines.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, "GetOrderByID", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrdersByUserID(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	orders, err := h.orderService.GetOrdersByUserID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "GetOrdersByUserID", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles updating the status of an order
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, "UpdateOrderStatus", &req) {
		return
	}

	updatedOrder, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req)
	if err != nil {
		respondServiceError(c, "UpdateOrderStatus", err)
		return
	}
	c.JSON(http.StatusOK, updatedOrder)
}

// DeleteOrder deletes the order and returns its quantities to stock.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondServiceError(c, "DeleteOrder", err)
		return
	}
	c.Status(http.StatusNoContent)
}
