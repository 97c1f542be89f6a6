package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"
	"merch_store_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderLineRequest is one requested (item, size, quantity) tuple.
// PriceAtTimeOfOrder defaults to the live item price.
type CreateOrderLineRequest struct {
	ItemID             int64            `json:"itemId" binding:"required,gt=0"`
	SizeID             int64            `json:"sizeId" binding:"required,gt=0"`
	Quantity           int              `json:"quantity" binding:"required,gt=0"`
	PriceAtTimeOfOrder *decimal.Decimal `json:"priceAtTimeOfOrder"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	UserID      int64                    `json:"userId" binding:"required,gt=0"`
	OrderDate   *time.Time               `json:"orderDate"`
	TotalAmount *decimal.Decimal         `json:"totalAmount"`
	Status      *string                  `json:"status"`
	OrderLines  []CreateOrderLineRequest `json:"orderLines" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo        repositories.OrderRepository
	itemRepo         repositories.ItemRepository
	availabilityRepo repositories.ItemAvailabilityRepository
	userRepo         repositories.UserRepository
	db               *sql.DB // For managing transactions
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	ir repositories.ItemRepository,
	ar repositories.ItemAvailabilityRepository,
	ur repositories.UserRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:        or,
		itemRepo:         ir,
		availabilityRepo: ar,
		userRepo:         ur,
		db:               db,
	}
}

type stockKey struct {
	itemID int64
	sizeID int64
}

func validateOrderRequest(req CreateOrderRequest) error {
	details := map[string]string{}
	if req.UserID <= 0 {
		details["userId"] = "must be greater than 0"
	}
	if len(req.OrderLines) == 0 {
		details["orderLines"] = "must contain at least one line"
	}
	for i, line := range req.OrderLines {
		prefix := fmt.Sprintf("orderLines[%d].", i)
		if line.ItemID <= 0 {
			details[prefix+"itemId"] = "must be greater than 0"
		}
		if line.SizeID <= 0 {
			details[prefix+"sizeId"] = "must be greater than 0"
		}
		if line.Quantity <= 0 {
			details[prefix+"quantity"] = "must be greater than 0"
		}
		if line.PriceAtTimeOfOrder != nil && !line.PriceAtTimeOfOrder.GreaterThan(decimal.Zero) {
			details[prefix+"priceAtTimeOfOrder"] = "must be greater than 0"
		}
	}
	if req.TotalAmount != nil && !req.TotalAmount.GreaterThan(decimal.Zero) {
		details["totalAmount"] = "must be greater than 0"
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) == "" {
		details["status"] = "must not be empty"
	}
	if len(details) > 0 {
		return validationError("Validation failed", details)
	}
	return nil
}

// CreateOrder checks stock, prices the lines, writes the order and its lines
// and decrements stock in one transaction. Any failure leaves no trace.
func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %d for order: %w", req.UserID, err)
	}

	// Repeated (item, size) lines are checked against their combined quantity.
	demand := make(map[stockKey]int, len(req.OrderLines))
	for _, line := range req.OrderLines {
		demand[stockKey{line.ItemID, line.SizeID}] += line.Quantity
	}
	keys := make([]stockKey, 0, len(demand))
	for k := range demand {
		keys = append(keys, k)
	}
	// Fixed lock order keeps concurrent orders from deadlocking on each other.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].itemID != keys[j].itemID {
			return keys[i].itemID < keys[j].itemID
		}
		return keys[i].sizeID < keys[j].sizeID
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		a, repoErr := s.availabilityRepo.GetAvailabilityForUpdate(ctx, tx, k.itemID, k.sizeID)
		if repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				return nil, &StockError{ItemID: k.itemID, SizeID: k.sizeID, Requested: demand[k], Missing: true}
			}
			return nil, fmt.Errorf("failed to fetch availability for item %d size %d: %w", k.itemID, k.sizeID, repoErr)
		}
		if a.QuantityInStock < demand[k] {
			return nil, &StockError{ItemID: k.itemID, SizeID: k.sizeID, Requested: demand[k], Available: a.QuantityInStock}
		}
	}

	livePrices := make(map[int64]decimal.Decimal)
	linesToCreate := make([]models.OrderLine, 0, len(req.OrderLines))
	computedTotal := decimal.Zero

	for _, lineReq := range req.OrderLines {
		var price decimal.Decimal
		if lineReq.PriceAtTimeOfOrder != nil {
			price = *lineReq.PriceAtTimeOfOrder
		} else if cached, ok := livePrices[lineReq.ItemID]; ok {
			price = cached
		} else {
			livePrice, repoErr := s.itemRepo.GetItemPrice(ctx, tx, lineReq.ItemID)
			if repoErr != nil {
				if errors.Is(repoErr, repositories.ErrNotFound) {
					return nil, ErrReferencedItemAbsent
				}
				return nil, fmt.Errorf("failed to fetch price of item %d: %w", lineReq.ItemID, repoErr)
			}
			livePrices[lineReq.ItemID] = livePrice
			price = livePrice
		}
		price = price.Round(2)

		computedTotal = computedTotal.Add(price.Mul(decimal.NewFromInt(int64(lineReq.Quantity))))
		linesToCreate = append(linesToCreate, models.OrderLine{
			ItemID:             lineReq.ItemID,
			SizeID:             lineReq.SizeID,
			Quantity:           lineReq.Quantity,
			PriceAtTimeOfOrder: price,
		})
	}

	totalAmount := computedTotal
	if req.TotalAmount != nil {
		// A caller-supplied total is stored as given.
		totalAmount = req.TotalAmount.Round(2)
		if !totalAmount.Equal(computedTotal) {
			utils.LogWarn("CreateOrder: supplied total differs from line sum", map[string]interface{}{
				"user_id":        req.UserID,
				"supplied_total": totalAmount.String(),
				"computed_total": computedTotal.String(),
			})
		}
	}

	order := models.Order{
		UserID:      req.UserID,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusCompleted,
	}
	if req.Status != nil {
		order.Status = strings.TrimSpace(*req.Status)
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}

	if repoErr := s.orderRepo.CreateOrder(ctx, tx, &order); repoErr != nil {
		if errors.Is(repoErr, repositories.ErrForeignKey) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create order record: %w", repoErr)
	}

	for i := range linesToCreate {
		linesToCreate[i].OrderID = order.ID
		if repoErr := s.orderRepo.CreateOrderLine(ctx, tx, &linesToCreate[i]); repoErr != nil {
			return nil, fmt.Errorf("failed to create order line (item %d, size %d): %w",
				linesToCreate[i].ItemID, linesToCreate[i].SizeID, repoErr)
		}
	}

	for _, k := range keys {
		if repoErr := s.availabilityRepo.DecrementStock(ctx, tx, k.itemID, k.sizeID, demand[k]); repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				return nil, &StockError{ItemID: k.itemID, SizeID: k.sizeID, Requested: demand[k]}
			}
			return nil, fmt.Errorf("failed to decrement stock for item %d size %d: %w", k.itemID, k.sizeID, repoErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	utils.LogInfo("Order created", map[string]interface{}{
		"order_id": order.ID, "user_id": order.UserID, "lines": len(linesToCreate), "total": order.TotalAmount.String(),
	})
	return s.GetOrderByID(ctx, order.ID)
}

func (s *orderService) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	orders, err := s.orderRepo.GetOrders(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, s.db, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID from repository: %w", err)
	}

	lines, err := s.orderRepo.GetOrderLinesByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lines of order %d: %w", orderID, err)
	}
	order.OrderLines = lines
	return order, nil
}

func (s *orderService) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	return s.GetOrders(ctx, models.OrderFilters{UserID: &userID})
}

// UpdateOrderStatus writes any non-empty status. Transitions are not restricted and stock is untouched.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, validationError("Validation failed", map[string]string{"status": "is required"})
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, s.db, orderID, status, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status in repository: %w", err)
	}
	return s.GetOrderByID(ctx, orderID)
}

// DeleteOrder removes the order and its lines and puts their quantities back in stock.
// Lines whose availability row is gone are skipped.
func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.orderRepo.GetOrderByID(ctx, tx, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to fetch order for deletion: %w", err)
	}

	lines, err := s.orderRepo.GetOrderLinesByOrderID(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order lines for stock return on delete: %w", err)
	}

	if _, err := s.orderRepo.DeleteOrderLinesByOrderID(ctx, tx, orderID); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}
	if err := s.orderRepo.DeleteOrder(ctx, tx, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	for _, line := range lines {
		restored, err := s.availabilityRepo.IncrementStock(ctx, tx, line.ItemID, line.SizeID, line.Quantity)
		if err != nil {
			return fmt.Errorf("failed to return stock for item %d size %d on delete: %w", line.ItemID, line.SizeID, err)
		}
		if !restored {
			utils.LogWarn("DeleteOrder: availability row missing, stock not restored", map[string]interface{}{
				"order_id": orderID, "item_id": line.ItemID, "size_id": line.SizeID, "quantity": line.Quantity,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order deletion: %w", err)
	}
	return nil
}
