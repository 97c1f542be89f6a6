package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"merch_store_backend/internal/models"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error
	GetOrderByID(ctx context.Context, executor SQLExecutor, orderID int64) (*models.Order, error)
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	DeleteOrder(ctx context.Context, executor SQLExecutor, orderID int64) error

	// OrderLine methods
	CreateOrderLine(ctx context.Context, executor SQLExecutor, line *models.OrderLine) error
	GetOrderLinesByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) ([]models.OrderLine, error)
	DeleteOrderLinesByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `SELECT o.id, o.user_id, o.order_date, o.total_amount, o.status, o.created_at, o.updated_at,
	       u.id, u.name, u.email
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id`

func scanOrder(s scanner) (*models.Order, error) {
	o := &models.Order{}
	var userID sql.NullInt64
	var userName, userEmail sql.NullString

	err := s.Scan(
		&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&userID, &userName, &userEmail,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		o.User = &models.OrderUser{ID: userID.Int64, Name: userName.String, Email: userEmail.String}
	}
	return o, nil
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error {
	query := `INSERT INTO orders (user_id, order_date, total_amount, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	now := time.Now()
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	err := executor.QueryRowContext(ctx, query,
		order.UserID, order.OrderDate, order.TotalAmount, order.Status, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return wrapDBError("creating order", err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, executor SQLExecutor, orderID int64) (*models.Order, error) {
	order, err := scanOrder(executor.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, orderID))
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting order by ID %d", orderID), err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(orderSelect)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("o.user_id = $%d", argCounter))
		args = append(args, *filters.UserID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.order_date DESC, o.id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 1 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, (filters.Page-1)*filters.PageSize)
		}
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, wrapDBError("querying orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrapDBError("scanning order", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating orders", err)
	}
	return orders, nil
}

// UpdateOrderStatus touches only status and updated_at.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	res, err := executor.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, newStatus, updatedAt, orderID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating status of order ID %d", orderID), err)
	}
	return expectAffected("updating order status", res)
}

func (r *orderRepository) DeleteOrder(ctx context.Context, executor SQLExecutor, orderID int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting order ID %d", orderID), err)
	}
	return expectAffected("deleting order", res)
}

// --- OrderLine Methods ---

func (r *orderRepository) CreateOrderLine(ctx context.Context, executor SQLExecutor, line *models.OrderLine) error {
	query := `INSERT INTO order_lines (order_id, item_id, size_id, quantity, price_at_time_of_order)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		line.OrderID, line.ItemID, line.SizeID, line.Quantity, line.PriceAtTimeOfOrder,
	).Scan(&line.ID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("creating order line (item %d, size %d)", line.ItemID, line.SizeID), err)
	}
	return nil
}

// GetOrderLinesByOrderID left-joins items and sizes; a line whose item or size
// was deleted comes back with a nil Item or Size.
func (r *orderRepository) GetOrderLinesByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) ([]models.OrderLine, error) {
	query := `SELECT ol.id, ol.order_id, ol.item_id, ol.size_id, ol.quantity, ol.price_at_time_of_order,
	                 i.id, i.name, i.description, i.price, i.image_url,
	                 s.id, s.name
	          FROM order_lines ol
	          LEFT JOIN items i ON i.id = ol.item_id
	          LEFT JOIN sizes s ON s.id = ol.size_id
	          WHERE ol.order_id = $1
	          ORDER BY ol.id`
	rows, err := executor.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("querying lines of order %d", orderID), err)
	}
	defer rows.Close()

	lines := []models.OrderLine{}
	for rows.Next() {
		var line models.OrderLine
		var itemID, sizeID sql.NullInt64
		var itemName, itemDescription, itemImageURL, sizeName sql.NullString
		var itemPrice decimal.NullDecimal

		err := rows.Scan(
			&line.ID, &line.OrderID, &line.ItemID, &line.SizeID, &line.Quantity, &line.PriceAtTimeOfOrder,
			&itemID, &itemName, &itemDescription, &itemPrice, &itemImageURL,
			&sizeID, &sizeName,
		)
		if err != nil {
			return nil, wrapDBError("scanning order line", err)
		}
		if itemID.Valid {
			line.Item = &models.LineItem{
				ID:          itemID.Int64,
				Name:        itemName.String,
				Description: itemDescription.String,
				Price:       itemPrice.Decimal,
				ImageURL:    itemImageURL.String,
			}
		}
		if sizeID.Valid {
			line.Size = &models.LineSize{ID: sizeID.Int64, Name: sizeName.String}
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating order lines", err)
	}
	return lines, nil
}

func (r *orderRepository) DeleteOrderLinesByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error) {
	res, err := executor.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, wrapDBError(fmt.Sprintf("deleting lines of order %d", orderID), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapDBError("checking deleted order lines", err)
	}
	return n, nil
}
