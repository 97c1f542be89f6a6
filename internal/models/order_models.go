package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses used by the storefront. Status is free text and not validated against this list.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

// Order is created atomically with at least one OrderLine.
type Order struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"userId" db:"user_id"`
	OrderDate   time.Time       `json:"orderDate" db:"order_date"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	User        *OrderUser      `json:"user,omitempty"`
	OrderLines  []OrderLine     `json:"orderLines,omitempty"`
}

// OrderUser is the slice of the user shown with an order.
type OrderUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderLine is one priced, quantified item/size entry of an order.
// PriceAtTimeOfOrder is a snapshot and does not follow later item price changes.
type OrderLine struct {
	ID                 int64           `json:"id" db:"id"`
	OrderID            int64           `json:"orderId" db:"order_id"`
	ItemID             int64           `json:"itemId" db:"item_id"`
	SizeID             int64           `json:"sizeId" db:"size_id"`
	Quantity           int             `json:"quantity" db:"quantity"`
	PriceAtTimeOfOrder decimal.Decimal `json:"priceAtTimeOfOrder" db:"price_at_time_of_order"`
	Item               *LineItem       `json:"item,omitempty"` // nil once the item is deleted
	Size               *LineSize       `json:"size,omitempty"` // nil once the size is deleted
}

type LineItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

type LineSize struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	Status   *string `form:"status"`
	UserID   *int64  `form:"userId"`
	Page     int     `form:"page"`
	PageSize int     `form:"pageSize"`
}
