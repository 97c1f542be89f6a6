package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is rendered as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// ItemType is a category of items (e.g. "T-Shirt") that determines the applicable sizes.
type ItemType struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Sizes     []Size    `json:"sizes,omitempty"`
}

// Size is shared across item types through ItemTypeSize.
type Size struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ItemTypeSize is the join row between item types and sizes.
type ItemTypeSize struct {
	ItemTypeID   int64     `json:"itemTypeId" db:"item_type_id"`
	SizeID       int64     `json:"sizeId" db:"size_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	ItemTypeName string    `json:"itemTypeName,omitempty"`
	SizeName     string    `json:"sizeName,omitempty"`
}

// Item is a sellable catalog product.
type Item struct {
	ID           int64              `json:"id" db:"id"`
	Name         string             `json:"name" db:"name"`
	Description  string             `json:"description" db:"description"`
	Price        decimal.Decimal    `json:"price" db:"price"`
	ItemTypeID   int64              `json:"itemTypeId" db:"item_type_id"`
	ImageURL     string             `json:"imageUrl" db:"image_url"`
	CreatedAt    time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" db:"updated_at"`
	ItemType     *ItemType          `json:"itemType,omitempty"`
	Availability []ItemAvailability `json:"availability,omitempty"`
}

// ItemAvailability is the stock count for one (item, size) pair.
type ItemAvailability struct {
	ID              int64     `json:"id" db:"id"`
	ItemID          int64     `json:"itemId" db:"item_id"`
	SizeID          int64     `json:"sizeId" db:"size_id"`
	QuantityInStock int       `json:"quantityInStock" db:"quantity_in_stock"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
	ItemName        string    `json:"itemName,omitempty"`
	SizeName        string    `json:"sizeName,omitempty"`
}

// ItemFilters narrows GET /items.
type ItemFilters struct {
	ItemTypeID *int64 `form:"itemTypeId"`
}
