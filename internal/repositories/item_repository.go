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

// ItemRepository defines the interface for item-related database operations.
type ItemRepository interface {
	CreateItem(ctx context.Context, executor SQLExecutor, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItems(ctx context.Context, filters models.ItemFilters) ([]models.Item, error)
	UpdateItem(ctx context.Context, executor SQLExecutor, item *models.Item) error
	DeleteItem(ctx context.Context, executor SQLExecutor, id int64) error
	// GetItemPrice reads the live price, inside the caller's transaction when executor is a *sql.Tx.
	GetItemPrice(ctx context.Context, executor SQLExecutor, id int64) (decimal.Decimal, error)
}

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new instance of ItemRepository.
func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, name, description, price, item_type_id, image_url, created_at, updated_at`

func scanItem(s scanner) (*models.Item, error) {
	item := &models.Item{}
	err := s.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.ItemTypeID, &item.ImageURL,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) CreateItem(ctx context.Context, executor SQLExecutor, item *models.Item) error {
	query := `INSERT INTO items (name, description, price, item_type_id, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	err := executor.QueryRowContext(ctx, query,
		item.Name, item.Description, item.Price, item.ItemTypeID, item.ImageURL, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return wrapDBError("creating item", err)
	}
	return nil
}

func (r *itemRepository) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting item by ID %d", id), err)
	}
	return item, nil
}

func (r *itemRepository) GetItems(ctx context.Context, filters models.ItemFilters) ([]models.Item, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + itemColumns + ` FROM items`)

	var args []interface{}
	if filters.ItemTypeID != nil {
		queryBuilder.WriteString(` WHERE item_type_id = $1`)
		args = append(args, *filters.ItemTypeID)
	}
	queryBuilder.WriteString(` ORDER BY id`)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, wrapDBError("querying items", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapDBError("scanning item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating items", err)
	}
	return items, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, executor SQLExecutor, item *models.Item) error {
	query := `UPDATE items
	          SET name = $1, description = $2, price = $3, item_type_id = $4, image_url = $5, updated_at = $6
	          WHERE id = $7`

	item.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx, query,
		item.Name, item.Description, item.Price, item.ItemTypeID, item.ImageURL, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating item ID %d", item.ID), err)
	}
	return expectAffected("updating item", res)
}

func (r *itemRepository) DeleteItem(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting item ID %d", id), err)
	}
	return expectAffected("deleting item", res)
}

func (r *itemRepository) GetItemPrice(ctx context.Context, executor SQLExecutor, id int64) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := executor.QueryRowContext(ctx, `SELECT price FROM items WHERE id = $1`, id).Scan(&price)
	if err != nil {
		return decimal.Zero, wrapDBError(fmt.Sprintf("getting price of item ID %d", id), err)
	}
	return price, nil
}
