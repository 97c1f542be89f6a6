package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"merch_store_backend/internal/models"
)

// ItemAvailabilityRepository reads and mutates per-(item, size) stock rows.
type ItemAvailabilityRepository interface {
	GetAvailabilities(ctx context.Context) ([]models.ItemAvailability, error)
	GetAvailabilityByID(ctx context.Context, id int64) (*models.ItemAvailability, error)
	GetAvailabilitiesByItemID(ctx context.Context, itemID int64) ([]models.ItemAvailability, error)
	// GetAvailabilityForUpdate locks the row until the surrounding transaction ends.
	GetAvailabilityForUpdate(ctx context.Context, executor SQLExecutor, itemID, sizeID int64) (*models.ItemAvailability, error)

	CreateAvailability(ctx context.Context, executor SQLExecutor, a *models.ItemAvailability) error
	UpdateAvailability(ctx context.Context, executor SQLExecutor, a *models.ItemAvailability) error
	DeleteAvailability(ctx context.Context, executor SQLExecutor, id int64) error
	UpsertAvailability(ctx context.Context, executor SQLExecutor, a *models.ItemAvailability) error
	SetStock(ctx context.Context, executor SQLExecutor, itemID, sizeID int64, quantity int) (*models.ItemAvailability, error)

	// DecrementStock returns ErrNotFound when the row is missing or holds fewer than quantity units.
	DecrementStock(ctx context.Context, executor SQLExecutor, itemID, sizeID int64, quantity int) error
	// IncrementStock reports false when the row no longer exists.
	IncrementStock(ctx context.Context, executor SQLExecutor, itemID, sizeID int64, quantity int) (bool, error)
}

type itemAvailabilityRepository struct {
	db *sql.DB
}

// NewItemAvailabilityRepository creates a new instance of ItemAvailabilityRepository.
func NewItemAvailabilityRepository(db *sql.DB) ItemAvailabilityRepository {
	return &itemAvailabilityRepository{db: db}
}

const availabilitySelect = `SELECT ia.id, ia.item_id, ia.size_id, ia.quantity_in_stock, ia.created_at, ia.updated_at,
	       i.name, s.name
	FROM item_availability ia
	JOIN items i ON i.id = ia.item_id
	JOIN sizes s ON s.id = ia.size_id`

func scanAvailability(s scanner) (*models.ItemAvailability, error) {
	a := &models.ItemAvailability{}
	err := s.Scan(&a.ID, &a.ItemID, &a.SizeID, &a.QuantityInStock, &a.CreatedAt, &a.UpdatedAt, &a.ItemName, &a.SizeName)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *itemAvailabilityRepository) queryAvailabilities(ctx context.Context, query string, args ...interface{}) ([]models.ItemAvailability, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("querying item availability", err)
	}
	defer rows.Close()

	out := []models.ItemAvailability{}
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, wrapDBError("scanning item availability", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating item availability", err)
	}
	return out, nil
}

func (r *itemAvailabilityRepository) GetAvailabilities(ctx context.Context) ([]models.ItemAvailability, error) {
	return r.queryAvailabilities(ctx, availabilitySelect+` ORDER BY ia.item_id, ia.size_id`)
}

func (r *itemAvailabilityRepository) GetAvailabilitiesByItemID(ctx context.Context, itemID int64) ([]models.ItemAvailability, error) {
	return r.queryAvailabilities(ctx, availabilitySelect+` WHERE ia.item_id = $1 ORDER BY ia.size_id`, itemID)
}

func (r *itemAvailabilityRepository) GetAvailabilityByID(ctx context.Context, id int64) (*models.ItemAvailability, error) {
	a, err := scanAvailability(r.db.QueryRowContext(ctx, availabilitySelect+` WHERE ia.id = $1`, id))
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting item availability by ID %d", id), err)
	}
	return a, nil
}

func (r *itemAvailabilityRepository) GetAvailabilityForUpdate(ctx context.Context, executor SQLExecutor, itemID, sizeID int64) (*models.ItemAvailability, error) {
	query := `SELECT id, item_id, size_id, quantity_in_stock, created_at, updated_at
	          FROM item_availability
	          WHERE item_id = $1 AND size_id = $2
	          FOR UPDATE`
	a := &models.ItemAvailability{}
	err := executor.QueryRowContext(ctx, query, itemID, sizeID).Scan(
		&a.ID, &a.ItemID, &a.SizeID, &a.QuantityInStock, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("locking availability of item %d size %d", itemID, sizeID), err)
	}
	return a, nil
}

func (r *itemAvailabilityRepository) CreateAvailability(ctx context.Context, executor SQLExecutor, a *models.ItemAvailability) error {
	query := `INSERT INTO item_availability (item_id, size_id, quantity_in_stock, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	err := executor.QueryRowContext(ctx, query, a.ItemID, a.SizeID, a.QuantityInStock, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return wrapDBError("creating item availability", err)
	}
	return nil
}

func (r *itemAvailabilityRepository) UpdateAvailability(ctx context.Context, executor SQLExecutor, a *models.ItemAvailability) error {
	query := `UPDATE item_availability
	          SET item_id = $1, size_id = $2, quantity_in_stock = $3, updated_at = $4
	          WHERE id = $5`
	a.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx, query, a.ItemID, a.SizeID, a.QuantityInStock, a.UpdatedAt, a.ID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating item availability ID %d", a.ID), err)
	}
	return expectAffected("updating item availability", res)
}

func (r *itemAvailabilityRepository) DeleteAvailability(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM item_availability WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting item availability ID %d", id), err)
	}
	return expectAffected("deleting item availability", res)
}

func (r *itemAvailabilityRepository) UpsertAvailability(ctx context.Context, executor SQLExecutor, a *models.ItemAvailability) error {
	query := `INSERT INTO item_availability (item_id, size_id, quantity_in_stock, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          ON CONFLICT (item_id, size_id)
	          DO UPDATE SET quantity_in_stock = EXCLUDED.quantity_in_stock, updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query, a.ItemID, a.SizeID, a.QuantityInStock, time.Now()).Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return wrapDBError("upserting item availability", err)
	}
	return nil
}

func (r *itemAvailabilityRepository) SetStock(ctx context.Context, executor SQLExecutor, itemID, sizeID int64, quantity int) (*models.ItemAvailability, error) {
	query := `UPDATE item_availability
	          SET quantity_in_stock = $1, updated_at = $2
	          WHERE item_id = $3 AND size_id = $4
	          RETURNING id, item_id, size_id, quantity_in_stock, created_at, updated_at`
	a := &models.ItemAvailability{}
	err := executor.QueryRowContext(ctx, query, quantity, time.Now(), itemID, sizeID).Scan(
		&a.ID, &a.ItemID, &a.SizeID, &a.QuantityInStock, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("setting stock of item %d size %d", itemID, sizeID), err)
	}
	return a, nil
}

func (r *itemAvailabilityRepository) DecrementStock(ctx context.Context, executor SQLExecutor, itemID, sizeID int64, quantity int) error {
	query := `UPDATE item_availability
	          SET quantity_in_stock = quantity_in_stock - $1, updated_at = $2
	          WHERE item_id = $3 AND size_id = $4 AND quantity_in_stock >= $1`
	res, err := executor.ExecContext(ctx, query, quantity, time.Now(), itemID, sizeID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("decrementing stock of item %d size %d", itemID, sizeID), err)
	}
	return expectAffected("decrementing stock", res)
}

func (r *itemAvailabilityRepository) IncrementStock(ctx context.Context, executor SQLExecutor, itemID, sizeID int64, quantity int) (bool, error) {
	query := `UPDATE item_availability
	          SET quantity_in_stock = quantity_in_stock + $1, updated_at = $2
	          WHERE item_id = $3 AND size_id = $4`
	res, err := executor.ExecContext(ctx, query, quantity, time.Now(), itemID, sizeID)
	if err != nil {
		return false, wrapDBError(fmt.Sprintf("restoring stock of item %d size %d", itemID, sizeID), err)
	}
	if err := expectAffected("restoring stock", res); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
