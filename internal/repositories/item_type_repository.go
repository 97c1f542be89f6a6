package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"merch_store_backend/internal/models"
)

// ItemTypeRepository covers item types and their size pairings.
type ItemTypeRepository interface {
	CreateItemType(ctx context.Context, executor SQLExecutor, itemType *models.ItemType) error
	GetItemTypeByID(ctx context.Context, id int64) (*models.ItemType, error)
	GetItemTypes(ctx context.Context) ([]models.ItemType, error)
	UpdateItemType(ctx context.Context, executor SQLExecutor, itemType *models.ItemType) error
	DeleteItemType(ctx context.Context, executor SQLExecutor, id int64) error

	GetSizesByItemTypeID(ctx context.Context, itemTypeID int64) ([]models.Size, error)
	GetItemTypeSizes(ctx context.Context) ([]models.ItemTypeSize, error)
	ItemTypeSizeExists(ctx context.Context, itemTypeID, sizeID int64) (bool, error)
	CreateItemTypeSize(ctx context.Context, executor SQLExecutor, pair *models.ItemTypeSize) error
	DeleteItemTypeSize(ctx context.Context, executor SQLExecutor, itemTypeID, sizeID int64) error
}

type itemTypeRepository struct {
	db *sql.DB
}

// NewItemTypeRepository creates a new instance of ItemTypeRepository.
func NewItemTypeRepository(db *sql.DB) ItemTypeRepository {
	return &itemTypeRepository{db: db}
}

func (r *itemTypeRepository) CreateItemType(ctx context.Context, executor SQLExecutor, itemType *models.ItemType) error {
	now := time.Now()
	itemType.CreatedAt = now
	itemType.UpdatedAt = now

	err := executor.QueryRowContext(ctx,
		`INSERT INTO item_types (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		itemType.Name, itemType.CreatedAt, itemType.UpdatedAt,
	).Scan(&itemType.ID)
	if err != nil {
		return wrapDBError("creating item type", err)
	}
	return nil
}

func (r *itemTypeRepository) GetItemTypeByID(ctx context.Context, id int64) (*models.ItemType, error) {
	itemType := &models.ItemType{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM item_types WHERE id = $1`, id,
	).Scan(&itemType.ID, &itemType.Name, &itemType.CreatedAt, &itemType.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting item type by ID %d", id), err)
	}
	return itemType, nil
}

func (r *itemTypeRepository) GetItemTypes(ctx context.Context) ([]models.ItemType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM item_types ORDER BY id`)
	if err != nil {
		return nil, wrapDBError("querying item types", err)
	}
	defer rows.Close()

	itemTypes := []models.ItemType{}
	for rows.Next() {
		var t models.ItemType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, wrapDBError("scanning item type", err)
		}
		itemTypes = append(itemTypes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating item types", err)
	}
	return itemTypes, nil
}

func (r *itemTypeRepository) UpdateItemType(ctx context.Context, executor SQLExecutor, itemType *models.ItemType) error {
	itemType.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx,
		`UPDATE item_types SET name = $1, updated_at = $2 WHERE id = $3`,
		itemType.Name, itemType.UpdatedAt, itemType.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating item type ID %d", itemType.ID), err)
	}
	return expectAffected("updating item type", res)
}

func (r *itemTypeRepository) DeleteItemType(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM item_types WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting item type ID %d", id), err)
	}
	return expectAffected("deleting item type", res)
}

func (r *itemTypeRepository) GetSizesByItemTypeID(ctx context.Context, itemTypeID int64) ([]models.Size, error) {
	query := `SELECT s.id, s.name, s.created_at, s.updated_at
	          FROM item_type_sizes its
	          JOIN sizes s ON s.id = its.size_id
	          WHERE its.item_type_id = $1
	          ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query, itemTypeID)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("querying sizes of item type %d", itemTypeID), err)
	}
	defer rows.Close()

	sizes := []models.Size{}
	for rows.Next() {
		var s models.Size
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, wrapDBError("scanning size", err)
		}
		sizes = append(sizes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating sizes", err)
	}
	return sizes, nil
}

func (r *itemTypeRepository) GetItemTypeSizes(ctx context.Context) ([]models.ItemTypeSize, error) {
	query := `SELECT its.item_type_id, its.size_id, its.created_at, it.name, s.name
	          FROM item_type_sizes its
	          JOIN item_types it ON it.id = its.item_type_id
	          JOIN sizes s ON s.id = its.size_id
	          ORDER BY its.item_type_id, its.size_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("querying item type sizes", err)
	}
	defer rows.Close()

	pairs := []models.ItemTypeSize{}
	for rows.Next() {
		var p models.ItemTypeSize
		if err := rows.Scan(&p.ItemTypeID, &p.SizeID, &p.CreatedAt, &p.ItemTypeName, &p.SizeName); err != nil {
			return nil, wrapDBError("scanning item type size", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating item type sizes", err)
	}
	return pairs, nil
}

func (r *itemTypeRepository) ItemTypeSizeExists(ctx context.Context, itemTypeID, sizeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM item_type_sizes WHERE item_type_id = $1 AND size_id = $2)`,
		itemTypeID, sizeID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBError("checking item type size", err)
	}
	return exists, nil
}

func (r *itemTypeRepository) CreateItemTypeSize(ctx context.Context, executor SQLExecutor, pair *models.ItemTypeSize) error {
	pair.CreatedAt = time.Now()
	_, err := executor.ExecContext(ctx,
		`INSERT INTO item_type_sizes (item_type_id, size_id, created_at) VALUES ($1, $2, $3)`,
		pair.ItemTypeID, pair.SizeID, pair.CreatedAt,
	)
	if err != nil {
		return wrapDBError("creating item type size", err)
	}
	return nil
}

func (r *itemTypeRepository) DeleteItemTypeSize(ctx context.Context, executor SQLExecutor, itemTypeID, sizeID int64) error {
	res, err := executor.ExecContext(ctx,
		`DELETE FROM item_type_sizes WHERE item_type_id = $1 AND size_id = $2`, itemTypeID, sizeID,
	)
	if err != nil {
		return wrapDBError("deleting item type size", err)
	}
	return expectAffected("deleting item type size", res)
}
