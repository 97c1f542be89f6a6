package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"merch_store_backend/internal/models"
)

type SizeRepository interface {
	CreateSize(ctx context.Context, executor SQLExecutor, size *models.Size) error
	GetSizeByID(ctx context.Context, id int64) (*models.Size, error)
	GetSizes(ctx context.Context) ([]models.Size, error)
	UpdateSize(ctx context.Context, executor SQLExecutor, size *models.Size) error
	DeleteSize(ctx context.Context, executor SQLExecutor, id int64) error
}

type sizeRepository struct {
	db *sql.DB
}

func NewSizeRepository(db *sql.DB) SizeRepository {
	return &sizeRepository{db: db}
}

func (r *sizeRepository) CreateSize(ctx context.Context, executor SQLExecutor, size *models.Size) error {
	now := time.Now()
	size.CreatedAt = now
	size.UpdatedAt = now

	err := executor.QueryRowContext(ctx,
		`INSERT INTO sizes (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		size.Name, size.CreatedAt, size.UpdatedAt,
	).Scan(&size.ID)
	if err != nil {
		return wrapDBError("creating size", err)
	}
	return nil
}

func (r *sizeRepository) GetSizeByID(ctx context.Context, id int64) (*models.Size, error) {
	size := &models.Size{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM sizes WHERE id = $1`, id,
	).Scan(&size.ID, &size.Name, &size.CreatedAt, &size.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting size by ID %d", id), err)
	}
	return size, nil
}

func (r *sizeRepository) GetSizes(ctx context.Context) ([]models.Size, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM sizes ORDER BY id`)
	if err != nil {
		return nil, wrapDBError("querying sizes", err)
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

func (r *sizeRepository) UpdateSize(ctx context.Context, executor SQLExecutor, size *models.Size) error {
	size.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx,
		`UPDATE sizes SET name = $1, updated_at = $2 WHERE id = $3`,
		size.Name, size.UpdatedAt, size.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating size ID %d", size.ID), err)
	}
	return expectAffected("updating size", res)
}

func (r *sizeRepository) DeleteSize(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM sizes WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting size ID %d", id), err)
	}
	return expectAffected("deleting size", res)
}
