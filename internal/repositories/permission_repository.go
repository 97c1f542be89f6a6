package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"merch_store_backend/internal/models"
)

type PermissionRepository interface {
	CreatePermission(ctx context.Context, executor SQLExecutor, p *models.Permission) error
	GetPermissionByID(ctx context.Context, id int64) (*models.Permission, error)
	GetPermissions(ctx context.Context) ([]models.Permission, error)
	UpdatePermission(ctx context.Context, executor SQLExecutor, p *models.Permission) error
	DeletePermission(ctx context.Context, executor SQLExecutor, id int64) error
}

type permissionRepository struct {
	db *sql.DB
}

func NewPermissionRepository(db *sql.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) CreatePermission(ctx context.Context, executor SQLExecutor, p *models.Permission) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := executor.QueryRowContext(ctx,
		`INSERT INTO permissions (action, description, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Action, p.Description, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return wrapDBError("creating permission", err)
	}
	return nil
}

func (r *permissionRepository) GetPermissionByID(ctx context.Context, id int64) (*models.Permission, error) {
	p := &models.Permission{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, action, description, created_at, updated_at FROM permissions WHERE id = $1`, id,
	).Scan(&p.ID, &p.Action, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting permission by ID %d", id), err)
	}
	return p, nil
}

func (r *permissionRepository) GetPermissions(ctx context.Context) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, action, description, created_at, updated_at FROM permissions ORDER BY id`)
	if err != nil {
		return nil, wrapDBError("querying permissions", err)
	}
	defer rows.Close()

	permissions := []models.Permission{}
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Action, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, wrapDBError("scanning permission", err)
		}
		permissions = append(permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating permissions", err)
	}
	return permissions, nil
}

func (r *permissionRepository) UpdatePermission(ctx context.Context, executor SQLExecutor, p *models.Permission) error {
	p.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx,
		`UPDATE permissions SET action = $1, description = $2, updated_at = $3 WHERE id = $4`,
		p.Action, p.Description, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating permission ID %d", p.ID), err)
	}
	return expectAffected("updating permission", res)
}

func (r *permissionRepository) DeletePermission(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting permission ID %d", id), err)
	}
	return expectAffected("deleting permission", res)
}
