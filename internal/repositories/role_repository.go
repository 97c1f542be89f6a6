package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"merch_store_backend/internal/models"
)

// RoleRepository covers roles and their permission assignments.
type RoleRepository interface {
	CreateRole(ctx context.Context, executor SQLExecutor, role *models.Role) error
	GetRoleByID(ctx context.Context, id int64) (*models.Role, error)
	GetRoles(ctx context.Context) ([]models.Role, error)
	UpdateRole(ctx context.Context, executor SQLExecutor, role *models.Role) error
	DeleteRole(ctx context.Context, executor SQLExecutor, id int64) error

	GetPermissionsByRoleID(ctx context.Context, roleID int64) ([]models.Permission, error)
	GetRolePermissions(ctx context.Context) ([]models.RolePermission, error)
	RolePermissionExists(ctx context.Context, roleID, permissionID int64) (bool, error)
	RoleHasPermission(ctx context.Context, roleID int64, action string) (bool, error)
	AddPermissionToRole(ctx context.Context, executor SQLExecutor, rp *models.RolePermission) error
	RemovePermissionFromRole(ctx context.Context, executor SQLExecutor, roleID, permissionID int64) error
}

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new instance of RoleRepository.
func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) CreateRole(ctx context.Context, executor SQLExecutor, role *models.Role) error {
	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now

	err := executor.QueryRowContext(ctx,
		`INSERT INTO roles (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		role.Name, role.CreatedAt, role.UpdatedAt,
	).Scan(&role.ID)
	if err != nil {
		return wrapDBError("creating role", err)
	}
	return nil
}

func (r *roleRepository) GetRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	role := &models.Role{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting role by ID %d", id), err)
	}
	return role, nil
}

func (r *roleRepository) GetRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, wrapDBError("querying roles", err)
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, wrapDBError("scanning role", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating roles", err)
	}
	return roles, nil
}

func (r *roleRepository) UpdateRole(ctx context.Context, executor SQLExecutor, role *models.Role) error {
	role.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx,
		`UPDATE roles SET name = $1, updated_at = $2 WHERE id = $3`, role.Name, role.UpdatedAt, role.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating role ID %d", role.ID), err)
	}
	return expectAffected("updating role", res)
}

// DeleteRole fails with ErrForeignKey while users still hold the role.
func (r *roleRepository) DeleteRole(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting role ID %d", id), err)
	}
	return expectAffected("deleting role", res)
}

func (r *roleRepository) GetPermissionsByRoleID(ctx context.Context, roleID int64) ([]models.Permission, error) {
	query := `SELECT p.id, p.action, p.description, p.created_at, p.updated_at
	          FROM role_permissions rp
	          JOIN permissions p ON p.id = rp.permission_id
	          WHERE rp.role_id = $1
	          ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("querying permissions of role %d", roleID), err)
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

func (r *roleRepository) GetRolePermissions(ctx context.Context) ([]models.RolePermission, error) {
	query := `SELECT rp.role_id, rp.permission_id, rp.created_at, r.name, p.action
	          FROM role_permissions rp
	          JOIN roles r ON r.id = rp.role_id
	          JOIN permissions p ON p.id = rp.permission_id
	          ORDER BY rp.role_id, rp.permission_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("querying role permissions", err)
	}
	defer rows.Close()

	out := []models.RolePermission{}
	for rows.Next() {
		var rp models.RolePermission
		if err := rows.Scan(&rp.RoleID, &rp.PermissionID, &rp.CreatedAt, &rp.RoleName, &rp.PermissionAction); err != nil {
			return nil, wrapDBError("scanning role permission", err)
		}
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating role permissions", err)
	}
	return out, nil
}

func (r *roleRepository) RolePermissionExists(ctx context.Context, roleID, permissionID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM role_permissions WHERE role_id = $1 AND permission_id = $2)`,
		roleID, permissionID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBError("checking role permission", err)
	}
	return exists, nil
}

func (r *roleRepository) RoleHasPermission(ctx context.Context, roleID int64, action string) (bool, error) {
	query := `SELECT EXISTS(
	              SELECT 1 FROM role_permissions rp
	              JOIN permissions p ON p.id = rp.permission_id
	              WHERE rp.role_id = $1 AND p.action = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, roleID, action).Scan(&exists); err != nil {
		return false, wrapDBError("checking role action", err)
	}
	return exists, nil
}

func (r *roleRepository) AddPermissionToRole(ctx context.Context, executor SQLExecutor, rp *models.RolePermission) error {
	rp.CreatedAt = time.Now()
	_, err := executor.ExecContext(ctx,
		`INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES ($1, $2, $3)`,
		rp.RoleID, rp.PermissionID, rp.CreatedAt,
	)
	if err != nil {
		return wrapDBError("creating role permission", err)
	}
	return nil
}

func (r *roleRepository) RemovePermissionFromRole(ctx context.Context, executor SQLExecutor, roleID, permissionID int64) error {
	res, err := executor.ExecContext(ctx,
		`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID,
	)
	if err != nil {
		return wrapDBError("deleting role permission", err)
	}
	return expectAffected("deleting role permission", res)
}
