package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"
)

type CreatePermissionRequest struct {
	Action      string `json:"action" binding:"required"`
	Description string `json:"description"`
}

type UpdatePermissionRequest struct {
	Action      *string `json:"action"`
	Description *string `json:"description"`
}

type RolePermissionRequest struct {
	RoleID       int64 `json:"roleId" binding:"required,gt=0"`
	PermissionID int64 `json:"permissionId" binding:"required,gt=0"`
}

// RoleService manages roles, permissions and the grants between them.
type RoleService interface {
	CreateRole(ctx context.Context, req NameRequest) (*models.Role, error)
	GetRoles(ctx context.Context) ([]models.Role, error)
	GetRoleByID(ctx context.Context, id int64) (*models.Role, error)
	UpdateRole(ctx context.Context, id int64, req NameRequest) (*models.Role, error)
	DeleteRole(ctx context.Context, id int64) error

	CreatePermission(ctx context.Context, req CreatePermissionRequest) (*models.Permission, error)
	GetPermissions(ctx context.Context) ([]models.Permission, error)
	GetPermissionByID(ctx context.Context, id int64) (*models.Permission, error)
	UpdatePermission(ctx context.Context, id int64, req UpdatePermissionRequest) (*models.Permission, error)
	DeletePermission(ctx context.Context, id int64) error

	GetRolePermissions(ctx context.Context) ([]models.RolePermission, error)
	AddPermissionToRole(ctx context.Context, req RolePermissionRequest) (*models.RolePermission, error)
	RemovePermissionFromRole(ctx context.Context, roleID, permissionID int64) error
	RoleHasPermission(ctx context.Context, roleID int64, action string) (bool, error)
}

type roleService struct {
	roleRepo       repositories.RoleRepository
	permissionRepo repositories.PermissionRepository
	db             *sql.DB
}

func NewRoleService(rr repositories.RoleRepository, pr repositories.PermissionRepository, db *sql.DB) RoleService {
	return &roleService{roleRepo: rr, permissionRepo: pr, db: db}
}

// --- Roles ---

func (s *roleService) CreateRole(ctx context.Context, req NameRequest) (*models.Role, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	role := &models.Role{Name: name}
	if err := s.roleRepo.CreateRole(ctx, s.db, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

func (s *roleService) GetRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roleRepo.GetRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	return roles, nil
}

func (s *roleService) getRole(ctx context.Context, id int64) (*models.Role, error) {
	role, err := s.roleRepo.GetRoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role by ID from repository: %w", err)
	}
	return role, nil
}

// GetRoleByID embeds the permissions granted to the role.
func (s *roleService) GetRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return nil, err
	}
	permissions, err := s.roleRepo.GetPermissionsByRoleID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions of role %d: %w", id, err)
	}
	role.Permissions = permissions
	return role, nil
}

func (s *roleService) UpdateRole(ctx context.Context, id int64, req NameRequest) (*models.Role, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	role, err := s.getRole(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Name = name
	if err := s.roleRepo.UpdateRole(ctx, s.db, role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return role, nil
}

func (s *roleService) DeleteRole(ctx context.Context, id int64) error {
	if err := s.roleRepo.DeleteRole(ctx, s.db, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrRoleNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrRoleInUse
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

// --- Permissions ---

func (s *roleService) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*models.Permission, error) {
	action := strings.TrimSpace(req.Action)
	if action == "" {
		return nil, validationError("Validation failed", map[string]string{"action": "is required"})
	}
	p := &models.Permission{Action: action, Description: req.Description}
	if err := s.permissionRepo.CreatePermission(ctx, s.db, p); err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	return p, nil
}

func (s *roleService) GetPermissions(ctx context.Context) ([]models.Permission, error) {
	permissions, err := s.permissionRepo.GetPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	return permissions, nil
}

func (s *roleService) GetPermissionByID(ctx context.Context, id int64) (*models.Permission, error) {
	p, err := s.permissionRepo.GetPermissionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to get permission by ID from repository: %w", err)
	}
	return p, nil
}

func (s *roleService) UpdatePermission(ctx context.Context, id int64, req UpdatePermissionRequest) (*models.Permission, error) {
	if req.Action == nil && req.Description == nil {
		return nil, ErrNoChanges
	}
	p, err := s.GetPermissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Action != nil {
		action := strings.TrimSpace(*req.Action)
		if action == "" {
			return nil, validationError("Validation failed", map[string]string{"action": "must not be empty"})
		}
		p.Action = action
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if err := s.permissionRepo.UpdatePermission(ctx, s.db, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to update permission: %w", err)
	}
	return p, nil
}

func (s *roleService) DeletePermission(ctx context.Context, id int64) error {
	if err := s.permissionRepo.DeletePermission(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	return nil
}

// --- Role permissions ---

func (s *roleService) GetRolePermissions(ctx context.Context) ([]models.RolePermission, error) {
	out, err := s.roleRepo.GetRolePermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}
	return out, nil
}

// AddPermissionToRole checks both sides and the pairing before inserting.
// The composite primary key still rejects a concurrent duplicate, which maps to the same conflict.
func (s *roleService) AddPermissionToRole(ctx context.Context, req RolePermissionRequest) (*models.RolePermission, error) {
	role, err := s.getRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	permission, err := s.GetPermissionByID(ctx, req.PermissionID)
	if err != nil {
		return nil, err
	}

	exists, err := s.roleRepo.RolePermissionExists(ctx, req.RoleID, req.PermissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check role permission: %w", err)
	}
	if exists {
		return nil, ErrRolePermissionExists
	}

	rp := &models.RolePermission{
		RoleID:           req.RoleID,
		PermissionID:     req.PermissionID,
		RoleName:         role.Name,
		PermissionAction: permission.Action,
	}
	if err := s.roleRepo.AddPermissionToRole(ctx, s.db, rp); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrRolePermissionExists
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to add permission to role: %w", err)
	}
	return rp, nil
}

func (s *roleService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID int64) error {
	if err := s.roleRepo.RemovePermissionFromRole(ctx, s.db, roleID, permissionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRolePermissionNotFound
		}
		return fmt.Errorf("failed to remove permission from role: %w", err)
	}
	return nil
}

func (s *roleService) RoleHasPermission(ctx context.Context, roleID int64, action string) (bool, error) {
	ok, err := s.roleRepo.RoleHasPermission(ctx, roleID, action)
	if err != nil {
		return false, fmt.Errorf("failed to check permission %q for role %d: %w", action, roleID, err)
	}
	return ok, nil
}
