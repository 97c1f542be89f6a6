package services

import (
	"context"
	"testing"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleFixture() (RoleService, *fakeRoleRepo) {
	perms := newFakePermissionRepo(
		models.Permission{ID: 1, Action: PermManageCatalog},
		models.Permission{ID: 2, Action: PermManageOrders},
	)
	roles := newFakeRoleRepo(perms, models.Role{ID: 1, Name: "Admin"}, models.Role{ID: 2, Name: "Employee"})
	return NewRoleService(roles, perms, nil), roles
}

func TestAddPermissionToRoleTwiceConflicts(t *testing.T) {
	svc, _ := newRoleFixture()
	ctx := context.Background()

	rp, err := svc.AddPermissionToRole(ctx, RolePermissionRequest{RoleID: 1, PermissionID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Admin", rp.RoleName)
	assert.Equal(t, PermManageCatalog, rp.PermissionAction)

	_, err = svc.AddPermissionToRole(ctx, RolePermissionRequest{RoleID: 1, PermissionID: 1})
	assert.ErrorIs(t, err, ErrRolePermissionExists)
	assert.ErrorIs(t, err, ErrConflict)

	all, err := svc.GetRolePermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddPermissionToRoleConcurrentDuplicateIsConflict(t *testing.T) {
	svc, roles := newRoleFixture()
	roles.insertErr = repositories.ErrDuplicateKey

	_, err := svc.AddPermissionToRole(context.Background(), RolePermissionRequest{RoleID: 1, PermissionID: 2})
	assert.ErrorIs(t, err, ErrRolePermissionExists)
}

func TestAddPermissionToRoleUnknownSides(t *testing.T) {
	svc, _ := newRoleFixture()
	ctx := context.Background()

	_, err := svc.AddPermissionToRole(ctx, RolePermissionRequest{RoleID: 9, PermissionID: 1})
	assert.ErrorIs(t, err, ErrRoleNotFound)

	_, err = svc.AddPermissionToRole(ctx, RolePermissionRequest{RoleID: 1, PermissionID: 9})
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

func TestRemovePermissionFromRole(t *testing.T) {
	svc, _ := newRoleFixture()
	ctx := context.Background()

	err := svc.RemovePermissionFromRole(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrRolePermissionNotFound)

	_, err = svc.AddPermissionToRole(ctx, RolePermissionRequest{RoleID: 1, PermissionID: 2})
	require.NoError(t, err)
	require.NoError(t, svc.RemovePermissionFromRole(ctx, 1, 2))

	ok, err := svc.RoleHasPermission(ctx, 1, PermManageOrders)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetRoleByIDEmbedsPermissions(t *testing.T) {
	svc, _ := newRoleFixture()
	ctx := context.Background()

	_, err := svc.AddPermissionToRole(ctx, RolePermissionRequest{RoleID: 2, PermissionID: 2})
	require.NoError(t, err)

	role, err := svc.GetRoleByID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, PermManageOrders, role.Permissions[0].Action)

	_, err = svc.GetRoleByID(ctx, 3)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRoleAndPermissionValidation(t *testing.T) {
	svc, _ := newRoleFixture()
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, NameRequest{Name: " "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePermission(ctx, CreatePermissionRequest{Action: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdatePermission(ctx, 1, UpdatePermissionRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)
}
