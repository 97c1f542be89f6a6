package services

import (
	"context"
	"testing"
	"time"

	"merch_store_backend/internal/models"
	"merch_store_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture() (UserService, *fakeUserRepo, *fakeRoleRepo) {
	perms := newFakePermissionRepo(models.Permission{ID: 1, Action: PermManageUsers})
	roles := newFakeRoleRepo(perms, models.Role{ID: 1, Name: "Admin"})
	users := newFakeUserRepo(models.User{ID: 1, Name: "Grace", Email: "grace@example.com", RoleID: 1})
	return NewUserService(users, roles, nil), users, roles
}

func strPtr(s string) *string { return &s }

func TestCreateUserNormalizesEmailAndHashesPassword(t *testing.T) {
	svc, users, _ := newUserFixture()

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name: "Ada", Email: " Ada@Example.COM ", RoleID: 1, Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	require.NotNil(t, user.Role)
	assert.Equal(t, "Admin", user.Role.Name)

	stored := users.users[user.ID]
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("s3cret-pass")))
}

func TestCreateUserConflictsAndReferences(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{Name: "G", Email: "GRACE@example.com", RoleID: 1})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Name: "G", Email: "new@example.com", RoleID: 5})
	assert.ErrorIs(t, err, ErrReferencedRoleAbsent)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Name: "G", Email: "new@example.com", RoleID: 1, Password: strPtr("short")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserEmailAndPasswordRules(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{Name: "G", Email: "not-an-email", RoleID: 1})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"email": "must be a valid email"}, verr.Details)

	_, err = svc.UpdateUser(ctx, 1, UpdateUserRequest{Email: strPtr("grace@")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Name: "G", Email: "g@example.com", RoleID: 1, Password: strPtr("1234567")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"password": "must be at least 8 characters"}, verr.Details)

	user, err := svc.CreateUser(ctx, CreateUserRequest{Name: "G", Email: "g@example.com", RoleID: 1, Password: strPtr("12345678")})
	require.NoError(t, err)
	assert.NotNil(t, user.PasswordHash)
}

func TestUpdateUserPatch(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, 1, UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)

	// Same email as before is not a conflict with itself.
	user, err := svc.UpdateUser(ctx, 1, UpdateUserRequest{Name: strPtr("Grace H"), Email: strPtr("grace@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Grace H", user.Name)

	_, err = svc.UpdateUser(ctx, 2, UpdateUserRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	require.NoError(t, svc.DeleteUser(ctx, 1))
	assert.ErrorIs(t, svc.DeleteUser(ctx, 1), ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	perms := newFakePermissionRepo(models.Permission{ID: 1, Action: PermManageOrders})
	roles := newFakeRoleRepo(perms, models.Role{ID: 1, Name: "Admin"})
	roles.grants[[2]int64{1, 1}] = true

	userSvc := NewUserService(users, roles, nil)
	_, err := userSvc.CreateUser(context.Background(), CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", RoleID: 1, Password: strPtr("correct-horse"),
	})
	require.NoError(t, err)
	_, err = userSvc.CreateUser(context.Background(), CreateUserRequest{Name: "NoPass", Email: "nopass@example.com", RoleID: 1})
	require.NoError(t, err)

	issuer := utils.NewTokenIssuer("test-secret", 15*time.Minute)
	auth := NewAuthService(users, NewRoleService(roles, perms, nil), issuer)
	ctx := context.Background()

	resp, err := auth.Login(ctx, LoginRequest{Email: "ADA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := issuer.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, int64(1), claims.RoleID)

	_, err = auth.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, LoginRequest{Email: "nopass@example.com", Password: "anything-at-all"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	ok, err := auth.Authorize(ctx, 1, PermManageOrders)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = auth.Authorize(ctx, 1, PermManageUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	me, err := auth.Me(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
}
