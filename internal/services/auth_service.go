package services

import (
	"context"
	"errors"
	"fmt"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"
	"merch_store_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// Permission actions checked by the admin routes.
const (
	PermManageCatalog   = "manage_catalog"
	PermManageInventory = "manage_inventory"
	PermManageUsers     = "manage_users"
	PermManageRoles     = "manage_roles"
	PermManageOrders    = "manage_orders"
	PermManageLocations = "manage_locations"
)

// AllPermissions lists every action in the order the seed command creates them.
var AllPermissions = []string{
	PermManageCatalog,
	PermManageInventory,
	PermManageUsers,
	PermManageRoles,
	PermManageOrders,
	PermManageLocations,
}

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse DTO
type LoginResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	Authorize(ctx context.Context, roleID int64, action string) (bool, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo    repositories.UserRepository
	roleService RoleService
	tokens      *utils.TokenIssuer
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ur repositories.UserRepository, rs RoleService, tokens *utils.TokenIssuer) AuthService {
	return &authService{userRepo: ur, roleService: rs, tokens: tokens}
}

// Login checks the password against the stored bcrypt hash. Users without a
// password cannot log in. Unknown email and wrong password look the same to the caller.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user for login: %w", err)
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.RoleID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	utils.LogInfo("User logged in", map[string]interface{}{"user_id": user.ID, "role_id": user.RoleID})
	return &LoginResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return user, nil
}

func (s *authService) Authorize(ctx context.Context, roleID int64, action string) (bool, error) {
	return s.roleService.RoleHasPermission(ctx, roleID, action)
}
