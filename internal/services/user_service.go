package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"
	"merch_store_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// --- Data Transfer Objects (DTOs) ---

type CreateUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	RoleID   int64   `json:"roleId" binding:"required,gt=0"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	RoleID   *int64  `json:"roleId" binding:"omitempty,gt=0"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// --- UserService Interface ---
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
	db       *sql.DB
}

// NewUserService creates a new instance of UserService.
func NewUserService(ur repositories.UserRepository, rr repositories.RoleRepository, db *sql.DB) UserService {
	return &userService{userRepo: ur, roleRepo: rr, db: db}
}

// normalizeEmail lowercases and trims an address and rejects malformed ones.
func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !utils.IsValidEmail(normalized) {
		return "", validationError("Validation failed", map[string]string{"email": "must be a valid email"})
	}
	return normalized, nil
}

func hashPassword(password string) (*string, error) {
	if !utils.IsValidPasswordLength(password, minPasswordLength) {
		return nil, validationError("Validation failed", map[string]string{"password": "must be at least 8 characters"})
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	h := string(hashed)
	return &h, nil
}

func (s *userService) ensureRole(ctx context.Context, roleID int64) (*models.Role, error) {
	role, err := s.roleRepo.GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReferencedRoleAbsent
		}
		return nil, fmt.Errorf("failed to check role %d: %w", roleID, err)
	}
	return role, nil
}

// ensureEmailFree returns ErrEmailExists when another user already holds email.
func (s *userService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != selfID {
		return ErrEmailExists
	}
	return nil
}

func mapUserWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrEmailExists
	case errors.Is(err, repositories.ErrForeignKey):
		return ErrReferencedRoleAbsent
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("Validation failed", map[string]string{"name": "is required"})
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	role, err := s.ensureRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email, RoleID: req.RoleID}
	if req.Password != nil {
		if user.PasswordHash, err = hashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.CreateUser(ctx, s.db, user); err != nil {
		return nil, mapUserWriteError("create user", err)
	}
	user.Role = role
	return user, nil
}

func (s *userService) GetUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID from repository: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	if req.Name == nil && req.Email == nil && req.RoleID == nil && req.Password == nil {
		return nil, ErrNoChanges
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("Validation failed", map[string]string{"name": "must not be empty"})
		}
		user.Name = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.RoleID != nil && *req.RoleID != user.RoleID {
		role, err := s.ensureRole(ctx, *req.RoleID)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = role
	}
	if req.Password != nil {
		if user.PasswordHash, err = hashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.UpdateUser(ctx, s.db, user); err != nil {
		return nil, mapUserWriteError("update user", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.DeleteUser(ctx, s.db, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrUserHasOrders
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
