package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"merch_store_backend/internal/models"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, executor SQLExecutor, user *models.User) error
	DeleteUser(ctx context.Context, executor SQLExecutor, id int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userSelect = `SELECT u.id, u.name, u.email, u.role_id, u.password_hash, u.created_at, u.updated_at,
	       r.id, r.name, r.created_at, r.updated_at
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id`

func scanUser(s scanner) (*models.User, error) {
	user := &models.User{}
	var passwordHash sql.NullString
	var roleID sql.NullInt64
	var roleName sql.NullString
	var roleCreated, roleUpdated sql.NullTime

	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &user.RoleID, &passwordHash, &user.CreatedAt, &user.UpdatedAt,
		&roleID, &roleName, &roleCreated, &roleUpdated,
	)
	if err != nil {
		return nil, err
	}
	if passwordHash.Valid {
		hash := passwordHash.String
		user.PasswordHash = &hash
	}
	if roleID.Valid {
		user.Role = &models.Role{
			ID:        roleID.Int64,
			Name:      roleName.String,
			CreatedAt: roleCreated.Time,
			UpdatedAt: roleUpdated.Time,
		}
	}
	return user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) error {
	query := `INSERT INTO users (name, email, role_id, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := executor.QueryRowContext(ctx, query,
		user.Name, user.Email, user.RoleID, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return wrapDBError("creating user", err)
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting user by ID %d", id), err)
	}
	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE lower(u.email) = lower($1)`, email))
	if err != nil {
		return nil, wrapDBError("getting user by email", err)
	}
	return user, nil
}

func (r *userRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+` ORDER BY u.id`)
	if err != nil {
		return nil, wrapDBError("querying users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, wrapDBError("scanning user", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating users", err)
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, executor SQLExecutor, user *models.User) error {
	query := `UPDATE users
	          SET name = $1, email = $2, role_id = $3, password_hash = $4, updated_at = $5
	          WHERE id = $6`
	user.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx, query,
		user.Name, user.Email, user.RoleID, user.PasswordHash, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating user ID %d", user.ID), err)
	}
	return expectAffected("updating user", res)
}

func (r *userRepository) DeleteUser(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting user ID %d", id), err)
	}
	return expectAffected("deleting user", res)
}
