package models

import "time"

// User represents an employee who can place orders
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	RoleID       int64     `json:"roleId" db:"role_id"`
	PasswordHash *string   `json:"-" db:"password_hash"` // never rendered
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	Role         *Role     `json:"role,omitempty"`
}

// Role represents a user role
type Role struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Permission represents an action a role can perform
type Permission struct {
	ID          int64     `json:"id" db:"id"`
	Action      string    `json:"action" db:"action"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// RolePermission is the join table for roles and permissions
type RolePermission struct {
	RoleID           int64     `json:"roleId" db:"role_id"`
	PermissionID     int64     `json:"permissionId" db:"permission_id"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	RoleName         string    `json:"roleName,omitempty"`
	PermissionAction string    `json:"permissionAction,omitempty"`
}
