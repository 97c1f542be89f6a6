package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP statuses and never look at repository errors.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error is a business error of a given kind with a client-safe message.
type Error struct {
	Kind    error
	Message string
	Details interface{}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(message string, details interface{}) error {
	return &Error{Kind: ErrValidation, Message: message, Details: details}
}

func conflictError(message string, details interface{}) error {
	return &Error{Kind: ErrConflict, Message: message, Details: details}
}

// --- Custom Service Errors ---
var (
	ErrItemNotFound             = newError(ErrNotFound, "Item not found")
	ErrItemTypeNotFound         = newError(ErrNotFound, "Item type not found")
	ErrSizeNotFound             = newError(ErrNotFound, "Size not found")
	ErrItemTypeSizeNotFound     = newError(ErrNotFound, "Item type size association not found")
	ErrAvailabilityNotFound     = newError(ErrNotFound, "Item availability not found")
	ErrUserNotFound             = newError(ErrNotFound, "User not found")
	ErrRoleNotFound             = newError(ErrNotFound, "Role not found")
	ErrPermissionNotFound       = newError(ErrNotFound, "Permission not found")
	ErrRolePermissionNotFound   = newError(ErrNotFound, "Permission is not assigned to this role")
	ErrOrderNotFound            = newError(ErrNotFound, "Order not found")
	ErrLocationNotFound         = newError(ErrNotFound, "Location not found")
	ErrNoChanges                = newError(ErrValidation, "No changes made")
	ErrEmailExists              = newError(ErrConflict, "A user with this email already exists")
	ErrItemTypeSizeExists       = newError(ErrConflict, "Size is already associated with this item type")
	ErrRolePermissionExists     = newError(ErrConflict, "Permission is already assigned to this role")
	ErrAvailabilityExists       = newError(ErrConflict, "Availability record for this item and size already exists")
	ErrItemTypeInUse            = newError(ErrConflict, "Item type is still used by items")
	ErrRoleInUse                = newError(ErrConflict, "Role is still assigned to users")
	ErrUserHasOrders            = newError(ErrConflict, "User still has orders")
	ErrInvalidCredentials       = newError(ErrValidation, "Invalid email or password")
	ErrReferencedItemTypeAbsent = newError(ErrValidation, "Referenced item type does not exist")
	ErrReferencedRoleAbsent     = newError(ErrValidation, "Referenced role does not exist")
	ErrReferencedItemAbsent     = newError(ErrValidation, "Referenced item does not exist")
	ErrReferencedSizeAbsent     = newError(ErrValidation, "Referenced size does not exist")
)

// StockError reports an order line that cannot be fulfilled.
// Missing is set when no availability row exists for the pair.
type StockError struct {
	ItemID    int64
	SizeID    int64
	Requested int
	Available int
	Missing   bool
}

func (e *StockError) Error() string {
	if e.Missing {
		return fmt.Sprintf("No availability record for item %d size %d", e.ItemID, e.SizeID)
	}
	return fmt.Sprintf("Insufficient stock for item %d size %d: requested %d, available %d",
		e.ItemID, e.SizeID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrValidation }
