package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"
)

type CreateAvailabilityRequest struct {
	ItemID          int64 `json:"itemId" binding:"required,gt=0"`
	SizeID          int64 `json:"sizeId" binding:"required,gt=0"`
	QuantityInStock *int  `json:"quantityInStock" binding:"required,gte=0"`
}

// UpdateAvailabilityRequest is a patch over an availability row.
type UpdateAvailabilityRequest struct {
	ItemID          *int64 `json:"itemId" binding:"omitempty,gt=0"`
	SizeID          *int64 `json:"sizeId" binding:"omitempty,gt=0"`
	QuantityInStock *int   `json:"quantityInStock" binding:"omitempty,gte=0"`
}

type SetStockRequest struct {
	QuantityInStock *int `json:"quantityInStock" binding:"required,gte=0"`
}

// InventoryService is the direct admin path over stock rows. Writes here
// overwrite quantities and are last-write-wins against each other and against orders.
type InventoryService interface {
	GetAvailabilities(ctx context.Context) ([]models.ItemAvailability, error)
	GetAvailabilityByID(ctx context.Context, id int64) (*models.ItemAvailability, error)
	GetAvailabilitiesByItemID(ctx context.Context, itemID int64) ([]models.ItemAvailability, error)
	CreateAvailability(ctx context.Context, req CreateAvailabilityRequest) (*models.ItemAvailability, error)
	UpdateAvailability(ctx context.Context, id int64, req UpdateAvailabilityRequest) (*models.ItemAvailability, error)
	UpsertAvailability(ctx context.Context, req CreateAvailabilityRequest) (*models.ItemAvailability, error)
	SetStock(ctx context.Context, itemID, sizeID int64, req SetStockRequest) (*models.ItemAvailability, error)
	DeleteAvailability(ctx context.Context, id int64) error
}

type inventoryService struct {
	availabilityRepo repositories.ItemAvailabilityRepository
	itemRepo         repositories.ItemRepository
	sizeRepo         repositories.SizeRepository
	db               *sql.DB
}

func NewInventoryService(
	ar repositories.ItemAvailabilityRepository,
	ir repositories.ItemRepository,
	sr repositories.SizeRepository,
	db *sql.DB,
) InventoryService {
	return &inventoryService{availabilityRepo: ar, itemRepo: ir, sizeRepo: sr, db: db}
}

func nonNegativeQuantity(q int) error {
	if q < 0 {
		return validationError("Validation failed", map[string]string{"quantityInStock": "must be greater than or equal to 0"})
	}
	return nil
}

// ensureItemAndSize reports a missing reference as a validation error.
func (s *inventoryService) ensureItemAndSize(ctx context.Context, itemID, sizeID int64) error {
	if _, err := s.itemRepo.GetItemByID(ctx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReferencedItemAbsent
		}
		return fmt.Errorf("failed to check item %d: %w", itemID, err)
	}
	if _, err := s.sizeRepo.GetSizeByID(ctx, sizeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReferencedSizeAbsent
		}
		return fmt.Errorf("failed to check size %d: %w", sizeID, err)
	}
	return nil
}

func mapAvailabilityWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrAvailabilityNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrAvailabilityExists
	case errors.Is(err, repositories.ErrForeignKey):
		return validationError("Referenced item or size does not exist", nil)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (s *inventoryService) GetAvailabilities(ctx context.Context) ([]models.ItemAvailability, error) {
	rows, err := s.availabilityRepo.GetAvailabilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get item availability: %w", err)
	}
	return rows, nil
}

func (s *inventoryService) GetAvailabilityByID(ctx context.Context, id int64) (*models.ItemAvailability, error) {
	a, err := s.availabilityRepo.GetAvailabilityByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, fmt.Errorf("failed to get item availability by ID: %w", err)
	}
	return a, nil
}

func (s *inventoryService) GetAvailabilitiesByItemID(ctx context.Context, itemID int64) ([]models.ItemAvailability, error) {
	if _, err := s.itemRepo.GetItemByID(ctx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to check item %d: %w", itemID, err)
	}
	rows, err := s.availabilityRepo.GetAvailabilitiesByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availability of item %d: %w", itemID, err)
	}
	return rows, nil
}

func (s *inventoryService) CreateAvailability(ctx context.Context, req CreateAvailabilityRequest) (*models.ItemAvailability, error) {
	if req.QuantityInStock == nil {
		return nil, validationError("Validation failed", map[string]string{"quantityInStock": "is required"})
	}
	if err := nonNegativeQuantity(*req.QuantityInStock); err != nil {
		return nil, err
	}
	if err := s.ensureItemAndSize(ctx, req.ItemID, req.SizeID); err != nil {
		return nil, err
	}

	a := &models.ItemAvailability{ItemID: req.ItemID, SizeID: req.SizeID, QuantityInStock: *req.QuantityInStock}
	if err := s.availabilityRepo.CreateAvailability(ctx, s.db, a); err != nil {
		return nil, mapAvailabilityWriteError("create item availability", err)
	}
	return s.GetAvailabilityByID(ctx, a.ID)
}

func (s *inventoryService) UpdateAvailability(ctx context.Context, id int64, req UpdateAvailabilityRequest) (*models.ItemAvailability, error) {
	if req.ItemID == nil && req.SizeID == nil && req.QuantityInStock == nil {
		return nil, ErrNoChanges
	}

	a, err := s.GetAvailabilityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ItemID != nil {
		if *req.ItemID <= 0 {
			return nil, validationError("Validation failed", map[string]string{"itemId": "must be greater than 0"})
		}
		a.ItemID = *req.ItemID
	}
	if req.SizeID != nil {
		if *req.SizeID <= 0 {
			return nil, validationError("Validation failed", map[string]string{"sizeId": "must be greater than 0"})
		}
		a.SizeID = *req.SizeID
	}
	if req.QuantityInStock != nil {
		if err := nonNegativeQuantity(*req.QuantityInStock); err != nil {
			return nil, err
		}
		a.QuantityInStock = *req.QuantityInStock
	}
	if req.ItemID != nil || req.SizeID != nil {
		if err := s.ensureItemAndSize(ctx, a.ItemID, a.SizeID); err != nil {
			return nil, err
		}
	}

	if err := s.availabilityRepo.UpdateAvailability(ctx, s.db, a); err != nil {
		return nil, mapAvailabilityWriteError("update item availability", err)
	}
	return s.GetAvailabilityByID(ctx, id)
}

// UpsertAvailability sets the stock of an (item, size) pair, creating the row if needed.
func (s *inventoryService) UpsertAvailability(ctx context.Context, req CreateAvailabilityRequest) (*models.ItemAvailability, error) {
	if req.QuantityInStock == nil {
		return nil, validationError("Validation failed", map[string]string{"quantityInStock": "is required"})
	}
	if err := nonNegativeQuantity(*req.QuantityInStock); err != nil {
		return nil, err
	}
	if err := s.ensureItemAndSize(ctx, req.ItemID, req.SizeID); err != nil {
		return nil, err
	}

	a := &models.ItemAvailability{ItemID: req.ItemID, SizeID: req.SizeID, QuantityInStock: *req.QuantityInStock}
	if err := s.availabilityRepo.UpsertAvailability(ctx, s.db, a); err != nil {
		return nil, mapAvailabilityWriteError("upsert item availability", err)
	}
	return s.GetAvailabilityByID(ctx, a.ID)
}

// SetStock overwrites the quantity; calling it twice with the same value is a no-op the second time.
func (s *inventoryService) SetStock(ctx context.Context, itemID, sizeID int64, req SetStockRequest) (*models.ItemAvailability, error) {
	if req.QuantityInStock == nil {
		return nil, validationError("Validation failed", map[string]string{"quantityInStock": "is required"})
	}
	if err := nonNegativeQuantity(*req.QuantityInStock); err != nil {
		return nil, err
	}

	a, err := s.availabilityRepo.SetStock(ctx, s.db, itemID, sizeID, *req.QuantityInStock)
	if err != nil {
		return nil, mapAvailabilityWriteError("set stock", err)
	}
	return a, nil
}

func (s *inventoryService) DeleteAvailability(ctx context.Context, id int64) error {
	if err := s.availabilityRepo.DeleteAvailability(ctx, s.db, id); err != nil {
		return mapAvailabilityWriteError("delete item availability", err)
	}
	return nil
}
