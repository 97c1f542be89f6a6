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
)

// NameRequest is the body for entities whose only field is a name.
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

type ItemTypeSizeRequest struct {
	ItemTypeID int64 `json:"itemTypeId" binding:"required,gt=0"`
	SizeID     int64 `json:"sizeId" binding:"required,gt=0"`
}

func requireName(name string) (string, error) {
	if utils.IsEmpty(name) {
		return "", validationError("Validation failed", map[string]string{"name": "is required"})
	}
	return strings.TrimSpace(name), nil
}

// CatalogService manages item types, sizes and their associations.
type CatalogService interface {
	CreateItemType(ctx context.Context, req NameRequest) (*models.ItemType, error)
	GetItemTypes(ctx context.Context) ([]models.ItemType, error)
	GetItemTypeByID(ctx context.Context, id int64) (*models.ItemType, error)
	GetSizesForItemType(ctx context.Context, id int64) ([]models.Size, error)
	UpdateItemType(ctx context.Context, id int64, req NameRequest) (*models.ItemType, error)
	DeleteItemType(ctx context.Context, id int64) error

	CreateSize(ctx context.Context, req NameRequest) (*models.Size, error)
	GetSizes(ctx context.Context) ([]models.Size, error)
	GetSizeByID(ctx context.Context, id int64) (*models.Size, error)
	UpdateSize(ctx context.Context, id int64, req NameRequest) (*models.Size, error)
	DeleteSize(ctx context.Context, id int64) error

	GetItemTypeSizes(ctx context.Context) ([]models.ItemTypeSize, error)
	AddSizeToItemType(ctx context.Context, req ItemTypeSizeRequest) (*models.ItemTypeSize, error)
	RemoveSizeFromItemType(ctx context.Context, itemTypeID, sizeID int64) error
}

type catalogService struct {
	itemTypeRepo repositories.ItemTypeRepository
	sizeRepo     repositories.SizeRepository
	db           *sql.DB
}

func NewCatalogService(itr repositories.ItemTypeRepository, sr repositories.SizeRepository, db *sql.DB) CatalogService {
	return &catalogService{itemTypeRepo: itr, sizeRepo: sr, db: db}
}

// --- Item types ---

func (s *catalogService) CreateItemType(ctx context.Context, req NameRequest) (*models.ItemType, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	itemType := &models.ItemType{Name: name}
	if err := s.itemTypeRepo.CreateItemType(ctx, s.db, itemType); err != nil {
		return nil, fmt.Errorf("failed to create item type: %w", err)
	}
	return itemType, nil
}

func (s *catalogService) GetItemTypes(ctx context.Context) ([]models.ItemType, error) {
	itemTypes, err := s.itemTypeRepo.GetItemTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get item types: %w", err)
	}
	return itemTypes, nil
}

func (s *catalogService) getItemType(ctx context.Context, id int64) (*models.ItemType, error) {
	itemType, err := s.itemTypeRepo.GetItemTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemTypeNotFound
		}
		return nil, fmt.Errorf("failed to get item type by ID from repository: %w", err)
	}
	return itemType, nil
}

// GetItemTypeByID embeds the sizes associated with the type.
func (s *catalogService) GetItemTypeByID(ctx context.Context, id int64) (*models.ItemType, error) {
	itemType, err := s.getItemType(ctx, id)
	if err != nil {
		return nil, err
	}
	sizes, err := s.itemTypeRepo.GetSizesByItemTypeID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sizes of item type %d: %w", id, err)
	}
	itemType.Sizes = sizes
	return itemType, nil
}

func (s *catalogService) GetSizesForItemType(ctx context.Context, id int64) ([]models.Size, error) {
	if _, err := s.getItemType(ctx, id); err != nil {
		return nil, err
	}
	sizes, err := s.itemTypeRepo.GetSizesByItemTypeID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sizes of item type %d: %w", id, err)
	}
	return sizes, nil
}

func (s *catalogService) UpdateItemType(ctx context.Context, id int64, req NameRequest) (*models.ItemType, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	itemType, err := s.getItemType(ctx, id)
	if err != nil {
		return nil, err
	}
	itemType.Name = name
	if err := s.itemTypeRepo.UpdateItemType(ctx, s.db, itemType); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemTypeNotFound
		}
		return nil, fmt.Errorf("failed to update item type: %w", err)
	}
	return itemType, nil
}

func (s *catalogService) DeleteItemType(ctx context.Context, id int64) error {
	if err := s.itemTypeRepo.DeleteItemType(ctx, s.db, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrItemTypeNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrItemTypeInUse
		}
		return fmt.Errorf("failed to delete item type: %w", err)
	}
	return nil
}

// --- Sizes ---

func (s *catalogService) CreateSize(ctx context.Context, req NameRequest) (*models.Size, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	size := &models.Size{Name: name}
	if err := s.sizeRepo.CreateSize(ctx, s.db, size); err != nil {
		return nil, fmt.Errorf("failed to create size: %w", err)
	}
	return size, nil
}

func (s *catalogService) GetSizes(ctx context.Context) ([]models.Size, error) {
	sizes, err := s.sizeRepo.GetSizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sizes: %w", err)
	}
	return sizes, nil
}

func (s *catalogService) GetSizeByID(ctx context.Context, id int64) (*models.Size, error) {
	size, err := s.sizeRepo.GetSizeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSizeNotFound
		}
		return nil, fmt.Errorf("failed to get size by ID from repository: %w", err)
	}
	return size, nil
}

func (s *catalogService) UpdateSize(ctx context.Context, id int64, req NameRequest) (*models.Size, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	size, err := s.GetSizeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	size.Name = name
	if err := s.sizeRepo.UpdateSize(ctx, s.db, size); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSizeNotFound
		}
		return nil, fmt.Errorf("failed to update size: %w", err)
	}
	return size, nil
}

// DeleteSize also drops the size's availability rows and type pairings. Order lines keep the id.
func (s *catalogService) DeleteSize(ctx context.Context, id int64) error {
	if err := s.sizeRepo.DeleteSize(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSizeNotFound
		}
		return fmt.Errorf("failed to delete size: %w", err)
	}
	return nil
}

// --- Item type sizes ---

func (s *catalogService) GetItemTypeSizes(ctx context.Context) ([]models.ItemTypeSize, error) {
	pairs, err := s.itemTypeRepo.GetItemTypeSizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get item type sizes: %w", err)
	}
	return pairs, nil
}

func (s *catalogService) AddSizeToItemType(ctx context.Context, req ItemTypeSizeRequest) (*models.ItemTypeSize, error) {
	itemType, err := s.getItemType(ctx, req.ItemTypeID)
	if err != nil {
		return nil, err
	}
	size, err := s.GetSizeByID(ctx, req.SizeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.itemTypeRepo.ItemTypeSizeExists(ctx, req.ItemTypeID, req.SizeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check item type size: %w", err)
	}
	if exists {
		return nil, ErrItemTypeSizeExists
	}

	pair := &models.ItemTypeSize{
		ItemTypeID:   req.ItemTypeID,
		SizeID:       req.SizeID,
		ItemTypeName: itemType.Name,
		SizeName:     size.Name,
	}
	if err := s.itemTypeRepo.CreateItemTypeSize(ctx, s.db, pair); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrItemTypeSizeExists
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrItemTypeNotFound
		}
		return nil, fmt.Errorf("failed to create item type size: %w", err)
	}
	return pair, nil
}

func (s *catalogService) RemoveSizeFromItemType(ctx context.Context, itemTypeID, sizeID int64) error {
	if err := s.itemTypeRepo.DeleteItemTypeSize(ctx, s.db, itemTypeID, sizeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrItemTypeSizeNotFound
		}
		return fmt.Errorf("failed to delete item type size: %w", err)
	}
	return nil
}
