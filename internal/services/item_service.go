package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"merch_store_backend/internal/cache"
	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"
	"merch_store_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	itemListCacheKey = "items:all"
)

// --- Data Transfer Objects (DTOs) ---

type CreateItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	ItemTypeID  int64            `json:"itemTypeId" binding:"required,gt=0"`
	ImageURL    string           `json:"imageUrl" binding:"omitempty,url"`
}

// UpdateItemRequest is a patch: nil fields keep their current value.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ItemTypeID  *int64           `json:"itemTypeId" binding:"omitempty,gt=0"`
	ImageURL    *string          `json:"imageUrl" binding:"omitempty,url"`
}

// --- ItemService Interface ---
type ItemService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*models.Item, error)
	GetItems(ctx context.Context, filters models.ItemFilters) ([]models.Item, error)
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

type itemService struct {
	itemRepo         repositories.ItemRepository
	itemTypeRepo     repositories.ItemTypeRepository
	availabilityRepo repositories.ItemAvailabilityRepository
	cache            cache.Cache
	cacheTTL         time.Duration
	db               *sql.DB
}

// NewItemService creates a new instance of ItemService.
func NewItemService(
	ir repositories.ItemRepository,
	itr repositories.ItemTypeRepository,
	ar repositories.ItemAvailabilityRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	db *sql.DB,
) ItemService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &itemService{
		itemRepo:         ir,
		itemTypeRepo:     itr,
		availabilityRepo: ar,
		cache:            c,
		cacheTTL:         cacheTTL,
		db:               db,
	}
}

func validatePrice(price decimal.Decimal) error {
	if !price.GreaterThan(decimal.Zero) {
		return validationError("Validation failed", map[string]string{"price": "must be greater than 0"})
	}
	return nil
}

func (s *itemService) ensureItemType(ctx context.Context, itemTypeID int64) error {
	if _, err := s.itemTypeRepo.GetItemTypeByID(ctx, itemTypeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReferencedItemTypeAbsent
		}
		return fmt.Errorf("failed to check item type %d: %w", itemTypeID, err)
	}
	return nil
}

func (s *itemService) CreateItem(ctx context.Context, req CreateItemRequest) (*models.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("Validation failed", map[string]string{"name": "is required"})
	}
	if req.Price == nil {
		return nil, validationError("Validation failed", map[string]string{"price": "is required"})
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}
	if err := s.ensureItemType(ctx, req.ItemTypeID); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:        name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		ItemTypeID:  req.ItemTypeID,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if err := s.itemRepo.CreateItem(ctx, s.db, item); err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrReferencedItemTypeAbsent
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.invalidate(ctx, item.ID)
	return item, nil
}

func (s *itemService) GetItems(ctx context.Context, filters models.ItemFilters) ([]models.Item, error) {
	cacheable := filters.ItemTypeID == nil
	if cacheable {
		var cached []models.Item
		if found, err := s.cache.Get(ctx, itemListCacheKey, &cached); err != nil {
			utils.LogError(err, "GetItems: cache read failed")
		} else if found {
			return cached, nil
		}
	}

	items, err := s.itemRepo.GetItems(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, itemListCacheKey, items, s.cacheTTL); err != nil {
			utils.LogError(err, "GetItems: cache write failed")
		}
	}
	return items, nil
}

func itemCacheKey(id int64) string {
	return "items:" + utils.Int64ToStr(id)
}

func (s *itemService) getItemRow(ctx context.Context, id int64) (*models.Item, error) {
	key := itemCacheKey(id)
	var cached models.Item
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		utils.LogError(err, "GetItemByID: cache read failed")
	} else if found {
		utils.LogDebug("GetItemByID: cache hit", map[string]interface{}{"item_id": id})
		return &cached, nil
	}

	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID from repository: %w", err)
	}

	if err := s.cache.Set(ctx, key, item, s.cacheTTL); err != nil {
		utils.LogError(err, "GetItemByID: cache write failed")
	}
	return item, nil
}

// GetItemByID returns the item with its availability rows. Stock is always read live.
func (s *itemService) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.getItemRow(ctx, id)
	if err != nil {
		return nil, err
	}

	availability, err := s.availabilityRepo.GetAvailabilitiesByItemID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get availability of item %d: %w", id, err)
	}
	item.Availability = availability

	itemType, err := s.itemTypeRepo.GetItemTypeByID(ctx, item.ItemTypeID)
	switch {
	case err == nil:
		item.ItemType = itemType
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to get item type of item %d: %w", id, err)
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*models.Item, error) {
	if req.Name == nil && req.Description == nil && req.Price == nil && req.ItemTypeID == nil && req.ImageURL == nil {
		return nil, ErrNoChanges
	}

	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch item for update: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("Validation failed", map[string]string{"name": "must not be empty"})
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		item.Price = req.Price.Round(2)
	}
	if req.ItemTypeID != nil && *req.ItemTypeID != item.ItemTypeID {
		if err := s.ensureItemType(ctx, *req.ItemTypeID); err != nil {
			return nil, err
		}
		item.ItemTypeID = *req.ItemTypeID
	}
	if req.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*req.ImageURL)
	}

	if err := s.itemRepo.UpdateItem(ctx, s.db, item); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrItemNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrReferencedItemTypeAbsent
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.invalidate(ctx, id)
	return item, nil
}

func (s *itemService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.itemRepo.DeleteItem(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *itemService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, itemListCacheKey, itemCacheKey(id)); err != nil {
		utils.LogError(err, "item cache invalidation failed")
	}
}
