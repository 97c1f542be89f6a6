package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"
)

type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type UpdateLocationRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

type LocationService interface {
	CreateLocation(ctx context.Context, req CreateLocationRequest) (*models.Location, error)
	GetLocations(ctx context.Context) ([]models.Location, error)
	GetLocationByID(ctx context.Context, id int64) (*models.Location, error)
	UpdateLocation(ctx context.Context, id int64, req UpdateLocationRequest) (*models.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

type locationService struct {
	locationRepo repositories.LocationRepository
	db           *sql.DB
}

func NewLocationService(lr repositories.LocationRepository, db *sql.DB) LocationService {
	return &locationService{locationRepo: lr, db: db}
}

func (s *locationService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*models.Location, error) {
	details := map[string]string{}
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	if name == "" {
		details["name"] = "is required"
	}
	if address == "" {
		details["address"] = "is required"
	}
	if len(details) > 0 {
		return nil, validationError("Validation failed", details)
	}

	location := &models.Location{Name: name, Address: address}
	if err := s.locationRepo.CreateLocation(ctx, s.db, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

func (s *locationService) GetLocations(ctx context.Context) ([]models.Location, error) {
	locations, err := s.locationRepo.GetLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}
	return locations, nil
}

func (s *locationService) GetLocationByID(ctx context.Context, id int64) (*models.Location, error) {
	location, err := s.locationRepo.GetLocationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location by ID from repository: %w", err)
	}
	return location, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, id int64, req UpdateLocationRequest) (*models.Location, error) {
	if req.Name == nil && req.Address == nil {
		return nil, ErrNoChanges
	}
	location, err := s.GetLocationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("Validation failed", map[string]string{"name": "must not be empty"})
		}
		location.Name = name
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			return nil, validationError("Validation failed", map[string]string{"address": "must not be empty"})
		}
		location.Address = address
	}
	if err := s.locationRepo.UpdateLocation(ctx, s.db, location); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return location, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, id int64) error {
	if err := s.locationRepo.DeleteLocation(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}
