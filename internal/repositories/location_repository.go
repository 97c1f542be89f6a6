package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"merch_store_backend/internal/models"
)

type LocationRepository interface {
	CreateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) error
	GetLocationByID(ctx context.Context, id int64) (*models.Location, error)
	GetLocations(ctx context.Context) ([]models.Location, error)
	UpdateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) error
	DeleteLocation(ctx context.Context, executor SQLExecutor, id int64) error
}

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) CreateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) error {
	now := time.Now()
	location.CreatedAt = now
	location.UpdatedAt = now

	err := executor.QueryRowContext(ctx,
		`INSERT INTO locations (name, address, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		location.Name, location.Address, location.CreatedAt, location.UpdatedAt,
	).Scan(&location.ID)
	if err != nil {
		return wrapDBError("creating location", err)
	}
	return nil
}

func (r *locationRepository) GetLocationByID(ctx context.Context, id int64) (*models.Location, error) {
	l := &models.Location{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, address, created_at, updated_at FROM locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("getting location by ID %d", id), err)
	}
	return l, nil
}

func (r *locationRepository) GetLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, address, created_at, updated_at FROM locations ORDER BY id`)
	if err != nil {
		return nil, wrapDBError("querying locations", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, wrapDBError("scanning location", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterating locations", err)
	}
	return locations, nil
}

func (r *locationRepository) UpdateLocation(ctx context.Context, executor SQLExecutor, location *models.Location) error {
	location.UpdatedAt = time.Now()
	res, err := executor.ExecContext(ctx,
		`UPDATE locations SET name = $1, address = $2, updated_at = $3 WHERE id = $4`,
		location.Name, location.Address, location.UpdatedAt, location.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating location ID %d", location.ID), err)
	}
	return expectAffected("updating location", res)
}

func (r *locationRepository) DeleteLocation(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting location ID %d", id), err)
	}
	return expectAffected("deleting location", res)
}
