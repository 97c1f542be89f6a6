package services

import (
	"context"
	"testing"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocationRepo struct {
	locations map[int64]*models.Location
	nextID    int64
}

func (r *fakeLocationRepo) CreateLocation(_ context.Context, _ repositories.SQLExecutor, l *models.Location) error {
	r.nextID++
	l.ID = r.nextID
	cp := *l
	r.locations[l.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) GetLocationByID(_ context.Context, id int64) (*models.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLocationRepo) GetLocations(context.Context) ([]models.Location, error) {
	out := []models.Location{}
	for _, l := range r.locations {
		out = append(out, *l)
	}
	return out, nil
}

func (r *fakeLocationRepo) UpdateLocation(_ context.Context, _ repositories.SQLExecutor, l *models.Location) error {
	if _, ok := r.locations[l.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *l
	r.locations[l.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) DeleteLocation(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.locations[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

func TestLocationLifecycle(t *testing.T) {
	repo := &fakeLocationRepo{locations: map[int64]*models.Location{}}
	svc := NewLocationService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateLocation(ctx, CreateLocationRequest{Name: " HQ ", Address: " 1 Main St "})
	require.NoError(t, err)
	assert.Equal(t, "HQ", created.Name)
	assert.Equal(t, "1 Main St", created.Address)

	updated, err := svc.UpdateLocation(ctx, created.ID, UpdateLocationRequest{Address: strPtr("2 Side St")})
	require.NoError(t, err)
	assert.Equal(t, "HQ", updated.Name)
	assert.Equal(t, "2 Side St", updated.Address)

	_, err = svc.UpdateLocation(ctx, created.ID, UpdateLocationRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)

	require.NoError(t, svc.DeleteLocation(ctx, created.ID))
	_, err = svc.GetLocationByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.ErrorIs(t, svc.DeleteLocation(ctx, created.ID), ErrNotFound)
}

func TestCreateLocationValidation(t *testing.T) {
	svc := NewLocationService(&fakeLocationRepo{locations: map[int64]*models.Location{}}, nil)

	_, err := svc.CreateLocation(context.Background(), CreateLocationRequest{Name: " ", Address: ""})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"name": "is required", "address": "is required"}, verr.Details)
}
