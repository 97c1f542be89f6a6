package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDecrementStockIsConditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemAvailabilityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("quantity_in_stock = quantity_in_stock - $1")).
		WithArgs(6, sqlmock.AnyArg(), int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DecrementStock(context.Background(), db, 1, 3, 6)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemAvailabilityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("AND quantity_in_stock >= $1")).
		WithArgs(3, sqlmock.AnyArg(), int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DecrementStock(context.Background(), db, 1, 3, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementStockMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemAvailabilityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("quantity_in_stock = quantity_in_stock + $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	restored, err := repo.IncrementStock(context.Background(), db, 9, 9, 2)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStockOverwrites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemAvailabilityRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SET quantity_in_stock = $1, updated_at = $2")).
		WithArgs(7, sqlmock.AnyArg(), int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "size_id", "quantity_in_stock", "created_at", "updated_at"}).
			AddRow(int64(4), int64(1), int64(3), 7, now, now))

	a, err := repo.SetStock(context.Background(), db, 1, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, a.QuantityInStock)
	assert.Equal(t, int64(4), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStockMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemAvailabilityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE item_availability")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "size_id", "quantity_in_stock", "created_at", "updated_at"}))

	_, err := repo.SetStock(context.Background(), db, 1, 99, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAvailabilityForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemAvailabilityRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "size_id", "quantity_in_stock", "created_at", "updated_at"}).
			AddRow(int64(4), int64(1), int64(3), 5, now, now))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	a, err := repo.GetAvailabilityForUpdate(context.Background(), tx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, a.QuantityInStock)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
