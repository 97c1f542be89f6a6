package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique violation", &pq.Error{Code: "23505", Constraint: "users_email_key"}, ErrDuplicateKey},
		{"foreign key violation", &pq.Error{Code: "23503", Constraint: "fk_users_role"}, ErrForeignKey},
		{"other pq error", &pq.Error{Code: "42P01"}, ErrDatabaseError},
		{"driver error", errors.New("connection reset"), ErrDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapDBError("op", tt.err), tt.want)
		})
	}
}

func TestExpectAffected(t *testing.T) {
	assert.ErrorIs(t, expectAffected("op", sqlmock.NewResult(0, 0)), ErrNotFound)
	assert.NoError(t, expectAffected("op", sqlmock.NewResult(0, 1)))
	assert.ErrorIs(t, expectAffected("op", sqlmock.NewErrorResult(errors.New("boom"))), ErrDatabaseError)
}
