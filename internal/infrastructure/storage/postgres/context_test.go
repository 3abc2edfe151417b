package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"airsolutions/internal/core/apperror"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%ana%", ContainsPattern("  ana "))
	assert.Equal(t, `%50\%%`, ContainsPattern("50%"))
	assert.Equal(t, `%B01\_x%`, ContainsPattern("B01_x"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
}

func TestConstraintErrors(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "fiscal_vouchers_voucher_number_key"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil, "client", "1"))
	assert.True(t, apperror.IsNotFound(MapError(pgx.ErrNoRows, "client", "1")))

	err := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, "user", "ana")
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, "user already exists", appErr.Message)
	assert.Equal(t, "users_username_key", appErr.Details["constraint"])

	assert.True(t, apperror.IsConflict(MapError(&pgconn.PgError{Code: "23503"}, "client", "1")))

	other := errors.New("connection reset")
	assert.Same(t, other, MapError(other, "client", "1"))
}
