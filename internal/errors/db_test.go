package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	assert.Equal(t, ErrCodeTimeout, GetCode(MapDBError(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeCanceled, GetCode(MapDBError(context.Canceled)))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: `Key (email)=(ana@example.com) already exists.`,
	}

	err := MapDBError(pgErr)

	require.True(t, IsConflict(err))
	assert.Equal(t, "email", GetField(err))
}

func TestMapDBError_UniqueViolation_ConstraintFallback(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "quotes_quote_number_key",
	}

	err := MapDBError(pgErr)

	require.True(t, IsConflict(err))
	// multi-part constraint names are ambiguous, so no field is inferred
	assert.Empty(t, GetField(err))
}

func TestMapDBError_ForeignKeyViolation_ParentInUse(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (id)=(7) is still referenced from table "projects".`,
	}

	err := MapDBError(pgErr)

	require.True(t, IsForeignKey(err))
	assert.Contains(t, err.Error(), "a project")
}

func TestMapDBError_ForeignKeyViolation_MissingParent(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (client_id)=(99) is not present in table "clients".`,
	}

	err := MapDBError(pgErr)

	require.True(t, IsForeignKey(err))
	assert.Contains(t, err.Error(), "a client")
}

func TestMapDBError_CheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       pgerrcode.CheckViolation,
		ColumnName: "progress",
	}

	err := MapDBError(pgErr)

	require.True(t, IsValidation(err))
	assert.Equal(t, "progress", GetField(err))
}

func TestMapDBError_PassthroughUnknown(t *testing.T) {
	sentinel := errors.New("boom")
	assert.Same(t, sentinel, MapDBError(sentinel))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("inner")
	err := Wrap(cause, ErrCodeInternal, "outer")
	assert.True(t, errors.Is(err, cause))
}
