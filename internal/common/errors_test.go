package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserErrorFormatting(t *testing.T) {
	err := NewUserError("could not open database at /tmp/apflow.db", errors.New("disk I/O error"))
	assert.Equal(t, "could not open database at /tmp/apflow.db: disk I/O error", err.Error())

	bare := NewUserError("database migration failed", nil)
	assert.Equal(t, "database migration failed", bare.Error())
}

func TestUserErrorUnwrapsCause(t *testing.T) {
	err := NewUserError("reference data unavailable", ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))

	var userErr *UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, "reference data unavailable", userErr.UserMessage)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrDispatchFailed))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("timeout"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("bad input"), Retryable: false}))
	assert.False(t, IsRetryable(ErrNotFound))
}
