package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrCodeInvalidConfig, "test error")
	assert.Equal(t, "INVALID_CONFIG: test error", err.Error())
}

func TestAppError_WithCause(t *testing.T) {
	originalErr := errors.New("original error")
	err := WrapError(originalErr, ErrCodeInternal, "wrapped error")

	assert.Equal(t, originalErr, err.Cause)
	assert.Contains(t, err.Error(), "original error")
	assert.True(t, errors.Is(err, originalErr))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppError(ErrCodeInvalidConfig, "test error")
	err.WithContext("field", "value").WithContext("count", 42)

	assert.Equal(t, "value", err.Context["field"])
	assert.Equal(t, 42, err.Context["count"])
}

func TestNewDirectoryUnavailableError(t *testing.T) {
	cause := errors.New("invalid credentials")
	err := NewDirectoryUnavailableError(cause, "ldap://ldap.example.org")

	assert.Equal(t, ErrCodeDirectoryUnavailable, err.Code)
	assert.Equal(t, "ldap://ldap.example.org", err.Context["server_uri"])
	assert.ErrorIs(t, err, cause)
}

func TestIsAppError(t *testing.T) {
	appErr := NewAppError(ErrCodeInvalidConfig, "test")
	regularErr := errors.New("regular error")

	assert.True(t, IsAppError(appErr))
	assert.False(t, IsAppError(regularErr))
}

func TestGetAppError(t *testing.T) {
	appErr := NewAppError(ErrCodeInvalidConfig, "test")
	assert.Same(t, appErr, GetAppError(appErr))

	wrapped := fmt.Errorf("loading: %w", NewPlatformRequestError(errors.New("503"), "list users"))
	got := GetAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodePlatformRequestFailed, got.Code)
	assert.True(t, HasCode(wrapped, ErrCodePlatformRequestFailed))
	assert.False(t, HasCode(wrapped, ErrCodeInvalidConfig))

	assert.Nil(t, GetAppError(errors.New("regular error")))
	assert.Nil(t, GetAppError(nil))
}
