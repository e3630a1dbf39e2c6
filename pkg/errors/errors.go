package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents sync error codes
type ErrorCode string

const (
	ErrCodeInvalidConfig         ErrorCode = "INVALID_CONFIG"
	ErrCodeDirectoryUnavailable  ErrorCode = "DIRECTORY_UNAVAILABLE"
	ErrCodeDirectorySearchFailed ErrorCode = "DIRECTORY_SEARCH_FAILED"
	ErrCodePlatformRequestFailed ErrorCode = "PLATFORM_REQUEST_FAILED"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with application error
func WrapError(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

func NewInvalidConfigError(message string) *AppError {
	return NewAppError(ErrCodeInvalidConfig, message)
}

func NewDirectoryUnavailableError(err error, uri string) *AppError {
	return WrapError(err, ErrCodeDirectoryUnavailable, "could not bind to directory").
		WithContext("server_uri", uri)
}

func NewPlatformRequestError(err error, operation string) *AppError {
	return WrapError(err, ErrCodePlatformRequestFailed, fmt.Sprintf("%s failed", operation))
}

// IsAppError checks if error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// GetAppError extracts AppError from error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return nil
}
