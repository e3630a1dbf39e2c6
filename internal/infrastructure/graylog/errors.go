package graylog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"graylogsync/pkg/utils"
)

// maxMessageLength bounds the error body kept in an APIError.
const maxMessageLength = 512

// APIError represents a non-2xx response from the Graylog REST API.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	Method string
	Path   string

	// Message is the `message` field of Graylog's error body, or the raw
	// body when it is not JSON.
	Message string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("graylog: %s %s: HTTP %d", err.Method, err.Path, err.StatusCode)
	}
	return fmt.Sprintf("graylog: %s %s: HTTP %d: %s", err.Method, err.Path, err.StatusCode, err.Message)
}

// IsNotFound reports whether err is a Graylog 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403, usually a bad token.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) &&
		(apiError.StatusCode == http.StatusUnauthorized || apiError.StatusCode == http.StatusForbidden)
}

func parseAPIError(method, path string, statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode, Method: method, Path: path}
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiError.Message = parsed.Message
	} else {
		apiError.Message = utils.SanitizeString(string(body))
	}
	apiError.Message = utils.TruncateString(apiError.Message, maxMessageLength)
	return apiError
}
