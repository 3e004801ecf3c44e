package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is the sentinel for a 401 response. Callers use it to
// force re-authentication: errors.Is(err, client.ErrUnauthorized).
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a structured error response from the keyfleet API.
type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("keyfleet: %d: %s", e.StatusCode, e.Detail)
}

// Is lets errors.Is match the unauthorized sentinel.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Message returns the server-provided detail verbatim, or a generic fallback
// when the server sent none.
func (e *APIError) Message() string {
	if strings.TrimSpace(e.Detail) != "" {
		return e.Detail
	}
	return "request failed"
}

// IsNotFound reports whether the error is a 404.
func IsNotFound(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// IsConflict reports whether the error is a 409 duplicate.
func IsConflict(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == http.StatusConflict
}

// IsUnauthorized reports whether the error is a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// parseAPIError decodes the {"detail": ...} error envelope; a body that is
// not JSON becomes the detail verbatim.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Detail == "" {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}
