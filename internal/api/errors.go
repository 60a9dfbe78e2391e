package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// NetworkError wraps a transport-level failure (the request never produced a
// backend response).
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a backend response that signals failure, either through an
// HTTP error status or through `success: false`.
type StatusError struct {
	StatusCode int
	Message    string
	IsBanned   bool
	LimitType  string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	var networkError *NetworkError
	return errors.As(err, &networkError)
}

// IsBanned reports whether err carries the backend's banned signal.
func IsBanned(err error) bool {
	var statusError *StatusError
	return errors.As(err, &statusError) && statusError.IsBanned
}

// IsSessionExpired reports whether err is a 401 (expired/invalid session).
func IsSessionExpired(err error) bool {
	var statusError *StatusError
	return errors.As(err, &statusError) && statusError.StatusCode == http.StatusUnauthorized
}

// LimitType returns the quota kind ("chats" or "requests") carried by err,
// or an empty string.
func LimitType(err error) string {
	var statusError *StatusError
	if errors.As(err, &statusError) {
		return statusError.LimitType
	}
	return ""
}

// ErrorMessage returns the backend's error message carried by err, or an
// empty string.
func ErrorMessage(err error) string {
	var statusError *StatusError
	if errors.As(err, &statusError) {
		return statusError.Message
	}
	return ""
}
