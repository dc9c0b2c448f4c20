package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the storefront client
var (
	// Transport errors (no response from the backend)
	ErrTransport = errors.New("transport failure")

	// Backend response classes
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")

	// Client-side gate errors, raised before any network call
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAdmin         = errors.New("admin role required")
	ErrInvalidQuantity  = errors.New("invalid quantity")

	// Session errors
	ErrNoSession       = errors.New("no session")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidState    = errors.New("invalid state parameter")
	ErrRefreshFailed   = errors.New("token refresh failed")
	ErrNoRefreshToken  = errors.New("no refresh token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrProviderMissing = errors.New("identity provider not configured")
	ErrCorruptSession  = errors.New("stored session unreadable")
)

// HTTPError is returned by the gateway clients for any non-2xx response.
// Message carries the backend-provided text verbatim.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the sentinel for its class so callers can
// use errors.Is(err, ErrForbidden) without inspecting codes.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrServer
	case e.StatusCode >= 400:
		return ErrValidation
	}
	return nil
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not come from a response.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single import
func New(text string) error {
	return errors.New(text)
}
