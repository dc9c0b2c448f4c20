package views

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

const (
	MsgQuantityBelowOne = "Quantity cannot be less than 1"
	MsgSessionExpired   = "Your session has expired, please log in again"
	MsgNoPermission     = "You do not have permission to do that"
	MsgUnreachable      = "Unable to reach the server, please try again"
	MsgLoginRequired    = "Please log in to continue"
)

// InputError is a validation failure detected before any request is sent.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return errors.ErrValidation
}

// UserMessage converts err into the text shown to the user. Backend
// validation messages are shown verbatim; server failures and anything
// unrecognised fall back to fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}

	switch {
	case errors.Is(err, errors.ErrInvalidQuantity):
		return MsgQuantityBelowOne
	case errors.Is(err, errors.ErrNotAuthenticated):
		return MsgLoginRequired
	case errors.Is(err, errors.ErrTransport):
		return MsgUnreachable
	case errors.Is(err, errors.ErrUnauthorized):
		return MsgSessionExpired
	case errors.Is(err, errors.ErrForbidden), errors.Is(err, errors.ErrNotAdmin):
		return MsgNoPermission
	}

	var httpErr *errors.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" &&
		httpErr.StatusCode >= http.StatusBadRequest && httpErr.StatusCode < http.StatusInternalServerError {
		return httpErr.Message
	}
	return fallback
}
