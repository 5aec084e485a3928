package models

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateCredential  = errors.New("username or email already exists")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotLoggedIn          = errors.New("not logged in")
)

// ValidationError reports form-like input that is missing or malformed.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "invalid input"
	}
	if len(e.Fields) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
