package common

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrForbidden          = errors.New("forbidden access")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User-facing messages. The duplicate email and credentials texts are asserted by tests.
const (
	MsgPasswordMismatch   = "Password entries do not match. Please re-enter your details and make sure the password and password confirmation fields match."
	MsgDuplicateEmail     = "The email you entered already exists. Are you sure you are not already registered? If not, please use a different email."
	MsgInvalidCredentials = "Please check your email and password are correct."
	MsgMissingFields      = "Please fill in every field."
	MsgWrongPassword      = "Your current password is not correct."
)

// ValidationError carries a message that is safe to show on the originating form.
type ValidationError struct {
	Message string
}

func (v *ValidationError) Error() string {
	return v.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

var ErrDuplicateEmail = NewValidationError(MsgDuplicateEmail)

// AsValidation extracts the form message if err is a ValidationError.
func AsValidation(err error) (string, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message, true
	}
	return "", false
}

// StatusFromError maps domain errors to HTTP status codes.
func StatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if _, ok := AsValidation(err); ok {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
