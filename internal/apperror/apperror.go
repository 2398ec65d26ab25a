package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrDuplicateUser      = errors.New("duplicate user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Messages shown to API callers. They are part of the HTTP contract.
const (
	MsgDuplicateUser      = "User with given username already exists"
	MsgInvalidCredentials = "Invalid username or password."
	MsgUnauthorized       = "valid authentication required"
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateUser reports that the requested username is already taken.
// HTTP handlers map this to 400 Bad Request.
func DuplicateUser() *AppError {
	return &AppError{
		Err:     ErrDuplicateUser,
		Message: MsgDuplicateUser,
		Field:   "username",
	}
}

// invalidCredentials is shared so every login failure is the same value.
var invalidCredentials = &AppError{
	Err:     ErrInvalidCredentials,
	Message: MsgInvalidCredentials,
}

// InvalidCredentials is returned for an unknown account, a missing
// credential record and a wrong password alike. Callers must not be able to
// tell these apart.
func InvalidCredentials() *AppError {
	return invalidCredentials
}

// Unauthorized returns an AppError for requests without a usable identity.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = MsgUnauthorized
	}
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
