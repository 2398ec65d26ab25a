package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var errIdentifierRequired = errors.New("email or username is required")

// Validate checks the signup payload. Address is optional but must not be
// blank when present.
func (r NewUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Address, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}

// Validate checks the login payload shape. It says nothing about whether the
// account exists.
func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, is.Email),
		validation.Field(&in.Username, validation.By(func(any) error {
			if strings.TrimSpace(in.Email) == "" && strings.TrimSpace(in.Username) == "" {
				return errIdentifierRequired
			}
			return nil
		})),
		validation.Field(&in.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}
