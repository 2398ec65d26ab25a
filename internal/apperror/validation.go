package apperror

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// FromValidation converts an ozzo-validation result into a validation
// AppError. The first failing field (alphabetically) is reported in Field;
// the message lists every failure. A nil err yields nil.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	appErr := &AppError{Err: ErrValidation, Message: err.Error()}

	var fields validation.Errors
	if errors.As(err, &fields) && len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		appErr.Field = keys[0]
	}
	return appErr
}
