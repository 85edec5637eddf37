package usecase

import (
	"errors"
	"fmt"

	"watchmate/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrNotFound           = errors.New("not found")
)

// NonFieldErrors is the key for validation errors not tied to one input field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// parseID maps a malformed identifier to not found, the same answer an
// unknown one gets.
func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q %w", kind, raw, ErrNotFound)
	}
	return id, nil
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s %w", kind, id.String(), ErrNotFound)
}
