package admin

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"blog-admin/internal/domain/entity"
)

var (
	// ErrInvalidConfig is wrapped by every registration validation failure.
	ErrInvalidConfig = errors.New("invalid admin configuration")

	// ErrAlreadyRegistered is returned when a model name is registered twice.
	ErrAlreadyRegistered = errors.New("model already registered")

	// ErrModelNotFound indicates that no model is registered under the requested name.
	ErrModelNotFound = errors.New("model not found")

	// ErrObjectNotFound is returned by backends when a record does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidFilter indicates an unknown filter value in a change list request.
	ErrInvalidFilter = errors.New("invalid filter value")
)

// FieldErrors maps field names to messages. The empty key holds form-wide errors.
type FieldErrors map[string][]string

// Add appends msg to the errors of field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(fe[f], " ")))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Is makes FieldErrors match entity.ErrValidationFailed.
func (fe FieldErrors) Is(target error) bool {
	return target == entity.ErrValidationFailed
}

// AsFieldErrors extracts field errors from err. Domain validation errors are
// converted into a single-entry FieldErrors.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		return FieldErrors{ve.Field: {ve.Message}}, true
	}
	return nil, false
}
