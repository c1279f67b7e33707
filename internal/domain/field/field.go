package field

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
)

// Attribute names as they appear in target-field files.
const (
	AttrHandle      = "fieldHandle"
	AttrLabel       = "fieldLabel"
	AttrType        = "fieldType"
	AttrDescription = "fieldDescription"
)

// ValidationError names the attribute that failed validation.
type ValidationError struct {
	Attribute string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required and cannot be empty", e.Attribute)
}

// Unwrap lets errors.Is match domain.ErrValidation.
func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

// Field is an immutable value object describing one schema field.
type Field struct {
	handle      string
	label       string
	fieldType   string
	description string
}

// New validates and creates a Field.
// Handle, label and type must be non-empty after trimming; the trimmed values are stored.
// A whitespace-only description is treated as absent.
func New(handle, label, fieldType, description string) (Field, error) {
	h, err := requireNonEmpty(AttrHandle, handle)
	if err != nil {
		return Field{}, err
	}
	l, err := requireNonEmpty(AttrLabel, label)
	if err != nil {
		return Field{}, err
	}
	t, err := requireNonEmpty(AttrType, fieldType)
	if err != nil {
		return Field{}, err
	}
	return Field{
		handle:      h,
		label:       l,
		fieldType:   t,
		description: strings.TrimSpace(description),
	}, nil
}

func requireNonEmpty(attr, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Attribute: attr}
	}
	return v, nil
}

// IsZero reports whether f is the zero value, i.e. was not built by New.
func (f Field) IsZero() bool { return f == Field{} }

// Handle returns the programmatic identifier.
func (f Field) Handle() string { return f.handle }

// Label returns the human-readable name.
func (f Field) Label() string { return f.label }

// Type returns the declared data type.
func (f Field) Type() string { return f.fieldType }

// Description returns the description and whether one is present.
func (f Field) Description() (string, bool) {
	return f.description, f.description != ""
}
