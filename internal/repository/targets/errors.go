package targets

import (
	"fmt"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
)

// LoadError reports a target-field file that is missing, unreadable or malformed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load target fields: %v", e.Err)
	}
	return fmt.Sprintf("load target fields from %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the cause and domain.ErrLoad.
func (e *LoadError) Unwrap() []error { return []error{e.Err, domain.ErrLoad} }

// RecordError annotates a record-level validation failure with the record's position.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("target field [%d]: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
