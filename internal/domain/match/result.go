package match

import "github.com/kailas-cloud/fieldmatch/internal/domain/field"

// Result is a single ranked candidate.
type Result struct {
	field field.Field
	score float64
}

// NewResult creates a match result.
func NewResult(f field.Field, score float64) Result {
	return Result{field: f, score: score}
}

// Field returns the matched candidate.
func (r Result) Field() field.Field { return r.field }

// Score returns the cosine similarity between the query and the candidate.
func (r Result) Score() float64 { return r.score }
