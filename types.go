package fieldmatch

import (
	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
	"github.com/kailas-cloud/fieldmatch/internal/domain/match"
	"github.com/kailas-cloud/fieldmatch/internal/repository/targets"
	"github.com/kailas-cloud/fieldmatch/internal/usecase/matching"
)

// DefaultTopK is the number of results the CLI and HTTP API return by default.
const DefaultTopK = matching.DefaultTopK

// Field describes one schema field. Build it with NewField.
type Field = field.Field

// Result is a ranked candidate with its cosine similarity to the query.
type Result = match.Result

// ValidationError names the field attribute that failed validation.
type ValidationError = field.ValidationError

// LoadError reports a target-field file that could not be read or decoded.
type LoadError = targets.LoadError

// Embedder converts one text to a vector.
type Embedder = domain.Embedder

// BatchEmbedder converts many texts in one call. Optional.
type BatchEmbedder = domain.BatchEmbedder

// EmbeddingResult carries one vector and its token usage.
type EmbeddingResult = domain.EmbeddingResult

// BatchEmbeddingResult carries vectors in input order and aggregate token usage.
type BatchEmbeddingResult = domain.BatchEmbeddingResult

// NewField validates and creates a Field. Handle, label and type are required;
// surrounding whitespace is trimmed and a blank description counts as none.
func NewField(handle, label, fieldType, description string) (Field, error) {
	return field.New(handle, label, fieldType, description) //nolint:wrapcheck // ValidationError is the public contract
}

// Text returns the descriptive sentence a field is embedded as.
func Text(f Field) string {
	return field.Text(f)
}

// LoadTargets reads candidate fields from a JSON (or .yaml/.yml) file.
func LoadTargets(path string) ([]Field, error) {
	return targets.Load(path) //nolint:wrapcheck // LoadError already carries the path
}
