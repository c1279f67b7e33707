package fieldmatch

import (
	"errors"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation             = domain.ErrValidation
	ErrLoad                   = domain.ErrLoad
	ErrEmptyCandidateSet      = domain.ErrEmptyCandidateSet
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
)

// ErrNoEmbedder is returned by New when neither WithEmbedder nor WithOpenAI was given.
var ErrNoEmbedder = errors.New("fieldmatch: embedder not configured (use WithEmbedder or WithOpenAI)")
