package domain

import "errors"

var (
	// ErrValidation signals a field attribute that failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrLoad signals a target-field file that could not be read or decoded.
	ErrLoad = errors.New("load target fields")
	// ErrEmptyCandidateSet signals a match request without candidates.
	ErrEmptyCandidateSet = errors.New("target fields is empty; nothing to match against")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
