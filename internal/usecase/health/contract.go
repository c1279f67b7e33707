package health

import "context"

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc is an ad-hoc component check (e.g. the default target-field file is readable).
type CheckFunc func(ctx context.Context) error
