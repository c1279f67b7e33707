package fieldmatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/fieldmatch/internal/transport/openai"
	"github.com/kailas-cloud/fieldmatch/internal/usecase/matching"
)

// Matcher ranks candidate fields by semantic similarity to a query field.
// It is safe for concurrent use when its embedder is.
type Matcher struct {
	svc    *matching.Service
	base   Embedder
	logger *zap.Logger
}

// New creates a Matcher. One of WithEmbedder or WithOpenAI is required.
// No network call is made until the first Match.
func New(opts ...Option) (*Matcher, error) {
	cfg := &matcherConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := baseEmbedder(cfg, logger)
	if err != nil {
		return nil, err
	}

	var embedder domain.Embedder = base
	if cfg.cacheSize > 0 {
		embedder = embcache.New(base, embcache.Config{Capacity: cfg.cacheSize, Logger: logger})
	}

	queries := withInstruction(embedder, cfg.queryInstruction)
	candidates := withInstruction(embedder, cfg.documentInstruction)

	return &Matcher{
		svc:    matching.New(queries, candidates),
		base:   base,
		logger: logger,
	}, nil
}

func baseEmbedder(cfg *matcherConfig, logger *zap.Logger) (Embedder, error) {
	if cfg.embedder != nil {
		return cfg.embedder, nil
	}
	if cfg.openai == nil {
		return nil, ErrNoEmbedder
	}

	defaults := domain.DefaultEmbedding()
	oc := *cfg.openai
	if oc.BaseURL == "" {
		oc.BaseURL = defaults.BaseURL
	}
	if oc.Model == "" {
		oc.Model = defaults.Model
	}
	if oc.Dimensions < 0 {
		return nil, fmt.Errorf("fieldmatch: dimensions must be >= 0, got %d", oc.Dimensions)
	}

	return openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     oc.APIKey,
		BaseURL:    oc.BaseURL,
		Model:      oc.Model,
		Dimensions: oc.Dimensions,
		Provider:   defaults.Provider,
		Logger:     logger,
	}), nil
}

func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}

// Match returns the topK candidates closest to query, best first.
// topK is clamped to [1, len(candidates)]. Equal scores keep candidate order.
// An empty candidate list returns ErrEmptyCandidateSet.
func (m *Matcher) Match(ctx context.Context, query Field, candidates []Field, topK int) ([]Result, error) {
	results, err := m.svc.Match(ctx, query, candidates, topK)
	if err != nil {
		return nil, fmt.Errorf("fieldmatch: %w", err)
	}
	m.logger.Debug("Matched field",
		zap.String("handle", query.Handle()),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// MatchFile loads candidates from path and matches query against them.
func (m *Matcher) MatchFile(ctx context.Context, query Field, path string, topK int) ([]Result, error) {
	candidates, err := LoadTargets(path)
	if err != nil {
		return nil, fmt.Errorf("fieldmatch: %w", err)
	}
	return m.Match(ctx, query, candidates, topK)
}

// Ping checks that the embedding provider is reachable, when it supports health checks.
func (m *Matcher) Ping(ctx context.Context) error {
	if hc, ok := m.base.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("fieldmatch: ping: %w", err)
		}
	}
	return nil
}
