package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldmatch/internal/config"
	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/metrics"
	"github.com/kailas-cloud/fieldmatch/internal/repository/embcache"
	"github.com/kailas-cloud/fieldmatch/internal/repository/targets"
	openaiEmb "github.com/kailas-cloud/fieldmatch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/fieldmatch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/fieldmatch/internal/usecase/health"
	"github.com/kailas-cloud/fieldmatch/internal/usecase/matching"
)

// app is the composition root shared by the match and serve commands.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	queries   domain.Embedder
	documents domain.Embedder
	budget    *embeddinguc.BudgetTracker
	targets   *targets.Repo
	matcher   *matching.Service
	health    *healthuc.Service
}

// newApp builds the embedder chains, the matcher and the health checks from cfg.
// No provider call is made here.
func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	emb := cfg.Embedding

	// Single BudgetTracker shared by the query and document chains.
	var budget *embeddinguc.BudgetTracker
	if emb.Budget.DailyTokenLimit > 0 || emb.Budget.MonthlyTokenLimit > 0 {
		action, err := embeddinguc.ParseBudgetAction(emb.Budget.Action)
		if err != nil {
			return nil, fmt.Errorf("embedding budget: %w", err)
		}
		budget = embeddinguc.NewBudgetTracker(
			emb.Provider, emb.Budget.DailyTokenLimit, emb.Budget.MonthlyTokenLimit, action, logger,
		)
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	shared := buildEmbedder(emb, budgetChecker, logger)
	queries := withInstruction(shared, emb.QueryInstruction)
	documents := withInstruction(shared, emb.DocumentInstruction)

	logger.Debug("Embedders created",
		zap.String("provider", emb.Provider),
		zap.String("model", emb.Model),
		zap.Int("dimensions", emb.Dimensions),
		zap.Int("cache_size", emb.CacheSize),
	)

	repo := targets.NewRepo(config.ResolvePath(cfg.Matching.TargetsPath), logger)

	health := healthuc.New(
		newEmbeddingHealthChecker(shared),
		healthuc.WithCheck("targets", repo.HealthCheck),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		queries:   queries,
		documents: documents,
		budget:    budget,
		targets:   repo,
		matcher:   matching.New(queries, documents),
		health:    health,
	}, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// Instruction prefixes are applied on top, so the cache key includes the instruction.
func buildEmbedder(
	emb config.EmbeddingConfig, budget embeddinguc.BudgetChecker, logger *zap.Logger,
) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     emb.APIKey,
		BaseURL:    emb.BaseURL,
		Model:      emb.Model,
		Dimensions: emb.Dimensions,
		Provider:   emb.Provider,
		Logger:     logger,
	})

	cached := embcache.New(base, embcache.Config{
		Capacity:   emb.CacheSize,
		CacheTotal: metrics.EmbeddingCacheTotal,
		Entries:    metrics.EmbeddingCacheEntries,
		Logger:     logger,
	})

	opts := []embeddinguc.Option{embeddinguc.WithMaxBatchSize(emb.MaxBatchSize)}
	if budget != nil {
		opts = append(opts, embeddinguc.WithBudget(budget))
	}
	return embeddinguc.NewInstrumentedEmbedder(cached, emb.Provider, emb.Model, logger, opts...)
}

func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
