package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
)

// CachedEmbedder caches embeddings in process memory for the lifetime of the embedder.
// Nothing is persisted; a new process starts cold.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      *memoryStore
	cacheTotal *prometheus.CounterVec
	entries    prometheus.Gauge
	logger     *zap.Logger
}

// Config holds the cache settings. Metrics are optional.
type Config struct {
	// Capacity is the maximum number of cached vectors (DefaultCapacity when <= 0).
	Capacity int
	// CacheTotal is a counter vec with label "result" ("hit"/"miss").
	CacheTotal *prometheus.CounterVec
	// Entries reports the current number of cached vectors.
	Entries prometheus.Gauge
	Logger  *zap.Logger
}

// New creates a caching decorator around inner.
func New(inner domain.Embedder, cfg Config) *CachedEmbedder {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		inner:      inner,
		store:      newMemoryStore(cfg.Capacity),
		cacheTotal: cfg.CacheTotal,
		entries:    cfg.Entries,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full EmbeddingResult from inner.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cacheKey(text)

	if vec, ok := c.store.Get(key); ok {
		c.incCache("hit", 1)
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	c.incCache("miss", 1)

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.put(key, result.Embedding)
	return result, nil
}

// BatchEmbed serves hits from the cache and embeds the distinct misses in one inner batch.
// Token counts cover only the misses.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	out := make([][]float32, len(texts))
	missPos := make(map[string][]int)
	var missTexts []string

	for i, text := range texts {
		key := cacheKey(text)
		if vec, ok := c.store.Get(key); ok {
			out[i] = vec
			continue
		}
		if _, seen := missPos[key]; !seen {
			missTexts = append(missTexts, text)
		}
		missPos[key] = append(missPos[key], i)
	}

	c.incCache("hit", len(texts)-countPositions(missPos))
	c.incCache("miss", countPositions(missPos))

	if len(missTexts) == 0 {
		return domain.BatchEmbeddingResult{Embeddings: out}, nil
	}

	res, err := domain.EmbedBatch(ctx, c.inner, missTexts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err //nolint:wrapcheck // EmbedBatch already adds context
	}
	if len(res.Embeddings) != len(missTexts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf(
			"inner embedder returned %d vectors for %d texts: %w",
			len(res.Embeddings), len(missTexts), domain.ErrEmbeddingProviderError)
	}

	for j, text := range missTexts {
		key := cacheKey(text)
		vec := res.Embeddings[j]
		c.put(key, vec)
		for _, i := range missPos[key] {
			out[i] = vec
		}
	}

	c.logger.Debug("Embedding cache batch",
		zap.Int("texts", len(texts)),
		zap.Int("misses", len(missTexts)),
	)

	return domain.BatchEmbeddingResult{
		Embeddings:   out,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

// Len returns the number of cached vectors.
func (c *CachedEmbedder) Len() int {
	return c.store.Len()
}

func (c *CachedEmbedder) put(key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	n := c.store.Set(key, vec)
	if c.entries != nil {
		c.entries.Set(float64(n))
	}
}

func (c *CachedEmbedder) incCache(result string, n int) {
	if c.cacheTotal != nil && n > 0 {
		c.cacheTotal.WithLabelValues(result).Add(float64(n))
	}
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func countPositions(m map[string][]int) int {
	n := 0
	for _, idx := range m {
		n += len(idx)
	}
	return n
}
