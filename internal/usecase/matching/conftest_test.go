package matching

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
)

// wordEmbedder is a deterministic bag-of-words embedder: each lower-cased word
// increments one hashed dimension, so texts sharing words point in similar directions.
type wordEmbedder struct {
	dim        int
	calls      int
	batchCalls int
	batchSizes []int
	err        error
	override   func(texts []string) [][]float32
}

func (e *wordEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[int(h.Sum32())%e.dim]++
	}
	return vec
}

func (e *wordEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vector(text), TotalTokens: 1}, nil
}

func (e *wordEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	e.batchCalls++
	e.batchSizes = append(e.batchSizes, len(texts))
	if e.err != nil {
		return domain.BatchEmbeddingResult{}, e.err
	}
	if e.override != nil {
		return domain.BatchEmbeddingResult{Embeddings: e.override(texts)}, nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

// singleEmbedder exposes only Embed, forcing the one-by-one fallback.
type singleEmbedder struct {
	inner *wordEmbedder
}

func (s singleEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return s.inner.Embed(ctx, text)
}

func newField(t *testing.T, handle, label, typ, desc string) field.Field {
	t.Helper()
	f, err := field.New(handle, label, typ, desc)
	if err != nil {
		t.Fatalf("field.New(%q): %v", handle, err)
	}
	return f
}

func catalogFields(t *testing.T) []field.Field {
	t.Helper()
	return []field.Field{
		newField(t, "sku", "SKU", "string", "Stock keeping unit identifier"),
		newField(t, "productDescription", "Product Description", "string", "Long description about the product"),
		newField(t, "price", "Price", "number", "Unit price in USD"),
		newField(t, "createdAt", "Created At", "date", ""),
	}
}
