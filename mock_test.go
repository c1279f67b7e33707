package fieldmatch

import (
	"context"
	"strings"
)

// keywordEmbedder maps each text to a fixed vector by the first keyword it contains.
type keywordEmbedder struct {
	vectors    map[string][]float32
	fallback   []float32
	texts      []string
	batchCalls int
	healthErr  error
}

func (e *keywordEmbedder) vector(text string) []float32 {
	for kw, v := range e.vectors {
		if strings.Contains(text, kw) {
			return v
		}
	}
	return e.fallback
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	e.texts = append(e.texts, text)
	return EmbeddingResult{Embedding: e.vector(text), TotalTokens: 1}, nil
}

func (e *keywordEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	e.batchCalls++
	e.texts = append(e.texts, texts...)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

func (e *keywordEmbedder) HealthCheck(_ context.Context) error { return e.healthErr }
