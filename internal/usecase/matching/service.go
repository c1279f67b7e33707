package matching

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
	"github.com/kailas-cloud/fieldmatch/internal/domain/match"
)

// DefaultTopK is the number of results returned when the caller has no preference.
const DefaultTopK = 3

// Service matches one query field against candidate fields by embedding similarity.
// It is built once with its embedders and reused across Match calls.
type Service struct {
	queries    Embedder
	candidates Embedder
}

// New creates a matching service. The candidate embedder may be nil, in which case
// queries and candidates share one embedder.
func New(queries, candidates Embedder) *Service {
	if candidates == nil {
		candidates = queries
	}
	return &Service{queries: queries, candidates: candidates}
}

// Match returns the topK candidates closest to query, best first.
// topK below 1 is raised to 1 and topK above len(candidates) returns every candidate.
// Candidates with equal scores keep their input order.
func (s *Service) Match(
	ctx context.Context, query field.Field, candidates []field.Field, topK int,
) ([]match.Result, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrEmptyCandidateSet
	}
	if query.IsZero() {
		return nil, fmt.Errorf("query field: %w", &field.ValidationError{Attribute: field.AttrHandle})
	}
	for i, c := range candidates {
		if c.IsZero() {
			return nil, fmt.Errorf("target field [%d]: %w", i, &field.ValidationError{Attribute: field.AttrHandle})
		}
	}
	topK = clampTopK(topK, len(candidates))

	queryRes, err := domain.EmbedBatch(ctx, s.queries, []string{field.Text(query)})
	if err != nil {
		return nil, fmt.Errorf("embed query field: %w", err)
	}
	usage := domain.UsageFromContext(ctx)
	usage.AddCall(queryRes.TotalTokens)

	candRes, err := domain.EmbedBatch(ctx, s.candidates, field.Texts(candidates))
	if err != nil {
		return nil, fmt.Errorf("embed target fields: %w", err)
	}
	usage.AddCall(candRes.TotalTokens)

	if err = checkEmbeddings(queryRes.Embeddings, 1, 0); err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}
	queryVec := queryRes.Embeddings[0]
	if err = checkEmbeddings(candRes.Embeddings, len(candidates), len(queryVec)); err != nil {
		return nil, fmt.Errorf("target embeddings: %w", err)
	}

	ranked := match.Rank(queryVec, candRes.Embeddings)

	results := make([]match.Result, topK)
	for i, r := range ranked[:topK] {
		results[i] = match.NewResult(candidates[r.Index], r.Score)
	}
	return results, nil
}

func clampTopK(topK, n int) int {
	if topK < 1 {
		topK = 1
	}
	if topK > n {
		topK = n
	}
	return topK
}

// checkEmbeddings verifies the provider returned want non-empty vectors of equal length.
// dim of 0 accepts the length of the first vector.
func checkEmbeddings(vecs [][]float32, want, dim int) error {
	if len(vecs) != want {
		return fmt.Errorf("provider returned %d embeddings for %d texts: %w",
			len(vecs), want, domain.ErrEmbeddingProviderError)
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return fmt.Errorf("empty embedding [%d]: %w", i, domain.ErrEmbeddingProviderError)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("embedding [%d] has %d dimensions, expected %d: %w",
				i, len(v), dim, domain.ErrEmbeddingProviderError)
		}
	}
	return nil
}
