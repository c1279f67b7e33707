package matching

import (
	"context"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
)

// Embedder vectorizes text into embeddings.
// Implementations that also satisfy domain.BatchEmbedder get one round trip per batch.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
