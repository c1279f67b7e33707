package domain

import "context"

type embeddingUsageKey struct{}

// EmbeddingUsage collects token usage for a single match request.
// The HTTP handler puts a pointer into the context, the matcher adds tokens after
// embedding, and the handler reports the total in a response header.
type EmbeddingUsage struct {
	TotalTokens int
	Calls       int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// AddCall records one provider call and the tokens it consumed. Safe on a nil receiver.
func (u *EmbeddingUsage) AddCall(tokens int) {
	if u != nil {
		u.TotalTokens += tokens
		u.Calls++
	}
}
