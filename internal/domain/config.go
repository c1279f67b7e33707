package domain

// EmbeddingDefaults holds the provider settings used when configuration leaves them empty.
type EmbeddingDefaults struct {
	Provider  string
	BaseURL   string
	Model     string
	CacheSize int
}

// DefaultEmbedding returns defaults for the OpenAI embeddings API.
func DefaultEmbedding() EmbeddingDefaults {
	return EmbeddingDefaults{
		Provider:  "openai",
		BaseURL:   "https://api.openai.com/v1",
		Model:     "text-embedding-3-small",
		CacheSize: 1024,
	}
}
