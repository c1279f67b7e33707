package fieldmatch

import "go.uber.org/zap"

// Option configures a Matcher.
type Option interface {
	apply(*matcherConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*matcherConfig)

func (f optionFunc) apply(c *matcherConfig) { f(c) }

// OpenAIConfig configures the built-in OpenAI-compatible embedding provider.
// Empty BaseURL and Model fall back to the OpenAI API and text-embedding-3-small.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int // 0 = model default
}

type matcherConfig struct {
	embedder Embedder
	openai   *OpenAIConfig

	cacheSize           int
	queryInstruction    string
	documentInstruction string

	logger *zap.Logger
}

// WithEmbedder sets a custom embedding provider. It takes precedence over WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *matcherConfig) {
		c.embedder = e
	})
}

// WithOpenAI uses an OpenAI-compatible embeddings API (OpenAI, Ollama, TEI, ...).
func WithOpenAI(cfg OpenAIConfig) Option {
	return optionFunc(func(c *matcherConfig) {
		c.openai = &cfg
	})
}

// WithCache keeps up to capacity embeddings in memory so repeated texts
// (typically the candidate set) are embedded once per process.
// Disabled by default.
func WithCache(capacity int) Option {
	return optionFunc(func(c *matcherConfig) {
		c.cacheSize = capacity
	})
}

// WithInstructions sets prefixes prepended to query and candidate texts before embedding,
// for models trained with "query: "/"passage: " style inputs.
func WithInstructions(query, document string) Option {
	return optionFunc(func(c *matcherConfig) {
		c.queryInstruction = query
		c.documentInstruction = document
	})
}

// WithLogger enables debug logging of provider calls. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *matcherConfig) {
		c.logger = l
	})
}
