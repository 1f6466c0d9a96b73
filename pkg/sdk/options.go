package smartmatch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	provider    string // "openai" or "gemini"
	apiKey      string
	model       string
	baseURL     string
	temperature float32
	maxTokens   int
	completer   Completer

	schemaPath string
	schemaDoc  []byte

	timeout        time.Duration
	maxQueryLength int
	maxBatchSize   int
	concurrency    int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOpenAI uses an OpenAI-compatible chat completion endpoint.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = providerOpenAI
		c.apiKey = apiKey
		c.model = model
	})
}

// WithGemini uses the Gemini generateContent endpoint.
func WithGemini(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = providerGemini
		c.apiKey = apiKey
		c.model = model
	})
}

// WithBaseURL points the provider at a proxy or a compatible server.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithTemperature sets the sampling temperature. Default: 0.
func WithTemperature(t float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = t
	})
}

// WithMaxTokens caps the reply length. Default: 1024.
func WithMaxTokens(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTokens = n
	})
}

// WithCompleter sets a custom completion provider. Takes precedence over
// WithOpenAI and WithGemini.
func WithCompleter(cm Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = cm
	})
}

// WithSchemaFile loads the facet schema from a YAML or JSON file.
func WithSchemaFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.schemaPath = path
	})
}

// WithSchema parses the facet schema from an in-memory YAML or JSON document.
func WithSchema(doc []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.schemaDoc = doc
	})
}

// WithTimeout bounds each completion call. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMaxQueryLength sets the maximum query length in characters. Default: 1000.
func WithMaxQueryLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxQueryLength = n
	})
}

// WithMaxBatchSize sets the maximum number of queries per batch.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithBatchConcurrency limits the number of in-flight completion calls of a batch.
// Default: 4.
func WithBatchConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
