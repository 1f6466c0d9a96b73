package smartmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	dombatch "github.com/kailas-cloud/smartmatch/internal/domain/batch"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
	"github.com/kailas-cloud/smartmatch/internal/repository/schemafile"
	genaiProvider "github.com/kailas-cloud/smartmatch/internal/transport/genai"
	openaiProvider "github.com/kailas-cloud/smartmatch/internal/transport/openai"
	batchuc "github.com/kailas-cloud/smartmatch/internal/usecase/batch"
	facetsuc "github.com/kailas-cloud/smartmatch/internal/usecase/facets"
	healthuc "github.com/kailas-cloud/smartmatch/internal/usecase/health"
	parseuc "github.com/kailas-cloud/smartmatch/internal/usecase/parse"
)

const (
	providerOpenAI = "openai"
	providerGemini = "gemini"

	defaultMaxTokens = 1024
)

// Internal interfaces for substitution in tests.
type parseUseCase interface {
	Parse(ctx context.Context, query string) (domparse.Result, error)
}

type batchUseCase interface {
	Parse(ctx context.Context, queries []string) ([]dombatch.Result, error)
}

type facetsUseCase interface {
	Configure(values map[string]any, validate bool) (facetsuc.Outcome, error)
}

// Client is the smartmatch SDK entry point. It is safe for concurrent use.
type Client struct {
	schema    *schema.Schema
	parseSvc  parseUseCase
	batchSvc  batchUseCase
	facetSvc  facetsUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New loads the facet schema and creates a Client.
// The context is used only to construct the provider client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{maxTokens: defaultMaxTokens}
	for _, o := range opts {
		o.apply(cfg)
	}

	s, err := loadSchema(cfg)
	if err != nil {
		return nil, err
	}

	completer, model, err := createCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return wireClient(s, completer, model, cfg, obs), nil
}

func loadSchema(cfg *clientConfig) (*schema.Schema, error) {
	switch {
	case cfg.schemaDoc != nil:
		s, err := schemafile.Parse(cfg.schemaDoc)
		if err != nil {
			return nil, fmt.Errorf("smartmatch: %w", domain.NewConfigurationError("schema", err))
		}
		return s, nil
	case cfg.schemaPath != "":
		s, err := schemafile.Load(cfg.schemaPath)
		if err != nil {
			return nil, fmt.Errorf("smartmatch: %w", err)
		}
		return s, nil
	default:
		return nil, errors.New("smartmatch: schema required (use WithSchemaFile or WithSchema)")
	}
}

type checkedCompleter interface {
	domain.Completer
	domain.HealthChecker
}

func createCompleter(ctx context.Context, cfg *clientConfig) (checkedCompleter, string, error) {
	if cfg.completer != nil {
		return &completerAdapter{inner: cfg.completer}, cfg.model, nil
	}

	switch cfg.provider {
	case providerOpenAI:
		return openaiProvider.NewCompleter(&openaiProvider.Config{
			APIKey:      cfg.apiKey,
			BaseURL:     cfg.baseURL,
			Model:       cfg.model,
			Temperature: cfg.temperature,
			MaxTokens:   cfg.maxTokens,
			JSONMode:    true,
		}), cfg.model, nil
	case providerGemini:
		c, err := genaiProvider.NewCompleter(ctx, &genaiProvider.Config{
			APIKey:      cfg.apiKey,
			BaseURL:     cfg.baseURL,
			Model:       cfg.model,
			Temperature: cfg.temperature,
			MaxTokens:   cfg.maxTokens,
			JSONMode:    true,
		})
		if err != nil {
			return nil, "", fmt.Errorf("smartmatch: %w", domain.NewConfigurationError("gemini", err))
		}
		return c, cfg.model, nil
	case "":
		return nil, "", errors.New("smartmatch: completion provider required (use WithOpenAI, WithGemini or WithCompleter)")
	default:
		return nil, "", fmt.Errorf("smartmatch: unknown provider %q", cfg.provider)
	}
}

func wireClient(s *schema.Schema, completer checkedCompleter, model string, cfg *clientConfig, obs *observer) *Client {
	parseSvc := parseuc.New(s, completer).
		WithModel(model).
		WithTimeout(cfg.timeout).
		WithMaxQueryLength(cfg.maxQueryLength)

	batchSvc := batchuc.New(parseSvc)
	if cfg.maxBatchSize > 0 {
		batchSvc = batchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}
	if cfg.concurrency > 0 {
		batchSvc = batchSvc.WithConcurrency(cfg.concurrency)
	}

	return &Client{
		schema:    s,
		parseSvc:  parseSvc,
		batchSvc:  batchSvc,
		facetSvc:  facetsuc.New(s),
		healthSvc: healthuc.New("smartmatch", s, completer),
		obs:       obs,
	}
}

// Parse interprets one query with a single completion call.
// Errors match ErrValidation, ErrUpstream, ErrUpstreamTimeout or ErrParse.
func (c *Client) Parse(ctx context.Context, query string) (res Result, err error) {
	ctx, op := c.obs.begin(ctx, "parse")
	defer func() { op.end(err) }()

	r, err := c.parseSvc.Parse(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("parse: %w", err)
	}
	return resultFromDomain(r), nil
}

// ParseBatch interprets queries concurrently and returns items in input order.
// One failing query does not fail the batch; the returned error is non-nil
// only when the batch itself is rejected (empty or oversized).
func (c *Client) ParseBatch(ctx context.Context, queries []string) (res BatchResult, err error) {
	ctx, op := c.obs.begin(ctx, "parse_batch")
	defer func() { op.end(err) }()

	results, err := c.batchSvc.Parse(ctx, queries)
	if err != nil {
		return BatchResult{}, fmt.Errorf("parse batch: %w", err)
	}
	return batchFromDomain(results), nil
}

// Schema returns the loaded facet schema in declaration order.
func (c *Client) Schema() Schema {
	return schemaFromDomain(c.schema)
}

// Categories returns facet keys grouped by category, in first-appearance order.
func (c *Client) Categories() []Category {
	return categoriesFromDomain(c.schema.Categories())
}

// Configure checks caller-supplied facets against the schema without calling
// the model. With validate unset the values are returned untouched.
// Invalid facets fail with ErrValidation; the result still lists them.
func (c *Client) Configure(facets map[string]any, validate bool) (res ConfigureResult, err error) {
	_, op := c.obs.begin(context.Background(), "configure")
	defer func() { op.end(err) }()

	o, err := c.facetSvc.Configure(facets, validate)
	res = configureFromDomain(o)
	if err != nil {
		return res, fmt.Errorf("configure: %w", err)
	}
	return res, nil
}
