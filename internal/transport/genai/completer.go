package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kailas-cloud/smartmatch/internal/domain"
)

// Completer calls the Gemini generateContent endpoint.
type Completer struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	jsonMode    bool
}

// Config holds the Gemini provider settings.
type Config struct {
	APIKey      string
	BaseURL     string // empty keeps the public endpoint
	Model       string
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

// NewCompleter creates a Gemini completion provider.
func NewCompleter(ctx context.Context, cfg *Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: "v1beta",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Completer{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens), //nolint:gosec // bounded by config validation
		jsonMode:    cfg.JSONMode,
	}, nil
}

// Complete implements domain.Completer with a single generateContent request.
func (c *Completer) Complete(ctx context.Context, prompt string) (domain.Completion, error) {
	gcfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if c.maxTokens > 0 {
		gcfg.MaxOutputTokens = c.maxTokens
	}
	if c.jsonMode {
		gcfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), gcfg)
	if err != nil {
		return domain.Completion{}, parseAPIError(ctx, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return domain.Completion{}, fmt.Errorf("empty generateContent response: %w", domain.ErrUpstream)
	}

	out := domain.Completion{Text: text, Model: resp.ModelVersion}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.CompletionTokens = int(u.CandidatesTokenCount)
		out.TotalTokens = int(u.TotalTokenCount)
	}
	return out, nil
}

// HealthCheck verifies the configured model is reachable.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.Models.Get(ctx, c.model, nil); err != nil {
		return fmt.Errorf("get model: %w", parseAPIError(ctx, err))
	}
	return nil
}

func parseAPIError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("generate content: %w", domain.ErrUpstreamTimeout)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrUpstream)
	}
	return fmt.Errorf("gemini request failed: %v: %w", err, domain.ErrUpstream)
}
