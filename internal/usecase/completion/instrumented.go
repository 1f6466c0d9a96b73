package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	"github.com/kailas-cloud/smartmatch/internal/logger"
	"github.com/kailas-cloud/smartmatch/internal/metrics"
)

// InstrumentedCompleter wraps a provider with request metrics and logging.
// Providers only translate wire errors; everything observable lives here so
// every provider is measured the same way.
type InstrumentedCompleter struct {
	inner    domain.Completer
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps inner. A nil logger falls back to the request logger.
func NewInstrumentedCompleter(inner domain.Completer, provider, model string, l *zap.Logger) *InstrumentedCompleter {
	return &InstrumentedCompleter{inner: inner, provider: provider, model: model, logger: l}
}

// Complete delegates to the provider and records the outcome.
func (c *InstrumentedCompleter) Complete(ctx context.Context, prompt string) (domain.Completion, error) {
	log := c.logger
	if log == nil {
		log = logger.FromContext(ctx)
	}

	start := time.Now()
	res, err := c.inner.Complete(ctx, prompt)
	duration := time.Since(start)

	metrics.CompletionRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	if err == nil && res.Text == "" {
		err = fmt.Errorf("%w: empty reply", domain.ErrUpstream)
	}
	if err != nil {
		errType := "upstream"
		if errors.Is(err, domain.ErrUpstreamTimeout) || errors.Is(err, context.DeadlineExceeded) {
			errType = "timeout"
		}
		metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(c.provider, c.model, errType).Inc()
		log.Error("Completion request failed",
			zap.String("provider", c.provider),
			zap.String("model", c.model),
			zap.Duration("duration", duration),
			zap.String("error_type", errType),
			zap.Error(err),
		)
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "ok").Inc()
	if res.PromptTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(res.PromptTokens))
	}
	if res.CompletionTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(res.CompletionTokens))
	}

	log.Debug("Completion request completed",
		zap.String("provider", c.provider),
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("completion_tokens", res.CompletionTokens),
		zap.Int("reply_bytes", len(res.Text)),
	)

	if res.Model == "" {
		res.Model = c.model
	}
	return res, nil
}

// HealthCheck delegates to the provider when it supports one.
func (c *InstrumentedCompleter) HealthCheck(ctx context.Context) error {
	hc, ok := c.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%s health: %w", c.provider, err)
	}
	return nil
}

// Provider returns the provider label.
func (c *InstrumentedCompleter) Provider() string { return c.provider }

// Model returns the configured model name.
func (c *InstrumentedCompleter) Model() string { return c.model }
