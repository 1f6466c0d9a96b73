package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
	"github.com/kailas-cloud/smartmatch/internal/logger"
	"github.com/kailas-cloud/smartmatch/internal/metrics"
)

// Default limits.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxQueryLength = 1000
)

// Service turns natural-language queries into schema-conformant facets.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	schema      *schema.Schema
	completer   Completer
	model       string
	timeout     time.Duration
	maxQueryLen int
}

// New creates a parse service over an immutable schema.
func New(s *schema.Schema, completer Completer) *Service {
	return &Service{
		schema:      s,
		completer:   completer,
		timeout:     DefaultTimeout,
		maxQueryLen: DefaultMaxQueryLength,
	}
}

// WithModel sets the model name reported in metadata when the provider does not return one.
func (s *Service) WithModel(model string) *Service {
	s.model = model
	return s
}

// WithTimeout bounds each upstream call. Non-positive values keep the default.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithMaxQueryLength sets the maximum query length in runes. Non-positive values keep the default.
func (s *Service) WithMaxQueryLength(n int) *Service {
	if n > 0 {
		s.maxQueryLen = n
	}
	return s
}

// Schema returns the schema the service validates against.
func (s *Service) Schema() *schema.Schema { return s.schema }

// ValidateQuery rejects empty and oversized queries before any upstream call.
func (s *Service) ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return domain.NewValidationError("query", "must not be empty")
	}
	if n := utf8.RuneCountInString(query); n > s.maxQueryLen {
		return domain.NewValidationError("query",
			fmt.Sprintf("must be at most %d characters, got %d", s.maxQueryLen, n))
	}
	return nil
}

// Parse runs one attempt: build prompt, call the completion service once,
// interpret the reply. Errors wrap domain.ErrValidation, domain.ErrUpstream or
// domain.ErrParse; upstream and parse errors also carry the failed stage.
func (s *Service) Parse(ctx context.Context, query string) (domparse.Result, error) {
	if err := s.ValidateQuery(query); err != nil {
		metrics.ParseOutcomesTotal.WithLabelValues("validation_error", string(domparse.StagePending)).Inc()
		return domparse.Result{}, err
	}
	log := logger.FromContext(ctx)

	attempt := domparse.NewAttempt()
	prompt := BuildPrompt(strings.TrimSpace(query), s.schema)
	attempt.Advance(domparse.StagePromptBuilt)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completion, err := s.completer.Complete(callCtx, prompt)
	if err != nil {
		err = upstreamError(err)
		log.Warn("completion failed", zap.String("stage", string(attempt.Stage())), zap.Error(err))
		metrics.ParseOutcomesTotal.WithLabelValues("upstream_error", string(attempt.Stage())).Inc()
		return domparse.Result{}, attempt.Fail(err)
	}
	attempt.Advance(domparse.StageUpstreamCalled)
	domain.UsageFromContext(ctx).Record(completion.TotalTokens)

	facets, rejected, err := interpret(completion.Text, s.schema)
	if err != nil {
		log.Warn("model reply rejected", zap.String("stage", string(attempt.Stage())), zap.Error(err))
		metrics.ParseOutcomesTotal.WithLabelValues("parse_error", string(attempt.Stage())).Inc()
		return domparse.Result{}, attempt.Fail(err)
	}
	attempt.Advance(domparse.StageInterpreted)
	metrics.ParseOutcomesTotal.WithLabelValues("ok", string(attempt.Stage())).Inc()

	if len(rejected) > 0 {
		fields := make([]string, len(rejected))
		for i, r := range rejected {
			fields[i] = r.Key + ":" + string(r.Reason)
		}
		log.Debug("dropped facets from model reply", zap.Strings("dropped", fields))
	}

	model := completion.Model
	if model == "" {
		model = s.model
	}

	return domparse.Result{
		Query:  query,
		Facets: facets,
		Metadata: domparse.Metadata{
			FacetCount:         len(facets),
			CategoriesDetected: s.schema.CategoriesOf(facets.Keys()),
			SchemaVersion:      s.schema.Version(),
			Model:              model,
		},
	}, nil
}

// upstreamError makes sure a completion failure matches domain.ErrUpstream,
// and domain.ErrUpstreamTimeout when the deadline was hit.
func upstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrUpstreamTimeout) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	if !errors.Is(err, domain.ErrUpstream) {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return err
}
