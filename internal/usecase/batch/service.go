package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	dombatch "github.com/kailas-cloud/smartmatch/internal/domain/batch"
	"github.com/kailas-cloud/smartmatch/internal/logger"
	"github.com/kailas-cloud/smartmatch/internal/metrics"
)

// Defaults for batch processing.
const (
	MaxBatchSize       = 100
	DefaultConcurrency = 4
)

// Service parses many independent queries with per-item error reporting.
type Service struct {
	parser       Parser
	maxBatchSize int
	concurrency  int
}

// New creates a batch service.
func New(parser Parser) *Service {
	return &Service{
		parser:       parser,
		maxBatchSize: MaxBatchSize,
		concurrency:  DefaultConcurrency,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// WithConcurrency bounds how many queries are in flight at once.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// MaxBatchSize returns the configured limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Parse runs every query through the parser and returns one result per query,
// in input order. A failing query never affects the others. The error is
// non-nil only when the batch itself is out of range.
func (s *Service) Parse(ctx context.Context, queries []string) ([]dombatch.Result, error) {
	if len(queries) == 0 {
		return nil, domain.NewValidationError("queries", "must contain at least 1 query")
	}
	if len(queries) > s.maxBatchSize {
		return nil, domain.NewValidationError("queries",
			fmt.Sprintf("must contain at most %d queries, got %d", s.maxBatchSize, len(queries)))
	}
	metrics.BatchSize.Observe(float64(len(queries)))

	results := make([]dombatch.Result, len(queries))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, q := range queries {
		g.Go(func() error {
			itemCtx := logger.WithFields(ctx, zap.Int("batch_index", i))
			res, err := s.parser.Parse(itemCtx, q)
			if err != nil {
				results[i] = dombatch.NewError(q, err)
				return nil
			}
			results[i] = dombatch.NewOK(res)
			return nil
		})
	}
	_ = g.Wait() // items never return errors

	succeeded, failed := dombatch.Summary(results)
	logger.FromContext(ctx).Info("batch parsed",
		zap.Int("total", len(results)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)
	return results, nil
}
