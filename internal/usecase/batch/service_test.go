package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	dombatch "github.com/kailas-cloud/smartmatch/internal/domain/batch"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- Mocks ---

type mockParser struct {
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32

	mu    sync.Mutex
	calls []string
}

func (m *mockParser) Parse(ctx context.Context, query string) (domparse.Result, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return domparse.Result{}, ctx.Err()
		}
	}

	if strings.TrimSpace(query) == "" {
		return domparse.Result{}, domain.NewValidationError("query", "must not be empty")
	}
	if strings.Contains(query, "fail") {
		return domparse.Result{}, fmt.Errorf("boom: %w", domain.ErrUpstream)
	}
	return domparse.Result{
		Query:  query,
		Facets: domparse.Facets{"console_type": "PS5"},
	}, nil
}

// --- Tests ---

func TestParse_MixedBatch(t *testing.T) {
	svc := New(&mockParser{})

	results, err := svc.Parse(context.Background(), []string{"PS5 console", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status() != dombatch.StatusOK || results[0].Parsed().Facets["console_type"] != "PS5" {
		t.Errorf("first entry: %+v", results[0])
	}
	if results[1].Status() != dombatch.StatusError || !errors.Is(results[1].Err(), domain.ErrValidation) {
		t.Errorf("second entry should be a validation error, got %v", results[1].Err())
	}

	succeeded, failed := dombatch.Summary(results)
	if succeeded != 1 || failed != 1 {
		t.Errorf("summary = %d/%d, want 1/1", succeeded, failed)
	}
}

func TestParse_PreservesOrder(t *testing.T) {
	svc := New(&mockParser{delay: time.Millisecond}).WithConcurrency(8)

	queries := make([]string, 40)
	for i := range queries {
		queries[i] = fmt.Sprintf("query %d", i)
		if i%7 == 0 {
			queries[i] = fmt.Sprintf("fail %d", i)
		}
	}

	results, err := svc.Parse(context.Background(), queries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(results))
	}
	for i, r := range results {
		if r.Query() != queries[i] {
			t.Errorf("results[%d].Query() = %q, want %q", i, r.Query(), queries[i])
		}
		wantOK := i%7 != 0
		if (r.Status() == dombatch.StatusOK) != wantOK {
			t.Errorf("results[%d] status = %s", i, r.Status())
		}
	}
}

func TestParse_BoundedConcurrency(t *testing.T) {
	parser := &mockParser{delay: 5 * time.Millisecond}
	svc := New(parser).WithConcurrency(3)

	queries := make([]string, 12)
	for i := range queries {
		queries[i] = fmt.Sprintf("q%d", i)
	}
	if _, err := svc.Parse(context.Background(), queries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if peak := parser.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
	if len(parser.calls) != 12 {
		t.Errorf("expected 12 calls, got %d", len(parser.calls))
	}
}

func TestParse_SizeLimits(t *testing.T) {
	parser := &mockParser{}
	svc := New(parser).WithMaxBatchSize(2)

	tests := []struct {
		name    string
		queries []string
	}{
		{"empty", nil},
		{"too many", []string{"a", "b", "c"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			results, err := svc.Parse(context.Background(), tc.queries)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if results != nil {
				t.Errorf("expected no results, got %d", len(results))
			}
		})
	}
	if len(parser.calls) != 0 {
		t.Errorf("out-of-range batches must not reach the parser, got %d calls", len(parser.calls))
	}
}

func TestParse_CanceledContext(t *testing.T) {
	svc := New(&mockParser{delay: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := svc.Parse(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range results {
		if r.Status() != dombatch.StatusError {
			t.Errorf("results[%d] should fail on canceled context", i)
		}
	}
}

func TestMaxBatchSize(t *testing.T) {
	if got := New(&mockParser{}).MaxBatchSize(); got != MaxBatchSize {
		t.Errorf("default = %d", got)
	}
	if got := New(&mockParser{}).WithMaxBatchSize(0).MaxBatchSize(); got != MaxBatchSize {
		t.Errorf("non-positive must keep default, got %d", got)
	}
}
