package smartmatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/smartmatch/internal/domain"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
	tokens     *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	const ns, sub = "smartmatch", "sdk"
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds, completion calls included.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "failures_total",
			Help:      "Failed SDK operations by the parse stage they reached.",
		}, []string{"operation", "stage"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "completion_tokens_total",
			Help:      "Completion tokens consumed by SDK operations.",
		}, []string{"operation"}),
	}
	for _, err := range []error{
		registerOrReuse(reg, &m.operations),
		registerOrReuse(reg, &m.duration),
		registerOrReuse(reg, &m.failures),
		registerOrReuse(reg, &m.tokens),
	} {
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerOrReuse registers a collector or takes over the one already
// registered under the same name, so several clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("smartmatch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("smartmatch: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// operation tracks one SDK call from start to finish.
type operation struct {
	obs   *observer
	name  string
	start time.Time
	usage *domain.CompletionUsage
}

// begin starts an operation and attaches a token usage collector to ctx.
func (o *observer) begin(ctx context.Context, name string) (context.Context, *operation) {
	ctx, usage := domain.NewContextWithUsage(ctx)
	return ctx, &operation{obs: o, name: name, start: time.Now(), usage: usage}
}

// end records the outcome of the operation.
func (op *operation) end(err error) {
	if op.obs == nil {
		return
	}
	dur := time.Since(op.start)
	stage := Stage(err)
	tokens := op.usage.TotalTokens()

	if m := op.obs.metrics; m != nil {
		status := "ok"
		if err != nil {
			status = "error"
			label := stage
			if label == "" {
				label = "none"
			}
			m.failures.WithLabelValues(op.name, label).Inc()
		}
		m.operations.WithLabelValues(op.name, status).Inc()
		m.duration.WithLabelValues(op.name).Observe(dur.Seconds())
		if tokens > 0 {
			m.tokens.WithLabelValues(op.name).Add(float64(tokens))
		}
	}

	l := op.obs.logger
	if l == nil {
		return
	}
	if err != nil {
		attrs := []any{"op", op.name, "duration", dur, "error", err}
		if stage != "" {
			attrs = append(attrs, "stage", stage)
		}
		l.Warn("operation failed", attrs...)
		return
	}
	l.Debug("operation completed", "op", op.name, "duration", dur, "tokens", tokens, "calls", op.usage.Calls())
}
