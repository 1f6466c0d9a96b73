package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockSchema struct {
	version string
	n       int
}

func (m mockSchema) Version() string { return m.version }
func (m mockSchema) Len() int        { return m.n }

type mockCompletionChecker struct {
	err   error
	calls int
}

func (m *mockCompletionChecker) HealthCheck(_ context.Context) error {
	m.calls++
	return m.err
}

// --- Tests ---

func TestCheck_ShallowSkipsUpstream(t *testing.T) {
	checker := &mockCompletionChecker{}
	svc := New("Smart Match API", mockSchema{"1.0.0", 40}, checker)

	r := svc.Check(context.Background(), false)
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["schema"] != CheckOK || r.Checks["completion"] != CheckSkipped {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
	if r.SchemaVersion != "1.0.0" || r.Service != "Smart Match API" {
		t.Errorf("unexpected report: %+v", r)
	}
	if checker.calls != 0 {
		t.Error("shallow check must not call upstream")
	}
}

func TestCheck_DeepHealthy(t *testing.T) {
	checker := &mockCompletionChecker{}
	r := New("svc", mockSchema{"1", 1}, checker).Check(context.Background(), true)

	if r.Status != Healthy || r.Checks["completion"] != CheckOK {
		t.Errorf("unexpected report: %+v", r)
	}
	if checker.calls != 1 {
		t.Errorf("expected one probe, got %d", checker.calls)
	}
}

func TestCheck_CompletionError(t *testing.T) {
	svc := New("svc", mockSchema{"1", 1}, &mockCompletionChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background(), true)

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["completion"] != CheckError {
		t.Errorf("expected completion %q, got %q", CheckError, r.Checks["completion"])
	}
}

func TestCheck_NoSchema(t *testing.T) {
	r := New("svc", mockSchema{"", 0}, nil).Check(context.Background(), true)

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["schema"] != CheckError || r.Checks["completion"] != CheckSkipped {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestCheck_ProbeIsBounded(t *testing.T) {
	slow := &blockingChecker{}
	svc := New("svc", mockSchema{"1", 1}, slow).WithProbeTimeout(10 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background(), true)
	if time.Since(start) > time.Second {
		t.Fatal("probe was not bounded")
	}
	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
}

type blockingChecker struct{}

func (blockingChecker) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
