package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "healthy"
	// Degraded indicates the service runs but a dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer parse requests.
	Unhealthy Status = "unhealthy"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped indicates the check was not requested.
	CheckSkipped CheckResult = "skipped"
)

// DefaultProbeTimeout bounds the upstream probe of a deep check.
const DefaultProbeTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status        Status
	Service       string
	SchemaVersion string
	Checks        map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	name       string
	schema     SchemaInfo
	completion CompletionChecker
	timeout    time.Duration
}

// New creates a Service. completion can be nil.
func New(name string, schema SchemaInfo, completion CompletionChecker) *Service {
	return &Service{name: name, schema: schema, completion: completion, timeout: DefaultProbeTimeout}
}

// WithProbeTimeout overrides the upstream probe timeout.
func (s *Service) WithProbeTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check reports on the schema and, when deep is set, probes the completion provider.
// A missing schema is unhealthy; a failing provider only degrades.
func (s *Service) Check(ctx context.Context, deep bool) Report {
	r := Report{Status: Healthy, Service: s.name, Checks: make(map[string]CheckResult, 2)}

	if s.schema == nil || s.schema.Len() == 0 {
		r.Checks["schema"] = CheckError
		r.Status = Unhealthy
	} else {
		r.Checks["schema"] = CheckOK
		r.SchemaVersion = s.schema.Version()
	}

	switch {
	case s.completion == nil || !deep:
		r.Checks["completion"] = CheckSkipped
	default:
		probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if err := s.completion.HealthCheck(probeCtx); err != nil {
			r.Checks["completion"] = CheckError
			if r.Status == Healthy {
				r.Status = Degraded
			}
		} else {
			r.Checks["completion"] = CheckOK
		}
	}

	return r
}
