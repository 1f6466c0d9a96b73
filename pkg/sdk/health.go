package smartmatch

import (
	"context"

	healthuc "github.com/kailas-cloud/smartmatch/internal/usecase/health"
)

// HealthStatus represents the aggregated client health.
type HealthStatus struct {
	Status        string            // "healthy", "degraded", "unhealthy"
	Checks        map[string]string // component → "ok"/"error"/"skipped"
	SchemaVersion string
}

// Health reports on the schema and, when deep is set, probes the completion provider.
func (c *Client) Health(ctx context.Context, deep bool) HealthStatus {
	report := c.healthSvc.Check(ctx, deep)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:        string(report.Status),
		SchemaVersion: report.SchemaVersion,
		Checks:        checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context, deep bool) healthuc.Report
}
