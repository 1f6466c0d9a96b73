package health

import "context"

// SchemaInfo reports on the loaded facet schema.
type SchemaInfo interface {
	Version() string
	Len() int
}

// CompletionChecker checks completion provider availability.
type CompletionChecker interface {
	HealthCheck(ctx context.Context) error
}
