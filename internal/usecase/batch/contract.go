package batch

import (
	"context"

	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
)

// Parser runs a single parse attempt.
type Parser interface {
	Parse(ctx context.Context, query string) (domparse.Result, error)
}
