package parse

import (
	"context"

	"github.com/kailas-cloud/smartmatch/internal/domain"
)

// Completer sends one rendered prompt to the completion service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (domain.Completion, error)
}
