package smartmatch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/smartmatch/internal/domain"
)

// Completer sends one prompt to a text-completion model and returns its reply.
// Implementations must not retry; wrap transport failures in ErrUpstream.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// Completion carries the raw model reply and token counts.
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// completerAdapter wraps public Completer to satisfy internal domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, prompt string) (domain.Completion, error) {
	c, err := a.inner.Complete(ctx, prompt)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}
	return domain.Completion{
		Text:             c.Text,
		Model:            c.Model,
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		TotalTokens:      c.TotalTokens,
	}, nil
}

// HealthCheck delegates when the custom completer can report its own health.
func (a *completerAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
