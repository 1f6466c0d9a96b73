package domain

import "context"

// Completer is the text-completion contract between the parse use case and a provider.
// One call is one upstream request; implementations never retry.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Completion carries the raw model reply and token usage through the decorator chain.
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (Completion, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (Completion, error) {
	return f(ctx, prompt)
}
