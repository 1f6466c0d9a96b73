package domain

import (
	"context"
	"sync/atomic"
)

type completionUsageKey struct{}

// CompletionUsage collects token usage for a single HTTP request.
// The handler puts a pointer into the context before calling the service;
// batch entries may record concurrently, so counters are atomic.
type CompletionUsage struct {
	totalTokens atomic.Int64
	calls       atomic.Int64
}

// NewContextWithUsage returns a context with a usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *CompletionUsage) {
	u := &CompletionUsage{}
	return context.WithValue(ctx, completionUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *CompletionUsage {
	u, _ := ctx.Value(completionUsageKey{}).(*CompletionUsage)
	return u
}

// Record counts one upstream call and its tokens.
func (u *CompletionUsage) Record(tokens int) {
	if u == nil {
		return
	}
	u.calls.Add(1)
	u.totalTokens.Add(int64(tokens))
}

// TotalTokens returns the tokens consumed so far.
func (u *CompletionUsage) TotalTokens() int64 {
	if u == nil {
		return 0
	}
	return u.totalTokens.Load()
}

// Calls returns the number of upstream calls made so far.
func (u *CompletionUsage) Calls() int64 {
	if u == nil {
		return 0
	}
	return u.calls.Load()
}
