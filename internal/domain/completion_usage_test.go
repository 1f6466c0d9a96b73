package domain

import (
	"context"
	"sync"
	"testing"
)

func TestCompletionUsage_ConcurrentRecord(t *testing.T) {
	ctx, usage := NewContextWithUsage(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			UsageFromContext(ctx).Record(10)
		}()
	}
	wg.Wait()

	if usage.Calls() != 50 {
		t.Errorf("Calls() = %d, want 50", usage.Calls())
	}
	if usage.TotalTokens() != 500 {
		t.Errorf("TotalTokens() = %d, want 500", usage.TotalTokens())
	}
}

func TestCompletionUsage_NilSafe(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatal("expected nil usage")
	}
	u.Record(5)
	if u.Calls() != 0 || u.TotalTokens() != 0 {
		t.Error("nil usage must report zero")
	}
}
