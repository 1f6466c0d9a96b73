package parse

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
)

func TestParse_IPhoneScenario(t *testing.T) {
	completer := &stubCompleter{
		reply: `{"brand":"Apple","model":"iPhone 13","storage":"256GB","color":"blue"}`,
		model: "gpt-4.1-nano",
	}
	svc := New(testSchema(t), completer)

	res, err := svc.Parse(context.Background(), "iPhone 13 with 256GB in blue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domparse.Facets{"brand": "Apple", "model": "iPhone 13", "storage": "256GB", "color": "blue"}
	if diff := cmp.Diff(want, res.Facets); diff != "" {
		t.Errorf("facets mismatch (-want +got):\n%s", diff)
	}
	if res.Metadata.FacetCount != 4 {
		t.Errorf("FacetCount = %d, want 4", res.Metadata.FacetCount)
	}
	if diff := cmp.Diff([]string{"core", "mobile_electronics"}, res.Metadata.CategoriesDetected); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if res.Metadata.SchemaVersion != "test-1" || res.Metadata.Model != "gpt-4.1-nano" {
		t.Errorf("metadata = %+v", res.Metadata)
	}
	if res.Query != "iPhone 13 with 256GB in blue" {
		t.Errorf("Query = %q", res.Query)
	}
	if completer.calls() != 1 {
		t.Errorf("expected exactly one upstream call, got %d", completer.calls())
	}
	if !strings.HasSuffix(completer.prompts[0], "Query: iPhone 13 with 256GB in blue\n") {
		t.Error("prompt must carry the query")
	}
}

func TestParse_FallbackModelName(t *testing.T) {
	svc := New(testSchema(t), &stubCompleter{reply: `{}`}).WithModel("configured-model")
	res, err := svc.Parse(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Metadata.Model != "configured-model" {
		t.Errorf("Model = %q", res.Metadata.Model)
	}
	if res.Metadata.CategoriesDetected != nil {
		t.Errorf("expected no categories, got %v", res.Metadata.CategoriesDetected)
	}
}

func TestParse_ValidationBeforeUpstream(t *testing.T) {
	completer := &stubCompleter{reply: `{}`}
	svc := New(testSchema(t), completer).WithMaxQueryLength(10)

	for _, q := range []string{"", "   ", "this query is too long"} {
		_, err := svc.Parse(context.Background(), q)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Parse(%q): expected ErrValidation, got %v", q, err)
		}
	}
	if completer.calls() != 0 {
		t.Errorf("validation failures must not reach upstream, got %d calls", completer.calls())
	}
}

func TestParse_UpstreamError(t *testing.T) {
	svc := New(testSchema(t), &stubCompleter{err: errors.New("connection refused")})

	_, err := svc.Parse(context.Background(), "PS5 console")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Error("plain failure must not be a timeout")
	}
	if stage := domparse.FailedStage(err); stage != domparse.StagePromptBuilt {
		t.Errorf("failed stage = %q, want prompt_built", stage)
	}
}

func TestParse_UpstreamTimeout(t *testing.T) {
	slow := domain.CompleterFunc(func(ctx context.Context, _ string) (domain.Completion, error) {
		<-ctx.Done()
		return domain.Completion{}, ctx.Err()
	})
	svc := New(testSchema(t), slow).WithTimeout(10 * time.Millisecond)

	_, err := svc.Parse(context.Background(), "PS5 console")
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
	if !errors.Is(err, domain.ErrUpstream) {
		t.Error("timeout must also be an upstream error")
	}
}

func TestParse_MalformedReply(t *testing.T) {
	svc := New(testSchema(t), &stubCompleter{reply: `{"brand": "Apple", "mod`})

	_, err := svc.Parse(context.Background(), "iPhone")
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if stage := domparse.FailedStage(err); stage != domparse.StageUpstreamCalled {
		t.Errorf("failed stage = %q, want upstream_called", stage)
	}
}

func TestParse_RecordsUsage(t *testing.T) {
	svc := New(testSchema(t), &stubCompleter{reply: `{}`, tokens: 42})
	ctx, usage := domain.NewContextWithUsage(context.Background())

	if _, err := svc.Parse(ctx, "anything"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.TotalTokens() != 42 || usage.Calls() != 1 {
		t.Errorf("usage = %d tokens / %d calls", usage.TotalTokens(), usage.Calls())
	}
}

func TestParse_ResultsAreIndependent(t *testing.T) {
	svc := New(testSchema(t), &stubCompleter{reply: `{"brand":"Apple"}`})

	first, _ := svc.Parse(context.Background(), "a")
	second, _ := svc.Parse(context.Background(), "b")
	first.Facets["brand"] = "mutated"

	if second.Facets["brand"] != "Apple" {
		t.Error("results must not share state")
	}
}
