package parse

import (
	"context"
	"sync"
	"testing"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	"github.com/kailas-cloud/smartmatch/internal/domain/facet"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
)

// stubCompleter replies with a fixed text and records prompts.
type stubCompleter struct {
	mu      sync.Mutex
	reply   string
	model   string
	tokens  int
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (domain.Completion, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.err != nil {
		return domain.Completion{}, s.err
	}
	return domain.Completion{Text: s.reply, Model: s.model, TotalTokens: s.tokens}, nil
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	defs := []struct {
		name     string
		ft       facet.Type
		category string
		values   []string
	}{
		{"brand", facet.String, "core", nil},
		{"model", facet.String, "core", nil},
		{"price_ranges", facet.Range, "core", nil},
		{"backbox_grade", facet.Enum, "core", []string{"new", "like_new", "good"}},
		{"storage", facet.String, "mobile_electronics", nil},
		{"color", facet.String, "mobile_electronics", nil},
		{"network", facet.List, "mobile_electronics", []string{"4G", "5G"}},
		{"dual_sim", facet.Boolean, "mobile_electronics", nil},
		{"console_type", facet.Enum, "gaming", []string{"PS4", "PS5"}},
		{"controllers_number", facet.Number, "gaming", nil},
	}
	out := make([]facet.Definition, 0, len(defs))
	for _, d := range defs {
		def, err := facet.New(d.name, d.ft, d.category, d.values, "desc of "+d.name)
		if err != nil {
			t.Fatalf("facet.New(%s): %v", d.name, err)
		}
		out = append(out, def)
	}
	s, err := schema.New("test-1", out)
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return s
}
