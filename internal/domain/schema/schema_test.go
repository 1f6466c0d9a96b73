package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/smartmatch/internal/domain/facet"
)

func mustDef(t *testing.T, name string, ft facet.Type, category string, values ...string) facet.Definition {
	t.Helper()
	d, err := facet.New(name, ft, category, values, "")
	if err != nil {
		t.Fatalf("facet.New(%s): %v", name, err)
	}
	return d
}

func TestNew_GroupsCategoriesInOrder(t *testing.T) {
	s, err := New("1.0.0", []facet.Definition{
		mustDef(t, "brand", facet.String, "core"),
		mustDef(t, "storage", facet.String, "mobile_electronics"),
		mustDef(t, "model", facet.String, "core"),
		mustDef(t, "pegi", facet.Enum, "gaming", "3", "7", "12", "16", "18"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Category{
		{Name: "core", Facets: []string{"brand", "model"}},
		{Name: "mobile_electronics", Facets: []string{"storage"}},
		{Name: "gaming", Facets: []string{"pegi"}},
	}
	if diff := cmp.Diff(want, s.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if s.Version() != "1.0.0" || s.Len() != 4 {
		t.Errorf("version=%q len=%d", s.Version(), s.Len())
	}
}

func TestNew_Duplicate(t *testing.T) {
	_, err := New("1", []facet.Definition{
		mustDef(t, "brand", facet.String, "core"),
		mustDef(t, "brand", facet.String, "general"),
	})
	if err == nil {
		t.Fatal("expected duplicate facet error")
	}
}

func TestNew_Empty(t *testing.T) {
	if _, err := New("1", nil); err == nil {
		t.Fatal("expected error for empty schema")
	}
}

func TestLookup(t *testing.T) {
	s, _ := New("1", []facet.Definition{mustDef(t, "brand", facet.String, "core")})

	d, ok := s.Lookup("brand")
	if !ok || d.Name() != "brand" {
		t.Fatalf("Lookup(brand) = %v, %v", d, ok)
	}
	if _, ok := s.Lookup("unknown"); ok {
		t.Error("Lookup(unknown) should miss")
	}
	if !s.Has("brand") || s.Has("unknown") {
		t.Error("Has mismatch")
	}
}

func TestCategoriesOf(t *testing.T) {
	s, _ := New("1", []facet.Definition{
		mustDef(t, "brand", facet.String, "core"),
		mustDef(t, "storage", facet.String, "mobile_electronics"),
		mustDef(t, "pegi", facet.Enum, "gaming", "18"),
	})

	got := s.CategoriesOf([]string{"pegi", "brand", "nope"})
	if diff := cmp.Diff([]string{"core", "gaming"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := s.CategoriesOf(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s, _ := New("1", []facet.Definition{mustDef(t, "brand", facet.String, "core")})

	facets := s.Facets()
	facets[0] = facet.Definition{}
	if s.Facets()[0].Name() != "brand" {
		t.Error("Facets must return a copy")
	}

	cats := s.Categories()
	cats[0].Facets[0] = "mutated"
	if s.Categories()[0].Facets[0] != "brand" {
		t.Error("Categories must return a deep copy")
	}
}

func TestConform(t *testing.T) {
	s, _ := New("1", []facet.Definition{
		mustDef(t, "brand", facet.String, "core"),
		mustDef(t, "dual_sim", facet.Boolean, "mobile_electronics"),
		mustDef(t, "price", facet.Number, "core"),
	})

	got, rejected := s.Conform(map[string]any{
		"brand":    "Samsung",
		"dual_sim": "true",
		"price":    "cheap",
		"weight":   "2kg",
		"color":    nil,
	})

	want := map[string]any{"brand": "Samsung", "dual_sim": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("facets mismatch (-want +got):\n%s", diff)
	}
	wantRejected := []Rejection{
		{Key: "color", Reason: RejectUnknown},
		{Key: "price", Reason: RejectUncoercible},
		{Key: "weight", Reason: RejectUnknown},
	}
	if diff := cmp.Diff(wantRejected, rejected); diff != "" {
		t.Errorf("rejections mismatch (-want +got):\n%s", diff)
	}
}
