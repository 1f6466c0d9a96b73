package schema

import (
	"fmt"

	"github.com/kailas-cloud/smartmatch/internal/domain/facet"
)

// Category groups the facet names sharing one category tag.
type Category struct {
	Name   string
	Facets []string
}

// Schema is the frozen set of facet definitions the service recognizes.
// It is built once at startup and only read afterwards, so it is safe for
// concurrent use without locking.
type Schema struct {
	version    string
	facets     []facet.Definition
	index      map[string]int
	categories []Category
}

// New validates and creates a Schema. Facet names must be unique and at least
// one facet is required. Declaration order is preserved.
func New(version string, defs []facet.Definition) (*Schema, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("schema declares no facets")
	}

	s := &Schema{
		version: version,
		facets:  append([]facet.Definition(nil), defs...),
		index:   make(map[string]int, len(defs)),
	}

	catIdx := make(map[string]int)
	for i, d := range s.facets {
		if _, dup := s.index[d.Name()]; dup {
			return nil, fmt.Errorf("duplicate facet %q", d.Name())
		}
		s.index[d.Name()] = i

		ci, ok := catIdx[d.Category()]
		if !ok {
			ci = len(s.categories)
			catIdx[d.Category()] = ci
			s.categories = append(s.categories, Category{Name: d.Category()})
		}
		s.categories[ci].Facets = append(s.categories[ci].Facets, d.Name())
	}

	return s, nil
}

// Version returns the schema document version.
func (s *Schema) Version() string { return s.version }

// Len returns the number of facets.
func (s *Schema) Len() int { return len(s.facets) }

// Facets returns the definitions in declaration order.
func (s *Schema) Facets() []facet.Definition {
	return append([]facet.Definition(nil), s.facets...)
}

// Lookup returns the definition for name.
func (s *Schema) Lookup(name string) (facet.Definition, bool) {
	i, ok := s.index[name]
	if !ok {
		return facet.Definition{}, false
	}
	return s.facets[i], true
}

// Has reports whether name is a declared facet.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Categories returns facet names grouped by category, in first-appearance order.
func (s *Schema) Categories() []Category {
	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = Category{Name: c.Name, Facets: append([]string(nil), c.Facets...)}
	}
	return out
}

// CategoriesOf returns the categories touched by the given facet names,
// in schema category order. Unknown names are ignored.
func (s *Schema) CategoriesOf(names []string) []string {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		if d, ok := s.Lookup(n); ok {
			present[d.Category()] = true
		}
	}
	var out []string
	for _, c := range s.categories {
		if present[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}
