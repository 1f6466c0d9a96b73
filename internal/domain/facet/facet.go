package facet

import (
	"fmt"
	"regexp"
)

// Type is the declared value type of a facet.
type Type string

// Facet type constants.
const (
	String  Type = "string"
	Enum    Type = "enum"
	List    Type = "list"
	Boolean Type = "boolean"
	Number  Type = "number"
	Range   Type = "range"
)

// Valid reports whether t is a known facet type.
func (t Type) Valid() bool {
	switch t {
	case String, Enum, List, Boolean, Number, Range:
		return true
	}
	return false
}

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// Definition is an immutable value object describing one facet of the schema.
type Definition struct {
	name        string
	facetType   Type
	values      []string
	category    string
	description string
}

// New validates and creates a Definition.
// Name must be snake_case (max 64 chars), the category non-empty and
// enum facets must declare at least one allowed value.
func New(name string, ft Type, category string, values []string, description string) (Definition, error) {
	if !nameRe.MatchString(name) {
		return Definition{}, fmt.Errorf("invalid facet name %q", name)
	}
	if !ft.Valid() {
		return Definition{}, fmt.Errorf("invalid facet type %q for %q", ft, name)
	}
	if category == "" {
		return Definition{}, fmt.Errorf("facet %q has no category", name)
	}
	if ft == Enum && len(values) == 0 {
		return Definition{}, fmt.Errorf("enum facet %q declares no values", name)
	}
	if len(values) > 0 && ft != Enum && ft != List {
		return Definition{}, fmt.Errorf("facet %q of type %s cannot declare values", name, ft)
	}

	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			return Definition{}, fmt.Errorf("facet %q has an empty allowed value", name)
		}
		if seen[v] {
			return Definition{}, fmt.Errorf("facet %q repeats allowed value %q", name, v)
		}
		seen[v] = true
	}

	return Definition{
		name:        name,
		facetType:   ft,
		values:      append([]string(nil), values...),
		category:    category,
		description: description,
	}, nil
}

// Name returns the facet key.
func (d Definition) Name() string { return d.name }

// FacetType returns the declared value type.
func (d Definition) FacetType() Type { return d.facetType }

// Category returns the category tag.
func (d Definition) Category() string { return d.category }

// Description returns the human-readable description, possibly empty.
func (d Definition) Description() string { return d.description }

// Values returns a copy of the allowed values. Empty means unrestricted.
func (d Definition) Values() []string {
	if len(d.values) == 0 {
		return nil
	}
	return append([]string(nil), d.values...)
}
