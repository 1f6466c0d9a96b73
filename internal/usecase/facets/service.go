package facets

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
)

// Outcome is the result of configuring facets directly, without the model.
type Outcome struct {
	Facets map[string]any
	// Valid and Invalid list facet keys; both are nil when validation was skipped.
	Valid   []string
	Invalid []string
	Errors  []string
}

// Validated reports whether the facets were checked against the schema.
func (o Outcome) Validated() bool { return o.Valid != nil || o.Invalid != nil }

// Service validates caller-supplied facet mappings against the schema.
type Service struct {
	schema *schema.Schema
}

// New creates a direct facets service.
func New(s *schema.Schema) *Service {
	return &Service{schema: s}
}

// Configure returns values coerced through the schema when validate is set,
// or untouched otherwise. Unknown keys and uncoercible values fail the whole
// mapping with domain.ErrValidation; the Outcome still lists what was wrong.
func (s *Service) Configure(values map[string]any, validate bool) (Outcome, error) {
	if values == nil {
		return Outcome{}, domain.NewValidationError("facets", "is required")
	}
	if !validate {
		return Outcome{Facets: values}, nil
	}

	conformed, rejected := s.schema.Conform(values)

	out := Outcome{
		Facets:  conformed,
		Valid:   make([]string, 0, len(conformed)),
		Invalid: make([]string, 0, len(rejected)),
	}
	for k := range conformed {
		out.Valid = append(out.Valid, k)
	}
	slices.Sort(out.Valid)

	for _, r := range rejected {
		out.Invalid = append(out.Invalid, r.Key)
		switch r.Reason {
		case schema.RejectUnknown:
			out.Errors = append(out.Errors, fmt.Sprintf("Unknown facet key: '%s'", r.Key))
		case schema.RejectUncoercible:
			def, _ := s.schema.Lookup(r.Key)
			out.Errors = append(out.Errors,
				fmt.Sprintf("Invalid value for facet '%s': expected %s", r.Key, def.FacetType()))
		}
	}

	if len(out.Invalid) > 0 {
		return out, domain.NewValidationError("facets",
			fmt.Sprintf("%d invalid facet(s)", len(out.Invalid)))
	}
	return out, nil
}
