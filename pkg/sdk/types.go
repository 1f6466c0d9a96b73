package smartmatch

import (
	dombatch "github.com/kailas-cloud/smartmatch/internal/domain/batch"
	"github.com/kailas-cloud/smartmatch/internal/domain/facet"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
	facetsuc "github.com/kailas-cloud/smartmatch/internal/usecase/facets"
)

// RangeValue is the value of a range facet such as price_ranges.
type RangeValue = facet.RangeValue

// Result is the structured interpretation of one query.
// Facet values are string, bool, float64, []string or RangeValue.
type Result struct {
	Query              string
	Facets             map[string]any
	FacetCount         int
	CategoriesDetected []string
	SchemaVersion      string
	Model              string
}

// BatchItem is the outcome of one query of a batch. Exactly one of Result and Err is set.
type BatchItem struct {
	Query  string
	Result *Result
	Err    error
}

// BatchResult holds batch items in input order.
type BatchResult struct {
	Items     []BatchItem
	Succeeded int
	Failed    int
}

// Facet describes one declared facet.
type Facet struct {
	Key         string
	Type        string
	Category    string
	Values      []string
	Description string
}

// Schema is the loaded facet schema.
type Schema struct {
	Version string
	Facets  []Facet
}

// Category groups facet keys by category tag.
type Category struct {
	Name   string
	Facets []string
}

// ConfigureResult is the outcome of Configure. Valid and Invalid are nil
// when validation was skipped.
type ConfigureResult struct {
	Facets  map[string]any
	Valid   []string
	Invalid []string
	Errors  []string
}

func resultFromDomain(r domparse.Result) Result {
	facets := map[string]any(r.Facets)
	if facets == nil {
		facets = map[string]any{}
	}
	return Result{
		Query:              r.Query,
		Facets:             facets,
		FacetCount:         r.Metadata.FacetCount,
		CategoriesDetected: r.Metadata.CategoriesDetected,
		SchemaVersion:      r.Metadata.SchemaVersion,
		Model:              r.Metadata.Model,
	}
}

func batchFromDomain(results []dombatch.Result) BatchResult {
	out := BatchResult{Items: make([]BatchItem, len(results))}
	out.Succeeded, out.Failed = dombatch.Summary(results)
	for i, r := range results {
		item := BatchItem{Query: r.Query(), Err: r.Err()}
		if r.Status() == dombatch.StatusOK {
			res := resultFromDomain(r.Parsed())
			item.Result = &res
		}
		out.Items[i] = item
	}
	return out
}

func schemaFromDomain(s *schema.Schema) Schema {
	defs := s.Facets()
	out := Schema{Version: s.Version(), Facets: make([]Facet, len(defs))}
	for i, d := range defs {
		out.Facets[i] = Facet{
			Key:         d.Name(),
			Type:        string(d.FacetType()),
			Category:    d.Category(),
			Values:      d.Values(),
			Description: d.Description(),
		}
	}
	return out
}

func categoriesFromDomain(cats []schema.Category) []Category {
	out := make([]Category, len(cats))
	for i, c := range cats {
		out[i] = Category{Name: c.Name, Facets: c.Facets}
	}
	return out
}

func configureFromDomain(o facetsuc.Outcome) ConfigureResult {
	return ConfigureResult{
		Facets:  o.Facets,
		Valid:   o.Valid,
		Invalid: o.Invalid,
		Errors:  o.Errors,
	}
}
