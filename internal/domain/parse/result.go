package parse

// Facets maps a declared facet name to its coerced value: string, bool,
// float64, []string or facet.RangeValue.
type Facets map[string]any

// Keys returns the facet names in no particular order.
func (f Facets) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}

// Metadata describes how a result was produced.
type Metadata struct {
	FacetCount         int
	CategoriesDetected []string
	SchemaVersion      string
	Model              string
}

// Result is the interpreted outcome of one query. It is built per request and
// never shared.
type Result struct {
	Query    string
	Facets   Facets
	Metadata Metadata
}
