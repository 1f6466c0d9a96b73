package schemafile

import (
	"fmt"

	"github.com/kailas-cloud/smartmatch/internal/domain/facet"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
)

// document is the on-disk representation of the schema. JSON documents parse
// through the same tags since YAML is a superset.
type document struct {
	Version string     `yaml:"version"`
	Facets  []facetRow `yaml:"facets"`
}

// facetRow is one facet entry of the document.
type facetRow struct {
	Key         string   `yaml:"key"`
	Type        string   `yaml:"type"`
	Category    string   `yaml:"category"`
	Values      []string `yaml:"values"`
	Description string   `yaml:"description"`
}

// toSchema hydrates a domain Schema, failing on the first invalid facet.
func (d document) toSchema() (*schema.Schema, error) {
	defs := make([]facet.Definition, 0, len(d.Facets))
	for i, row := range d.Facets {
		def, err := facet.New(row.Key, facet.Type(row.Type), row.Category, row.Values, row.Description)
		if err != nil {
			return nil, fmt.Errorf("facets[%d]: %w", i, err)
		}
		defs = append(defs, def)
	}
	s, err := schema.New(d.Version, defs)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return s, nil
}
