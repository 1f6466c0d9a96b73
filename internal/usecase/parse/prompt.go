package parse

import (
	"strings"

	"github.com/kailas-cloud/smartmatch/internal/domain/facet"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
)

const promptHeader = `You are an expert product search assistant. Analyze the user query and
extract the product facets (search filters) it expresses.

Available facets, one per line as name (type, category): description:
`

const promptGuidelines = `
Guidelines:
- Extract ONLY facets that are explicitly mentioned or clearly implied by the query.
- Leave out any facet you cannot infer with confidence. Never invent values.
- Use only the facet names listed above.
- For facets with allowed values, use one of the allowed values exactly as written.
- For price ranges, "under X" sets max to X and "over X" sets min to X; include only known bounds.
- Numbers are plain JSON numbers without units or currency symbols.
- Set boolean facets only when the query mentions them.
- Use facet descriptions to resolve synonyms, product condition and category.

Respond ONLY with a single JSON object mapping facet names to values.
Do not wrap it in markdown and do not add any explanation.
`

// BuildPrompt renders the instruction prompt for query. The output depends on
// nothing but its arguments: facets are listed in schema declaration order.
func BuildPrompt(query string, s *schema.Schema) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for _, d := range s.Facets() {
		writeFacetLine(&b, d)
	}
	b.WriteString(promptGuidelines)
	b.WriteString("\nSchema version: ")
	b.WriteString(s.Version())
	b.WriteString("\nQuery: ")
	b.WriteString(query)
	b.WriteString("\n")
	return b.String()
}

func writeFacetLine(b *strings.Builder, d facet.Definition) {
	b.WriteString("- ")
	b.WriteString(d.Name())
	b.WriteString(" (")
	b.WriteString(valueShape(d.FacetType()))
	b.WriteString(", ")
	b.WriteString(d.Category())
	b.WriteString(")")
	if desc := d.Description(); desc != "" {
		b.WriteString(": ")
		b.WriteString(desc)
	}
	if values := d.Values(); len(values) > 0 {
		b.WriteString(". Allowed values: ")
		b.WriteString(strings.Join(values, ", "))
	}
	b.WriteString("\n")
}

// valueShape describes the JSON shape the model must emit for a type.
func valueShape(t facet.Type) string {
	switch t {
	case facet.Enum:
		return "string, one of the allowed values"
	case facet.List:
		return "array of strings"
	case facet.Boolean:
		return "true or false"
	case facet.Number:
		return "number"
	case facet.Range:
		return `object {"min": number, "max": number}`
	default:
		return "string"
	}
}
