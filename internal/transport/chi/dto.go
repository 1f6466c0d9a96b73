package chi

import (
	dombatch "github.com/kailas-cloud/smartmatch/internal/domain/batch"
	"github.com/kailas-cloud/smartmatch/internal/domain/facet"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
	facetsuc "github.com/kailas-cloud/smartmatch/internal/usecase/facets"
)

// Error codes of the failure envelope.
const (
	CodeBadRequest      = "bad_request"
	CodeValidationError = "validation_error"
	CodeUpstreamError   = "upstream_error"
	CodeUpstreamTimeout = "upstream_timeout"
	CodeParseError      = "parse_error"
	CodeInternalError   = "internal_error"
)

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Query           string `json:"query"`
	IncludeMetadata bool   `json:"include_metadata"`
}

// BatchRequest is the body of POST /parse/batch.
type BatchRequest struct {
	Queries         []string `json:"queries"`
	IncludeMetadata bool     `json:"include_metadata"`
}

// ConfigureRequest is the body of POST /facets/configure.
type ConfigureRequest struct {
	Facets         map[string]any `json:"facets"`
	ValidateSchema *bool          `json:"validate_schema"`
}

// ParseResponse is the success envelope. Metadata fields appear only on request.
type ParseResponse struct {
	Success            bool            `json:"success"`
	Query              string          `json:"query"`
	Facets             domparse.Facets `json:"facets"`
	FacetCount         *int            `json:"facet_count,omitempty"`
	CategoriesDetected []string        `json:"categories_detected,omitempty"`
	SchemaVersion      string          `json:"schema_version,omitempty"`
	Model              string          `json:"model,omitempty"`
}

// FailureResponse is the failure envelope.
type FailureResponse struct {
	Success bool   `json:"success"`
	Query   string `json:"query,omitempty"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
}

// BatchResponse aggregates per-query envelopes in input order.
type BatchResponse struct {
	Success   bool  `json:"success"`
	Total     int   `json:"total"`
	Succeeded int   `json:"succeeded"`
	Failed    int   `json:"failed"`
	Results   []any `json:"results"`
}

// FacetDefinition is the wire form of one schema entry.
type FacetDefinition struct {
	Key         string   `json:"key"                   yaml:"key"`
	Type        string   `json:"type"                  yaml:"type"`
	Category    string   `json:"category"              yaml:"category"`
	Values      []string `json:"values,omitempty"      yaml:"values,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// SchemaResponse is the body of GET /facets/schema.
type SchemaResponse struct {
	Success bool              `json:"success" yaml:"-"`
	Version string            `json:"version" yaml:"version"`
	Facets  []FacetDefinition `json:"facets"  yaml:"facets"`
}

// CategoriesResponse is the body of GET /facets/categories.
type CategoriesResponse struct {
	Success    bool                `json:"success"`
	Categories map[string][]string `json:"categories"`
}

// ConfigureResponse is the body of POST /facets/configure.
type ConfigureResponse struct {
	Success          bool           `json:"success"`
	Facets           map[string]any `json:"facets,omitempty"`
	FacetCount       int            `json:"facet_count"`
	ValidFacets      []string       `json:"valid_facets,omitempty"`
	InvalidFacets    []string       `json:"invalid_facets,omitempty"`
	ValidationErrors []string       `json:"validation_errors,omitempty"`
	Error            string         `json:"error,omitempty"`
	Code             string         `json:"code,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Service       string            `json:"service"`
	Version       string            `json:"version"`
	SchemaVersion string            `json:"schema_version,omitempty"`
	Checks        map[string]string `json:"checks"`
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Health  string `json:"health"`
	Schema  string `json:"schema"`
}

// NewParseResponse renders a successful parse. Metadata fields are set only when requested.
func NewParseResponse(r domparse.Result, withMetadata bool) ParseResponse {
	facets := r.Facets
	if facets == nil {
		facets = domparse.Facets{}
	}
	resp := ParseResponse{Success: true, Query: r.Query, Facets: facets}
	if withMetadata {
		n := r.Metadata.FacetCount
		resp.FacetCount = &n
		resp.CategoriesDetected = r.Metadata.CategoriesDetected
		resp.SchemaVersion = r.Metadata.SchemaVersion
		resp.Model = r.Metadata.Model
	}
	return resp
}

// NewSchemaResponse renders the facet schema in declaration order.
func NewSchemaResponse(s *schema.Schema) SchemaResponse {
	defs := s.Facets()
	out := make([]FacetDefinition, len(defs))
	for i, d := range defs {
		out[i] = definitionToDTO(d)
	}
	return SchemaResponse{Success: true, Version: s.Version(), Facets: out}
}

func definitionToDTO(d facet.Definition) FacetDefinition {
	return FacetDefinition{
		Key:         d.Name(),
		Type:        string(d.FacetType()),
		Category:    d.Category(),
		Values:      d.Values(),
		Description: d.Description(),
	}
}

func categoriesToDTO(cats []schema.Category) CategoriesResponse {
	out := make(map[string][]string, len(cats))
	for _, c := range cats {
		out[c.Name] = c.Facets
	}
	return CategoriesResponse{Success: true, Categories: out}
}

func configureToDTO(o facetsuc.Outcome) ConfigureResponse {
	return ConfigureResponse{
		Success:          true,
		Facets:           o.Facets,
		FacetCount:       len(o.Facets),
		ValidFacets:      o.Valid,
		InvalidFacets:    o.Invalid,
		ValidationErrors: o.Errors,
	}
}

func (s *Server) batchToDTO(results []dombatch.Result, withMetadata bool) BatchResponse {
	succeeded, failed := dombatch.Summary(results)
	resp := BatchResponse{
		Success:   true,
		Total:     len(results),
		Succeeded: succeeded,
		Failed:    failed,
		Results:   make([]any, len(results)),
	}
	for i, r := range results {
		if r.Status() == dombatch.StatusOK {
			resp.Results[i] = NewParseResponse(r.Parsed(), withMetadata)
			continue
		}
		f := s.classify(r.Err())
		resp.Results[i] = f.envelope(r.Query())
	}
	return resp
}
