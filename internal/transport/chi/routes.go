package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ParseQueryParams are the query parameters of GET /parse.
type ParseQueryParams struct {
	Q        string `form:"q" json:"q"`
	Metadata *bool  `form:"metadata,omitempty" json:"metadata,omitempty"`
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, FailureResponse{Error: "not found", Code: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, FailureResponse{Error: "method not allowed", Code: "method_not_allowed"})
	})

	r.Get("/", s.Root)
	r.Get("/health", s.healthWrapper)
	r.Get("/metrics", s.Metrics)

	r.Route("/parse", func(r chi.Router) {
		r.Post("/", s.ParseQuery)
		r.Get("/", s.parseGetWrapper)
		r.Post("/batch", s.ParseBatch)
	})

	r.Route("/facets", func(r chi.Router) {
		r.Get("/schema", s.GetSchema)
		r.Get("/categories", s.GetCategories)
		r.Post("/configure", s.ConfigureFacets)
	})
}

// Handler returns a router serving the API.
func (s *Server) Handler(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)
	s.Routes(r)
	return r
}

func (s *Server) parseGetWrapper(w http.ResponseWriter, r *http.Request) {
	var params ParseQueryParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", q, &params.Q); err != nil {
		writeJSON(w, http.StatusBadRequest, FailureResponse{
			Error: "invalid query parameter q: " + err.Error(),
			Code:  CodeBadRequest,
			Stage: "pending",
		})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "metadata", q, &params.Metadata); err != nil {
		writeJSON(w, http.StatusBadRequest, FailureResponse{
			Query: params.Q,
			Error: "invalid query parameter metadata: " + err.Error(),
			Code:  CodeBadRequest,
		})
		return
	}

	s.ParseQueryGet(w, r, params)
}

func (s *Server) healthWrapper(w http.ResponseWriter, r *http.Request) {
	var deep *bool
	if err := runtime.BindQueryParameter("form", true, false, "deep", r.URL.Query(), &deep); err != nil {
		writeJSON(w, http.StatusBadRequest, FailureResponse{Error: "invalid query parameter deep: " + err.Error(), Code: CodeBadRequest})
		return
	}
	s.HealthCheck(w, r, deep != nil && *deep)
}
