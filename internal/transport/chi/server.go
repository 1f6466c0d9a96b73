package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
	"github.com/kailas-cloud/smartmatch/internal/logger"
	batchuc "github.com/kailas-cloud/smartmatch/internal/usecase/batch"
	facetsuc "github.com/kailas-cloud/smartmatch/internal/usecase/facets"
	healthuc "github.com/kailas-cloud/smartmatch/internal/usecase/health"
	parseuc "github.com/kailas-cloud/smartmatch/internal/usecase/parse"
	"github.com/kailas-cloud/smartmatch/internal/version"
)

// ServiceName is reported by the root and health endpoints.
const ServiceName = "Smart Match API"

const maxBodyBytes = 1 << 20

// failure is a classified error ready to be written as an envelope.
type failure struct {
	status  int
	code    string
	message string
	stage   domparse.Stage
}

func (f failure) envelope(query string) FailureResponse {
	return FailureResponse{Query: query, Error: f.message, Code: f.code, Stage: string(f.stage)}
}

// errorHandler classifies a domain error. Returns false if it does not apply.
type errorHandler func(err error) (failure, bool)

// Server serves the smartmatch HTTP API.
type Server struct {
	parse         *parseuc.Service
	batch         *batchuc.Service
	facets        *facetsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	parse *parseuc.Service,
	batch *batchuc.Service,
	facets *facetsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		parse:  parse,
		batch:  batch,
		facets: facets,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUpstreamTimeout, http.StatusGatewayTimeout, CodeUpstreamTimeout,
			"completion service timed out"),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, CodeUpstreamError,
			domain.ErrUpstream.Error()),
		detailHandler(domain.ErrParse, http.StatusBadGateway, CodeParseError),
		detailHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationError),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: ServiceName,
		Version: version.Version,
		Status:  "running",
		Health:  "/health",
		Schema:  "/facets/schema",
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request, deep bool) {
	report := s.health.Check(r.Context(), deep)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:        string(report.Status),
		Service:       report.Service,
		Version:       version.Version,
		SchemaVersion: report.SchemaVersion,
		Checks:        checks,
	})
}

// ParseQuery handles POST /parse.
func (s *Server) ParseQuery(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest(err))
		return
	}
	s.parseAndWrite(w, r, req.Query, req.IncludeMetadata)
}

// ParseQueryGet handles GET /parse.
func (s *Server) ParseQueryGet(w http.ResponseWriter, r *http.Request, params ParseQueryParams) {
	withMetadata := params.Metadata != nil && *params.Metadata
	s.parseAndWrite(w, r, params.Q, withMetadata)
}

func (s *Server) parseAndWrite(w http.ResponseWriter, r *http.Request, query string, withMetadata bool) {
	ctx, usage := domain.NewContextWithUsage(r.Context())

	res, err := s.parse.Parse(ctx, query)
	setUsageHeaders(w, usage)
	if err != nil {
		f := s.handleDomainError(r, err)
		writeJSON(w, f.status, f.envelope(query))
		return
	}
	writeJSON(w, http.StatusOK, NewParseResponse(res, withMetadata))
}

// ParseBatch handles POST /parse/batch.
func (s *Server) ParseBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest(err))
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results, err := s.batch.Parse(ctx, req.Queries)
	setUsageHeaders(w, usage)
	if err != nil {
		f := s.handleDomainError(r, err)
		writeJSON(w, f.status, f.envelope(""))
		return
	}
	writeJSON(w, http.StatusOK, s.batchToDTO(results, req.IncludeMetadata))
}

// GetSchema handles GET /facets/schema.
func (s *Server) GetSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NewSchemaResponse(s.parse.Schema()))
}

// GetCategories handles GET /facets/categories.
func (s *Server) GetCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categoriesToDTO(s.parse.Schema().Categories()))
}

// ConfigureFacets handles POST /facets/configure.
func (s *Server) ConfigureFacets(w http.ResponseWriter, r *http.Request) {
	var req ConfigureRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest(err))
		return
	}
	validate := req.ValidateSchema == nil || *req.ValidateSchema

	out, err := s.facets.Configure(req.Facets, validate)
	if err != nil {
		f := s.handleDomainError(r, err)
		resp := configureToDTO(out)
		resp.Success = false
		resp.Error = f.message
		resp.Code = f.code
		writeJSON(w, f.status, resp)
		return
	}
	logger.FromContext(r.Context()).Info("facets configured directly",
		zap.Int("facet_count", len(out.Facets)),
		zap.Bool("validated", validate),
	)
	writeJSON(w, http.StatusOK, configureToDTO(out))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if usage != nil && usage.Calls() > 0 {
		w.Header().Set("X-Completion-Tokens", strconv.FormatInt(usage.TotalTokens(), 10))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body: unexpected data after JSON object")
	}
	return nil
}

func badRequest(err error) FailureResponse {
	return FailureResponse{Error: err.Error(), Code: CodeBadRequest}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sentinelHandler matches a sentinel and reports a fixed client message.
func sentinelHandler(sentinel error, status int, code, msg string) errorHandler {
	return func(err error) (failure, bool) {
		if !errors.Is(err, sentinel) {
			return failure{}, false
		}
		return failure{status: status, code: code, message: msg}, true
	}
}

// detailHandler matches a sentinel whose detail is safe to show the caller.
func detailHandler(sentinel error, status int, code string) errorHandler {
	return func(err error) (failure, bool) {
		if !errors.Is(err, sentinel) {
			return failure{}, false
		}
		return failure{status: status, code: code, message: clientDetail(err)}, true
	}
}

// clientDetail strips the stage prefix added by the attempt tracker.
func clientDetail(err error) string {
	var se *domparse.StageError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}

// classify maps err to a failure without logging.
func (s *Server) classify(err error) failure {
	stage := domparse.FailedStage(err)
	if stage == "" && errors.Is(err, domain.ErrValidation) {
		stage = domparse.StagePending
	}
	for _, h := range s.errorHandlers {
		if f, ok := h(err); ok {
			f.stage = stage
			return f
		}
	}
	return failure{
		status:  http.StatusInternalServerError,
		code:    CodeInternalError,
		message: "internal error",
		stage:   stage,
	}
}

func (s *Server) handleDomainError(r *http.Request, err error) failure {
	f := s.classify(err)
	log := logger.FromContext(r.Context())
	if f.code == CodeInternalError {
		log.Error("internal error", zap.Error(err))
	} else {
		log.Warn("domain error", zap.String("code", f.code), zap.Error(err))
	}
	return f
}
