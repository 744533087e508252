// Package chi carries the HTTP transport: request decoding, routing, and
// the mapping of domain sentinels onto status codes.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/domain"
	"github.com/boiar/job-search-project/internal/domain/search/filter"
	"github.com/boiar/job-search-project/internal/domain/search/result"
	healthuc "github.com/boiar/job-search-project/internal/usecase/health"
	jobuc "github.com/boiar/job-search-project/internal/usecase/job"
	searchuc "github.com/boiar/job-search-project/internal/usecase/search"
)

// Error codes returned in the error envelope.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeSearchFailed     = "search_failed"
	codeInternalError    = "internal_error"
)

// errorResponse is the error envelope for all failing requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// searchRequest mirrors the client search payload. All fields are optional;
// an empty body runs an unfiltered search.
type searchRequest struct {
	SearchQuery string   `json:"searchQuery"`
	Location    string   `json:"location"`
	WorkType    string   `json:"work_type"`
	Experience  string   `json:"experience"`
	SalaryRange string   `json:"salary_range"`
	CompanySize string   `json:"company_size"`
	Industry    string   `json:"industry"`
	Skills      []string `json:"skills"`
}

// searchResponse wraps projected hits with the applied result cap.
type searchResponse struct {
	Items []result.Record `json:"items"`
	Total int             `json:"total"`
}

// createJobRequest mirrors the client job-creation payload.
type createJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	CompanyName string   `json:"company_name"`
	WorkType    string   `json:"work_type"`
	Industry    string   `json:"industry"`
	CompanySize string   `json:"company_size"`
	Experience  string   `json:"experience"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	Skills      []string `json:"skills"`
}

// Server is the HTTP API server.
type Server struct {
	search *searchuc.Service
	jobs   *jobuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	jobs *jobuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{search: search, jobs: jobs, health: health, logger: logger}
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.Post("/search", s.SearchJobs)
		r.Get("/analytics", s.JobAnalytics)
		r.Post("/", s.CreateJob)
		r.Get("/", s.ListJobs)
		r.Get("/{id}", s.GetJob)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchJobs handles POST /api/v1/jobs/search.
func (s *Server) SearchJobs(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	model := filter.Parse(filter.Input{
		SearchQuery: req.SearchQuery,
		Location:    req.Location,
		WorkType:    req.WorkType,
		Experience:  req.Experience,
		SalaryRange: req.SalaryRange,
		CompanySize: req.CompanySize,
		Industry:    req.Industry,
		Skills:      req.Skills,
	})

	records, err := s.search.Search(r.Context(), model)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Items: records, Total: len(records)})
}

// JobAnalytics handles GET /api/v1/jobs/analytics.
func (s *Server) JobAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.search.Analytics(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// CreateJob handles POST /api/v1/jobs.
func (s *Server) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	j, err := s.jobs.Create(r.Context(), jobuc.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CompanyName: req.CompanyName,
		WorkType:    req.WorkType,
		Industry:    req.Industry,
		CompanySize: req.CompanySize,
		Experience:  req.Experience,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Skills:      req.Skills,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/jobs/"+j.ID)
	writeJSON(w, http.StatusCreated, j)
}

// ListJobs handles GET /api/v1/jobs.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// GetJob handles GET /api/v1/jobs/{id}.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidJob,
		domain.ErrSearchFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	switch {
	case errors.Is(err, domain.ErrInvalidJob):
		// Validation messages are built in the domain layer and safe to
		// return verbatim.
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, msg)
	case errors.Is(err, domain.ErrSearchFailed):
		s.logger.Error("search backend error", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeSearchFailed, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
