// Package chi exposes the HTTP API: account management, document ingestion,
// and full-text search.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
	"github.com/siftlabs/docsift/internal/metrics"
	healthuc "github.com/siftlabs/docsift/internal/usecase/health"
	"github.com/siftlabs/docsift/internal/usecase/ingest"
)

const maxBatchSize = 100

// Error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeAlreadyExists    = "already_registered"
	codeNotFound         = "document_not_found"
	codeRateLimited      = "rate_limited"
	codeIndexingFailed   = "indexing_failed"
	codeInternalError    = "internal_error"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	auth          AuthService
	documents     IngestService
	search        SearchService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	auth AuthService,
	documents IngestService,
	search SearchService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		auth:      auth,
		documents: documents,
		search:    search,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrUserExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(ingest.ErrSubmitFailed, http.StatusBadGateway, codeIndexingFailed),
	}
	return s
}

// Routes mounts all API handlers on r. Middleware is applied by the caller.
func (s *Server) Routes(r chi.Router) {
	r.Post("/auth/register", s.RegisterAccount)
	r.Post("/auth/login", s.Login)
	r.Post("/documents", s.IngestDocument)
	r.Post("/documents/batch", s.IngestBatch)
	r.Delete("/documents/{id}", s.DeleteDocument)
	r.Get("/search", s.SearchGet)
	r.Post("/search", s.SearchPost)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// RegisterAccount handles POST /auth/register.
func (s *Server) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := s.auth.Register(r.Context(), reg)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

type ingestResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Checksum   string `json:"checksum"`
	Items      int    `json:"items"`
}

// IngestDocument handles POST /documents. The body is the raw extracted
// payload; source_path comes from the query string.
func (s *Server) IngestDocument(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := s.documents.Ingest(r.Context(), raw, r.URL.Query().Get("source_path"))
	if err != nil {
		metrics.DocumentsIngestedTotal.WithLabelValues(ingestResultLabel(err)).Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.DocumentsIngestedTotal.WithLabelValues("ok").Inc()

	w.Header().Set("Location", "/documents/"+doc.DocumentID)
	writeJSON(w, http.StatusCreated, ingestResponse{
		DocumentID: doc.DocumentID,
		Filename:   doc.Filename,
		Checksum:   doc.Checksum,
		Items:      len(doc.Content),
	})
}

func ingestResultLabel(err error) string {
	if _, ok := domain.AsValidationError(err); ok {
		return "invalid"
	}
	return "failed"
}

type batchRequest struct {
	Documents []ingest.RawDocument `json:"documents"`
}

// IngestBatch handles POST /documents/batch.
func (s *Server) IngestBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Documents) == 0 || len(req.Documents) > maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("documents count must be between 1 and %d", maxBatchSize))
		return
	}

	result := s.documents.IngestBatch(r.Context(), req.Documents)
	metrics.DocumentsIngestedTotal.WithLabelValues("ok").Add(float64(len(result.Successful)))
	metrics.DocumentsIngestedTotal.WithLabelValues("failed").Add(float64(len(result.Failed)))

	writeJSON(w, http.StatusOK, result)
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "document id is required")
		return
	}

	if !s.documents.Delete(r.Context(), id) {
		writeError(w, http.StatusNotFound, codeNotFound, "document not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchGet handles GET /search.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := domain.SearchQuery{
		Query:       params.Get("q"),
		DocumentIDs: splitCSV(params["document_ids"]),
	}
	for _, raw := range splitCSV(params["content_types"]) {
		ct, ok := domain.LookupContentType(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid content types: "+raw)
			return
		}
		q.ContentTypes = append(q.ContentTypes, ct)
	}
	for _, p := range splitCSV(params["page_numbers"]) {
		n, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "page_numbers must be integers")
			return
		}
		q.PageNumbers = append(q.PageNumbers, n)
	}
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be an integer")
			return
		}
		q.Limit = n
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "offset must be an integer")
			return
		}
		q.Offset = n
	}

	s.runSearch(w, r, q)
}

// splitCSV flattens repeated params and comma-separated values into one list.
func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// SearchPost handles POST /search with a structured query body.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var q domain.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	for _, ct := range q.ContentTypes {
		if !ct.IsValid() {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid content types: "+string(ct))
			return
		}
	}

	s.runSearch(w, r, q)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, q domain.SearchQuery) {
	resp, err := s.search.Search(r.Context(), q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		s.handleDomainError(w, err)
		return
	}

	label := "ok"
	if resp.TotalHits == 0 {
		label = "empty"
	}
	metrics.SearchRequestsTotal.WithLabelValues(label).Inc()
	metrics.SearchDuration.Observe(resp.QueryTimeMS / 1000)

	if user, ok := PrincipalFromContext(r.Context()); ok {
		s.logger.Info("search executed",
			zap.String("username", user.Username),
			zap.Int("total_hits", resp.TotalHits),
		)
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, report)
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
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnauthorized,
		domain.ErrUserExists,
		domain.ErrUserNotFound,
		domain.ErrRateLimited,
		domain.ErrInvalidQuery,
		ingest.ErrSubmitFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler handles *domain.ValidationError with the full violation list.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	ve, ok := domain.AsValidationError(err)
	if !ok {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Code:    codeValidationFailed,
		Message: "validation failed",
		Details: ve.Violations,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
