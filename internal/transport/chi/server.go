// Package chi exposes the document gateway over HTTP for indexes declared
// in configuration.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mtsarev06/es-orm/internal/domain"
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/logger"
	"github.com/mtsarev06/es-orm/internal/metrics"
	documentuc "github.com/mtsarev06/es-orm/internal/usecase/document"
	indexuc "github.com/mtsarev06/es-orm/internal/usecase/index"
)

const maxBulkSize = 500

// Pinger reports engine connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves document operations for a fixed set of schema-bound indexes.
type Server struct {
	indexes       *indexuc.Service
	documents     documentuc.Operations
	schemas       map[string]*schema.Schema
	pinger        Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	indexes *indexuc.Service,
	documents documentuc.Operations,
	schemas map[string]*schema.Schema,
	pinger Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		indexes:   indexes,
		documents: documents,
		schemas:   schemas,
		pinger:    pinger,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrUnknownField, http.StatusBadRequest, "unknown_field"),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, "document_not_found"),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, "index_not_found"),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, "invalid_schema"),
	}
	return s
}

// Router builds the chi router with standard middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logContext)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/indexes/{index}", func(r chi.Router) {
		r.Post("/init", s.initIndex)
		r.Post("/refresh", s.refreshIndex)
		r.Get("/count", s.countDocuments)
		r.Post("/documents", s.saveDocument)
		r.Post("/documents/bulk", s.bulkSave)
		r.Route("/documents/{id}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Patch("/", s.patchDocument)
			r.Delete("/", s.deleteDocument)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"elasticsearch": "ok"}
	status := http.StatusOK
	if err := s.pinger.Ping(r.Context()); err != nil {
		checks["elasticsearch"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": statusWord(status),
		"checks": checks,
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "unhealthy"
}

// initIndex handles POST /indexes/{index}/init.
func (s *Server) initIndex(w http.ResponseWriter, r *http.Request) {
	name, sch, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}
	if err := s.indexes.Init(r.Context(), name, sch); err != nil {
		s.handleDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"index": name, "initialized": true})
}

// refreshIndex handles POST /indexes/{index}/refresh.
func (s *Server) refreshIndex(w http.ResponseWriter, r *http.Request) {
	name, _, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}
	if err := s.indexes.Refresh(r.Context(), name); err != nil {
		s.handleDomainError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// countDocuments handles GET /indexes/{index}/count.
func (s *Server) countDocuments(w http.ResponseWriter, r *http.Request) {
	name, _, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}
	count, err := s.documents.Count(r.Context(), name)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"index": name, "count": count})
}

// saveDocument handles POST /indexes/{index}/documents.
func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request) {
	name, sch, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	doc := domdoc.New(sch)
	if req.ID != "" {
		doc.SetMeta(domdoc.Meta{ID: req.ID})
	}
	if err := doc.SetAll(req.Fields); err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	if err := s.documents.Save(r.Context(), name, doc); err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/indexes/%s/documents/%s", name, doc.Meta().ID))
	writeJSON(w, http.StatusCreated, documentToResponse(doc))
}

// bulkSave handles POST /indexes/{index}/documents/bulk.
func (s *Server) bulkSave(w http.ResponseWriter, r *http.Request) {
	name, sch, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 || len(req.Documents) > maxBulkSize {
		writeError(w, http.StatusBadRequest, "validation_failed",
			fmt.Sprintf("documents count must be between 1 and %d", maxBulkSize))
		return
	}

	docs := make([]*domdoc.Document, len(req.Documents))
	for i, item := range req.Documents {
		doc := domdoc.New(sch)
		if item.ID != "" {
			doc.SetMeta(domdoc.Meta{ID: item.ID})
		}
		if err := doc.SetAll(item.Fields); err != nil {
			s.handleDomainError(r, w, err)
			return
		}
		docs[i] = doc
	}

	outcomes, err := s.documents.BulkSave(r.Context(), name, docs)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	succeeded, failed := 0, 0
	items := make([]bulkResultItem, len(outcomes))
	for i, o := range outcomes {
		items[i] = bulkResultItem{ID: o.ID, OK: o.OK}
		if o.Err != nil {
			msg := safeDomainMessage(o.Err)
			items[i].Error = &msg
		}
		if o.OK {
			succeeded++
		} else {
			failed++
		}
	}

	writeJSON(w, http.StatusOK, bulkResponse{
		Items:     items,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// getDocument handles GET /indexes/{index}/documents/{id}.
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	name, sch, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Get(r.Context(), name, sch, id)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// patchDocument handles PATCH /indexes/{index}/documents/{id}.
func (s *Server) patchDocument(w http.ResponseWriter, r *http.Request) {
	name, sch, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	doc, err := s.documents.Set(r.Context(), name, sch, id, req.Fields)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// deleteDocument handles DELETE /indexes/{index}/documents/{id}.
func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	name, _, ok := s.resolveIndex(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := s.documents.Delete(r.Context(), name, id); err != nil {
		s.handleDomainError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveIndex looks up the schema declared for the index path parameter.
func (s *Server) resolveIndex(w http.ResponseWriter, r *http.Request) (string, *schema.Schema, bool) {
	name := chi.URLParam(r, "index")
	sch, ok := s.schemas[name]
	if !ok {
		writeError(w, http.StatusNotFound, "index_not_found",
			fmt.Sprintf("index %q is not declared", name))
		return "", nil, false
	}
	return name, sch, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// logContext attaches a request-scoped logger carrying the request id, so
// handler logs can be correlated across one request.
func (s *Server) logContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), log)))
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	sentinels := []error{
		domain.ErrUnknownField,
		domain.ErrDocumentNotFound,
		domain.ErrIndexNotFound,
		domain.ErrInvalidSchema,
		domain.ErrValidation,
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

// validationHandler reports the failing field alongside the reason.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":    "validation_failed",
		"message": msg,
		"field":   verr.Field,
	})
	return true
}

func (s *Server) handleDomainError(r *http.Request, w http.ResponseWriter, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

type saveRequest struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type patchRequest struct {
	Fields map[string]any `json:"fields"`
}

type bulkRequest struct {
	Documents []saveRequest `json:"documents"`
}

type bulkResultItem struct {
	ID    string  `json:"id"`
	OK    bool    `json:"ok"`
	Error *string `json:"error,omitempty"`
}

type bulkResponse struct {
	Items     []bulkResultItem `json:"items"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelopeResponse struct {
	Value      any    `json:"value"`
	Flag       string `json:"flag,omitempty"`
	PrettyName string `json:"pretty_name,omitempty"`
}

type documentResponse struct {
	ID      string                      `json:"id"`
	Version int64                       `json:"version,omitempty"`
	Fields  map[string]envelopeResponse `json:"fields"`
}

func documentToResponse(doc *domdoc.Document) documentResponse {
	fields := make(map[string]envelopeResponse, len(doc.Fields()))
	for name, e := range doc.Fields() {
		fields[name] = envelopeResponse{
			Value:      e.Value,
			Flag:       e.Flag,
			PrettyName: e.PrettyName,
		}
	}
	return documentResponse{
		ID:      doc.Meta().ID,
		Version: doc.Meta().Version,
		Fields:  fields,
	}
}
