package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/catalog"
	"github.com/kailas-cloud/docgate/internal/domain/schema"
	logpkg "github.com/kailas-cloud/docgate/internal/logger"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docgate/internal/usecase/health"
	seeduc "github.com/kailas-cloud/docgate/internal/usecase/seed"
)

// maxBodyBytes caps request payloads.
const maxBodyBytes = 1 << 20

// RootMessage is returned by GET /.
const RootMessage = "Protein Store Backend is running"

// ErrorCode identifies an error kind in responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeNotFound           ErrorCode = "not_found"
	CodeInvalidIdentifier  ErrorCode = "invalid_identifier"
	CodeAlreadyExists      ErrorCode = "already_exists"
	CodeStorageUnavailable ErrorCode = "storage_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    ErrorCode           `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// IDResponse is returned by create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// ListResponse wraps a list of rendered documents.
type ListResponse struct {
	Items []map[string]any `json:"items"`
}

// MessageResponse carries a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface over the use case services.
type Server struct {
	documents     *documentuc.Service
	seed          *seeduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	seed *seeduc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents: documents,
		seed:      seed,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidIdentifier, http.StatusInternalServerError, CodeInvalidIdentifier),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusInternalServerError, CodeStorageUnavailable),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: RootMessage})
}

// Diagnose handles GET /test.
func (s *Server) Diagnose(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Diagnose(r.Context()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListSchemas handles GET /schema.
func (s *Server) ListSchemas(w http.ResponseWriter, _ *http.Request) {
	schemas := s.documents.Schemas()
	out := make([]schemaResponse, len(schemas))
	for i, sch := range schemas {
		out[i] = schemaToResponse(sch)
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": out})
}

// CreateProduct handles POST /api/products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	s.create(w, r, catalog.RecordProduct)
}

// ListProducts handles GET /api/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request, params ListProductsParams) {
	lp := documentuc.ListParams{Exact: map[string]string{}}
	if params.Category != nil {
		lp.Exact["category"] = *params.Category
	}
	if params.Q != nil {
		lp.Term = *params.Q
	}
	if params.Limit != nil {
		lp.Limit = *params.Limit
	}

	docs, err := s.documents.List(r.Context(), catalog.RecordProduct, lp)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]map[string]any, len(docs))
	for i, d := range docs {
		items[i] = d.Render()
	}
	writeJSON(w, http.StatusOK, ListResponse{Items: items})
}

// GetProduct handles GET /api/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request, id string) {
	s.get(w, r, catalog.RecordProduct, id)
}

// SeedProducts handles POST /api/seed.
func (s *Server) SeedProducts(w http.ResponseWriter, r *http.Request) {
	res, err := s.seed.Seed(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: res.Outcome.Message()})
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	s.create(w, r, catalog.RecordOrder)
}

// GetOrder handles GET /api/orders/{id}.
func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request, id string) {
	s.get(w, r, catalog.RecordOrder, id)
}

// CreateUser handles POST /api/users.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	s.create(w, r, catalog.RecordUser)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, rt domain.RecordType) {
	payload, err := decodeFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id, err := s.documents.Create(r.Context(), rt, payload)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, IDResponse{ID: id})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request, rt domain.RecordType, id string) {
	doc, err := s.documents.Get(r.Context(), rt, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Render())
}

// decodeFields reads a single JSON object from the request body.
func decodeFields(w http.ResponseWriter, r *http.Request) (domain.Fields, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var payload domain.Fields
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("body must be a JSON object")
	}
	if dec.More() {
		return nil, errors.New("body must contain a single JSON object")
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrInvalidIdentifier,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrStorageUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports every violated field.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	resp := ErrorResponse{Code: CodeValidationFailed, Message: msg}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Message = fmt.Sprintf("%s: invalid fields: %s", ve.RecordType, strings.Join(ve.FieldNames(), ", "))
		resp.Fields = ve.Fields
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

type fieldResponse struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Required    bool     `json:"required"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Default     any      `json:"default,omitempty"`
	Filterable  bool     `json:"filterable,omitempty"`
	Searchable  bool     `json:"searchable,omitempty"`
	Unique      bool     `json:"unique,omitempty"`
	Of          string   `json:"of,omitempty"`
	MinItems    int      `json:"min_items,omitempty"`
	Description string   `json:"description,omitempty"`
}

type schemaResponse struct {
	Name        string          `json:"name"`
	Collection  string          `json:"collection"`
	Description string          `json:"description,omitempty"`
	Fields      []fieldResponse `json:"fields"`
}

func schemaToResponse(sch schema.Schema) schemaResponse {
	fields := make([]fieldResponse, len(sch.Fields()))
	for i, f := range sch.Fields() {
		def, _ := f.Default()
		fields[i] = fieldResponse{
			Name:        f.Name(),
			Kind:        string(f.Kind()),
			Required:    f.IsRequired(),
			Min:         f.Min(),
			Max:         f.Max(),
			Default:     def,
			Filterable:  f.IsFilterable(),
			Searchable:  f.IsSearchable(),
			Unique:      f.IsUnique(),
			Of:          f.Elem(),
			MinItems:    f.MinItems(),
			Description: f.Description(),
		}
	}
	return schemaResponse{
		Name:        sch.RecordType().String(),
		Collection:  sch.Collection(),
		Description: sch.Description(),
		Fields:      fields,
	}
}
