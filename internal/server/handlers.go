package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/vacancy-assistant/internal/assistant"
	"github.com/maauso/vacancy-assistant/internal/hh"
	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

// Handlers contains the HTTP handlers for the API.
//
// Storage operations are full read-modify-writes without locking, so every
// handler touching the service holds mu for the duration of the call.
type Handlers struct {
	mu        sync.Mutex
	service   *assistant.Service
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *assistant.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Search handles POST /searches requests.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	h.mu.Lock()
	res, err := h.service.Search(r.Context(), req.Query, req.Page)
	h.mu.Unlock()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:  res.Query,
		Page:   res.Page,
		Found:  res.Found,
		Stored: res.Stored,
	})
}

// ListVacancies handles GET /vacancies?key=&value= requests.
func (h *Handlers) ListVacancies(w http.ResponseWriter, r *http.Request) {
	q, ok := h.filterQuery(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	vs, err := h.service.Find(r.Context(), q.Key, q.Value)
	h.mu.Unlock()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(vs))
}

// TopVacancies handles GET /vacancies/top?n= requests.
func (h *Handlers) TopVacancies(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "n must be an integer", "INVALID_LIMIT")
		return
	}
	q := TopQuery{N: n}
	if err := h.validator.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	h.mu.Lock()
	vs, err := h.service.TopBySalary(r.Context(), q.N)
	h.mu.Unlock()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(vs))
}

// SearchByKeyword handles GET /vacancies/search?keyword= requests.
func (h *Handlers) SearchByKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	h.mu.Lock()
	vs, err := h.service.ByKeyword(r.Context(), keyword)
	h.mu.Unlock()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(vs))
}

// DeleteVacancies handles DELETE /vacancies?key=&value= requests.
func (h *Handlers) DeleteVacancies(w http.ResponseWriter, r *http.Request) {
	q, ok := h.filterQuery(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	err := h.service.Delete(r.Context(), q.Key, q.Value)
	h.mu.Unlock()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// filterQuery reads and validates key/value, writing a 400 on failure.
func (h *Handlers) filterQuery(w http.ResponseWriter, r *http.Request) (FilterQuery, bool) {
	q := FilterQuery{
		Key:   r.URL.Query().Get("key"),
		Value: r.URL.Query().Get("value"),
	}
	if err := h.validator.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return q, false
	}
	return q, true
}

// writeServiceError maps core errors to HTTP responses.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *vacancy.RemoteAPIError
	switch {
	case errors.As(err, &apiErr):
		h.logger.Error("job board request failed",
			slog.Int("status", apiErr.StatusCode),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, err.Error(), "REMOTE_API_ERROR")
	case errors.Is(err, vacancy.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "INVALID_VACANCY")
	case errors.Is(err, vacancy.ErrUnknownField), errors.Is(err, assistant.ErrInvalidLimit),
		errors.Is(err, hh.ErrEmptyQuery), errors.Is(err, hh.ErrNegativePage):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_QUERY")
	case errors.Is(err, vacancy.ErrStorageUnavailable):
		h.logger.Error("storage unavailable",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "vacancy storage unavailable", "STORAGE_UNAVAILABLE")
	default:
		h.logger.Error("request failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
