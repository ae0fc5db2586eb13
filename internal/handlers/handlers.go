package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"language-enricher/internal/common/cache"
	"language-enricher/internal/common/errors"
	"language-enricher/internal/common/logging"
	"language-enricher/internal/models"
)

// maxEventSize caps the request body of a single event
const maxEventSize = 10 << 20

// EventProcessor enriches events and reports its own health
type EventProcessor interface {
	ProcessEvent(ctx context.Context, event *models.Event) (*models.Event, error)
	Health(ctx context.Context) error
	Cache() cache.Cache
}

type Handlers struct {
	processor EventProcessor
	logger    logging.Logger
	version   string
}

func New(processor EventProcessor, logger logging.Logger, version string) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		processor: processor,
		logger:    logger,
		version:   version,
	}
}

// ProcessEvent enriches the event in the request body and returns it
func (h *Handlers) ProcessEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventSize))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, errors.ValidationError("failed to read request body"))
		return
	}

	var event models.Event
	if err := models.DecodeJSON(body, &event); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			errors.ValidationError("request body is not a valid event").WithContext("error", err.Error()))
		return
	}

	result, err := h.processor.ProcessEvent(r.Context(), &event)
	if err != nil {
		h.writeError(w, r, statusForError(err), err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HealthCheck reports service health, including the cache backend
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   h.version,
		"cache":     "none",
	}

	if c := h.processor.Cache(); c != nil {
		status["cache"] = c.Backend()
	}

	code := http.StatusOK
	if err := h.processor.Health(r.Context()); err != nil {
		h.logger.WithContext(r.Context()).Warn("Health check failed", logging.Err(err))
		status["status"] = "unhealthy"
		status["error"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, status)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write response", err)
	}
}
