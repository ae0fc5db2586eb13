package handlers

import (
	stderrors "errors"
	"net/http"

	"language-enricher/internal/circuitbreaker"
	"language-enricher/internal/common/errors"
	"language-enricher/internal/common/logging"
)

type errorResponse struct {
	Error *errors.AppError `json:"error"`
}

// statusForError maps an enrichment error to the HTTP status returned to the caller
func statusForError(err error) int {
	if circuitbreaker.IsOpenError(err) {
		return http.StatusServiceUnavailable
	}

	switch errors.GetType(err) {
	case errors.ErrTypeValidation:
		return http.StatusUnprocessableEntity
	case errors.ErrTypeRequest, errors.ErrTypeTransport:
		return http.StatusBadGateway
	case errors.ErrTypeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.InternalError(err.Error(), err)
	}

	logger := h.logger.WithContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Event processing failed", err, logging.Field{Key: "status", Value: status})
	} else {
		logger.Warn("Event rejected", logging.Err(err), logging.Field{Key: "status", Value: status})
	}

	h.writeJSON(w, status, errorResponse{Error: appErr})
}
