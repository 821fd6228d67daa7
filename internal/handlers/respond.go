package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"screenbreak/internal/database"
	"screenbreak/internal/service"
)

// errorResponse is the JSON body for all error replies
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes payload as JSON with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// Headers are already out; nothing to do but log.
			zap.L().Error("failed to encode response", zap.Error(err))
		}
	}
}

// respondError maps a service error onto an HTTP status and writes it.
// Domain errors keep their message; anything unrecognized becomes an opaque
// 500 so internals never leak to clients.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrChildNotFound),
		errors.Is(err, service.ErrFamilyNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrInstanceNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNoEligibleChallenge):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrChildMismatch):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrTransient):
		logger.Warn("transient storage failure surfaced to client", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "temporary storage problem, please retry"})
	default:
		logger.Error("internal error", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
