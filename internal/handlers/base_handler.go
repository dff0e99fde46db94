package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/models"
	"github.com/hotelbooking/backend/internal/pricing"
	"github.com/hotelbooking/backend/internal/validation"
	"go.uber.org/zap"
)

// RouteGuard is the interface that wraps route requirement enforcement
type RouteGuard interface {
	// Method Require returns a middleware admitting only principals that satisfy req.
	Require(req access.Requirement) func(http.Handler) http.Handler
}

type BaseHandler struct {
	logger *zap.Logger
}

// ValidationErrorResponse is the body of a 400 caused by invalid request fields
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and rejects unknown fields
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondServiceError maps a service error onto an HTTP status.
// Unknown errors are logged and reported as 500 with fallback as the message.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		h.respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: "invalid input", Fields: verr.Fields})
	case errors.Is(err, access.ErrNotAuthenticated):
		h.respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, access.ErrInsufficientRole), errors.Is(err, models.ErrForbidden):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, pricing.ErrInvalidGuestCount):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrOverCapacity), errors.Is(err, pricing.ErrTotalOverflow):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrAlreadyExists):
		h.respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
