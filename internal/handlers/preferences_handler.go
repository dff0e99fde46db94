package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/middleware"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// PreferencesService is the interface that wraps methods for saved search preferences.
type PreferencesService interface {
	// Method Get returns the principal's saved search or the defaults.
	Get(ctx context.Context, principal *models.Principal) (*models.SearchPreferences, error)
	// Method Save validates and overwrites the principal's saved search.
	Save(ctx context.Context, principal *models.Principal, prefs *models.SearchPreferences) error
}

// PreferencesHandler handles HTTP requests for saved search preferences
type PreferencesHandler struct {
	BaseHandler
	service PreferencesService
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(svc PreferencesService, logger *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all preferences handler routes
func (h *PreferencesHandler) RegisterRoutes(r chi.Router, guard RouteGuard) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(access.RequireNone))
		r.Get("/preferences", h.Get)
		r.Put("/preferences", h.Save)
	})
}

// Get handles GET /api/v1/preferences
// @Summary Get saved search
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SearchPreferences
// @Failure 401 {object} middleware.DenialResponse
// @Router /api/v1/preferences [get]
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.Get(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "failed to get preferences")
		return
	}

	h.respondJSON(w, http.StatusOK, prefs)
}

// Save handles PUT /api/v1/preferences
// @Summary Save search
// @Description Replace the saved search. Dates are ISO dates or null, the price range is [min, max] in whole currency units.
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SearchPreferences true "Preferences"
// @Success 200 {object} models.SearchPreferences
// @Failure 400 {object} map[string]string
// @Failure 401 {object} middleware.DenialResponse
// @Router /api/v1/preferences [put]
func (h *PreferencesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var prefs models.SearchPreferences
	if !h.decodeJSON(w, r, &prefs) {
		return
	}

	if err := h.service.Save(r.Context(), middleware.GetPrincipal(r.Context()), &prefs); err != nil {
		h.respondServiceError(w, err, "failed to save preferences")
		return
	}

	h.respondJSON(w, http.StatusOK, prefs)
}
