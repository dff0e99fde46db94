package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/middleware"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for user administration.
type AdminService interface {
	// Method ListUsers retrieves every user with their role flags.
	ListUsers(ctx context.Context) ([]models.User, error)
	// Method UpdateRoles grants or revokes role flags of a user.
	UpdateRoles(ctx context.Context, principal *models.Principal, userID int, req *models.UpdateRolesRequest) error
}

// AdminHandler handles administrator HTTP requests
type AdminHandler struct {
	BaseHandler
	service AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all admin handler routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, guard RouteGuard) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(access.RequireAdmin))
		r.Get("/admin/users", h.ListUsers)
		r.Patch("/admin/users/{id}/roles", h.UpdateRoles)
	})
}

// ListUsers handles GET /api/v1/admin/users
// @Summary List users
// @Description Requires administrator privileges
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} middleware.DenialResponse
// @Failure 403 {object} middleware.DenialResponse
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to list users")
		return
	}

	h.respondJSON(w, http.StatusOK, users)
}

// UpdateRoles handles PATCH /api/v1/admin/users/{id}/roles
// @Summary Update user roles
// @Description Requires administrator privileges. Omitted flags are left unchanged.
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateRolesRequest true "Role flags"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} middleware.DenialResponse
// @Failure 403 {object} middleware.DenialResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/users/{id}/roles [patch]
func (h *AdminHandler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.UpdateRolesRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateRoles(r.Context(), middleware.GetPrincipal(r.Context()), userID, &req); err != nil {
		h.respondServiceError(w, err, "failed to update roles")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
