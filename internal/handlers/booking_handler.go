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

// BookingService is the interface that wraps methods for bookings and receipts.
type BookingService interface {
	// Method Create books a room for the principal.
	//
	// Parties that cannot be priced yield pricing.ErrInvalidGuestCount or pricing.ErrOverCapacity.
	Create(ctx context.Context, principal *models.Principal, req *models.CreateBookingRequest) (*models.Booking, error)
	// Method ListMine retrieves the principal's own bookings.
	ListMine(ctx context.Context, principal *models.Principal) ([]models.Booking, error)
	// Method ListAll retrieves a page of all bookings.
	ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error)
	// Method Receipt builds a booking receipt for its owner or a staff member.
	Receipt(ctx context.Context, principal *models.Principal, bookingID string) (*models.Receipt, error)
	// Method Dashboard summarizes the principal's account.
	Dashboard(ctx context.Context, principal *models.Principal) (*models.DashboardResponse, error)
}

// BookingHandler handles HTTP requests for bookings, receipts and the user dashboard
type BookingHandler struct {
	BaseHandler
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(svc BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all booking handler routes
func (h *BookingHandler) RegisterRoutes(r chi.Router, guard RouteGuard) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(access.RequireNone))
		r.Get("/me", h.Dashboard)
		r.Post("/bookings", h.Create)
		r.Get("/bookings", h.ListMine)
		r.Get("/bookings/{id}/receipt", h.Receipt)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.Require(access.RequireWorker))
		r.Get("/staff/bookings", h.ListAll)
	})
}

// Create handles POST /api/v1/bookings
// @Summary Book a room
// @Description Nightly price follows the room capacity surcharge, the total is nightly price times nights.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateBookingRequest true "Booking"
// @Success 201 {object} models.Booking
// @Failure 400 {object} map[string]string "Invalid dates or guest count"
// @Failure 401 {object} middleware.DenialResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "Party exceeds twice the room capacity"
// @Router /api/v1/bookings [post]
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.Create(r.Context(), middleware.GetPrincipal(r.Context()), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to create booking")
		return
	}

	h.respondJSON(w, http.StatusCreated, booking)
}

// ListMine handles GET /api/v1/bookings
// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Booking
// @Failure 401 {object} middleware.DenialResponse
// @Router /api/v1/bookings [get]
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListMine(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "failed to list bookings")
		return
	}

	h.respondJSON(w, http.StatusOK, bookings)
}

// Receipt handles GET /api/v1/bookings/{id}/receipt
// @Summary Get booking receipt
// @Description Available to the booking owner and to staff
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} models.Receipt
// @Failure 400 {object} map[string]string
// @Failure 401 {object} middleware.DenialResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/bookings/{id}/receipt [get]
func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Receipt(r.Context(), middleware.GetPrincipal(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "failed to get receipt")
		return
	}

	h.respondJSON(w, http.StatusOK, receipt)
}

// ListAll handles GET /api/v1/staff/bookings
// @Summary List all bookings
// @Description Requires staff privileges
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size, default 50, max 200"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Booking
// @Failure 400 {object} map[string]string
// @Failure 401 {object} middleware.DenialResponse
// @Failure 403 {object} middleware.DenialResponse
// @Router /api/v1/staff/bookings [get]
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid offset parameter")
		return
	}

	bookings, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(w, err, "failed to list bookings")
		return
	}

	h.respondJSON(w, http.StatusOK, bookings)
}

// Dashboard handles GET /api/v1/me
// @Summary Get my dashboard
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardResponse
// @Failure 401 {object} middleware.DenialResponse
// @Router /api/v1/me [get]
func (h *BookingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

// intQuery parses an optional integer query parameter, defaulting to zero
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
