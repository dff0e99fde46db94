package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// HotelService is the interface that wraps methods for the hotel catalog.
type HotelService interface {
	// Method Search lists hotels, quoting every room for the requested party when a guest count is given.
	//
	// A negative guest count yields pricing.ErrInvalidGuestCount, an inverted price range models.ErrInvalidInput.
	Search(ctx context.Context, req *models.HotelSearchRequest) ([]models.HotelListing, error)
	// Method GetHotel retrieves a hotel with its rooms.
	GetHotel(ctx context.Context, id int) (*models.Hotel, error)
	// Method Quote prices a room for a party.
	//
	// The error is pricing.ErrInvalidGuestCount or pricing.ErrOverCapacity when the party cannot be priced.
	Quote(ctx context.Context, roomID, guests int) (*models.RoomQuote, error)
	// Method CreateHotel adds a hotel to the catalog.
	CreateHotel(ctx context.Context, req *models.CreateHotelRequest) (*models.Hotel, error)
	// Method CreateRoom adds a room to a hotel.
	CreateRoom(ctx context.Context, hotelID int, req *models.CreateRoomRequest) (*models.Room, error)
}

// HotelHandler handles HTTP requests for the hotel catalog
type HotelHandler struct {
	BaseHandler
	service HotelService
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(svc HotelService, logger *zap.Logger) *HotelHandler {
	return &HotelHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all hotel handler routes
func (h *HotelHandler) RegisterRoutes(r chi.Router, guard RouteGuard) {
	r.Get("/hotels", h.Search)
	r.Get("/hotels/{id}", h.GetHotel)
	r.Get("/rooms/{id}/quote", h.Quote)

	r.Group(func(r chi.Router) {
		r.Use(guard.Require(access.RequireModerator))
		r.Post("/hotels", h.CreateHotel)
		r.Post("/hotels/{id}/rooms", h.CreateRoom)
	})
}

// Search handles GET /api/v1/hotels
// @Summary Search hotels
// @Description List hotels with their rooms. With a guest count every room carries a nightly quote or is marked unavailable. The price range is in whole currency units.
// @Tags hotels
// @Produce json
// @Param city query string false "City"
// @Param guests query int false "Party size"
// @Param minPrice query int false "Minimum nightly price"
// @Param maxPrice query int false "Maximum nightly price"
// @Success 200 {array} models.HotelListing
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/hotels [get]
func (h *HotelHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.HotelSearchRequest{City: query.Get("city")}

	if raw := query.Get("guests"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil || guests <= 0 {
			h.respondError(w, http.StatusBadRequest, "guests must be a positive integer")
			return
		}
		req.Guests = guests
	}

	var err error
	if req.MinPrice, err = optionalInt(query.Get("minPrice")); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid minPrice parameter")
		return
	}
	if req.MaxPrice, err = optionalInt(query.Get("maxPrice")); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid maxPrice parameter")
		return
	}

	listings, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "failed to search hotels")
		return
	}

	h.respondJSON(w, http.StatusOK, listings)
}

// GetHotel handles GET /api/v1/hotels/{id}
// @Summary Get hotel by ID
// @Tags hotels
// @Produce json
// @Param id path int true "Hotel ID"
// @Success 200 {object} models.Hotel
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/hotels/{id} [get]
func (h *HotelHandler) GetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	hotel, err := h.service.GetHotel(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to get hotel")
		return
	}

	h.respondJSON(w, http.StatusOK, hotel)
}

// Quote handles GET /api/v1/rooms/{id}/quote
// @Summary Quote a room
// @Description Nightly price of a room for a party. Up to the room capacity the base price applies, up to twice the capacity the price doubles.
// @Tags hotels
// @Produce json
// @Param id path int true "Room ID"
// @Param guests query int true "Party size"
// @Success 200 {object} models.RoomQuote
// @Failure 400 {object} map[string]string "Invalid guest count"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "Party exceeds twice the room capacity"
// @Router /api/v1/rooms/{id}/quote [get]
func (h *HotelHandler) Quote(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	guests, err := strconv.Atoi(r.URL.Query().Get("guests"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "guests parameter is required")
		return
	}

	quote, err := h.service.Quote(r.Context(), roomID, guests)
	if err != nil {
		h.respondServiceError(w, err, "failed to quote room")
		return
	}

	h.respondJSON(w, http.StatusOK, quote)
}

// CreateHotel handles POST /api/v1/hotels
// @Summary Create hotel
// @Description Requires moderator privileges
// @Tags hotels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateHotelRequest true "Hotel"
// @Success 201 {object} models.Hotel
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} middleware.DenialResponse
// @Failure 403 {object} middleware.DenialResponse
// @Router /api/v1/hotels [post]
func (h *HotelHandler) CreateHotel(w http.ResponseWriter, r *http.Request) {
	var req models.CreateHotelRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	hotel, err := h.service.CreateHotel(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to create hotel")
		return
	}

	h.respondJSON(w, http.StatusCreated, hotel)
}

// CreateRoom handles POST /api/v1/hotels/{id}/rooms
// @Summary Add room to hotel
// @Description Requires moderator privileges. Base price is in minor currency units.
// @Tags hotels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hotel ID"
// @Param request body models.CreateRoomRequest true "Room"
// @Success 201 {object} models.Room
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} middleware.DenialResponse
// @Failure 403 {object} middleware.DenialResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/hotels/{id}/rooms [post]
func (h *HotelHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	hotelID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.CreateRoomRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	room, err := h.service.CreateRoom(r.Context(), hotelID, &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to create room")
		return
	}

	h.respondJSON(w, http.StatusCreated, room)
}

// optionalInt parses raw as an integer, returning nil for an empty string
func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
