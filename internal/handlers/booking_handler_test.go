package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/models"
	"github.com/hotelbooking/backend/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockBookingService is a mock implementation of BookingService
type mockBookingService struct {
	booking       *models.Booking
	bookings      []models.Booking
	receipt       *models.Receipt
	dashboard     *models.DashboardResponse
	err           error
	lastPrincipal *models.Principal
	lastLimit     int
	lastOffset    int
}

func (m *mockBookingService) Create(ctx context.Context, principal *models.Principal, req *models.CreateBookingRequest) (*models.Booking, error) {
	m.lastPrincipal = principal
	if m.err != nil {
		return nil, m.err
	}
	return m.booking, nil
}

func (m *mockBookingService) ListMine(ctx context.Context, principal *models.Principal) ([]models.Booking, error) {
	m.lastPrincipal = principal
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

func (m *mockBookingService) ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

func (m *mockBookingService) Receipt(ctx context.Context, principal *models.Principal, bookingID string) (*models.Receipt, error) {
	m.lastPrincipal = principal
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func (m *mockBookingService) Dashboard(ctx context.Context, principal *models.Principal) (*models.DashboardResponse, error) {
	m.lastPrincipal = principal
	if m.err != nil {
		return nil, m.err
	}
	return m.dashboard, nil
}

func bookingRoutes(svc BookingService) routeRegistrar {
	h := NewBookingHandler(svc, zap.NewNop())
	return func(r chi.Router, guard RouteGuard) { h.RegisterRoutes(r, guard) }
}

func TestBookingHandler_Create(t *testing.T) {
	validBody := models.CreateBookingRequest{RoomID: 10, CheckIn: "2026-03-01", CheckOut: "2026-03-04", Guests: 3}

	tests := []struct {
		name           string
		principal      *models.Principal
		body           any
		svc            *mockBookingService
		expectedStatus int
	}{
		{
			name:      "created",
			principal: customer,
			body:      validBody,
			svc: &mockBookingService{booking: &models.Booking{
				ID:           "0b6c2f8e-3f43-4d5e-9a43-7d1f2c1e9b10",
				RoomID:       10,
				Nights:       3,
				NightlyPrice: 20000,
				TotalPrice:   60000,
			}},
			expectedStatus: http.StatusCreated,
		},
		{name: "anonymous", principal: anonymous, body: validBody, svc: &mockBookingService{}, expectedStatus: http.StatusUnauthorized},
		{name: "over capacity", principal: customer, body: validBody, svc: &mockBookingService{err: pricing.ErrOverCapacity}, expectedStatus: http.StatusUnprocessableEntity},
		{name: "invalid guest count", principal: customer, body: validBody, svc: &mockBookingService{err: pricing.ErrInvalidGuestCount}, expectedStatus: http.StatusBadRequest},
		{name: "bad dates", principal: customer, body: validBody, svc: &mockBookingService{err: models.ErrInvalidInput}, expectedStatus: http.StatusBadRequest},
		{name: "unknown room", principal: customer, body: validBody, svc: &mockBookingService{err: models.ErrNotFound}, expectedStatus: http.StatusNotFound},
		{name: "malformed body", principal: customer, body: `{"roomId":`, svc: &mockBookingService{}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(tt.principal, nil, bookingRoutes(tt.svc))

			w := doRequest(t, router, http.MethodPost, "/api/v1/bookings", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var booking models.Booking
				decodeBody(t, w, &booking)
				assert.Equal(t, models.Money(60000), booking.TotalPrice)
				assert.Equal(t, customer, tt.svc.lastPrincipal)
			}
		})
	}
}

func TestBookingHandler_ListMine(t *testing.T) {
	svc := &mockBookingService{bookings: []models.Booking{{ID: "a", UserID: customer.UserID}}}
	router := setupTestRouter(customer, nil, bookingRoutes(svc))

	w := doRequest(t, router, http.MethodGet, "/api/v1/bookings", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var bookings []models.Booking
	decodeBody(t, w, &bookings)
	assert.Len(t, bookings, 1)
	assert.Equal(t, customer.UserID, svc.lastPrincipal.UserID)
}

func TestBookingHandler_Receipt(t *testing.T) {
	receipt := &models.Receipt{
		BookingID: "0b6c2f8e-3f43-4d5e-9a43-7d1f2c1e9b10",
		HotelName: "Sea View",
		Total:     "600.00",
		IssuedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		principal      *models.Principal
		svc            *mockBookingService
		expectedStatus int
	}{
		{name: "owner", principal: customer, svc: &mockBookingService{receipt: receipt}, expectedStatus: http.StatusOK},
		{name: "staff", principal: worker, svc: &mockBookingService{receipt: receipt}, expectedStatus: http.StatusOK},
		{
			name:           "someone else",
			principal:      customer,
			svc:            &mockBookingService{err: access.Decision{Reason: access.ReasonInsufficientRole, Missing: models.RoleWorker}.Err()},
			expectedStatus: http.StatusForbidden,
		},
		{name: "anonymous", principal: anonymous, svc: &mockBookingService{}, expectedStatus: http.StatusUnauthorized},
		{name: "unknown booking", principal: customer, svc: &mockBookingService{err: models.ErrNotFound}, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(tt.principal, nil, bookingRoutes(tt.svc))

			w := doRequest(t, router, http.MethodGet, "/api/v1/bookings/0b6c2f8e-3f43-4d5e-9a43-7d1f2c1e9b10/receipt", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var got models.Receipt
				decodeBody(t, w, &got)
				assert.Equal(t, "600.00", got.Total)
			}
		})
	}
}

func TestBookingHandler_ListAll(t *testing.T) {
	tests := []struct {
		name           string
		principal      *models.Principal
		target         string
		expectedStatus int
		expectedLimit  int
		expectedOffset int
	}{
		{name: "worker with paging", principal: worker, target: "/api/v1/staff/bookings?limit=20&offset=40", expectedStatus: http.StatusOK, expectedLimit: 20, expectedOffset: 40},
		{name: "admin without paging", principal: admin, target: "/api/v1/staff/bookings", expectedStatus: http.StatusOK},
		{name: "customer", principal: customer, target: "/api/v1/staff/bookings", expectedStatus: http.StatusForbidden},
		{name: "anonymous", principal: anonymous, target: "/api/v1/staff/bookings", expectedStatus: http.StatusUnauthorized},
		{name: "bad limit", principal: worker, target: "/api/v1/staff/bookings?limit=ten", expectedStatus: http.StatusBadRequest},
		{name: "bad offset", principal: worker, target: "/api/v1/staff/bookings?offset=-", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{bookings: []models.Booking{}}
			router := setupTestRouter(tt.principal, nil, bookingRoutes(svc))

			w := doRequest(t, router, http.MethodGet, tt.target, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedLimit, svc.lastLimit)
				assert.Equal(t, tt.expectedOffset, svc.lastOffset)
			}
		})
	}
}

func TestBookingHandler_Dashboard(t *testing.T) {
	svc := &mockBookingService{dashboard: &models.DashboardResponse{Principal: *moderator, Role: "moderator", BookingCount: 2}}
	router := setupTestRouter(moderator, nil, bookingRoutes(svc))

	w := doRequest(t, router, http.MethodGet, "/api/v1/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var dashboard models.DashboardResponse
	decodeBody(t, w, &dashboard)
	assert.Equal(t, "moderator", dashboard.Role)
	assert.Equal(t, 2, dashboard.BookingCount)
	assert.Equal(t, "mod", dashboard.Principal.Username)
}
