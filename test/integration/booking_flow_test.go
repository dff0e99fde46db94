package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/auth"
	"github.com/hotelbooking/backend/internal/database"
	"github.com/hotelbooking/backend/internal/handlers"
	"github.com/hotelbooking/backend/internal/middleware"
	"github.com/hotelbooking/backend/internal/models"
	"github.com/hotelbooking/backend/internal/repositories"
	"github.com/hotelbooking/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Password123!"

var (
	testDB     *sql.DB
	testRedis  *miniredis.Miniredis
	testRouter chi.Router
)

// TestMain sets up and tears down the test environment.
// The tests need a MySQL database given by TEST_DB_DSN and are skipped without one.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		fmt.Println("TEST_DB_DSN not set, skipping integration tests")
		os.Exit(0)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	testDB, err = database.OpenMySQL(dsn, database.SchedulerPool)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}
	if err = database.Migrate(testDB, "file://../../migrations"); err != nil {
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	}

	testRedis, err = miniredis.Run()
	if err != nil {
		panic(fmt.Sprintf("Failed to start redis: %v", err))
	}

	testRouter = setupTestRouter(testDB, redis.NewClient(&redis.Options{Addr: testRedis.Addr()}), logger)

	code := m.Run()

	testRedis.Close()
	testDB.Close()
	os.Exit(code)
}

// setupTestRouter wires the API the way cmd/server does, without the notification queue
func setupTestRouter(db *sql.DB, rdb *redis.Client, logger *zap.Logger) chi.Router {
	tokens := auth.NewTokenGenerator("test-secret-key-for-integration-tests", time.Hour)
	revocations := auth.NewRevocationStore(rdb)
	notifier := access.NewNotifier(0, 0)
	guard := middleware.NewGuard(notifier, logger)

	userRepo := repositories.NewUserRepository(db, logger)
	hotelRepo := repositories.NewHotelRepository(db, logger)
	bookingRepo := repositories.NewBookingRepository(db, logger)
	preferencesRepo := repositories.NewPreferencesRepository(rdb, logger)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo, tokens, revocations, notifier, logger), logger)
	hotelHandler := handlers.NewHotelHandler(services.NewHotelService(hotelRepo, logger), logger)
	bookingHandler := handlers.NewBookingHandler(services.NewBookingService(bookingRepo, hotelRepo, nil, logger), logger)
	preferencesHandler := handlers.NewPreferencesHandler(services.NewPreferencesService(preferencesRepo, logger), logger)
	adminHandler := handlers.NewAdminHandler(services.NewAdminService(userRepo, logger), logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Authenticate(tokens, revocations, logger))
	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, guard)
		hotelHandler.RegisterRoutes(r, guard)
		bookingHandler.RegisterRoutes(r, guard)
		preferencesHandler.RegisterRoutes(r, guard)
		adminHandler.RegisterRoutes(r, guard)
	})
	return r
}

type seededCatalog struct {
	hotelID  int
	doubleID int
}

// seedTestData resets the tables and inserts staff accounts and a small catalog
func seedTestData(t *testing.T) seededCatalog {
	t.Helper()

	for _, table := range []string{"bookings", "rooms", "hotels", "users"} {
		_, err := testDB.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to clear %s", table)
	}
	testRedis.FlushAll()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	staff := []struct {
		username                       string
		isAdmin, isModerator, isWorker bool
	}{
		{"root", true, false, false},
		{"desk", false, false, true},
	}
	for _, s := range staff {
		_, err := testDB.Exec(`INSERT INTO users (username, email, password_hash, is_admin, is_moderator, is_worker) VALUES (?, ?, ?, ?, ?, ?)`,
			s.username, s.username+"@hotelbooking.local", string(hash), s.isAdmin, s.isModerator, s.isWorker)
		require.NoError(t, err, "Failed to seed %s", s.username)
	}

	res, err := testDB.Exec(`INSERT INTO hotels (name, city, address, description, stars) VALUES ('Sea View', 'Lisbon', 'Rua 1', '', 4)`)
	require.NoError(t, err)
	hotelID, _ := res.LastInsertId()

	res, err = testDB.Exec(`INSERT INTO rooms (hotel_id, name, base_price, max_people) VALUES (?, 'Double', 10000, 2)`, hotelID)
	require.NoError(t, err)
	doubleID, _ := res.LastInsertId()

	return seededCatalog{hotelID: int(hotelID), doubleID: int(doubleID)}
}

func do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, username string) string {
	t.Helper()

	w := do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Login: username, Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.AccessToken
}

func TestIntegration_BookingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	catalog := seedTestData(t)

	// Register and sign in a customer
	w := do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := login(t, "alice@example.com")

	// Search quotes the double for three guests at the surcharge tier
	w = do(t, http.MethodGet, "/api/v1/hotels?city=Lisbon&guests=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listings []models.HotelListing
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listings))
	require.Len(t, listings, 1)
	require.Len(t, listings[0].Rooms, 1)
	require.NotNil(t, listings[0].Rooms[0].Quote)
	assert.Equal(t, models.Money(20000), listings[0].Rooms[0].Quote.Price)

	// Five guests exceed twice the capacity
	w = do(t, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d/quote?guests=5", catalog.doubleID), "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Book three nights
	w = do(t, http.MethodPost, "/api/v1/bookings", token, models.CreateBookingRequest{
		RoomID: catalog.doubleID, CheckIn: "2026-11-01", CheckOut: "2026-11-04", Guests: 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking models.Booking
	require.NoError(t, json.NewDecoder(w.Body).Decode(&booking))
	assert.Equal(t, 3, booking.Nights)
	assert.Equal(t, models.Money(60000), booking.TotalPrice)

	// The owner and staff can read the receipt
	receiptURL := "/api/v1/bookings/" + booking.ID + "/receipt"
	w = do(t, http.MethodGet, receiptURL, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var receipt models.Receipt
	require.NoError(t, json.NewDecoder(w.Body).Decode(&receipt))
	assert.Equal(t, "Sea View", receipt.HotelName)
	assert.Equal(t, "600.00", receipt.Total)

	workerToken := login(t, "desk")
	w = do(t, http.MethodGet, receiptURL, workerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Only staff list all bookings
	w = do(t, http.MethodGet, "/api/v1/staff/bookings", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, http.MethodGet, "/api/v1/staff/bookings", workerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The dashboard counts the booking
	w = do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dashboard models.DashboardResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dashboard))
	assert.Equal(t, 1, dashboard.BookingCount)
	assert.Equal(t, "guest", dashboard.Role)

	// A revoked token no longer authenticates
	w = do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, http.MethodGet, "/api/v1/bookings", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIntegration_PreferencesAndRoles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	seedTestData(t)

	w := do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bob models.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&bob))
	token := login(t, "bob")

	// Defaults before the first save, the stored search afterwards
	w = do(t, http.MethodGet, "/api/v1/preferences", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"city":"","checkIn":null,"checkOut":null,"guests":1,"priceRange":[0,1000]}`, w.Body.String())

	checkIn, checkOut := "2026-12-01", "2026-12-05"
	w = do(t, http.MethodPut, "/api/v1/preferences", token, models.SearchPreferences{
		City: "Porto", CheckIn: &checkIn, CheckOut: &checkOut, Guests: 2, PriceRange: [2]int{50, 300},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, http.MethodGet, "/api/v1/preferences", token, nil)
	assert.Contains(t, w.Body.String(), `"city":"Porto"`)

	// Moderator routes stay closed until an admin grants the role
	newHotel := models.CreateHotelRequest{Name: "Harbour Inn", City: "Porto", Stars: 3}
	w = do(t, http.MethodPost, "/api/v1/hotels", token, newHotel)
	assert.Equal(t, http.StatusForbidden, w.Code)

	granted := true
	w = do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/users/%d/roles", bob.ID), login(t, "root"),
		models.UpdateRolesRequest{IsModerator: &granted})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// Roles are carried by the token, so a fresh sign-in picks up the grant
	w = do(t, http.MethodPost, "/api/v1/hotels", login(t, "bob"), newHotel)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
