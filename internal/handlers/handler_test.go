package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/middleware"
	"github.com/hotelbooking/backend/internal/models"
	"github.com/hotelbooking/backend/internal/pricing"
	"github.com/hotelbooking/backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	anonymous = &models.Principal{}
	customer  = &models.Principal{UserID: 7, Username: "alice", IsAuthenticated: true}
	worker    = &models.Principal{UserID: 6, Username: "desk", IsAuthenticated: true, IsWorker: true}
	moderator = &models.Principal{UserID: 5, Username: "mod", IsAuthenticated: true, IsModerator: true}
	admin     = &models.Principal{UserID: 1, Username: "root", IsAuthenticated: true, IsAdmin: true}
)

type routeRegistrar func(r chi.Router, guard RouteGuard)

// setupTestRouter creates a router scoped to /api/v1 whose requests carry principal
func setupTestRouter(principal *models.Principal, session *middleware.Session, register routeRegistrar) chi.Router {
	guard := middleware.NewGuard(access.NewNotifier(0, 0), zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithPrincipal(req.Context(), principal)
			if session != nil {
				ctx = middleware.WithSession(ctx, session)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/v1", func(r chi.Router) {
		register(r, guard)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

// getCookie extracts a cookie from the response
func getCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestBaseHandler_RespondServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "not authenticated", err: access.ErrNotAuthenticated, expectedStatus: http.StatusUnauthorized},
		{name: "insufficient role", err: access.Decision{Reason: access.ReasonInsufficientRole, Missing: models.RoleWorker}.Err(), expectedStatus: http.StatusForbidden},
		{name: "forbidden", err: models.ErrForbidden, expectedStatus: http.StatusForbidden},
		{name: "invalid guest count", err: pricing.ErrInvalidGuestCount, expectedStatus: http.StatusBadRequest},
		{name: "over capacity", err: pricing.ErrOverCapacity, expectedStatus: http.StatusUnprocessableEntity},
		{name: "stay total overflow", err: pricing.ErrTotalOverflow, expectedStatus: http.StatusUnprocessableEntity},
		{name: "validation", err: &validation.Error{Fields: map[string]string{"Email": "Email is required"}}, expectedStatus: http.StatusBadRequest},
		{name: "invalid input", err: models.ErrInvalidInput, expectedStatus: http.StatusBadRequest},
		{name: "invalid credentials", err: models.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized},
		{name: "not found", err: models.ErrNotFound, expectedStatus: http.StatusNotFound},
		{name: "already exists", err: models.ErrAlreadyExists, expectedStatus: http.StatusConflict},
		{name: "invalid room data", err: pricing.ErrInvalidRoom, expectedStatus: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("database error"), expectedStatus: http.StatusInternalServerError},
	}

	h := &BaseHandler{logger: zap.NewNop()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			h.respondServiceError(w, tt.err, "operation failed")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestBaseHandler_RespondServiceError_ValidationFields(t *testing.T) {
	h := &BaseHandler{logger: zap.NewNop()}
	w := httptest.NewRecorder()

	h.respondServiceError(w, &validation.Error{Fields: map[string]string{"Email": "Email is required"}}, "failed")

	var body ValidationErrorResponse
	decodeBody(t, w, &body)
	assert.Equal(t, "invalid input", body.Error)
	assert.Equal(t, "Email is required", body.Fields["Email"])
}

func TestBaseHandler_RespondServiceError_HidesInternalErrors(t *testing.T) {
	h := &BaseHandler{logger: zap.NewNop()}
	w := httptest.NewRecorder()

	h.respondServiceError(w, errors.New("dial tcp 10.0.0.3:3306: connection refused"), "failed to list hotels")

	assert.JSONEq(t, `{"error":"failed to list hotels"}`, w.Body.String())
}
