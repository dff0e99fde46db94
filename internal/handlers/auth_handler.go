package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/middleware"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register validates the request and creates a user without role flags.
	//
	// If the request is invalid or the user already exists, the error will be returned together with "nil" value.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Method Login verifies credentials and issues an access token.
	//
	// Unknown logins and wrong passwords both yield models.ErrInvalidCredentials.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	// Method Logout revokes the token the principal signed in with.
	Logout(ctx context.Context, principal *models.Principal, tokenID string, expiresAt time.Time) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router, guard RouteGuard) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(guard.Require(access.RequireNone)).Post("/logout", h.Logout)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Create a customer account. New accounts carry no staff roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.User
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} map[string]string "User already exists"
// @Failure 500 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to register user")
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with username or email and password. The access token is returned in the body and as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to login user")
		return
	}

	h.setTokenCookie(w, resp.AccessToken, time.Unix(resp.ExpiresAt, 0))
	h.respondJSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Description Revoke the current access token and clear the session cookie
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} middleware.DenialResponse
// @Failure 500 {object} map[string]string
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.authService.Logout(r.Context(), principal, session.TokenID, session.ExpiresAt); err != nil {
		h.respondServiceError(w, err, "failed to logout user")
		return
	}

	h.clearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// setTokenCookie sets the access token as an HTTP-only cookie living as long as the token
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, accessToken string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
