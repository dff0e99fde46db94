package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/hotelbooking/backend/internal/auth"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// AccessTokenCookie is the cookie carrying the session token
const AccessTokenCookie = "access_token"

// TokenValidator is the interface that wraps access token verification
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// RevocationChecker is the interface that wraps the revoked token lookup
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Session identifies the token a request was authenticated with
type Session struct {
	TokenID   string
	ExpiresAt time.Time
}

// Authenticate resolves the request principal from the bearer header or the
// access token cookie. It never rejects a request: a missing, invalid or
// revoked token leaves an unauthenticated principal in the context and the
// route guards decide what to do with it.
func Authenticate(tokens TokenValidator, revocations RevocationChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := &models.Principal{}
			ctx := r.Context()

			if token := extractToken(r); token != "" {
				if claims, ok := verify(ctx, token, tokens, revocations, logger); ok {
					if p, err := claims.Principal(); err == nil {
						principal = p
						ctx = WithSession(ctx, &Session{
							TokenID:   claims.ID,
							ExpiresAt: claims.ExpiresAt.Time,
						})
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

func verify(ctx context.Context, token string, tokens TokenValidator, revocations RevocationChecker, logger *zap.Logger) (*auth.Claims, bool) {
	claims, err := tokens.ValidateAccessToken(token)
	if err != nil {
		logger.Debug("rejected access token", zap.String("request_id", GetRequestID(ctx)), zap.Error(err))
		return nil, false
	}

	revoked, err := revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Error("failed to check token revocation", zap.String("request_id", GetRequestID(ctx)), zap.Error(err))
		return nil, false
	}
	if revoked {
		return nil, false
	}

	return claims, true
}

// extractToken reads "Authorization: Bearer <token>" first, then the access token cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// GetPrincipal retrieves the request principal from context.
// Requests that did not pass through Authenticate get an unauthenticated principal.
func GetPrincipal(ctx context.Context) *models.Principal {
	if p, ok := ctx.Value(principalKey).(*models.Principal); ok && p != nil {
		return p
	}
	return &models.Principal{}
}

// GetSession retrieves the token session from context
func GetSession(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

// WithPrincipal returns a copy of ctx carrying principal
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// WithSession returns a copy of ctx carrying session
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}
