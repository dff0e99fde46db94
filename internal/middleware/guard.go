package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"

	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// DenialResponse is the body of a 401 or 403 produced by a route guard
type DenialResponse struct {
	Error        string `json:"error"`
	Reason       string `json:"reason"`
	Redirect     string `json:"redirect"`
	Notification string `json:"notification,omitempty"`
}

// Guard enforces route requirements with the access policy
type Guard struct {
	notifier *access.Notifier
	logger   *zap.Logger
}

// NewGuard creates a new route guard
func NewGuard(notifier *access.Notifier, logger *zap.Logger) *Guard {
	return &Guard{
		notifier: notifier,
		logger:   logger,
	}
}

// Require returns a middleware that lets a request through only when the
// request principal satisfies req.
//
// Unauthenticated requests get 401 and a redirect to the login page that
// returns to the original URI. Authenticated requests lacking the role get
// 403 and a redirect home. The notification text is attached once per denial
// event of a subject on a route, as decided by the notifier.
func (g *Guard) Require(req access.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			decision := access.Evaluate(principal, req)

			subject := subjectOf(principal, r)
			route := routeOf(r)
			if principal.IsAuthenticated {
				// The client signed in, so its anonymous denials are over
				g.notifier.Forget(anonymousSubject(r))
			}
			notify := g.notifier.Observe(subject, route, decision)

			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			g.logger.Warn("access denied",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("subject", subject),
				zap.String("route", route),
				zap.String("requirement", req.String()),
				zap.String("reason", decision.Reason.String()),
			)

			resp := DenialResponse{
				Error:  decision.Err().Error(),
				Reason: decision.Reason.String(),
			}
			status := http.StatusForbidden
			resp.Redirect = "/"
			if decision.Reason == access.ReasonNotAuthenticated {
				status = http.StatusUnauthorized
				resp.Redirect = "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			if notify {
				resp.Notification = decision.Message()
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				g.logger.Error("failed to encode denial response", zap.Error(err))
			}
		})
	}
}

// subjectOf names who is being denied: the username, or the client address for anonymous callers
func subjectOf(principal *models.Principal, r *http.Request) string {
	if principal.IsAuthenticated {
		return principal.Username
	}
	return anonymousSubject(r)
}

func anonymousSubject(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "anon:" + host
}

// routeOf returns the matched route pattern, falling back to the request path
func routeOf(r *http.Request) string {
	if pattern := routePattern(r); pattern != "" {
		return pattern
	}
	return r.URL.Path
}
