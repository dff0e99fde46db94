package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Content-Type, Authorization, " + RequestIDHeader
	corsExposeHeaders = RequestIDHeader
	corsMaxAge        = "3600"
)

// corsOrigins is the parsed allow list. Origins are compared case-insensitively.
type corsOrigins struct {
	any     bool
	allowed map[string]struct{}
}

func newCORSOrigins(origins []string) corsOrigins {
	o := corsOrigins{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		if origin == "*" {
			o.any = true
			continue
		}
		o.allowed[strings.ToLower(origin)] = struct{}{}
	}
	return o
}

// match returns the value of Access-Control-Allow-Origin for requestOrigin, or "" to omit it.
// The front-end sends the session cookie, and browsers refuse "*" on credentialed
// requests, so an allow-all list echoes the caller's origin back.
func (o corsOrigins) match(requestOrigin string) string {
	if requestOrigin == "" {
		return ""
	}
	if o.any {
		return requestOrigin
	}
	if _, ok := o.allowed[strings.ToLower(requestOrigin)]; ok {
		return requestOrigin
	}
	return ""
}

// CORSMiddleware answers preflight requests and sets CORS headers for the allowed origins
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := newCORSOrigins(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")
			if origin := origins.match(r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
