package middleware

import (
	"encoding/json"
	"net/http"
)

// DefaultMaxRequestSize is the body limit of API requests. Every request body is a small JSON document.
const DefaultMaxRequestSize = 64 * 1024

// RequestTooLargeResponse is the body of a 413
type RequestTooLargeResponse struct {
	Error      string `json:"error"`
	LimitBytes int64  `json:"limitBytes"`
}

// RequestSizeLimitMiddleware caps request bodies at maxRequestSize bytes.
//
// A declared Content-Length above the cap is rejected up front. Bodies of
// unknown length are wrapped so that reading past the cap fails and the
// handler's JSON decoding reports 413.
func RequestSizeLimitMiddleware(maxRequestSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxRequestSize {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_ = json.NewEncoder(w).Encode(RequestTooLargeResponse{
					Error:      "request body too large",
					LimitBytes: maxRequestSize,
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			next.ServeHTTP(w, r)
		})
	}
}
