package middleware

import (
	"log"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once the shared token bucket is empty.
// A non-positive rate disables limiting.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Printf("⚠️  [RATE LIMIT] Rejected %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
