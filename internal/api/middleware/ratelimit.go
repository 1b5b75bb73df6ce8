package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"resource_hub/internal/common"
)

// RateLimit sheds load once the shared token bucket is empty.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				common.RespondWithError(w, http.StatusTooManyRequests, "The API is at capacity, try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
