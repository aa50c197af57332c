package auth

import (
	"crypto/hmac"
	"log"
	"net/http"
	"os"
	"strings"
)

// Middleware returns an HTTP middleware that validates the API token on
// /api/ routes. The expected token comes from API_TOKEN; comparison is
// constant-time. With no token configured the API is disabled entirely
// rather than left open.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth for non-API routes
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		// Skip auth for health check endpoint
		if r.URL.Path == "/api/ping" {
			next.ServeHTTP(w, r)
			return
		}

		expected := os.Getenv("API_TOKEN")
		if expected == "" {
			log.Printf("API_TOKEN not set, rejecting API request to %s", r.URL.Path)
			http.Error(w, "Unauthorized: API disabled", http.StatusUnauthorized)
			return
		}

		token := r.Header.Get("X-API-Token")
		if token == "" {
			http.Error(w, "Unauthorized: missing X-API-Token header", http.StatusUnauthorized)
			return
		}

		if !hmac.Equal([]byte(token), []byte(expected)) {
			log.Printf("Auth failed for %s", r.URL.Path)
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
