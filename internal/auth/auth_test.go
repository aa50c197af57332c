package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func protected() http.Handler {
	return Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/bets", nil)
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestMiddlewareRejectsWrongToken(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/bets", nil)
	req.Header.Set("X-API-Token", "wrong")
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/bets", nil)
	req.Header.Set("X-API-Token", "secret")
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestMiddlewareRejectsWhenTokenUnset(t *testing.T) {
	t.Setenv("API_TOKEN", "")

	req := httptest.NewRequest(http.MethodGet, "/api/bets", nil)
	req.Header.Set("X-API-Token", "anything")
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected API to be disabled without a configured token, got %d", w.Code)
	}
}

func TestMiddlewareSkipsPing(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected ping to bypass auth, got %d", w.Code)
	}
}
