package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestSecurityMiddleware_SecurityHeaders tests that every response carries
// the hardening headers, and that the wrapped handler still runs.
func TestSecurityMiddleware_SecurityHeaders(t *testing.T) {
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"X-XSS-Protection", "1; mode=block"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := rec.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}

	if !nextCalled {
		t.Error("next handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestSecurityMiddleware_CORS tests which origins get CORS headers.
func TestSecurityMiddleware_CORS(t *testing.T) {
	dashboards := SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"https://grafana.internal"},
		AllowedMethods: []string{http.MethodGet},
	}

	tests := []struct {
		name        string
		config      SecurityConfig
		origin      string
		wantOrigin  string
		wantMethods string
	}{
		{"default allows any origin", DefaultSecurityConfig(), "https://example.com", "*", "GET, OPTIONS"},
		{"default without Origin header", DefaultSecurityConfig(), "", "*", "GET, OPTIONS"},
		{"listed origin is echoed", dashboards, "https://grafana.internal", "https://grafana.internal", "GET"},
		{"unlisted origin gets nothing", dashboards, "https://evil.example", "", ""},
		{"missing origin gets nothing", dashboards, "", "", ""},
		{"disabled CORS", SecurityConfig{}, "https://example.com", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityMiddleware(tt.config, func(http.ResponseWriter, *http.Request) {})
			req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Errorf("Access-Control-Allow-Methods = %q, want %q", got, tt.wantMethods)
			}
			wantMaxAge := ""
			if tt.wantOrigin != "" {
				wantMaxAge = "86400"
			}
			if got := rec.Header().Get("Access-Control-Max-Age"); got != wantMaxAge {
				t.Errorf("Access-Control-Max-Age = %q, want %q", got, wantMaxAge)
			}
		})
	}
}

// TestSecurityMiddleware_Preflight tests that OPTIONS never reaches the
// wrapped handler.
func TestSecurityMiddleware_Preflight(t *testing.T) {
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(http.ResponseWriter, *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/metrics", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if nextCalled {
		t.Error("next handler should not run for OPTIONS")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("preflight response is missing CORS headers")
	}
}

// TestSecurityMiddleware_PassesOtherMethods tests that method filtering is
// left to the wrapped handler.
func TestSecurityMiddleware_PassesOtherMethods(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			called := false
			handler := SecurityMiddleware(DefaultSecurityConfig(), func(http.ResponseWriter, *http.Request) {
				called = true
			})
			handler(httptest.NewRecorder(), httptest.NewRequest(method, "/healthz", http.NoBody))
			if !called {
				t.Errorf("next handler not called for %s", method)
			}
		})
	}
}
