package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"api-relay-go/internal/metrics"
)

func TestRegisterRoutes_Wiring(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"

	e := echo.New()
	RegisterRoutes(e, cfg, metrics.New(), newTestRelayHandler(cfg), NewHealthHandler(cfg, "test"), NewMockHandler())

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"GET /healthz", http.MethodGet, "/healthz", "", http.StatusOK},
		{"GET /relay/status", http.MethodGet, "/relay/status", "", http.StatusOK},
		{"POST /api/proxy without url", http.MethodPost, "/api/proxy", `{"method":"GET"}`, http.StatusBadRequest},
		{"GET /api/proxy not allowed", http.MethodGet, "/api/proxy", "", http.StatusMethodNotAllowed},
		{"GET /api/mock/posts", http.MethodGet, "/api/mock/posts", "", http.StatusOK},
		{"GET /api/mock/posts/1", http.MethodGet, "/api/mock/posts/1", "", http.StatusOK},
		{"DELETE /api/mock/posts/1", http.MethodDelete, "/api/mock/posts/1", "", http.StatusOK},
		{"GET /api/mock/users", http.MethodGet, "/api/mock/users", "", http.StatusOK},
		{"PUT /api/mock/status/409", http.MethodPut, "/api/mock/status/409", "", http.StatusConflict},
		{"DELETE /api/mock/echo", http.MethodDelete, "/api/mock/echo", "", http.StatusOK},
		{"GET /api/mock/delay/-1", http.MethodGet, "/api/mock/delay/-1", "", http.StatusOK},
		{"GET /metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"GET /unknown returns 404", http.MethodGet, "/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRegisterRoutes_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Path = "/metrics"

	e := echo.New()
	RegisterRoutes(e, cfg, metrics.New(), newTestRelayHandler(cfg), NewHealthHandler(cfg, "test"), NewMockHandler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRegisterRoutes_CustomMockPrefix(t *testing.T) {
	cfg := testConfig()
	cfg.Relay.MockPrefix = "/fixtures"

	e := echo.New()
	RegisterRoutes(e, cfg, nil, newTestRelayHandler(cfg), NewHealthHandler(cfg, "test"), NewMockHandler())

	for path, want := range map[string]int{
		"/fixtures/users":  http.StatusOK,
		"/api/mock/users": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rec.Code != want {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, want)
		}
	}
}
