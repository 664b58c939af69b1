package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"api-relay-go/internal/config"
)

func TestHealthz(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(&config.Config{}, "test")
	if err := h.Healthz(c); err != nil {
		t.Fatalf("Healthz() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/relay/status", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cfg := &config.Config{
		Relay: config.RelayConfig{
			TimeoutMS:        30000,
			MaxResponseBytes: 10 * 1024 * 1024,
			MockPrefix:       "/api/mock",
		},
	}
	h := NewHealthHandler(cfg, "1.2.3")
	if err := h.Status(c); err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Status           string `json:"status"`
		Version          string `json:"version"`
		MockPrefix       string `json:"mock_prefix"`
		TimeoutMS        int    `json:"timeout_ms"`
		MaxResponseBytes int64  `json:"max_response_bytes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("body.status = %q, want %q", body.Status, "ok")
	}
	if body.Version != "1.2.3" {
		t.Errorf("body.version = %q, want %q", body.Version, "1.2.3")
	}
	if body.MockPrefix != "/api/mock" {
		t.Errorf("body.mock_prefix = %q, want %q", body.MockPrefix, "/api/mock")
	}
	if body.TimeoutMS != 30000 {
		t.Errorf("body.timeout_ms = %d, want %d", body.TimeoutMS, 30000)
	}
	if body.MaxResponseBytes != 10*1024*1024 {
		t.Errorf("body.max_response_bytes = %d, want %d", body.MaxResponseBytes, 10*1024*1024)
	}
}
