package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"api-relay-go/internal/config"
	"api-relay-go/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, relay *RelayHandler, health *HealthHandler, mock *MockHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/relay/status", health.Status)

	e.POST("/api/proxy", relay.Handle)

	g := e.Group(cfg.Relay.MockPrefix)
	g.GET("/delay/:seconds", mock.Delay)
	g.POST("/delay/:seconds", mock.Delay)
	g.Match([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}, "/echo", mock.Echo)
	g.GET("/posts", mock.ListPosts)
	g.POST("/posts", mock.CreatePost)
	g.GET("/posts/:id", mock.GetPost)
	g.PUT("/posts/:id", mock.UpdatePost)
	g.DELETE("/posts/:id", mock.DeletePost)
	g.Match([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}, "/status/:code", mock.Status)
	g.GET("/users", mock.Users)

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}
}
