package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"api-relay-go/internal/model"
	"api-relay-go/internal/service"
)

// RelayHandler serves POST /api/proxy.
type RelayHandler struct {
	service *service.RelayService
	logger  *slog.Logger
}

// NewRelayHandler creates a RelayHandler.
func NewRelayHandler(svc *service.RelayService, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		service: svc,
		logger:  logger.With("component", "relay_handler"),
	}
}

// Handle decodes a relay request, forwards it, and returns the target's
// response wrapped in a 200. Relay failures carry their own status.
func (h *RelayHandler) Handle(c echo.Context) error {
	req, err := decodeRelayRequest(c.Request().Body)
	if err != nil {
		h.logger.Warn("bad relay request", "err", err)
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid JSON body: " + err.Error()})
	}

	resp, err := h.service.Forward(c.Request().Context(), req)
	if err != nil {
		return h.mapError(c, req, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RelayHandler) mapError(c echo.Context, req *model.RelayRequest, err error) error {
	var re *service.RelayError
	if !errors.As(err, &re) {
		h.logger.Error("relay error", "err", err, "url", req.URL)
		return c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
	}

	switch re.Kind {
	case service.KindValidation:
		h.logger.Info("relay rejected", "reason", re.Message, "url", req.URL)
	default:
		h.logger.Error("relay error",
			"kind", string(re.Kind),
			"err", re.Message,
			"method", req.Method,
			"url", req.URL,
		)
	}

	return c.JSON(re.Status, model.ErrorResponse{Error: re.Message})
}

// decodeRelayRequest parses exactly one JSON object from r. Field types are
// enforced by the struct; trailing data is rejected.
func decodeRelayRequest(r io.Reader) (*model.RelayRequest, error) {
	dec := json.NewDecoder(r)

	var req model.RelayRequest
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode relay request: %w", err)
	}
	if dec.More() {
		return nil, errors.New("unexpected data after relay request object")
	}
	return &req, nil
}
