package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"api-relay-go/internal/mock"
	"api-relay-go/internal/model"
)

// MockHandler serves the deterministic fixtures used to exercise the relay.
type MockHandler struct {
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewMockHandler creates a MockHandler that sleeps on the wall clock.
func NewMockHandler() *MockHandler {
	return &MockHandler{sleep: sleepContext, now: time.Now}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *MockHandler) timestamp() string {
	return h.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// Delay sleeps for the requested number of seconds, capped at 30.
func (h *MockHandler) Delay(c echo.Context) error {
	seconds := mock.DelaySeconds(c.Param("seconds"))

	if err := h.sleep(c.Request().Context(), time.Duration(seconds)*time.Second); err != nil {
		// Caller went away; nobody is left to read a response.
		return nil
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Delayed response after %d seconds", seconds),
		"delay":     seconds,
		"timestamp": h.timestamp(),
	})
}

// Echo reflects the method, URL, query, headers and body of the request.
func (h *MockHandler) Echo(c echo.Context) error {
	req := c.Request()

	params := make(map[string]string)
	for key, vals := range req.URL.Query() {
		params[key] = vals[len(vals)-1]
	}

	headers := make(map[string]string, len(req.Header)+1)
	for key, vals := range req.Header {
		headers[strings.ToLower(key)] = strings.Join(vals, ", ")
	}
	headers["host"] = req.Host

	out := map[string]any{
		"method":    req.Method,
		"url":       c.Scheme() + "://" + req.Host + req.RequestURI,
		"params":    params,
		"headers":   headers,
		"timestamp": h.timestamp(),
	}

	switch req.Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
	default:
		out["body"] = readEchoBody(req)
	}

	return c.JSON(http.StatusOK, out)
}

// readEchoBody returns the parsed JSON body for JSON content types and the
// raw text otherwise. Unparsable JSON yields nil.
func readEchoBody(req *http.Request) any {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil
	}
	if strings.Contains(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil
		}
		return v
	}
	return string(data)
}

// ListPosts returns the fixed posts dataset.
func (h *MockHandler) ListPosts(c echo.Context) error {
	return c.JSON(http.StatusOK, mock.Posts())
}

// CreatePost echoes the posted fields back as a new post. Nothing is stored.
func (h *MockHandler) CreatePost(c echo.Context) error {
	fields, ok := decodeObject(c.Request().Body)
	if !ok {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid JSON body"})
	}

	post := map[string]any{"id": mock.NextPostID()}
	for k, v := range fields {
		post[k] = v
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns one post by id.
func (h *MockHandler) GetPost(c echo.Context) error {
	post, ok := h.findPost(c)
	if !ok {
		return postNotFound(c)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost returns the post with the posted fields merged in. Nothing is stored.
func (h *MockHandler) UpdatePost(c echo.Context) error {
	post, ok := h.findPost(c)
	if !ok {
		return postNotFound(c)
	}

	fields, ok := decodeObject(c.Request().Body)
	if !ok {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid JSON body"})
	}

	merged := post.Fields()
	for k, v := range fields {
		merged[k] = v
	}
	return c.JSON(http.StatusOK, merged)
}

// DeletePost acknowledges a delete. Nothing is removed.
func (h *MockHandler) DeletePost(c echo.Context) error {
	post, ok := h.findPost(c)
	if !ok {
		return postNotFound(c)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Post deleted",
		"id":      post.ID,
	})
}

func (h *MockHandler) findPost(c echo.Context) (mock.Post, bool) {
	id, ok := mock.ParseLeadingInt(c.Param("id"))
	if !ok {
		return mock.Post{}, false
	}
	return mock.FindPost(id)
}

func postNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Post not found"})
}

// decodeObject parses a JSON object body.
func decodeObject(r io.Reader) (map[string]any, bool) {
	var fields map[string]any
	if err := json.NewDecoder(r).Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// Status responds with the requested status code and its canned message.
func (h *MockHandler) Status(c echo.Context) error {
	code := mock.StatusCode(c.Param("code"))
	payload := map[string]any{
		"status":    code,
		"message":   mock.StatusMessage(code),
		"timestamp": h.timestamp(),
	}

	switch {
	case code == http.StatusNoContent || code == http.StatusNotModified:
		// These statuses cannot carry a body.
		return c.NoContent(code)
	case code < 200 || code > 599:
		// net/http cannot send these as a final status.
		return c.JSON(http.StatusOK, payload)
	default:
		return c.JSON(code, payload)
	}
}

// Users returns the fixed users dataset.
func (h *MockHandler) Users(c echo.Context) error {
	return c.JSON(http.StatusOK, mock.Users())
}
