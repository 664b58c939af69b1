// Package session sends request drafts through a relay on behalf of an
// interactive client. A Session keeps at most one call in flight: starting a
// new call cancels the previous one, and only the latest call's result is
// delivered.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"api-relay-go/internal/model"
)

// ProxyPath is the relay endpoint drafts are posted to.
const ProxyPath = "/api/proxy"

var (
	// ErrSuperseded is returned by a call that a newer Send replaced.
	// Callers treat it as a silent non-error.
	ErrSuperseded = errors.New("session: superseded by a newer request")

	// ErrAborted is returned by a call cancelled through Abort.
	ErrAborted = errors.New("session: request aborted")

	// ErrURLRequired is returned for a draft without a URL.
	ErrURLRequired = errors.New("URL is required")
)

// RemoteError is a failure reported by the relay in its {"error": ...} body.
type RemoteError struct {
	HTTPStatus int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Session posts drafts to a relay.
type Session struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

// New creates a Session for the relay at baseURL. A nil client means
// http.DefaultClient.
func New(baseURL string, client *http.Client, logger *slog.Logger) *Session {
	if client == nil {
		client = http.DefaultClient
	}
	return &Session{
		endpoint: strings.TrimRight(baseURL, "/") + ProxyPath,
		client:   client,
		logger:   logger.With("component", "session"),
		now:      time.Now,
	}
}

// Build turns a draft into the payload posted to the relay.
func Build(d model.Draft) (*model.RelayRequest, error) {
	if strings.TrimSpace(d.URL) == "" {
		return nil, ErrURLRequired
	}

	headers := make(map[string]string)
	for _, h := range d.EnabledHeaders() {
		headers[h.Key] = h.Value
	}

	req := &model.RelayRequest{
		Method:  d.NormalizedMethod(),
		URL:     d.FullURL(),
		Headers: headers,
	}
	if d.SendsBody() {
		body := d.Body
		req.Body = &body
	}
	return req, nil
}

// Send relays d and waits for the result. Any call still in flight is
// cancelled first and returns ErrSuperseded.
func (s *Session) Send(ctx context.Context, d model.Draft) (*model.ResponseData, error) {
	req, err := Build(d)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("session: encode request: %w", err)
	}

	callCtx, cancel := context.WithCancelCause(ctx)
	id := s.begin(cancel)
	defer s.end(id, cancel)

	s.logger.Debug("sending", "method", req.Method, "url", req.URL)

	start := s.now()
	resp, err := s.post(callCtx, payload)
	if err != nil {
		return nil, interrupted(callCtx, err)
	}
	resp.Duration = s.now().Sub(start)

	if !s.isCurrent(id) {
		return nil, ErrSuperseded
	}
	return resp, nil
}

// Abort cancels the call in flight, if any. It returns ErrAborted.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(ErrAborted)
		s.cancel = nil
	}
}

func (s *Session) begin(cancel context.CancelCauseFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
	}
	s.seq++
	s.cancel = cancel
	return s.seq
}

func (s *Session) end(id uint64, cancel context.CancelCauseFunc) {
	s.mu.Lock()
	if s.seq == id {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel(nil)
}

func (s *Session) isCurrent(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == id
}

// interrupted maps a failure caused by supersession or Abort to its sentinel.
func interrupted(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); errors.Is(cause, ErrSuperseded) || errors.Is(cause, ErrAborted) {
		return cause
	}
	return err
}

func (s *Session) post(ctx context.Context, payload []byte) (*model.ResponseData, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("session: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("session: post to relay: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("session: read relay response: %w", err)
	}
	return decode(resp.StatusCode, data)
}

// decode reads either a relayed response or the relay's {"error"} body.
func decode(httpStatus int, data []byte) (*model.ResponseData, error) {
	var payload struct {
		model.RelayResponse
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("session: decode relay response (HTTP %d): %w", httpStatus, err)
	}
	if payload.Error != "" {
		return nil, &RemoteError{HTTPStatus: httpStatus, Message: payload.Error}
	}

	contentType := payload.Headers["content-type"]
	if contentType == "" {
		contentType = "text/plain"
	}
	return &model.ResponseData{
		Status:      payload.Status,
		StatusText:  payload.StatusText,
		Headers:     payload.Headers,
		Body:        payload.Body,
		Size:        len(payload.Body),
		ContentType: contentType,
	}, nil
}
