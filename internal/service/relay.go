// Package service implements the relay forwarding logic: validate the target,
// sanitize headers, forward with bounded time and size, and classify failures.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"api-relay-go/internal/client"
	"api-relay-go/internal/config"
	"api-relay-go/internal/metrics"
	"api-relay-go/internal/model"
	"api-relay-go/internal/validator"
)

// MsgURLRequired is returned when a relay request names no target.
const MsgURLRequired = "URL is required"

const mib = 1024 * 1024

// hopByHopRequestHeaders are connection-management headers never forwarded
// to the target. Keys are lower-case.
var hopByHopRequestHeaders = map[string]bool{
	"host":                true,
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

// framingResponseHeaders describe the target's transport framing and no
// longer match the decoded body handed back. Keys are lower-case.
var framingResponseHeaders = map[string]bool{
	"content-encoding":  true,
	"content-length":    true,
	"transfer-encoding": true,
	"connection":        true,
}

// allowedMethods are the methods a relay request may name.
var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// ErrorKind classifies a failed relay call.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindTimeout    ErrorKind = "timeout"
	KindTooLarge   ErrorKind = "too_large"
	KindTransport  ErrorKind = "transport"
)

// RelayError is the only error type Forward returns. Status is the relay's
// own HTTP status for the failure.
type RelayError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

func validationError(msg string) *RelayError {
	return &RelayError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// RelayService forwards validated relay requests to their targets.
type RelayService struct {
	client    *client.UpstreamClient
	validator *validator.Validator
	metrics   *metrics.Metrics
	logger    *slog.Logger

	timeout   time.Duration
	maxBytes  int64
	userAgent string

	timeoutMsg  string
	tooLargeMsg string
}

// NewRelayService creates a RelayService from the relay config.
// The metrics parameter is optional; pass nil to disable outcome recording.
func NewRelayService(c *client.UpstreamClient, v *validator.Validator, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *RelayService {
	return &RelayService{
		client:    c,
		validator: v,
		metrics:   m,
		logger:    logger.With("component", "relay_service"),
		timeout:   cfg.Relay.Timeout(),
		maxBytes:  cfg.Relay.MaxResponseBytes,
		userAgent: cfg.Relay.UserAgent,

		timeoutMsg:  TimeoutMessage(cfg.Relay.Timeout()),
		tooLargeMsg: TooLargeMessage(cfg.Relay.MaxResponseBytes),
	}
}

// TimeoutMessage is the error text for a call that exceeded d,
// e.g. "Request timed out (30s limit)".
func TimeoutMessage(d time.Duration) string {
	return "Request timed out (" + strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s limit)"
}

// TooLargeMessage is the error text for a body over n bytes,
// e.g. "Response too large (max 10MB)".
func TooLargeMessage(n int64) string {
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("Response too large (max %dMB)", n/mib)
	}
	return fmt.Sprintf("Response too large (max %d bytes)", n)
}

// Forward executes req against its target. Every failure is a *RelayError;
// no retries are attempted. The call is bounded by the configured timeout
// and by ctx, whichever ends first.
func (s *RelayService) Forward(ctx context.Context, req *model.RelayRequest) (*model.RelayResponse, error) {
	resp, err := s.forward(ctx, req)
	if err != nil {
		var re *RelayError
		if errors.As(err, &re) {
			s.metrics.ObserveOutcome(outcomeFor(re.Kind))
		}
		return nil, err
	}
	s.metrics.ObserveOutcome(metrics.OutcomeSucceeded)
	return resp, nil
}

func (s *RelayService) forward(ctx context.Context, req *model.RelayRequest) (*model.RelayResponse, error) {
	if req.URL == "" {
		return nil, validationError(MsgURLRequired)
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	if !allowedMethods[method] {
		return nil, validationError(fmt.Sprintf("Unsupported method %q", req.Method))
	}

	res := s.validator.Check(req.URL)
	if !res.Valid {
		s.logger.Debug("target rejected", "url", req.URL, "reason", res.Reason)
		return nil, validationError(res.Reason)
	}
	target := res.URL

	header := s.filterRequestHeaders(req.Headers)

	var body io.Reader
	if req.Body != nil && method != http.MethodGet && method != http.MethodHead {
		body = strings.NewReader(*req.Body)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug("forwarding request", "method", method, "url", target)

	resp, err := s.client.Send(ctx, method, target, header, body)
	if err != nil {
		return nil, s.transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	text, err := s.readBody(resp)
	if err != nil {
		var re *RelayError
		if errors.As(err, &re) {
			return nil, re
		}
		return nil, s.transportError(ctx, err)
	}

	return &model.RelayResponse{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    filterResponseHeaders(resp.Header),
		Body:       text,
	}, nil
}

// transportError maps an outbound failure to a timeout or transport error.
func (s *RelayService) transportError(ctx context.Context, err error) *RelayError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &RelayError{Kind: KindTimeout, Status: http.StatusRequestTimeout, Message: s.timeoutMsg, Err: err}
	}

	return &RelayError{Kind: KindTransport, Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

// readBody decodes the response body and reads at most maxBytes of it.
// An oversized body is discarded rather than truncated.
func (s *RelayService) readBody(resp *http.Response) (string, error) {
	r, closeFn, err := decodeBody(resp)
	if err != nil {
		return "", fmt.Errorf("decode response body: %w", err)
	}
	defer closeFn()

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		s.logger.Warn("response too large", "limit_bytes", s.maxBytes)
		return "", &RelayError{Kind: KindTooLarge, Status: http.StatusRequestEntityTooLarge, Message: s.tooLargeMsg}
	}

	return strings.ToValidUTF8(string(data), "�"), nil
}

// decodeBody undoes a content-encoding the transport left in place. This
// happens when the caller set Accept-Encoding explicitly.
func decodeBody(resp *http.Response) (io.Reader, func(), error) {
	noop := func() {}
	if resp.Uncompressed {
		return resp.Body, noop, nil
	}

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, noop, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, noop, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, noop, err
		}
		return zr, zr.Close, nil
	default:
		return resp.Body, noop, nil
	}
}

// filterRequestHeaders canonicalizes the caller's headers and drops hop-by-hop
// ones. Keys are applied in sorted order, so when two keys differ only in
// case the one sorting last wins.
func (s *RelayService) filterRequestHeaders(src map[string]string) http.Header {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	dst := make(http.Header, len(src))
	for _, key := range keys {
		k := strings.TrimSpace(key)
		if k == "" || hopByHopRequestHeaders[strings.ToLower(k)] {
			continue
		}
		dst.Set(k, src[key])
	}
	if s.userAgent != "" && dst.Get("User-Agent") == "" {
		dst.Set("User-Agent", s.userAgent)
	}
	return dst
}

// filterResponseHeaders flattens the target headers into lower-case keys,
// joining repeated values with ", ", and drops framing headers.
func filterResponseHeaders(src http.Header) map[string]string {
	dst := make(map[string]string, len(src))
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		lk := strings.ToLower(key)
		if framingResponseHeaders[lk] {
			continue
		}
		if prev, ok := dst[lk]; ok {
			dst[lk] = prev + ", " + strings.Join(src[key], ", ")
			continue
		}
		dst[lk] = strings.Join(src[key], ", ")
	}
	return dst
}

// statusText returns the reason phrase of the target's status line.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func outcomeFor(kind ErrorKind) string {
	switch kind {
	case KindValidation:
		return metrics.OutcomeRejected
	case KindTimeout:
		return metrics.OutcomeTimedOut
	case KindTooLarge:
		return metrics.OutcomeTooLarge
	default:
		return metrics.OutcomeTransportFailed
	}
}
