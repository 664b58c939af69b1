// Package model defines shared types for the relay.
package model

// RelayRequest is the outbound request description posted to /api/proxy.
// Body is a pointer so an omitted body can be told apart from an empty one.
type RelayRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    *string           `json:"body,omitempty"`
}

// RelayResponse is the normalized target response returned to the caller.
// Status and StatusText belong to the target, not to the relay itself.
type RelayResponse struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// ErrorResponse is the payload of every failed relay call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResult is the outcome of checking a target URL. URL is the
// normalized form that was checked and is what must be forwarded.
type ValidationResult struct {
	Valid  bool
	Reason string
	URL    string
}
