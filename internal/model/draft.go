package model

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BodyType tells how a draft's body should be treated.
type BodyType string

const (
	BodyJSON BodyType = "json"
	BodyText BodyType = "text"
	BodyForm BodyType = "form-urlencoded"
	BodyNone BodyType = "none"
)

// KeyValue is one editable header or query parameter row.
type KeyValue struct {
	Key     string `json:"key" yaml:"key"`
	Value   string `json:"value" yaml:"value"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Draft is a request as the user composes it, before it is sent through the relay.
type Draft struct {
	Method   string     `json:"method" yaml:"method"`
	URL      string     `json:"url" yaml:"url"`
	Headers  []KeyValue `json:"headers,omitempty" yaml:"headers,omitempty"`
	Params   []KeyValue `json:"params,omitempty" yaml:"params,omitempty"`
	Body     string     `json:"body,omitempty" yaml:"body,omitempty"`
	BodyType BodyType   `json:"bodyType,omitempty" yaml:"bodyType,omitempty"`
}

// NormalizedMethod returns the upper-cased method, GET when empty.
func (d Draft) NormalizedMethod() string {
	if d.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(d.Method)
}

// EffectiveBodyType resolves an unset body type: none for an empty body, text otherwise.
func (d Draft) EffectiveBodyType() BodyType {
	if d.BodyType != "" {
		return d.BodyType
	}
	if d.Body == "" {
		return BodyNone
	}
	return BodyText
}

// SendsBody reports whether the body goes out with the request.
func (d Draft) SendsBody() bool {
	return d.NormalizedMethod() != http.MethodGet && d.EffectiveBodyType() != BodyNone
}

// FullURL returns the URL with enabled, non-empty-keyed params appended in order.
func (d Draft) FullURL() string {
	var q []string
	for _, p := range d.Params {
		if p.Enabled && p.Key != "" {
			q = append(q, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
		}
	}
	if len(q) == 0 {
		return d.URL
	}
	sep := "?"
	if strings.Contains(d.URL, "?") {
		sep = "&"
	}
	return d.URL + sep + strings.Join(q, "&")
}

// EnabledHeaders returns the enabled, non-empty-keyed headers in order.
func (d Draft) EnabledHeaders() []KeyValue {
	var out []KeyValue
	for _, h := range d.Headers {
		if h.Enabled && h.Key != "" {
			out = append(out, h)
		}
	}
	return out
}

// ResponseData is a relayed response as the client keeps it.
type ResponseData struct {
	Status      int               `json:"status"`
	StatusText  string            `json:"statusText"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
	Size        int               `json:"size"`
	Duration    time.Duration     `json:"duration"`
	ContentType string            `json:"contentType"`
}
