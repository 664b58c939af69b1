package metrics

import (
	"testing"
)

// outcomeCount returns the gathered api_relay_outcomes_total value for outcome.
func outcomeCount(t *testing.T, m *Metrics, outcome string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() != "api_relay_outcomes_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNew_GathersMetrics(t *testing.T) {
	m := New()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	// Should include at least Go runtime and process collectors.
	if len(families) == 0 {
		t.Fatal("expected non-empty metric families from Gather()")
	}

	m.RequestsTotal.WithLabelValues("POST", "200", "/api/proxy").Inc()

	families, err = m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "api_relay_http_requests_total" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected api_relay_http_requests_total in gathered metrics")
	}
}

func TestObserveOutcome(t *testing.T) {
	m := New()

	m.ObserveOutcome(OutcomeSucceeded)
	m.ObserveOutcome(OutcomeSucceeded)
	m.ObserveOutcome(OutcomeTimedOut)

	if got := outcomeCount(t, m, OutcomeSucceeded); got != 2 {
		t.Errorf("succeeded = %v, want 2", got)
	}
	if got := outcomeCount(t, m, OutcomeTimedOut); got != 1 {
		t.Errorf("timed_out = %v, want 1", got)
	}
	if got := outcomeCount(t, m, OutcomeTooLarge); got != 0 {
		t.Errorf("too_large = %v, want 0", got)
	}
}

func TestObserveOutcome_NilReceiver(t *testing.T) {
	var m *Metrics
	m.ObserveOutcome(OutcomeRejected) // must not panic
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"GET", "GET"},
		{"POST", "POST"},
		{"PUT", "PUT"},
		{"DELETE", "DELETE"},
		{"PATCH", "PATCH"},
		{"HEAD", "HEAD"},
		{"OPTIONS", "OPTIONS"},
		{"FOOBAR", "other"},
		{"get", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got := NormalizeMethod(tt.method)
			if got != tt.want {
				t.Errorf("NormalizeMethod(%q) = %q, want %q", tt.method, got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/proxy", "/api/proxy"},
		{"/api/mock/status/404", "/api/mock"},
		{"/api/mock/delay/3", "/api/mock"},
		{"/healthz", "/healthz"},
		{"/relay/status", "/relay/status"},
		{"/metrics", "/metrics"},
		{"/api/proxyfoo", "other"},
		{"/api", "other"},
		{"/", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := NormalizePath(tt.path)
			if got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
