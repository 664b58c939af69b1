package model

import "testing"

func TestDraft_FullURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		params []KeyValue
		want   string
	}{
		{"no params", "https://example.com/a", nil, "https://example.com/a"},
		{
			"appends in order", "https://example.com/a",
			[]KeyValue{{"b", "2", true}, {"a", "x y", true}},
			"https://example.com/a?b=2&a=x+y",
		},
		{
			"existing query", "https://example.com/a?z=1",
			[]KeyValue{{"b", "2", true}},
			"https://example.com/a?z=1&b=2",
		},
		{
			"skips disabled and keyless", "https://example.com",
			[]KeyValue{{"off", "1", false}, {"", "v", true}},
			"https://example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Draft{URL: tt.url, Params: tt.params}
			if got := d.FullURL(); got != tt.want {
				t.Errorf("FullURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDraft_SendsBody(t *testing.T) {
	tests := []struct {
		d    Draft
		want bool
	}{
		{Draft{Method: "GET", Body: "x", BodyType: BodyJSON}, false},
		{Draft{Method: "", Body: "x", BodyType: BodyJSON}, false},
		{Draft{Method: "post", Body: "x", BodyType: BodyJSON}, true},
		{Draft{Method: "POST", Body: "x", BodyType: BodyNone}, false},
		{Draft{Method: "PUT", Body: "", BodyType: BodyText}, true},
		{Draft{Method: "PUT", Body: ""}, false},
		{Draft{Method: "PATCH", Body: "raw"}, true},
	}
	for _, tt := range tests {
		if got := tt.d.SendsBody(); got != tt.want {
			t.Errorf("%+v SendsBody() = %v, want %v", tt.d, got, tt.want)
		}
	}
}
