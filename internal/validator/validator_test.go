package validator

import (
	"testing"
)

func TestCheck(t *testing.T) {
	v := New("")
	localhostReason := "Localhost is not allowed (except /api/mock endpoints)"

	tests := []struct {
		name       string
		url        string
		wantValid  bool
		wantReason string
	}{
		{"public https", "https://api.example.com/v1/users", true, ""},
		{"public http with port", "http://example.com:8080/path?q=1", true, ""},
		{"uppercase scheme", "HTTPS://example.com/", true, ""},
		{"public ip", "http://8.8.8.8/", true, ""},
		{"hostname starting with 10", "https://10.example.com/", true, ""},

		{"garbage", "not a url", false, ReasonInvalidURL},
		{"empty", "", false, ReasonInvalidURL},
		{"relative path", "/api/mock/users", false, ReasonInvalidURL},
		{"missing host", "http:///path", false, ReasonInvalidURL},
		{"bad escape", "http://example.com/%zz", false, ReasonInvalidURL},

		{"ftp", "ftp://example.com/file", false, ReasonProtocol},
		{"file", "file:///etc/passwd", false, ReasonProtocol},
		{"javascript", "javascript:alert(1)", false, ReasonProtocol},
		{"gopher", "gopher://example.com/", false, ReasonProtocol},

		{"mock on 127.0.0.1", "http://127.0.0.1:3000/api/mock/users", true, ""},
		{"mock on localhost", "http://localhost:3000/api/mock/status/404", true, ""},
		{"mock on LOCALHOST", "http://LOCALHOST/api/mock/echo", true, ""},
		{"mock on ipv6 loopback", "http://[::1]:3000/api/mock/posts/1", true, ""},

		{"localhost root", "http://localhost/", false, localhostReason},
		{"localhost api", "http://localhost:3000/api/proxy", false, localhostReason},
		{"127.0.0.1 admin", "http://127.0.0.1/admin", false, localhostReason},
		{"ipv6 loopback", "http://[::1]/", false, localhostReason},
		{"mock prefix in query only", "http://localhost/?p=/api/mock", false, localhostReason},
		{"dot segments leave mock prefix", "http://127.0.0.1:6379/api/mock/../admin", false, localhostReason},
		{"encoded dot segments leave mock prefix", "http://localhost/api/mock/%2e%2e/internal", false, localhostReason},
		{"mixed encoded dot segments", "http://localhost/api/mock/%2E./internal", false, localhostReason},
		{"trailing dot dot", "http://localhost/api/mock/..", false, localhostReason},
		{"dot segments stay in mock prefix", "http://localhost/api/mock/posts/../users", true, ""},
		{"single dot in mock prefix", "http://localhost/api/mock/./users", true, ""},

		{"short loopback", "http://127.1/", false, localhostReason},
		{"hex loopback", "http://0x7f.0.0.1/admin", false, localhostReason},
		{"octal loopback", "http://0177.0.0.1:8080/", false, localhostReason},
		{"integer loopback", "http://2130706433/", false, localhostReason},
		{"integer loopback mock", "http://2130706433/api/mock/users", true, ""},

		{"10/8", "http://10.0.0.1/", false, ReasonPrivateIP},
		{"10/8 upper", "http://10.255.255.255/", false, ReasonPrivateIP},
		{"172.16", "http://172.16.0.1/", false, ReasonPrivateIP},
		{"172.31", "http://172.31.255.1/", false, ReasonPrivateIP},
		{"192.168", "https://192.168.1.1/router", false, ReasonPrivateIP},
		{"link local", "http://169.254.169.254/latest/meta-data", false, ReasonPrivateIP},
		{"zero net", "http://0.0.0.0/", false, ReasonPrivateIP},
		{"private with mock path", "http://10.0.0.1/api/mock/users", false, ReasonPrivateIP},
		{"ipv4 mapped private", "http://[::ffff:192.168.0.1]/", false, ReasonPrivateIP},
		{"short private", "http://10.1/", false, ReasonPrivateIP},
		{"hex private", "http://0xa9.254.169.254/latest", false, ReasonPrivateIP},
		{"integer private", "http://3232235777/", false, ReasonPrivateIP},
		{"trailing dot private", "http://192.168.0.1./", false, ReasonPrivateIP},

		{"172.15 is public", "http://172.15.0.1/", true, ""},
		{"172.32 is public", "http://172.32.0.1/", true, ""},
		{"192.169 is public", "http://192.169.0.1/", true, ""},
		{"five numeric labels is a hostname", "http://10.0.0.0.1/", true, ""},
		{"out of range part is a hostname", "http://10.256.0.1/", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Check(tt.url)
			if got.Valid != tt.wantValid {
				t.Fatalf("Check(%q).Valid = %v, want %v (reason %q)", tt.url, got.Valid, tt.wantValid, got.Reason)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Check(%q).Reason = %q, want %q", tt.url, got.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheck_NormalizedURL(t *testing.T) {
	v := New("")

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/v1/users?q=1", "https://example.com/v1/users?q=1"},
		{"http://localhost:3000/api/mock/posts/../users?page=2", "http://localhost:3000/api/mock/users?page=2"},
		{"http://localhost/api/mock/%2e/users", "http://localhost/api/mock/users"},
		{"http://2130706433:3000/api/mock/users", "http://127.0.0.1:3000/api/mock/users"},
		{"http://0x08.0x08.0x08.0x08/", "http://8.8.8.8/"},
		{"http://example.com/a/b/../../c/./d/", "http://example.com/c/d/"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := v.Check(tt.url)
			if !got.Valid {
				t.Fatalf("Check(%q) rejected: %q", tt.url, got.Reason)
			}
			if got.URL != tt.want {
				t.Errorf("Check(%q).URL = %q, want %q", tt.url, got.URL, tt.want)
			}
		})
	}
}

func TestParseIPv4Host(t *testing.T) {
	tests := []struct {
		host string
		want string
		ok   bool
	}{
		{"127.0.0.1", "127.0.0.1", true},
		{"127.1", "127.0.0.1", true},
		{"10.1.2", "10.1.0.2", true},
		{"2130706433", "127.0.0.1", true},
		{"0x7f000001", "127.0.0.1", true},
		{"0300.0250.0.1", "192.168.0.1", true},
		{"1.2.3.4.", "1.2.3.4", true},
		{"4294967296", "", false},
		{"1.2.3.256", "", false},
		{"1.2.65536", "", false},
		{"08.0.0.1", "", false},
		{"1..2", "", false},
		{"example.com", "", false},
		{"::1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			addr, ok := parseIPv4Host(tt.host)
			if ok != tt.ok {
				t.Fatalf("parseIPv4Host(%q) ok = %v, want %v", tt.host, ok, tt.ok)
			}
			if ok && addr.String() != tt.want {
				t.Errorf("parseIPv4Host(%q) = %s, want %s", tt.host, addr, tt.want)
			}
		})
	}
}

func TestRemoveDotSegments(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"/":                  "/",
		"/a/b":               "/a/b",
		"/a/./b":             "/a/b",
		"/a/../b":            "/b",
		"/a/..":              "/",
		"/a/.":               "/a/",
		"/../../a":           "/a",
		"/a/%2E%2e/b":        "/b",
		"/a/%2e/b/":          "/a/b/",
		"/api/mock/../admin": "/api/admin",
		"/a/...":             "/a/...",
	}

	for in, want := range tests {
		if got := removeDotSegments(in); got != want {
			t.Errorf("removeDotSegments(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheck_LoopbackOutsideMockPrefix(t *testing.T) {
	v := New("")
	for _, host := range []string{"localhost", "127.0.0.1", "[::1]"} {
		for _, path := range []string{"/", "/api", "/api/moc", "/healthz", "/mock/api"} {
			raw := "http://" + host + ":3000" + path
			got := v.Check(raw)
			if got.Valid {
				t.Errorf("Check(%q) = valid, want localhost rejection", raw)
				continue
			}
			if got.Reason != v.LocalhostReason() {
				t.Errorf("Check(%q).Reason = %q, want %q", raw, got.Reason, v.LocalhostReason())
			}
		}
	}
}

func TestCheck_CustomMockPrefix(t *testing.T) {
	v := New("/fixtures")

	if got := v.Check("http://127.0.0.1/fixtures/users"); !got.Valid {
		t.Errorf("custom prefix should be allowed, got reason %q", got.Reason)
	}

	got := v.Check("http://127.0.0.1/api/mock/users")
	if got.Valid {
		t.Fatal("default prefix should be blocked when a custom prefix is configured")
	}
	if want := "Localhost is not allowed (except /fixtures endpoints)"; got.Reason != want {
		t.Errorf("Reason = %q, want %q", got.Reason, want)
	}
}

func TestNew_DefaultPrefix(t *testing.T) {
	if got := New("").MockPrefix(); got != DefaultMockPrefix {
		t.Errorf("MockPrefix() = %q, want %q", got, DefaultMockPrefix)
	}
}
