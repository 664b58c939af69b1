// Package validator classifies relay target URLs against the network policy:
// only http(s) is allowed, loopback hosts are blocked except for the bundled
// mock endpoints, and literal private IPv4 hosts are blocked.
//
// Before classification the URL is normalized the way browsers do it: dot
// segments are removed from the path and shorthand IPv4 hosts ("10.1",
// "0x7f.0.0.1", "2130706433") are rewritten in dotted-decimal form. The
// normalized URL is the one that must be forwarded.
//
// Hostnames are otherwise matched as written. Nothing is resolved, so a DNS
// name that points at a private address passes.
package validator

import (
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"api-relay-go/internal/model"
)

// DefaultMockPrefix is the path prefix of the bundled mock endpoints.
const DefaultMockPrefix = "/api/mock"

const (
	ReasonInvalidURL = "Invalid URL format"
	ReasonProtocol   = "Only HTTP and HTTPS protocols are allowed"
	ReasonPrivateIP  = "Private IP addresses are not allowed"
)

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

var loopbackHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
}

// privateRanges are the reserved IPv4 blocks a target may not address directly.
var privateRanges = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("0.0.0.0/8"),
}

// Validator checks target URLs. The zero value is not usable; use New.
type Validator struct {
	mockPrefix string
}

// New returns a Validator whose loopback carve-out applies to paths under
// mockPrefix. An empty prefix selects DefaultMockPrefix.
func New(mockPrefix string) *Validator {
	if mockPrefix == "" {
		mockPrefix = DefaultMockPrefix
	}
	return &Validator{mockPrefix: mockPrefix}
}

// MockPrefix returns the path prefix exempt from the loopback block.
func (v *Validator) MockPrefix() string {
	return v.mockPrefix
}

// LocalhostReason is the rejection reason for loopback targets outside the
// mock prefix.
func (v *Validator) LocalhostReason() string {
	return "Localhost is not allowed (except " + v.mockPrefix + " endpoints)"
}

// Check classifies rawURL. The mock carve-out is evaluated before the
// loopback block so local fixtures stay reachable.
func (v *Validator) Check(rawURL string) model.ValidationResult {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return invalid(ReasonInvalidURL)
	}

	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return invalid(ReasonProtocol)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return invalid(ReasonInvalidURL)
	}

	if addr, ok := parseIPv4Host(host); ok {
		host = addr.String()
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(host, port)
		} else {
			u.Host = host
		}
	}
	if err := normalizePath(u); err != nil {
		return invalid(ReasonInvalidURL)
	}

	if loopbackHosts[host] {
		if v.isMockPath(u) {
			return valid(u)
		}
		return invalid(v.LocalhostReason())
	}

	if isPrivateIPv4(host) {
		return invalid(ReasonPrivateIP)
	}

	return valid(u)
}

func (v *Validator) isMockPath(u *url.URL) bool {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return strings.HasPrefix(path, v.mockPrefix)
}

// normalizePath removes dot segments from the escaped path, counting "%2e"
// as ".", so the prefix checks see the path the target will serve.
func normalizePath(u *url.URL) error {
	escaped := u.EscapedPath()
	clean := removeDotSegments(escaped)
	if clean == escaped {
		return nil
	}
	path, err := url.PathUnescape(clean)
	if err != nil {
		return err
	}
	u.Path = path
	u.RawPath = clean
	return nil
}

// removeDotSegments implements RFC 3986 section 5.2.4 for an absolute path.
// A trailing "." or ".." leaves a trailing slash.
func removeDotSegments(p string) string {
	if !strings.HasPrefix(p, "/") {
		return p
	}
	segs := strings.Split(p[1:], "/")
	out := make([]string, 0, len(segs))
	trailing := false
	for i, seg := range segs {
		last := i == len(segs)-1
		switch {
		case isDotSegment(seg):
			trailing = last
		case isDotDotSegment(seg):
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			trailing = last
		default:
			out = append(out, seg)
		}
	}
	clean := "/" + strings.Join(out, "/")
	if trailing && len(out) > 0 {
		clean += "/"
	}
	return clean
}

func isDotSegment(seg string) bool {
	return seg == "." || strings.EqualFold(seg, "%2e")
}

func isDotDotSegment(seg string) bool {
	switch strings.ToLower(seg) {
	case "..", ".%2e", "%2e.", "%2e%2e":
		return true
	}
	return false
}

// parseIPv4Host parses host as an IPv4 address in any of the legacy forms
// browsers accept: one to four dot-separated parts, each decimal, octal
// (leading 0) or hex (0x), with the last part filling the remaining bytes.
// A single trailing dot is allowed.
func parseIPv4Host(host string) (netip.Addr, bool) {
	host = strings.TrimSuffix(host, ".")
	if host == "" || strings.Contains(host, ":") {
		return netip.Addr{}, false
	}
	parts := strings.Split(host, ".")
	if len(parts) > 4 {
		return netip.Addr{}, false
	}

	nums := make([]uint64, len(parts))
	for i, part := range parts {
		n, ok := parseIPv4Part(part)
		if !ok {
			return netip.Addr{}, false
		}
		nums[i] = n
	}

	var ip uint64
	for _, n := range nums[:len(nums)-1] {
		if n > 255 {
			return netip.Addr{}, false
		}
		ip = ip<<8 | n
	}
	rest := uint(5 - len(nums))
	last := nums[len(nums)-1]
	if last >= 1<<(8*rest) {
		return netip.Addr{}, false
	}
	ip = ip<<(8*rest) | last

	return netip.AddrFrom4([4]byte{byte(ip >> 24), byte(ip >> 16), byte(ip >> 8), byte(ip)}), true
}

func parseIPv4Part(part string) (uint64, bool) {
	if part == "" {
		return 0, false
	}
	base := 10
	switch {
	case len(part) >= 2 && (part[:2] == "0x" || part[:2] == "0X"):
		part, base = part[2:], 16
		if part == "" {
			return 0, true
		}
	case len(part) >= 2 && part[0] == '0':
		part, base = part[1:], 8
	}
	if part[0] == '+' || part[0] == '-' {
		return 0, false
	}
	n, err := strconv.ParseUint(part, base, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isPrivateIPv4 reports whether host is a literal IPv4 address inside one of
// the reserved ranges.
func isPrivateIPv4(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return false
	}
	for _, p := range privateRanges {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func valid(u *url.URL) model.ValidationResult {
	return model.ValidationResult{Valid: true, URL: u.String()}
}

func invalid(reason string) model.ValidationResult {
	return model.ValidationResult{Valid: false, Reason: reason}
}
