// Package mock holds the canned data behind the /api/mock endpoints.
// Every accessor returns fresh copies; nothing here is ever mutated.
package mock

import (
	"time"
)

// MaxDelay caps the delay fixture.
const MaxDelay = 30 * time.Second

// Post is one record of the fixed posts dataset.
type Post struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// Fields returns the post as a generic JSON object so callers can merge
// request fields into it.
func (p Post) Fields() map[string]any {
	return map[string]any{
		"id":     p.ID,
		"title":  p.Title,
		"body":   p.Body,
		"userId": p.UserID,
	}
}

// User is one record of the fixed users dataset.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

var posts = []Post{
	{ID: 1, Title: "Hello World", Body: "This is my first post", UserID: 1},
	{ID: 2, Title: "Learning API Design", Body: "APIs are the backbone of modern web development", UserID: 1},
	{ID: 3, Title: "Mock Data is Useful", Body: "Testing with mock data helps catch bugs early", UserID: 2},
	{ID: 4, Title: "REST vs GraphQL", Body: "Both have their pros and cons", UserID: 2},
	{ID: 5, Title: "TypeScript Tips", Body: "Strong typing prevents many runtime errors", UserID: 3},
}

var users = []User{
	{ID: 1, Name: "John Doe", Email: "john@example.com", Role: "admin"},
	{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Role: "user"},
	{ID: 3, Name: "Bob Wilson", Email: "bob@example.com", Role: "user"},
}

var statusMessages = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	409: "Conflict",
	422: "Unprocessable Entity",
	429: "Too Many Requests",
	500: "Internal Server Error",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

// Posts returns the fixed posts dataset.
func Posts() []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	return out
}

// FindPost returns the post with the given id.
func FindPost(id int) (Post, bool) {
	for _, p := range posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// NextPostID is the id a newly created post receives.
func NextPostID() int {
	return len(posts) + 1
}

// Users returns the fixed users dataset.
func Users() []User {
	out := make([]User, len(users))
	copy(out, users)
	return out
}

// StatusMessage returns the canned reason phrase for code, or "Unknown Status".
func StatusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return "Unknown Status"
}

// StatusCode parses a status path segment. Unparsable or zero input means 200.
func StatusCode(raw string) int {
	code, ok := ParseLeadingInt(raw)
	if !ok || code == 0 {
		return 200
	}
	return code
}

// DelaySeconds parses a delay path segment. Unparsable or zero input means
// one second; the result never exceeds MaxDelay.
func DelaySeconds(raw string) int {
	n, ok := ParseLeadingInt(raw)
	if !ok || n == 0 {
		n = 1
	}
	return min(n, int(MaxDelay/time.Second))
}

// ParseLeadingInt parses the optional sign and decimal digits at the start of
// s, ignoring leading spaces and anything after the digits ("12abc" is 12).
func ParseLeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n > (1<<31)/10 {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
