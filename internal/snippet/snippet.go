package snippet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"api-relay-go/internal/model"
)

// Language selects the generator used by Generate.
type Language string

const (
	LangCurl       Language = "curl"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
)

// Languages lists every supported language in display order.
func Languages() []Language {
	return []Language{LangTypeScript, LangJavaScript, LangPython, LangCurl}
}

// Generate renders d in lang.
func Generate(lang Language, d model.Draft) (string, error) {
	switch lang {
	case LangCurl:
		return Curl(d), nil
	case LangTypeScript:
		return TypeScript(d), nil
	case LangJavaScript:
		return JavaScript(d), nil
	case LangPython:
		return Python(d), nil
	default:
		return "", fmt.Errorf("snippet: unsupported language %q", lang)
	}
}

// includesBody reports whether generated code should carry the draft's body.
func includesBody(d model.Draft) bool {
	return d.SendsBody() && d.Body != ""
}

// quote returns s as a double-quoted string literal valid in JSON,
// JavaScript and Python.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// headerObject renders the enabled headers as an object literal whose
// entries sit four spaces deeper than indent. A repeated key keeps its first
// position and its last value.
func headerObject(d model.Draft, indent string) string {
	var keys []string
	values := make(map[string]string)
	for _, h := range d.EnabledHeaders() {
		if _, seen := values[h.Key]; !seen {
			keys = append(keys, h.Key)
		}
		values[h.Key] = h.Value
	}
	if len(keys) == 0 {
		return "{}"
	}

	entries := make([]string, len(keys))
	for i, k := range keys {
		entries[i] = indent + "    " + quote(k) + ": " + quote(values[k])
	}
	return "{\n" + strings.Join(entries, ",\n") + "\n" + indent + "}"
}
