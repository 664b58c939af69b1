// Package snippet renders request drafts as client code: a curl command, a
// fetch call in TypeScript or JavaScript, or a Python requests script.
package snippet

import (
	"strings"

	"api-relay-go/internal/model"
)

const continuation = " \\\n  "

// Curl renders d as a multi-line curl command. Only enabled headers and
// params are included; the body is sent with -d for non-GET requests.
func Curl(d model.Draft) string {
	var b strings.Builder
	b.WriteString("curl -X ")
	b.WriteString(d.NormalizedMethod())

	for _, h := range d.EnabledHeaders() {
		b.WriteString(continuation)
		b.WriteString("-H ")
		b.WriteString(shellQuote(h.Key + ": " + h.Value))
	}

	if d.SendsBody() && d.Body != "" {
		b.WriteString(continuation)
		b.WriteString("-d ")
		b.WriteString(shellQuote(d.Body))
	}

	b.WriteString(continuation)
	b.WriteString(shellQuote(d.FullURL()))
	return b.String()
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
