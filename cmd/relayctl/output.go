package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"api-relay-go/internal/model"
	"api-relay-go/internal/session"
)

var statusColors = map[string]*color.Color{
	"2xx": color.New(color.FgGreen, color.Bold),
	"3xx": color.New(color.FgCyan, color.Bold),
	"4xx": color.New(color.FgYellow, color.Bold),
	"5xx": color.New(color.FgRed, color.Bold),
}

var (
	dim       = color.New(color.Faint)
	headerKey = color.New(color.FgBlue)
	errColor  = color.New(color.FgRed)
)

func statusColor(status int) *color.Color {
	return statusColors[session.StatusClass(status)]
}

func printResponse(w io.Writer, resp *model.ResponseData, include bool) {
	_, _ = statusColor(resp.Status).Fprintf(w, "%d %s", resp.Status, resp.StatusText)
	_, _ = dim.Fprintf(w, "  %s  %s\n", session.FormatDuration(resp.Duration), session.FormatBytes(int64(resp.Size)))

	if include {
		keys := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = headerKey.Fprint(w, k)
			_, _ = fmt.Fprintf(w, ": %s\n", resp.Headers[k])
		}
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, prettyBody(resp))
}

// prettyBody indents JSON bodies and returns anything else unchanged.
func prettyBody(resp *model.ResponseData) string {
	if !strings.Contains(resp.ContentType, "json") {
		return resp.Body
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(resp.Body), "", "  "); err != nil {
		return resp.Body
	}
	return buf.String()
}

func printRelayError(w io.Writer, err *session.RemoteError) {
	_, _ = errColor.Fprintf(w, "Error: %s\n", err.Message)
}

// record adds the exchange to history unless disabled. Failures only warn:
// the request itself already went through.
func (a *app) record(disabled bool, d model.Draft, resp *model.ResponseData) {
	if disabled {
		return
	}
	if _, err := a.history.Add(d, resp); err != nil {
		a.logger.Warn("could not record history", "err", err)
	}
}
