package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"api-relay-go/internal/model"
)

// requestFlags describe a draft on the command line, optionally seeded from
// a YAML file or a history item. Flags win over the seed.
type requestFlags struct {
	Method   string   `short:"X" help:"HTTP method (default GET)."`
	Header   []string `short:"H" help:"Header as 'Name: value'. Repeatable."`
	Param    []string `short:"q" help:"Query parameter as key=value. Repeatable."`
	Data     string   `short:"d" help:"Request body. Prefix with @ to read a file."`
	BodyType string   `name:"body-type" help:"Body type: json|text|form-urlencoded|none."`
	File     string   `short:"f" type:"existingfile" help:"YAML request file."`
	From     string   `help:"Start from a history item id."`

	URL string `arg:"" optional:"" help:"Target URL."`
}

// requestFile is the YAML layout accepted by --file.
type requestFile struct {
	Method   string            `yaml:"method"`
	URL      string            `yaml:"url"`
	Headers  map[string]string `yaml:"headers"`
	Params   []model.KeyValue  `yaml:"params"`
	Body     string            `yaml:"body"`
	BodyType model.BodyType    `yaml:"bodyType"`
}

func loadRequestFile(path string) (model.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Draft{}, fmt.Errorf("read request file: %w", err)
	}
	var f requestFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return model.Draft{}, fmt.Errorf("parse request file %s: %w", path, err)
	}

	d := model.Draft{Method: f.Method, URL: f.URL, Body: f.Body, BodyType: f.BodyType}

	names := make([]string, 0, len(f.Headers))
	for k := range f.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		d.Headers = append(d.Headers, model.KeyValue{Key: k, Value: f.Headers[k], Enabled: true})
	}
	// Params listed in a file are always enabled.
	for _, p := range f.Params {
		p.Enabled = true
		d.Params = append(d.Params, p)
	}
	return d, nil
}

// draft builds the request from the seed (file or history) and flags.
func (r *requestFlags) draft(a *app) (model.Draft, error) {
	var d model.Draft
	switch {
	case r.File != "" && r.From != "":
		return d, fmt.Errorf("--file and --from are mutually exclusive")
	case r.File != "":
		var err error
		if d, err = loadRequestFile(r.File); err != nil {
			return d, err
		}
	case r.From != "":
		item, ok := a.history.Get(r.From)
		if !ok {
			return d, fmt.Errorf("no history item %q", r.From)
		}
		d = item.Request
	}

	if r.URL != "" {
		d.URL = r.URL
	}
	if r.Method != "" {
		d.Method = r.Method
	}
	for _, h := range r.Header {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return d, fmt.Errorf("invalid header %q, want 'Name: value'", h)
		}
		d.Headers = append(d.Headers, model.KeyValue{Key: strings.TrimSpace(name), Value: strings.TrimSpace(value), Enabled: true})
	}
	for _, p := range r.Param {
		key, value, _ := strings.Cut(p, "=")
		d.Params = append(d.Params, model.KeyValue{Key: key, Value: value, Enabled: true})
	}
	if r.Data != "" {
		body := r.Data
		if path, ok := strings.CutPrefix(body, "@"); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return d, fmt.Errorf("read body: %w", err)
			}
			body = string(data)
		}
		d.Body = body
		if d.BodyType == "" {
			d.BodyType = model.BodyJSON
		}
	}
	if r.BodyType != "" {
		switch bt := model.BodyType(r.BodyType); bt {
		case model.BodyJSON, model.BodyText, model.BodyForm, model.BodyNone:
			d.BodyType = bt
		default:
			return d, fmt.Errorf("invalid body type %q, want json|text|form-urlencoded|none", r.BodyType)
		}
	}
	d.Method = d.NormalizedMethod()
	return d, nil
}
