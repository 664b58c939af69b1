package main

import (
	"fmt"

	"api-relay-go/internal/session"
	"api-relay-go/internal/snippet"
)

type codeCmd struct {
	requestFlags

	Lang string `short:"l" help:"Output language: curl|typescript|javascript|python." enum:"curl,typescript,javascript,python" default:"curl"`
}

func (c *codeCmd) Run(a *app) error {
	d, err := c.draft(a)
	if err != nil {
		return err
	}
	// Same preconditions as sending, so the snippet is never for a request
	// the session would refuse.
	if _, err := session.Build(d); err != nil {
		return err
	}
	code, err := snippet.Generate(snippet.Language(c.Lang), d)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, code)
	return err
}
