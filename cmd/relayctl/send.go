package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"api-relay-go/internal/session"
)

type sendCmd struct {
	requestFlags

	Include   bool          `short:"i" help:"Print response headers."`
	Timeout   time.Duration `help:"Give up after this long (0 waits for the relay)." default:"0s"`
	NoHistory bool          `name:"no-history" help:"Do not record the request in history."`
}

func (c *sendCmd) Run(a *app) error {
	d, err := c.draft(a)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := session.New(a.relay, &http.Client{Timeout: c.Timeout}, a.logger)
	go func() {
		<-ctx.Done()
		s.Abort()
	}()

	resp, err := s.Send(context.Background(), d)
	var remote *session.RemoteError
	switch {
	case errors.Is(err, session.ErrAborted), errors.Is(err, session.ErrSuperseded):
		a.logger.Info("request aborted")
		return nil
	case errors.As(err, &remote):
		a.record(c.NoHistory, d, nil)
		printRelayError(a.out, remote)
		return fmt.Errorf("relay rejected the request (HTTP %d)", remote.HTTPStatus)
	case err != nil:
		return err
	}

	a.record(c.NoHistory, d, resp)
	printResponse(a.out, resp, c.Include)
	return nil
}
