// Command relayctl composes requests and sends them through an api-relay server.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"api-relay-go/internal/history"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cli struct {
	Relay       string           `help:"Base URL of the relay server." default:"http://localhost:3000" env:"RELAY_URL"`
	HistoryFile string           `help:"History file." type:"path" default:"~/.config/relayctl/history.json" env:"RELAYCTL_HISTORY"`
	NoColor     bool             `help:"Disable colour output." env:"NO_COLOR"`
	Verbose     bool             `short:"v" help:"Log debug output to stderr."`
	Version     kong.VersionFlag `help:"Print version and exit."`

	Send    sendCmd    `cmd:"" help:"Send a request through the relay."`
	Code    codeCmd    `cmd:"" aliases:"curl" help:"Print client code (curl, TypeScript, JavaScript, Python) for a request."`
	History historyCmd `cmd:"" help:"Inspect and manage request history."`
}

// app carries the state shared by every command.
type app struct {
	relay   string
	logger  *slog.Logger
	history *history.Store
	out     *os.File
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("relayctl"),
		kong.Description("Send requests through an api-relay server and keep a local history."),
		kong.UsageOnError(),
		kong.Vars{"version": version + " (" + commit + ", " + date + ")"},
	)

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    c.NoColor || !isTerminal(os.Stderr),
	}))
	color.NoColor = c.NoColor || !isTerminal(os.Stdout)

	store, err := history.Open(c.HistoryFile, logger)
	ctx.FatalIfErrorf(err)

	ctx.FatalIfErrorf(ctx.Run(&app{
		relay:   c.Relay,
		logger:  logger,
		history: store,
		out:     os.Stdout,
	}))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
