// Package cli implements zprobe's command-line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/zarlcorp/zprobe/internal/identity"
	"github.com/zarlcorp/zprobe/internal/portal"
	"github.com/zarlcorp/zprobe/internal/probe"
	"golang.org/x/term"
)

// runOptions holds everything a probe run needs. CmdRun fills it from
// flags; tests point it at a mock backend.
type runOptions struct {
	baseURL string
	http    *http.Client
	clock   func() time.Time
	out     io.Writer
	styled  bool
	logger  *slog.Logger
}

// NewLogger returns a text logger on w. verbose enables debug records.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// CmdRun registers a test user and checks the BestBuy integration,
// printing the results to stdout. A failed probe is reported, not returned:
// only flag errors produce an error.
func CmdRun(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "log request diagnostics to stderr")
	noColor := fs.Bool("no-color", false, "disable styled output")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("run: unexpected argument %q", fs.Arg(0))
	}

	runProbe(ctx, runOptions{
		baseURL: portal.DefaultBaseURL,
		out:     os.Stdout,
		styled:  !*noColor && IsTerminal(os.Stdout),
		logger:  NewLogger(os.Stderr, *verbose),
	})
	return nil
}

func runProbe(ctx context.Context, o runOptions) probe.Result {
	client := portal.NewClient(portal.Config{BaseURL: o.baseURL}, portal.WithHTTPClient(o.http))

	log := o.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("request_id", client.RequestID())
	log.Debug("probe start", "base_url", client.BaseURL())

	result := probe.Run(ctx, probe.Request{
		Client:     client,
		Identities: identity.New(identity.WithClock(o.clock)),
		Reporter:   newPrinter(o.out, client.BaseURL(), o.styled),
		Logger:     log,
	})

	log.Debug("probe done",
		"outcome", result.Outcome.String(),
		"errors", result.HasErrors(),
		"summary", result.Summary(),
	)
	return result
}

// CmdIdentity generates and prints the identity a run would register.
func CmdIdentity(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("identity", pflag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print as json")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	id := identity.New().Generate()

	if *asJSON {
		return printJSON(w, id)
	}
	printIdentity(w, id)
	return nil
}

func printIdentity(w io.Writer, id identity.Identity) {
	fmt.Fprintf(w, "  name:     %s %s\n", id.FirstName, id.LastName)
	fmt.Fprintf(w, "  email:    %s\n", id.Email)
	fmt.Fprintf(w, "  password: %s\n", id.Password)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
