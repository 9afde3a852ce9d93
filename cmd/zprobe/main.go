package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zprobe/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zprobe"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	cmd, args := "run", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	err := runCLI(ctx, cmd, args)

	if cerr := app.Close(); cerr != nil {
		slog.Error("shutdown", "err", cerr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "zprobe: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "version":
		fmt.Printf("zprobe %s\n", version)
		return nil
	case "run":
		return cli.CmdRun(ctx, args)
	case "identity":
		return cli.CmdIdentity(args, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
