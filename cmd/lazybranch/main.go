// Package main is the entry point for the lazybranch application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/chmouel/lazybranch/internal/bootstrap"
	"github.com/chmouel/lazybranch/internal/buildinfo"
	"github.com/chmouel/lazybranch/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := bootstrap.Run(ctx, os.Args); err != nil {
		if errors.Is(err, cli.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Aborted.")
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
