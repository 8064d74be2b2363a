// Package main provides the entry point for the crewgen CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/crewgen/internal/cli"
	"github.com/mrz1836/crewgen/internal/signal"
)

// Set via ldflags at build time.
var (
	version = "dev"  //nolint:gochecknoglobals // ldflags target
	commit  = "none" //nolint:gochecknoglobals // ldflags target
	date    = ""     //nolint:gochecknoglobals // ldflags target
)

func main() {
	h := signal.NewHandler(context.Background())

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	code, interrupted := h.ExitCode()
	h.Stop()
	cli.CloseLogFile()

	switch {
	case interrupted:
		os.Exit(code)
	case err != nil:
		os.Exit(cli.ExitCodeForError(err))
	}
}
