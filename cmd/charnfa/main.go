// Package main is the entry point for the charnfa CLI.
package main

import (
	"errors"
	"os"

	"github.com/coregx/charnfa/internal/cli"
	"github.com/coregx/charnfa/internal/logging"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// check has already reported its findings
		if !errors.Is(err, cli.ErrCheckFailed) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return 1
	}

	return 0
}
