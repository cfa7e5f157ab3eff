package main

import (
	"errors"
	"os"

	"ctxdocs.ai/mcp/cmd"
	"ctxdocs.ai/mcp/internal/interfaces/transport"
)

// Overridden by ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCommand(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		// Unrecoverable bind failures get a distinct exit status so
		// supervisors can tell them from configuration errors.
		if errors.Is(err, transport.ErrBindFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
