package main

import (
	"os"

	"github.com/dockyard-ci/dockyard/cmd"
	"github.com/dockyard-ci/dockyard/internal/commands"
	"github.com/dockyard-ci/dockyard/logging"
)

func main() {
	logger := logging.NewLogWithWriters(os.Stdout, os.Stderr)
	rootCmd := cmd.NewDockyardCommand(logger)

	ctx := commands.CreateCancellableContext()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
