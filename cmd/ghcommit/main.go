package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ghcommit.dev/ghcommit/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
