package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stackswitch/cli/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, cmd.Metadata{Version: version, Commit: commit}); err != nil {
		stop()
		os.Exit(1)
	}
}
