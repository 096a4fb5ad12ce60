package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gear6io/hivebridge/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteWithContext(ctx); err != nil {
		os.Exit(1)
	}
}
