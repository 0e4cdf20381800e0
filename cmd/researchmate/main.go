package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"researchmate/pkg/cli"
)

func main() {
	// Cancel in-flight backend requests on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
