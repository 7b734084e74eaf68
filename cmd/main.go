package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"digiflow-recon/internal/cli"
)

// main is the entry point of digiflow-recon. Commands run until they
// finish or a termination signal cancels their context.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
