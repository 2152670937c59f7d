// SPDX-License-Identifier: MIT

// Command foodweb prepares food-web datasets and aggregates experiment logs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/foodweb/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "foodweb:", err)
		stop()
		os.Exit(1)
	}
}
