package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Flarenzy/fortimigrate/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.NewDashboard).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fortimigrate: %v\n", err)
		stop()
		os.Exit(1)
	}
}
