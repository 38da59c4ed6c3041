// Package main runs the portfolio operator CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/portfolio/internal/cmd/portfolioctl"
	entrypoint "github.com/louisbranch/portfolio/internal/platform/cmd"
	"github.com/louisbranch/portfolio/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := portfolioctl.NewRootCommand(portfolioctl.Options{})
	if err := entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePortfolioCtl, root.ExecuteContext); err != nil {
		stop()
		config.Exitf("portfolioctl: %v", err)
	}
}
