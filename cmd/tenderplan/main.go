package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/bkoetsier/tenderplan/internal/cli"
	"github.com/bkoetsier/tenderplan/internal/config"
	"github.com/bkoetsier/tenderplan/internal/gateway"
	"github.com/bkoetsier/tenderplan/internal/roster"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	var logger gateway.Logger = gateway.NoopLogger{}
	if cfg.LogWarns {
		logger = gateway.NewWriterLogger(os.Stderr)
	}

	gw := gateway.New(gateway.Config{
		BaseURL:   cfg.Endpoint,
		TimeoutMs: cfg.TimeoutMs,
		CountsTTL: cfg.CountsTTL,
	}, cfg.TokenSource(), logger)

	app := &cli.App{
		Gateway: gw,
		Roster:  roster.NewIndex(),
		Logger:  logger,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
