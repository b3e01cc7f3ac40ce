package main

import (
	"context"
	"fmt"
	"os"

	"meal-grocer/internal/app"
	"meal-grocer/internal/cli"
	"meal-grocer/internal/config"
	"meal-grocer/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	application, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	return cli.NewRootCmd(application).ExecuteContext(context.Background())
}
