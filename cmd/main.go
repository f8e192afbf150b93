package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"stationsync/internal/catalog"
	"stationsync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	client := catalog.NewPlexClient(config.Plex, logger)

	runner := NewRunner(RunnerOpts{
		Config: config,
		Client: client,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "stationsync",
		Usage:    "Sync radio station recently-played songs into a Plex playlist",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrRunInProgress) {
			logger.Warn("a sync run is already in progress")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
