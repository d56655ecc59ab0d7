package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "vidstash",
		Usage:    "Organize YouTube channels and playlists in a local library",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrMissingAPIKey) {
			logger.Error("no API key configured, set YOUTUBE_API_KEY or edit config.toml")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
