package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/desertthunder/vidstash/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes every stored playlist of a channel to one file per playlist.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("channel-id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id required", shared.ErrMissingArgument)
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	}

	progress, flush := r.progressLogger()
	result, err := engine.ExportChannel(ctx, channelID, opts, progress)
	flush()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("✓ Exported %d/%d playlists to %s\n",
		result.Succeeded, result.TotalPlaylists, result.OutputDirectory)

	if result.Failed > 0 {
		r.writePlainln("Failed playlists:")
		for _, file := range result.Files {
			if file.Err != nil {
				r.writePlain("  %s: %v\n", file.Title, file.Err)
			}
		}
	}
	return nil
}
