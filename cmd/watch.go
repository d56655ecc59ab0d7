package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidstash/internal/formatter"
	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/urfave/cli/v3"
)

// WatchAdd adds a stored video to the watch later queue.
func (r *Runner) WatchAdd(ctx context.Context, cmd *cli.Command) error {
	videoID := cmd.StringArg("video-id")
	if videoID == "" {
		return fmt.Errorf("%w: video id required", shared.ErrMissingArgument)
	}

	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	_, created, err := store.AddWatchLater(ctx, videoID)
	if err != nil {
		return err
	}

	if created {
		r.writePlain("✓ Added %s to watch later\n", videoID)
	} else {
		r.writePlain("✓ %s is already in watch later\n", videoID)
	}
	return nil
}

// WatchList prints the watch later queue in insertion order.
func (r *Runner) WatchList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	videos, err := store.ListWatchLater(ctx)
	if err != nil {
		return fmt.Errorf("failed to list watch later: %w", err)
	}

	if len(videos) == 0 {
		r.writePlain("Watch later queue is empty.\n")
		return nil
	}

	for _, video := range videos {
		r.writePlain("%s\t%s\t%s\n",
			video.VideoID, video.Title, formatter.FormatDuration(video.Duration))
	}
	return nil
}

// WatchRemove removes a video from the watch later queue.
func (r *Runner) WatchRemove(ctx context.Context, cmd *cli.Command) error {
	videoID := cmd.StringArg("video-id")
	if videoID == "" {
		return fmt.Errorf("%w: video id required", shared.ErrMissingArgument)
	}

	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	if err := store.RemoveWatchLater(ctx, videoID); err != nil {
		return err
	}

	r.writePlain("✓ Removed %s from watch later\n", videoID)
	return nil
}
