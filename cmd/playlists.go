package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidstash/internal/formatter"
	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints a channel's stored playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("channel-id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id required", shared.ErrMissingArgument)
	}

	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	if _, err := store.GetChannel(ctx, channelID); err != nil {
		return err
	}

	playlists, err := store.ListPlaylistsByChannel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	for _, playlist := range playlists {
		r.writePlain("%s\t%s\t%d videos\n", playlist.PlaylistID, playlist.Title, playlist.VideoCount)
	}
	return nil
}

// PlaylistVideos prints a playlist's videos in playlist order.
func (r *Runner) PlaylistVideos(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist-id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id required", shared.ErrMissingArgument)
	}

	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	playlist, err := store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	videos, err := store.ListPlaylistVideos(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}

	r.writePlain("%s", formatter.PlaylistText(playlist, videos))
	return nil
}

// PlaylistSync re-syncs one playlist's membership and video details.
func (r *Runner) PlaylistSync(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist-id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id required", shared.ErrMissingArgument)
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	progress, flush := r.progressLogger()
	result, err := engine.SyncPlaylistVideos(ctx, playlistID, progress)
	flush()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlain("✓ Sync complete: %d new videos, %d new entries\n",
		result.VideosCreated, result.ItemsCreated)
	return nil
}
