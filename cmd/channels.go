package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidstash/internal/formatter"
	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/urfave/cli/v3"
)

// ChannelAdd onboards a channel from a URL, handle or raw channel id.
func (r *Runner) ChannelAdd(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: channel URL or handle required", shared.ErrMissingArgument)
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	progress, flush := r.progressLogger()
	result, err := engine.AddChannel(ctx, url, progress)
	flush()
	if err != nil {
		return fmt.Errorf("failed to add channel: %w", err)
	}

	if result.Existed {
		r.writePlain("Channel '%s' is already saved.\n", result.Channel.Title)
		return nil
	}

	r.writePlain("✓ Saved '%s' (%s, %d videos)\n",
		result.Channel.Title,
		formatter.FormatSubscriberCount(result.Channel.SubscriberCount),
		result.Channel.VideoCount)
	return nil
}

// ChannelList prints saved channels.
func (r *Runner) ChannelList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	channels, err := store.ListChannels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list channels: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(channels, cmd.Bool("pretty"))
	}

	if len(channels) == 0 {
		r.writePlain("No channels saved. Run 'vidstash channels add <url>' first.\n")
		return nil
	}

	for _, channel := range channels {
		r.writePlain("%d\t%s\t%s\t%s\n",
			channel.ID,
			channel.Title,
			formatter.FormatSubscriberCount(channel.SubscriberCount),
			channel.ChannelID)
	}
	return nil
}

// ChannelSync discovers playlists created upstream since onboarding.
func (r *Runner) ChannelSync(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("channel-id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id required", shared.ErrMissingArgument)
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	progress, flush := r.progressLogger()
	result, err := engine.SyncPlaylists(ctx, channelID, progress)
	flush()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlain("✓ Sync complete: %d new playlists, %d unchanged, %d new videos\n",
		result.PlaylistsCreated, result.PlaylistsSkipped, result.VideosCreated)
	return nil
}

// ChannelDelete removes a channel and everything cached under it.
func (r *Runner) ChannelDelete(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("channel-id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id required", shared.ErrMissingArgument)
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	store, _ := r.ensureStore()
	channel, err := store.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	progress, flush := r.progressLogger()
	err = engine.DeleteChannel(ctx, channelID, progress)
	flush()
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	r.writePlain("✓ Deleted '%s' and all cached data\n", channel.Title)
	return nil
}
