package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidstash/internal/services"
	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search runs a free-text search against the provider.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query required", shared.ErrMissingArgument)
	}

	if cmd.Bool("local") {
		return r.searchLocal(ctx, cmd, query)
	}

	if _, err := r.ensureEngine(); err != nil {
		return err
	}

	results, err := r.provider.Search(ctx, query, cmd.String("type"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	if len(results) == 0 {
		r.writePlain("No results for %q.\n", query)
		return nil
	}

	for _, result := range results {
		r.printResult(result)
	}
	return nil
}

// searchLocal matches the query against titles and descriptions already in
// the store.
func (r *Runner) searchLocal(ctx context.Context, cmd *cli.Command, query string) error {
	store, err := r.ensureStore()
	if err != nil {
		return err
	}

	switch kind := cmd.String("type"); kind {
	case "channel":
		channels, err := store.SearchChannels(ctx, query)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(channels, true)
		}
		for _, channel := range channels {
			r.writePlain("%s\t%s\n", channel.ChannelID, channel.Title)
		}
	case "playlist":
		playlists, err := store.SearchPlaylists(ctx, query)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(playlists, true)
		}
		for _, playlist := range playlists {
			r.writePlain("%s\t%s\n", playlist.PlaylistID, playlist.Title)
		}
	case "video":
		videos, err := store.SearchVideos(ctx, query)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(videos, true)
		}
		for _, video := range videos {
			r.writePlain("%s\t%s\n", video.VideoID, video.Title)
		}
	default:
		return fmt.Errorf("%w: unknown search type %q", shared.ErrInvalidFlag, kind)
	}
	return nil
}

func (r *Runner) printResult(result services.SearchResult) {
	switch result.Kind {
	case "channel":
		r.writePlain("%s\t%s\n", result.ID, result.Title)
	default:
		r.writePlain("%s\t%s\t%s\n", result.ID, result.Title, result.ChannelTitle)
	}
}
