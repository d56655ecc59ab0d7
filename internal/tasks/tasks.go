// package tasks implements channel ingestion and playlist synchronization.
//
// The core abstraction is ChannelEngine, which orchestrates channel
// onboarding, playlist discovery, video sync and cascading deletion against
// a Provider and a Storage backend. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidstash/internal/models"
	"github.com/desertthunder/vidstash/internal/repositories"
	"github.com/desertthunder/vidstash/internal/services"
	"github.com/desertthunder/vidstash/internal/shared"
)

// AddChannelResult reports the outcome of onboarding a channel.
type AddChannelResult struct {
	Channel *models.Channel // The stored channel row
	Existed bool            // True when the channel was already onboarded
}

// SyncResult reports counts from a playlist or video sync run.
type SyncResult struct {
	PlaylistsCreated int // New playlist rows created
	PlaylistsSkipped int // Playlists already present and left untouched
	VideosCreated    int // New video rows created
	ItemsCreated     int // New playlist membership rows created
}

// Engine defines the ingestion and synchronization operations.
type Engine interface {
	// ResolveChannelID turns a channel URL, handle or raw id into a channel id.
	ResolveChannelID(ctx context.Context, input string) (string, error)

	// AddChannel onboards a channel from a URL or handle. Onboarding an
	// already known channel short-circuits without touching the provider.
	AddChannel(ctx context.Context, input string, progress chan<- ProgressUpdate) (*AddChannelResult, error)

	// SyncPlaylists discovers a channel's playlists, persisting and
	// video-syncing the ones not yet stored.
	SyncPlaylists(ctx context.Context, channelID string, progress chan<- ProgressUpdate) (*SyncResult, error)

	// SyncPlaylistVideos syncs one playlist's membership and video details.
	SyncPlaylistVideos(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) (*SyncResult, error)

	// DeleteChannel removes a channel and everything cached under it.
	DeleteChannel(ctx context.Context, channelID string, progress chan<- ProgressUpdate) error
}

// ChannelEngine implements [Engine] over a provider and a storage backend.
type ChannelEngine struct {
	provider services.Provider
	store    repositories.Storage
	logger   *log.Logger
}

// NewChannelEngine creates a ChannelEngine with the provided dependencies.
// A nil logger disables engine logging.
func NewChannelEngine(provider services.Provider, store repositories.Storage, logger *log.Logger) *ChannelEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ChannelEngine{provider: provider, store: store, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ChannelEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

var channelURLPattern = regexp.MustCompile(`/channel/([^/?]+)`)

// ResolveChannelID turns user input into a channel id.
//
// A /channel/<id> URL yields the path segment as-is, with no assumption
// about its shape. Handle forms (@handle, /@handle, /c/name, /user/name)
// resolve through a provider channel search, taking the first hit. Anything
// else that is not a URL is treated as a literal channel id.
func (e *ChannelEngine) ResolveChannelID(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: channel url is required", shared.ErrInvalidInput)
	}

	if m := channelURLPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}

	if handle, ok := strings.CutPrefix(input, "@"); ok && !strings.Contains(input, "/") {
		if handle == "" {
			return "", fmt.Errorf("%w: could not extract a channel handle from %q", shared.ErrInvalidInput, input)
		}
		return e.provider.SearchChannel(ctx, handle)
	}

	if strings.Contains(input, "/") {
		parsed, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("%w: could not parse channel url %q", shared.ErrInvalidInput, input)
		}

		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		for i, segment := range segments {
			if handle, ok := strings.CutPrefix(segment, "@"); ok && handle != "" {
				return e.provider.SearchChannel(ctx, handle)
			}
			if (segment == "c" || segment == "user") && i+1 < len(segments) && segments[i+1] != "" {
				return e.provider.SearchChannel(ctx, strings.TrimPrefix(segments[i+1], "@"))
			}
		}
		return "", fmt.Errorf("%w: could not extract a channel handle from %q", shared.ErrInvalidInput, input)
	}

	// Non-URL input is a literal channel id
	return input, nil
}

// AddChannel onboards a channel.
//
// Resolution, the existence short-circuit, and the channel + uploads
// playlist write happen first, then regular playlists are discovered and the
// uploads playlist is video-synced. The channel and its uploads playlist
// commit in one transaction.
func (e *ChannelEngine) AddChannel(ctx context.Context, input string, progress chan<- ProgressUpdate) (*AddChannelResult, error) {
	e.sendProgress(progress, resolvingChannelUpdate(input))

	channelID, err := e.ResolveChannelID(ctx, input)
	if err != nil {
		return nil, err
	}

	if existing, err := e.store.GetChannel(ctx, channelID); err == nil {
		e.logger.Info("channel already onboarded", "channel", channelID)
		return &AddChannelResult{Channel: existing, Existed: true}, nil
	} else if !errors.Is(err, shared.ErrChannelNotFound) {
		return nil, err
	}

	e.sendProgress(progress, fetchingChannelUpdate(channelID))

	resource, err := e.provider.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	channel := &models.Channel{
		ChannelID:       resource.ChannelID,
		Title:           resource.Title,
		Description:     resource.Description,
		CustomURL:       resource.CustomURL,
		ThumbnailURL:    resource.ThumbnailURL,
		SubscriberCount: resource.SubscriberCount,
		ViewCount:       resource.ViewCount,
		VideoCount:      resource.VideoCount,
	}

	err = e.store.Transact(ctx, func(tx repositories.Storage) error {
		if err := tx.CreateChannel(ctx, channel); err != nil {
			return err
		}
		if resource.UploadsPlaylist == "" {
			return nil
		}
		uploads := &models.Playlist{
			PlaylistID:   resource.UploadsPlaylist,
			ChannelID:    resource.ChannelID,
			Title:        "Uploads",
			Description:  fmt.Sprintf("All uploads from %s", resource.Title),
			ThumbnailURL: resource.ThumbnailURL,
			VideoCount:   resource.VideoCount,
		}
		return tx.CreatePlaylist(ctx, uploads)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("channel onboarded", "channel", channelID, "title", channel.Title)
	e.sendProgress(progress, persistedChannelUpdate(channel))

	if _, err := e.SyncPlaylists(ctx, channelID, progress); err != nil {
		return nil, err
	}

	if resource.UploadsPlaylist != "" {
		if _, err := e.SyncPlaylistVideos(ctx, resource.UploadsPlaylist, progress); err != nil {
			return nil, err
		}
	}

	return &AddChannelResult{Channel: channel}, nil
}

// SyncPlaylists walks the channel's playlists page by page. Playlists
// already in storage are skipped untouched, new ones are persisted and
// immediately video-synced. A failure aborts the walk.
func (e *ChannelEngine) SyncPlaylists(ctx context.Context, channelID string, progress chan<- ProgressUpdate) (*SyncResult, error) {
	result := &SyncResult{}
	pageToken := ""
	step := 0

	for {
		page, err := e.provider.ListPlaylists(ctx, channelID, pageToken)
		if err != nil {
			e.logger.Error("playlist discovery failed", "channel", channelID, "err", err)
			return nil, err
		}

		for _, resource := range page.Playlists {
			step++

			if _, err := e.store.GetPlaylist(ctx, resource.PlaylistID); err == nil {
				result.PlaylistsSkipped++
				continue
			} else if !errors.Is(err, shared.ErrPlaylistNotFound) {
				return nil, err
			}

			playlist := &models.Playlist{
				PlaylistID:   resource.PlaylistID,
				ChannelID:    resource.ChannelID,
				Title:        resource.Title,
				Description:  resource.Description,
				ThumbnailURL: resource.ThumbnailURL,
				VideoCount:   resource.VideoCount,
			}
			e.sendProgress(progress, syncPlaylistUpdate(step, playlist))

			if err := e.store.CreatePlaylist(ctx, playlist); err != nil {
				return nil, err
			}
			result.PlaylistsCreated++

			videos, err := e.SyncPlaylistVideos(ctx, resource.PlaylistID, progress)
			if err != nil {
				return nil, err
			}
			result.VideosCreated += videos.VideosCreated
			result.ItemsCreated += videos.ItemsCreated
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			return result, nil
		}
	}
}

// SyncPlaylistVideos syncs one playlist's membership.
//
// Each provider page yields one batched details call. Videos the provider no
// longer serves are skipped without consuming a position, so stored
// positions stay dense and zero-based. Membership rows are dedup-checked
// before insert. The whole playlist syncs in one transaction.
func (e *ChannelEngine) SyncPlaylistVideos(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if _, err := e.store.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}

	result := &SyncResult{}
	err := e.store.Transact(ctx, func(tx repositories.Storage) error {
		position := 0
		pageToken := ""

		for {
			page, err := e.provider.ListPlaylistItems(ctx, playlistID, pageToken)
			if err != nil {
				return err
			}

			var ids []string
			for _, item := range page.Items {
				if item.VideoID != "" {
					ids = append(ids, item.VideoID)
				}
			}

			details := make(map[string]services.VideoResource, len(ids))
			if len(ids) > 0 {
				videos, err := e.provider.GetVideos(ctx, ids)
				if err != nil {
					return err
				}
				for _, video := range videos {
					details[video.VideoID] = video
				}
			}

			for _, item := range page.Items {
				resource, ok := details[item.VideoID]
				if !ok {
					// Deleted or private upstream, keep positions dense
					continue
				}

				if _, err := tx.GetVideo(ctx, resource.VideoID); err != nil {
					if !errors.Is(err, shared.ErrVideoNotFound) {
						return err
					}
					video := &models.Video{
						VideoID:      resource.VideoID,
						ChannelID:    resource.ChannelID,
						Title:        resource.Title,
						Description:  resource.Description,
						ThumbnailURL: resource.ThumbnailURL,
						Duration:     resource.Duration,
						ViewCount:    resource.ViewCount,
						LikeCount:    resource.LikeCount,
						PublishedAt:  resource.PublishedAt,
					}
					if err := tx.CreateVideo(ctx, video); err != nil {
						return err
					}
					result.VideosCreated++
				}

				exists, err := tx.HasPlaylistItem(ctx, playlistID, resource.VideoID)
				if err != nil {
					return err
				}
				if !exists {
					entry := &models.PlaylistItem{
						PlaylistID: playlistID,
						VideoID:    resource.VideoID,
						Position:   position,
					}
					if err := tx.CreatePlaylistItem(ctx, entry); err != nil {
						return err
					}
					result.ItemsCreated++
				}
				position++
			}

			pageToken = page.NextPageToken
			if pageToken == "" {
				return nil
			}
		}
	})
	if err != nil {
		e.logger.Error("video sync failed", "playlist", playlistID, "err", err)
		return nil, err
	}

	e.sendProgress(progress, syncVideosUpdate(playlistID, result.ItemsCreated))
	return result, nil
}

// DeleteChannel removes a channel and every playlist, membership row and
// video cached under it, in one transaction. Videos owned by other channels
// are untouched even when shared through playlists.
func (e *ChannelEngine) DeleteChannel(ctx context.Context, channelID string, progress chan<- ProgressUpdate) error {
	if _, err := e.store.GetChannel(ctx, channelID); err != nil {
		return err
	}

	e.sendProgress(progress, deletingChannelUpdate(channelID))

	err := e.store.Transact(ctx, func(tx repositories.Storage) error {
		playlists, err := tx.ListPlaylistsByChannel(ctx, channelID)
		if err != nil {
			return err
		}
		for _, playlist := range playlists {
			if err := tx.DeletePlaylistItemsByPlaylist(ctx, playlist.PlaylistID); err != nil {
				return err
			}
		}
		if err := tx.DeletePlaylistsByChannel(ctx, channelID); err != nil {
			return err
		}
		if err := tx.DeleteVideosByChannel(ctx, channelID); err != nil {
			return err
		}
		return tx.DeleteChannel(ctx, channelID)
	})
	if err != nil {
		return err
	}

	e.logger.Info("channel deleted", "channel", channelID)
	return nil
}
