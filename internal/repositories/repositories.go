// package repositories provides the persistence layer for the video organizer.
//
// The [Storage] interface abstracts over two backends: a SQLite store for
// durable deployments and a map-backed in-memory store for tests and
// throwaway runs. Both enforce the same semantics, callers never branch on
// the backend.
package repositories

import (
	"context"

	"github.com/desertthunder/vidstash/internal/models"
)

// Storage defines data access operations for all entities.
//
// External string ids (channelId, playlistId, videoId) are the lookup keys
// throughout, internal numeric ids exist only for row identity. Lookups for
// missing rows return the shared sentinel errors so callers can map them to
// HTTP status codes with errors.Is.
type Storage interface {
	// Channels
	CreateChannel(ctx context.Context, channel *models.Channel) error
	GetChannel(ctx context.Context, channelID string) (*models.Channel, error)
	GetChannelByID(ctx context.Context, id int64) (*models.Channel, error)
	ListChannels(ctx context.Context) ([]*models.Channel, error)
	DeleteChannel(ctx context.Context, channelID string) error

	// Playlists
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
	ListPlaylistsByChannel(ctx context.Context, channelID string) ([]*models.Playlist, error)
	DeletePlaylistsByChannel(ctx context.Context, channelID string) error

	// Videos
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	ListVideosByChannel(ctx context.Context, channelID string) ([]*models.Video, error)
	DeleteVideosByChannel(ctx context.Context, channelID string) error

	// Playlist items
	CreatePlaylistItem(ctx context.Context, item *models.PlaylistItem) error
	HasPlaylistItem(ctx context.Context, playlistID, videoID string) (bool, error)
	ListPlaylistVideos(ctx context.Context, playlistID string) ([]*models.PlaylistVideo, error)
	DeletePlaylistItemsByPlaylist(ctx context.Context, playlistID string) error

	// Watch later
	AddWatchLater(ctx context.Context, videoID string) (*models.WatchLaterEntry, bool, error)
	ListWatchLater(ctx context.Context) ([]*models.Video, error)
	RemoveWatchLater(ctx context.Context, videoID string) error

	// Search
	SearchChannels(ctx context.Context, query string) ([]*models.Channel, error)
	SearchPlaylists(ctx context.Context, query string) ([]*models.Playlist, error)
	SearchVideos(ctx context.Context, query string) ([]*models.Video, error)

	// Transact runs fn against a Storage view whose writes commit together.
	// A non-nil error from fn discards every write made inside it.
	Transact(ctx context.Context, fn func(Storage) error) error

	// Close releases backend resources.
	Close() error
}
