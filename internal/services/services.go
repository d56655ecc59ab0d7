// package services defines interface Provider for the upstream video platform API.
package services

import (
	"context"
)

// Provider defines the read-only operations the sync engine needs from the
// upstream video platform. The YouTube Data API v3 is the only production
// implementation, tests use a scripted fake.
type Provider interface {
	// GetChannel retrieves a channel's snippet, statistics and the id of
	// its uploads playlist.
	GetChannel(ctx context.Context, channelID string) (*ChannelResource, error)

	// SearchChannel resolves a handle or free-text query to a channel id.
	// Returns the first matching channel or an error when nothing matches.
	SearchChannel(ctx context.Context, query string) (string, error)

	// ListPlaylists retrieves one page of a channel's playlists.
	ListPlaylists(ctx context.Context, channelID, pageToken string) (*PlaylistPage, error)

	// ListPlaylistItems retrieves one page of a playlist's membership.
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*PlaylistItemPage, error)

	// GetVideos retrieves full details for up to 50 video ids in one call.
	// Ids the platform no longer knows are absent from the result.
	GetVideos(ctx context.Context, videoIDs []string) ([]VideoResource, error)

	// Search performs a free-text search scoped to a result kind
	// ("video", "channel" or "playlist").
	Search(ctx context.Context, query, kind string) ([]SearchResult, error)

	// Name returns the provider name for logs.
	Name() string
}

// ChannelResource is a channel as the provider reports it.
type ChannelResource struct {
	ChannelID       string
	Title           string
	Description     string
	CustomURL       string
	ThumbnailURL    string
	SubscriberCount string
	ViewCount       string
	VideoCount      int
	UploadsPlaylist string
}

// PlaylistResource is a playlist as the provider reports it.
type PlaylistResource struct {
	PlaylistID   string
	ChannelID    string
	Title        string
	Description  string
	ThumbnailURL string
	VideoCount   int
}

// PlaylistPage is one page of a channel's playlists.
type PlaylistPage struct {
	Playlists     []PlaylistResource
	NextPageToken string
}

// PlaylistItemEntry is a playlist membership row as the provider reports it,
// before video details are resolved.
type PlaylistItemEntry struct {
	VideoID string
}

// PlaylistItemPage is one page of a playlist's membership.
type PlaylistItemPage struct {
	Items         []PlaylistItemEntry
	NextPageToken string
}

// VideoResource is a video's full details as the provider reports it.
type VideoResource struct {
	VideoID      string
	ChannelID    string
	Title        string
	Description  string
	ThumbnailURL string
	Duration     string
	ViewCount    string
	LikeCount    string
	PublishedAt  string
}

// SearchResult is one hit from a free-text search.
type SearchResult struct {
	Kind         string
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
}
