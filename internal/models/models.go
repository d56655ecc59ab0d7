package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/vidstash/internal/shared"
)

// Channel represents an onboarded YouTube channel.
//
// SubscriberCount and ViewCount stay strings because the provider reports
// them that way and values can exceed display precision.
type Channel struct {
	ID              int64     `json:"id"`
	ChannelID       string    `json:"channelId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CustomURL       string    `json:"customUrl"`
	ThumbnailURL    string    `json:"thumbnailUrl"`
	SubscriberCount string    `json:"subscriberCount"`
	ViewCount       string    `json:"viewCount"`
	VideoCount      int       `json:"videoCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Validate checks required channel fields.
func (c *Channel) Validate() error {
	if c.ChannelID == "" {
		return fmt.Errorf("%w: channel id is required", shared.ErrInvalidInput)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: channel title is required", shared.ErrInvalidInput)
	}
	return nil
}

// Playlist represents a playlist owned by a channel. The uploads playlist is
// stored the same way as regular playlists.
type Playlist struct {
	ID           int64     `json:"id"`
	PlaylistID   string    `json:"playlistId"`
	ChannelID    string    `json:"channelId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoCount   int       `json:"videoCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks required playlist fields.
func (p *Playlist) Validate() error {
	if p.PlaylistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if p.ChannelID == "" {
		return fmt.Errorf("%w: playlist channel id is required", shared.ErrInvalidInput)
	}
	return nil
}

// Video represents cached video metadata.
//
// Duration keeps the provider's ISO 8601 form and ViewCount stays a string,
// formatting happens at display time.
type Video struct {
	ID           int64     `json:"id"`
	VideoID      string    `json:"videoId"`
	ChannelID    string    `json:"channelId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     string    `json:"duration"`
	ViewCount    string    `json:"viewCount"`
	LikeCount    string    `json:"likeCount"`
	PublishedAt  string    `json:"publishedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks required video fields.
func (v *Video) Validate() error {
	if v.VideoID == "" {
		return fmt.Errorf("%w: video id is required", shared.ErrInvalidInput)
	}
	return nil
}

// PlaylistItem links a video to a playlist at a dense, zero-based position.
type PlaylistItem struct {
	ID         int64  `json:"id"`
	PlaylistID string `json:"playlistId"`
	VideoID    string `json:"videoId"`
	Position   int    `json:"position"`
}

// Validate checks required playlist item fields.
func (i *PlaylistItem) Validate() error {
	if i.PlaylistID == "" {
		return fmt.Errorf("%w: playlist item playlist id is required", shared.ErrInvalidInput)
	}
	if i.VideoID == "" {
		return fmt.Errorf("%w: playlist item video id is required", shared.ErrInvalidInput)
	}
	if i.Position < 0 {
		return fmt.Errorf("%w: playlist item position must not be negative", shared.ErrInvalidInput)
	}
	return nil
}

// PlaylistVideo pairs a video with its position inside one playlist. It is
// the row shape returned by playlist video listings.
type PlaylistVideo struct {
	Video
	Position int `json:"position"`
}

// WatchLaterEntry represents a video queued in the watch-later list.
type WatchLaterEntry struct {
	ID      int64     `json:"id"`
	VideoID string    `json:"videoId"`
	AddedAt time.Time `json:"addedAt"`
}

// Validate checks required watch-later fields.
func (w *WatchLaterEntry) Validate() error {
	if w.VideoID == "" {
		return fmt.Errorf("%w: watch later video id is required", shared.ErrInvalidInput)
	}
	return nil
}
