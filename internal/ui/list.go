package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vidstash/internal/formatter"
	"github.com/desertthunder/vidstash/internal/models"
)

var (
	_ list.Item = channelItem{}
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// channelItem wraps [models.Channel] to implement [list.Item].
type channelItem struct {
	channel models.Channel
}

func (i channelItem) FilterValue() string { return i.channel.Title }
func (i channelItem) Title() string       { return i.channel.Title }
func (i channelItem) Description() string {
	return fmt.Sprintf("%s • %d videos",
		formatter.FormatSubscriberCount(i.channel.SubscriberCount), i.channel.VideoCount)
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return i.playlist.Title }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d videos", i.playlist.VideoCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// videoItem wraps [models.PlaylistVideo] to implement [list.Item].
type videoItem struct {
	video models.PlaylistVideo
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	return fmt.Sprintf("%s • %s • %s",
		formatter.FormatDuration(i.video.Duration),
		formatter.FormatViewCount(i.video.ViewCount),
		formatter.FormatTimeAgo(i.video.PublishedAt))
}
