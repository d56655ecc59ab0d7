package tasks

import (
	"fmt"

	"github.com/desertthunder/vidstash/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveChannel Phase = iota
	FetchChannel
	PersistChannel
	SyncPlaylistsPhase
	SyncVideosPhase
	DeleteChannelPhase
	ExportPhase
)

func (p Phase) String() string {
	switch p {
	case ResolveChannel:
		return "resolve_channel"
	case FetchChannel:
		return "fetch_channel"
	case PersistChannel:
		return "persist_channel"
	case SyncPlaylistsPhase:
		return "sync_playlists"
	case SyncVideosPhase:
		return "sync_videos"
	case DeleteChannelPhase:
		return "delete_channel"
	case ExportPhase:
		return "export"
	default:
		return ""
	}
}

func resolvingChannelUpdate(input string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveChannel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving channel from %s...", input),
	}
}

func fetchingChannelUpdate(channelID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchChannel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching channel %s...", channelID),
	}
}

func persistedChannelUpdate(channel *models.Channel) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistChannel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Stored channel %s", channel.Title),
		Data:    channel,
	}
}

func syncPlaylistUpdate(step int, playlist *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPlaylistsPhase,
		Step:    step,
		Message: fmt.Sprintf("Syncing playlist %s...", playlist.Title),
		Data:    playlist,
	}
}

func syncVideosUpdate(playlistID string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncVideosPhase,
		Step:    count,
		Message: fmt.Sprintf("Synced %d videos into %s", count, playlistID),
	}
}

func deletingChannelUpdate(channelID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteChannelPhase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Deleting channel %s and all cached data...", channelID),
	}
}

func exportingPlaylistUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exporting playlist %s...", title),
	}
}
