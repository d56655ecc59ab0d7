package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/vidstash/internal/models"
	"github.com/desertthunder/vidstash/internal/shared"
)

// MemoryStorage implements [Storage] with in-process maps. It backs tests
// and throwaway runs where persistence is not wanted.
//
// Entities are stored by value and returned as copies, callers can mutate
// results freely.
type MemoryStorage struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	nextChannelID  int64
	nextPlaylistID int64
	nextVideoID    int64
	nextItemID     int64
	nextWatchID    int64

	channels   map[string]models.Channel
	playlists  map[string]models.Playlist
	videos     map[string]models.Video
	items      []models.PlaylistItem
	watchLater map[string]models.WatchLaterEntry
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		channels:   make(map[string]models.Channel),
		playlists:  make(map[string]models.Playlist),
		videos:     make(map[string]models.Video),
		watchLater: make(map[string]models.WatchLaterEntry),
	}
}

// CreateChannel stores a new channel and assigns its id.
func (s *MemoryStorage) CreateChannel(_ context.Context, channel *models.Channel) error {
	if err := channel.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[channel.ChannelID]; ok {
		return fmt.Errorf("%w: channel %s already exists", shared.ErrInvalidInput, channel.ChannelID)
	}

	s.nextChannelID++
	channel.ID = s.nextChannelID
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = time.Now().UTC()
	}
	s.channels[channel.ChannelID] = *channel
	return nil
}

// GetChannel retrieves a channel by its external channel id.
func (s *MemoryStorage) GetChannel(_ context.Context, channelID string) (*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
	}
	return &channel, nil
}

// GetChannelByID retrieves a channel by its internal numeric id.
func (s *MemoryStorage) GetChannelByID(_ context.Context, id int64) (*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, channel := range s.channels {
		if channel.ID == id {
			c := channel
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", shared.ErrChannelNotFound, id)
}

// ListChannels returns all channels in creation order.
func (s *MemoryStorage) ListChannels(_ context.Context) ([]*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channelsWhere(func(models.Channel) bool { return true }), nil
}

// SearchChannels returns channels whose title contains the query, case insensitively.
func (s *MemoryStorage) SearchChannels(_ context.Context, query string) ([]*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	return s.channelsWhere(func(c models.Channel) bool {
		return strings.Contains(strings.ToLower(c.Title), q)
	}), nil
}

// DeleteChannel removes a channel by its external channel id.
func (s *MemoryStorage) DeleteChannel(_ context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[channelID]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
	}
	delete(s.channels, channelID)
	return nil
}

// CreatePlaylist stores a new playlist and assigns its id.
func (s *MemoryStorage) CreatePlaylist(_ context.Context, playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlist.PlaylistID]; ok {
		return fmt.Errorf("%w: playlist %s already exists", shared.ErrInvalidInput, playlist.PlaylistID)
	}

	s.nextPlaylistID++
	playlist.ID = s.nextPlaylistID
	if playlist.CreatedAt.IsZero() {
		playlist.CreatedAt = time.Now().UTC()
	}
	s.playlists[playlist.PlaylistID] = *playlist
	return nil
}

// GetPlaylist retrieves a playlist by its external playlist id.
func (s *MemoryStorage) GetPlaylist(_ context.Context, playlistID string) (*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return &playlist, nil
}

// ListPlaylistsByChannel returns a channel's playlists in creation order.
func (s *MemoryStorage) ListPlaylistsByChannel(_ context.Context, channelID string) ([]*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlistsWhere(func(p models.Playlist) bool { return p.ChannelID == channelID }), nil
}

// SearchPlaylists returns playlists whose title contains the query, case insensitively.
func (s *MemoryStorage) SearchPlaylists(_ context.Context, query string) ([]*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	return s.playlistsWhere(func(p models.Playlist) bool {
		return strings.Contains(strings.ToLower(p.Title), q)
	}), nil
}

// DeletePlaylistsByChannel removes all playlists belonging to a channel.
func (s *MemoryStorage) DeletePlaylistsByChannel(_ context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.playlists {
		if p.ChannelID == channelID {
			delete(s.playlists, id)
		}
	}
	return nil
}

// CreateVideo stores a new video and assigns its id.
func (s *MemoryStorage) CreateVideo(_ context.Context, video *models.Video) error {
	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[video.VideoID]; ok {
		return fmt.Errorf("%w: video %s already exists", shared.ErrInvalidInput, video.VideoID)
	}

	s.nextVideoID++
	video.ID = s.nextVideoID
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}
	s.videos[video.VideoID] = *video
	return nil
}

// GetVideo retrieves a video by its external video id.
func (s *MemoryStorage) GetVideo(_ context.Context, videoID string) (*models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	video, ok := s.videos[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}
	return &video, nil
}

// ListVideosByChannel returns a channel's videos ordered by publish date, newest first.
func (s *MemoryStorage) ListVideosByChannel(_ context.Context, channelID string) ([]*models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	videos := s.videosWhere(func(v models.Video) bool { return v.ChannelID == channelID })
	sort.Slice(videos, func(i, j int) bool {
		if videos[i].PublishedAt != videos[j].PublishedAt {
			return videos[i].PublishedAt > videos[j].PublishedAt
		}
		return videos[i].ID < videos[j].ID
	})
	return videos, nil
}

// SearchVideos returns videos whose title contains the query, case insensitively.
func (s *MemoryStorage) SearchVideos(_ context.Context, query string) ([]*models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	return s.videosWhere(func(v models.Video) bool {
		return strings.Contains(strings.ToLower(v.Title), q)
	}), nil
}

// DeleteVideosByChannel removes all videos owned by a channel.
func (s *MemoryStorage) DeleteVideosByChannel(_ context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, v := range s.videos {
		if v.ChannelID == channelID {
			delete(s.videos, id)
		}
	}
	return nil
}

// CreatePlaylistItem stores a playlist membership row.
func (s *MemoryStorage) CreatePlaylistItem(_ context.Context, item *models.PlaylistItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItemID++
	item.ID = s.nextItemID
	s.items = append(s.items, *item)
	return nil
}

// HasPlaylistItem reports whether a video is already a member of a playlist.
func (s *MemoryStorage) HasPlaylistItem(_ context.Context, playlistID, videoID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.PlaylistID == playlistID && item.VideoID == videoID {
			return true, nil
		}
	}
	return false, nil
}

// ListPlaylistVideos returns a playlist's videos with positions, ordered by
// position. Items without a stored video are omitted.
func (s *MemoryStorage) ListPlaylistVideos(_ context.Context, playlistID string) ([]*models.PlaylistVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.PlaylistVideo
	for _, item := range s.items {
		if item.PlaylistID != playlistID {
			continue
		}
		video, ok := s.videos[item.VideoID]
		if !ok {
			continue
		}
		result = append(result, &models.PlaylistVideo{Video: video, Position: item.Position})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// DeletePlaylistItemsByPlaylist removes all membership rows for a playlist.
func (s *MemoryStorage) DeletePlaylistItemsByPlaylist(_ context.Context, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.PlaylistID != playlistID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return nil
}

// AddWatchLater queues a video in the watch-later list. Re-adding a queued
// video returns the existing entry with created set to false.
func (s *MemoryStorage) AddWatchLater(_ context.Context, videoID string) (*models.WatchLaterEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[videoID]; !ok {
		return nil, false, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}

	if entry, ok := s.watchLater[videoID]; ok {
		return &entry, false, nil
	}

	s.nextWatchID++
	entry := models.WatchLaterEntry{ID: s.nextWatchID, VideoID: videoID, AddedAt: time.Now().UTC()}
	s.watchLater[videoID] = entry
	return &entry, true, nil
}

// ListWatchLater returns queued videos ordered by when they were added.
func (s *MemoryStorage) ListWatchLater(_ context.Context) ([]*models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.WatchLaterEntry, 0, len(s.watchLater))
	for _, entry := range s.watchLater {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	var videos []*models.Video
	for _, entry := range entries {
		if video, ok := s.videos[entry.VideoID]; ok {
			videos = append(videos, &video)
		}
	}
	return videos, nil
}

// RemoveWatchLater removes a video from the watch-later list.
func (s *MemoryStorage) RemoveWatchLater(_ context.Context, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchLater[videoID]; !ok {
		return fmt.Errorf("%w: %s is not in the watch later list", shared.ErrVideoNotFound, videoID)
	}
	delete(s.watchLater, videoID)
	return nil
}

// Transact serializes concurrent transactions and restores a snapshot of all
// state when fn fails, so partial writes do not leak.
func (s *MemoryStorage) Transact(_ context.Context, fn func(Storage) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStorage) Close() error { return nil }

type memSnapshot struct {
	nextChannelID  int64
	nextPlaylistID int64
	nextVideoID    int64
	nextItemID     int64
	nextWatchID    int64
	channels       map[string]models.Channel
	playlists      map[string]models.Playlist
	videos         map[string]models.Video
	items          []models.PlaylistItem
	watchLater     map[string]models.WatchLaterEntry
}

func (s *MemoryStorage) snapshot() memSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := memSnapshot{
		nextChannelID:  s.nextChannelID,
		nextPlaylistID: s.nextPlaylistID,
		nextVideoID:    s.nextVideoID,
		nextItemID:     s.nextItemID,
		nextWatchID:    s.nextWatchID,
		channels:       make(map[string]models.Channel, len(s.channels)),
		playlists:      make(map[string]models.Playlist, len(s.playlists)),
		videos:         make(map[string]models.Video, len(s.videos)),
		items:          append([]models.PlaylistItem(nil), s.items...),
		watchLater:     make(map[string]models.WatchLaterEntry, len(s.watchLater)),
	}
	for k, v := range s.channels {
		snap.channels[k] = v
	}
	for k, v := range s.playlists {
		snap.playlists[k] = v
	}
	for k, v := range s.videos {
		snap.videos[k] = v
	}
	for k, v := range s.watchLater {
		snap.watchLater[k] = v
	}
	return snap
}

func (s *MemoryStorage) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextChannelID = snap.nextChannelID
	s.nextPlaylistID = snap.nextPlaylistID
	s.nextVideoID = snap.nextVideoID
	s.nextItemID = snap.nextItemID
	s.nextWatchID = snap.nextWatchID
	s.channels = snap.channels
	s.playlists = snap.playlists
	s.videos = snap.videos
	s.items = snap.items
	s.watchLater = snap.watchLater
}

func (s *MemoryStorage) channelsWhere(keep func(models.Channel) bool) []*models.Channel {
	var result []*models.Channel
	for _, c := range s.channels {
		if keep(c) {
			channel := c
			result = append(result, &channel)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *MemoryStorage) playlistsWhere(keep func(models.Playlist) bool) []*models.Playlist {
	var result []*models.Playlist
	for _, p := range s.playlists {
		if keep(p) {
			playlist := p
			result = append(result, &playlist)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *MemoryStorage) videosWhere(keep func(models.Video) bool) []*models.Video {
	var result []*models.Video
	for _, v := range s.videos {
		if keep(v) {
			video := v
			result = append(result, &video)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
