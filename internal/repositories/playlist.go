package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidstash/internal/models"
	"github.com/desertthunder/vidstash/internal/shared"
)

// CreatePlaylist inserts a new playlist row and backfills its generated id.
func (s *SQLStorage) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if playlist.CreatedAt.IsZero() {
		playlist.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO playlists (playlist_id, channel_id, title, description, thumbnail_url, video_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query,
		playlist.PlaylistID,
		playlist.ChannelID,
		playlist.Title,
		playlist.Description,
		playlist.ThumbnailURL,
		playlist.VideoCount,
		playlist.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	playlist.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read playlist id: %w", err)
	}
	return nil
}

// GetPlaylist retrieves a playlist by its external playlist id.
func (s *SQLStorage) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	query := `
		SELECT id, playlist_id, channel_id, title, description, thumbnail_url, video_count, created_at
		FROM playlists
		WHERE playlist_id = ?
	`

	playlist, err := scanPlaylist(s.q.QueryRowContext(ctx, query, playlistID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return playlist, err
}

// ListPlaylistsByChannel returns a channel's playlists ordered by creation time.
func (s *SQLStorage) ListPlaylistsByChannel(ctx context.Context, channelID string) ([]*models.Playlist, error) {
	query := `
		SELECT id, playlist_id, channel_id, title, description, thumbnail_url, video_count, created_at
		FROM playlists
		WHERE channel_id = ?
		ORDER BY created_at, id
	`
	return s.queryPlaylists(ctx, query, channelID)
}

// SearchPlaylists returns playlists whose title matches the query, case insensitively.
func (s *SQLStorage) SearchPlaylists(ctx context.Context, query string) ([]*models.Playlist, error) {
	stmt := `
		SELECT id, playlist_id, channel_id, title, description, thumbnail_url, video_count, created_at
		FROM playlists
		WHERE title LIKE ? COLLATE NOCASE
		ORDER BY created_at, id
	`
	return s.queryPlaylists(ctx, stmt, "%"+query+"%")
}

// DeletePlaylistsByChannel removes all playlists belonging to a channel.
func (s *SQLStorage) DeletePlaylistsByChannel(ctx context.Context, channelID string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM playlists WHERE channel_id = ?", channelID); err != nil {
		return fmt.Errorf("failed to delete playlists: %w", err)
	}
	return nil
}

// CreatePlaylistItem inserts a playlist membership row.
func (s *SQLStorage) CreatePlaylistItem(ctx context.Context, item *models.PlaylistItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlist_items (playlist_id, video_id, position)
		VALUES (?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query, item.PlaylistID, item.VideoID, item.Position)
	if err != nil {
		return fmt.Errorf("failed to insert playlist item: %w", err)
	}

	item.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read playlist item id: %w", err)
	}
	return nil
}

// HasPlaylistItem reports whether a video is already a member of a playlist.
func (s *SQLStorage) HasPlaylistItem(ctx context.Context, playlistID, videoID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM playlist_items WHERE playlist_id = ? AND video_id = ?)"
	if err := s.q.QueryRowContext(ctx, query, playlistID, videoID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check playlist item: %w", err)
	}
	return exists, nil
}

// ListPlaylistVideos returns a playlist's videos joined with their positions,
// ordered by position. Items whose video row is missing are omitted.
func (s *SQLStorage) ListPlaylistVideos(ctx context.Context, playlistID string) ([]*models.PlaylistVideo, error) {
	query := `
		SELECT v.id, v.video_id, v.channel_id, v.title, v.description, v.thumbnail_url, v.duration, v.view_count, v.like_count, v.published_at, v.created_at, pi.position
		FROM playlist_items pi
		JOIN videos v ON v.video_id = pi.video_id
		WHERE pi.playlist_id = ?
		ORDER BY pi.position, pi.id
	`

	rows, err := s.q.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.PlaylistVideo
	for rows.Next() {
		var pv models.PlaylistVideo
		err := rows.Scan(
			&pv.ID,
			&pv.VideoID,
			&pv.ChannelID,
			&pv.Title,
			&pv.Description,
			&pv.ThumbnailURL,
			&pv.Duration,
			&pv.ViewCount,
			&pv.LikeCount,
			&pv.PublishedAt,
			&pv.CreatedAt,
			&pv.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist video: %w", err)
		}
		videos = append(videos, &pv)
	}
	return videos, rows.Err()
}

// DeletePlaylistItemsByPlaylist removes all membership rows for a playlist.
func (s *SQLStorage) DeletePlaylistItemsByPlaylist(ctx context.Context, playlistID string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM playlist_items WHERE playlist_id = ?", playlistID); err != nil {
		return fmt.Errorf("failed to delete playlist items: %w", err)
	}
	return nil
}

func (s *SQLStorage) queryPlaylists(ctx context.Context, query string, args ...any) ([]*models.Playlist, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

func scanPlaylist(row scanner) (*models.Playlist, error) {
	var playlist models.Playlist
	err := row.Scan(
		&playlist.ID,
		&playlist.PlaylistID,
		&playlist.ChannelID,
		&playlist.Title,
		&playlist.Description,
		&playlist.ThumbnailURL,
		&playlist.VideoCount,
		&playlist.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	return &playlist, nil
}
