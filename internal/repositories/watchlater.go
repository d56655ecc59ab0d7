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

// AddWatchLater queues a video in the watch-later list. The video must
// already be known to storage. Adding an already queued video returns the
// existing entry with created set to false.
func (s *SQLStorage) AddWatchLater(ctx context.Context, videoID string) (*models.WatchLaterEntry, bool, error) {
	if _, err := s.GetVideo(ctx, videoID); err != nil {
		return nil, false, err
	}

	entry, err := s.getWatchLater(ctx, videoID)
	if err == nil {
		return entry, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	addedAt := time.Now().UTC()
	result, err := s.q.ExecContext(ctx, "INSERT INTO watch_later (video_id, added_at) VALUES (?, ?)", videoID, addedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert watch later entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read watch later id: %w", err)
	}

	return &models.WatchLaterEntry{ID: id, VideoID: videoID, AddedAt: addedAt}, true, nil
}

// ListWatchLater returns queued videos ordered by when they were added.
func (s *SQLStorage) ListWatchLater(ctx context.Context) ([]*models.Video, error) {
	query := `
		SELECT v.id, v.video_id, v.channel_id, v.title, v.description, v.thumbnail_url, v.duration, v.view_count, v.like_count, v.published_at, v.created_at
		FROM watch_later wl
		JOIN videos v ON v.video_id = wl.video_id
		ORDER BY wl.added_at, wl.id
	`
	return s.queryVideos(ctx, query)
}

// RemoveWatchLater removes a video from the watch-later list.
func (s *SQLStorage) RemoveWatchLater(ctx context.Context, videoID string) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM watch_later WHERE video_id = ?", videoID)
	if err != nil {
		return fmt.Errorf("failed to delete watch later entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s is not in the watch later list", shared.ErrVideoNotFound, videoID)
	}
	return nil
}

func (s *SQLStorage) getWatchLater(ctx context.Context, videoID string) (*models.WatchLaterEntry, error) {
	var entry models.WatchLaterEntry
	query := "SELECT id, video_id, added_at FROM watch_later WHERE video_id = ?"
	err := s.q.QueryRowContext(ctx, query, videoID).Scan(&entry.ID, &entry.VideoID, &entry.AddedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
