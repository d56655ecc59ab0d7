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

// CreateVideo inserts a new video row and backfills its generated id.
func (s *SQLStorage) CreateVideo(ctx context.Context, video *models.Video) error {
	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO videos (video_id, channel_id, title, description, thumbnail_url, duration, view_count, like_count, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query,
		video.VideoID,
		video.ChannelID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.Duration,
		video.ViewCount,
		video.LikeCount,
		video.PublishedAt,
		video.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	video.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read video id: %w", err)
	}
	return nil
}

// GetVideo retrieves a video by its external video id.
func (s *SQLStorage) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	query := `
		SELECT id, video_id, channel_id, title, description, thumbnail_url, duration, view_count, like_count, published_at, created_at
		FROM videos
		WHERE video_id = ?
	`

	video, err := scanVideo(s.q.QueryRowContext(ctx, query, videoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}
	return video, err
}

// ListVideosByChannel returns a channel's videos ordered by publish date, newest first.
func (s *SQLStorage) ListVideosByChannel(ctx context.Context, channelID string) ([]*models.Video, error) {
	query := `
		SELECT id, video_id, channel_id, title, description, thumbnail_url, duration, view_count, like_count, published_at, created_at
		FROM videos
		WHERE channel_id = ?
		ORDER BY published_at DESC, id
	`
	return s.queryVideos(ctx, query, channelID)
}

// SearchVideos returns videos whose title matches the query, case insensitively.
func (s *SQLStorage) SearchVideos(ctx context.Context, query string) ([]*models.Video, error) {
	stmt := `
		SELECT id, video_id, channel_id, title, description, thumbnail_url, duration, view_count, like_count, published_at, created_at
		FROM videos
		WHERE title LIKE ? COLLATE NOCASE
		ORDER BY published_at DESC, id
	`
	return s.queryVideos(ctx, stmt, "%"+query+"%")
}

// DeleteVideosByChannel removes all videos owned by a channel.
func (s *SQLStorage) DeleteVideosByChannel(ctx context.Context, channelID string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM videos WHERE channel_id = ?", channelID); err != nil {
		return fmt.Errorf("failed to delete videos: %w", err)
	}
	return nil
}

func (s *SQLStorage) queryVideos(ctx context.Context, query string, args ...any) ([]*models.Video, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

func scanVideo(row scanner) (*models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID,
		&video.VideoID,
		&video.ChannelID,
		&video.Title,
		&video.Description,
		&video.ThumbnailURL,
		&video.Duration,
		&video.ViewCount,
		&video.LikeCount,
		&video.PublishedAt,
		&video.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}
	return &video, nil
}
