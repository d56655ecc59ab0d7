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

// CreateChannel inserts a new channel row and backfills its generated id.
func (s *SQLStorage) CreateChannel(ctx context.Context, channel *models.Channel) error {
	if err := channel.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO channels (channel_id, title, description, custom_url, thumbnail_url, subscriber_count, view_count, video_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query,
		channel.ChannelID,
		channel.Title,
		channel.Description,
		channel.CustomURL,
		channel.ThumbnailURL,
		channel.SubscriberCount,
		channel.ViewCount,
		channel.VideoCount,
		channel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert channel: %w", err)
	}

	channel.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read channel id: %w", err)
	}
	return nil
}

// GetChannel retrieves a channel by its external channel id.
func (s *SQLStorage) GetChannel(ctx context.Context, channelID string) (*models.Channel, error) {
	query := `
		SELECT id, channel_id, title, description, custom_url, thumbnail_url, subscriber_count, view_count, video_count, created_at
		FROM channels
		WHERE channel_id = ?
	`

	channel, err := scanChannel(s.q.QueryRowContext(ctx, query, channelID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
	}
	return channel, err
}

// GetChannelByID retrieves a channel by its internal numeric id.
func (s *SQLStorage) GetChannelByID(ctx context.Context, id int64) (*models.Channel, error) {
	query := `
		SELECT id, channel_id, title, description, custom_url, thumbnail_url, subscriber_count, view_count, video_count, created_at
		FROM channels
		WHERE id = ?
	`

	channel, err := scanChannel(s.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", shared.ErrChannelNotFound, id)
	}
	return channel, err
}

// ListChannels returns all channels ordered by creation time.
func (s *SQLStorage) ListChannels(ctx context.Context) ([]*models.Channel, error) {
	query := `
		SELECT id, channel_id, title, description, custom_url, thumbnail_url, subscriber_count, view_count, video_count, created_at
		FROM channels
		ORDER BY created_at, id
	`
	return s.queryChannels(ctx, query)
}

// SearchChannels returns channels whose title matches the query, case insensitively.
func (s *SQLStorage) SearchChannels(ctx context.Context, query string) ([]*models.Channel, error) {
	stmt := `
		SELECT id, channel_id, title, description, custom_url, thumbnail_url, subscriber_count, view_count, video_count, created_at
		FROM channels
		WHERE title LIKE ? COLLATE NOCASE
		ORDER BY created_at, id
	`
	return s.queryChannels(ctx, stmt, "%"+query+"%")
}

// DeleteChannel removes a channel row by its external channel id.
func (s *SQLStorage) DeleteChannel(ctx context.Context, channelID string) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM channels WHERE channel_id = ?", channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
	}
	return nil
}

func (s *SQLStorage) queryChannels(ctx context.Context, query string, args ...any) ([]*models.Channel, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, rows.Err()
}

// scanner abstracts over [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanChannel(row scanner) (*models.Channel, error) {
	var channel models.Channel
	err := row.Scan(
		&channel.ID,
		&channel.ChannelID,
		&channel.Title,
		&channel.Description,
		&channel.CustomURL,
		&channel.ThumbnailURL,
		&channel.SubscriberCount,
		&channel.ViewCount,
		&channel.VideoCount,
		&channel.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan channel: %w", err)
	}
	return &channel, nil
}
