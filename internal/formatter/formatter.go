// package formatter provides display formatting for durations, counts and
// timestamps, plus playlist export rendering (CSV, plain text).
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vidstash/internal/models"
)

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration renders an ISO 8601 duration (PT1H2M3S) as h:mm:ss, or
// m:ss under an hour. Unparseable input falls back to "0:00".
func FormatDuration(duration string) string {
	m := iso8601Duration.FindStringSubmatch(duration)
	if m == nil {
		return "0:00"
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatViewCount renders a raw view count string as "1.2M views" style
// text. Unparseable input falls back to "0 views".
func FormatViewCount(count string) string {
	n, err := strconv.ParseInt(count, 10, 64)
	if err != nil {
		return "0 views"
	}
	return abbreviate(n) + " views"
}

// FormatSubscriberCount renders a raw subscriber count string as "1.2M
// subscribers" style text. Unparseable input falls back to "0 subscribers".
func FormatSubscriberCount(count string) string {
	n, err := strconv.ParseInt(count, 10, 64)
	if err != nil {
		return "0 subscribers"
	}
	return abbreviate(n) + " subscribers"
}

// abbreviate shortens large counts with K/M/B suffixes, one decimal place,
// trailing ".0" trimmed.
func abbreviate(n int64) string {
	format := func(value float64, suffix string) string {
		s := strconv.FormatFloat(value, 'f', 1, 64)
		s = strings.TrimSuffix(s, ".0")
		return s + suffix
	}

	switch {
	case n >= 1_000_000_000:
		return format(float64(n)/1_000_000_000, "B")
	case n >= 1_000_000:
		return format(float64(n)/1_000_000, "M")
	case n >= 1_000:
		return format(float64(n)/1_000, "K")
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatTimeAgo renders an RFC 3339 timestamp as relative text ("3 days
// ago"). Unparseable input returns an empty string.
func FormatTimeAgo(timestamp string) string {
	return formatTimeAgoAt(timestamp, time.Now())
}

func formatTimeAgoAt(timestamp string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ""
	}

	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int64(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int64(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int64(d.Hours()/24), "day")
	case d < 365*24*time.Hour:
		return plural(int64(d.Hours()/(24*30)), "month")
	default:
		return plural(int64(d.Hours()/(24*365)), "year")
	}
}

// PlaylistCSV renders playlist videos as CSV with columns: Position,
// VideoID, Title, Duration, Views, PublishedAt.
func PlaylistCSV(videos []*models.PlaylistVideo) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "VideoID", "Title", "Duration", "Views", "PublishedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, video := range videos {
		record := []string{
			strconv.Itoa(video.Position),
			video.VideoID,
			video.Title,
			FormatDuration(video.Duration),
			video.ViewCount,
			video.PublishedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistText renders playlist videos as a numbered plain text listing.
func PlaylistText(playlist *models.Playlist, videos []*models.PlaylistVideo) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Title))
	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(videos)))

	for i, video := range videos {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] %s\n", i+1, video.Title, FormatDuration(video.Duration), FormatViewCount(video.ViewCount)))
	}

	return buf.Bytes()
}
