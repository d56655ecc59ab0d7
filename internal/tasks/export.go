package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/vidstash/internal/formatter"
	"github.com/desertthunder/vidstash/internal/models"
	"github.com/desertthunder/vidstash/internal/shared"
)

// ExportOpts contains configuration for channel exports.
type ExportOpts struct {
	Format     string // Export format: json or csv
	OutputDir  string // Base output directory (default: channel_export_{epoch})
	NumWorkers int    // Concurrent workers (default: 4)
}

// PlaylistExportFile reports the outcome of exporting a single playlist.
type PlaylistExportFile struct {
	PlaylistID string
	Title      string
	Path       string
	Videos     int
	Err        error
}

// ExportResult summarizes a channel export run.
type ExportResult struct {
	ChannelID       string
	OutputDirectory string
	TotalPlaylists  int
	Succeeded       int
	Failed          int
	Files           []PlaylistExportFile
}

type exportJob struct {
	playlist *models.Playlist
	videos   []*models.PlaylistVideo
}

// ExportChannel writes every stored playlist of a channel to one file per
// playlist, fanned out over a small worker pool.
func (e *ChannelEngine) ExportChannel(ctx context.Context, channelID string, opts ExportOpts, progress chan<- ProgressUpdate) (*ExportResult, error) {
	if _, err := e.store.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}

	switch opts.Format {
	case "", "json", "csv":
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, opts.Format)
	}
	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("channel_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	playlists, err := e.store.ListPlaylistsByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		ChannelID:       channelID,
		OutputDirectory: opts.OutputDir,
		TotalPlaylists:  len(playlists),
	}

	jobs := make(chan exportJob, len(playlists))
	files := make(chan PlaylistExportFile, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				files <- e.writePlaylistFile(job, opts)
			}
		}()
	}

	go func() {
		for i, playlist := range playlists {
			e.sendProgress(progress, exportingPlaylistUpdate(i+1, len(playlists), playlist.Title))

			videos, err := e.store.ListPlaylistVideos(ctx, playlist.PlaylistID)
			if err != nil {
				files <- PlaylistExportFile{PlaylistID: playlist.PlaylistID, Title: playlist.Title, Err: err}
				continue
			}
			jobs <- exportJob{playlist: playlist, videos: videos}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(files)
	}()

	for file := range files {
		result.Files = append(result.Files, file)
		if file.Err != nil {
			result.Failed++
			e.logger.Error("playlist export failed", "playlist", file.PlaylistID, "err", file.Err)
		} else {
			result.Succeeded++
		}
	}

	return result, nil
}

func (e *ChannelEngine) writePlaylistFile(job exportJob, opts ExportOpts) PlaylistExportFile {
	file := PlaylistExportFile{
		PlaylistID: job.playlist.PlaylistID,
		Title:      job.playlist.Title,
		Videos:     len(job.videos),
	}

	var data []byte
	var err error
	switch opts.Format {
	case "csv":
		data, err = formatter.PlaylistCSV(job.videos)
	default:
		payload := struct {
			Playlist *models.Playlist        `json:"playlist"`
			Videos   []*models.PlaylistVideo `json:"videos"`
		}{job.playlist, job.videos}
		data, err = shared.MarshalJSON(payload, true)
	}
	if err != nil {
		file.Err = err
		return file
	}

	name := fmt.Sprintf("%s_%s.%s", slugify(job.playlist.Title), job.playlist.PlaylistID, opts.Format)
	file.Path = filepath.Join(opts.OutputDir, name)
	if err := os.WriteFile(file.Path, data, 0644); err != nil {
		file.Err = fmt.Errorf("failed to write export file: %w", err)
	}
	return file
}

// slugify lowercases a title and collapses non-alphanumerics to underscores
// for safe filenames.
func slugify(title string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "playlist"
	}
	return slug
}
