package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vidstash/internal/shared"
)

func TestExportChannel(t *testing.T) {
	ctx := context.Background()

	onboard := func(t *testing.T) (*ChannelEngine, string) {
		t.Helper()
		engine, _, _ := setupEngine(t)
		if _, err := engine.AddChannel(ctx, testChannelID, nil); err != nil {
			t.Fatalf("failed to add channel: %v", err)
		}
		return engine, t.TempDir()
	}

	t.Run("json export", func(t *testing.T) {
		engine, dir := onboard(t)

		result, err := engine.ExportChannel(ctx, testChannelID, ExportOpts{OutputDir: dir}, nil)
		if err != nil {
			t.Fatalf("failed to export channel: %v", err)
		}
		if result.TotalPlaylists != 2 || result.Succeeded != 2 || result.Failed != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read output dir: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 export files, got %d", len(entries))
		}
		for _, entry := range entries {
			if filepath.Ext(entry.Name()) != ".json" {
				t.Errorf("expected .json file, got %s", entry.Name())
			}
		}
	})

	t.Run("csv export", func(t *testing.T) {
		engine, dir := onboard(t)

		result, err := engine.ExportChannel(ctx, testChannelID, ExportOpts{Format: "csv", OutputDir: dir}, nil)
		if err != nil {
			t.Fatalf("failed to export channel: %v", err)
		}
		if result.Succeeded != 2 {
			t.Fatalf("unexpected result: %+v", result)
		}

		var uploadsFile string
		for _, file := range result.Files {
			if file.PlaylistID == "UUuploads" {
				uploadsFile = file.Path
			}
		}
		if uploadsFile == "" {
			t.Fatal("missing uploads export file")
		}

		data, err := os.ReadFile(uploadsFile)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		content := string(data)
		if !strings.HasPrefix(content, "Position,VideoID,Title") {
			t.Errorf("expected CSV header, got %q", content)
		}
		if !strings.Contains(content, "vidA") {
			t.Errorf("expected video rows, got %q", content)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		engine, dir := onboard(t)
		_, err := engine.ExportChannel(ctx, testChannelID, ExportOpts{Format: "xml", OutputDir: dir}, nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown channel", func(t *testing.T) {
		engine, _, _ := setupEngine(t)
		_, err := engine.ExportChannel(ctx, "UCmissing", ExportOpts{}, nil)
		if !errors.Is(err, shared.ErrChannelNotFound) {
			t.Errorf("expected ErrChannelNotFound, got %v", err)
		}
	})
}

func TestSlugify(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{in: "My Favorites!", want: "my_favorites"},
		{in: "  spaced   out  ", want: "spaced_out"},
		{in: "***", want: "playlist"},
		{in: "Already_fine", want: "already_fine"},
	}

	for _, tt := range tc {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
