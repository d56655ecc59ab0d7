package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vidstash/internal/repositories"
	"github.com/desertthunder/vidstash/internal/services"
	"github.com/desertthunder/vidstash/internal/shared"
	tu "github.com/desertthunder/vidstash/internal/testing"
	"github.com/urfave/cli/v3"
)

const testChannelID = "UC" + "abcdefghijklmnopqrstuv"

func newTestRunner(t *testing.T) (*Runner, *tu.FakeProvider, *bytes.Buffer) {
	t.Helper()

	provider := tu.NewFakeProvider()
	provider.Channels[testChannelID] = &services.ChannelResource{
		ChannelID:       testChannelID,
		Title:           "Test Channel",
		SubscriberCount: "15000",
		VideoCount:      1,
		UploadsPlaylist: "UUuploads",
	}
	provider.Items["UUuploads"] = []services.PlaylistItemEntry{{VideoID: "vidA"}}
	provider.Videos["vidA"] = services.VideoResource{
		VideoID:     "vidA",
		ChannelID:   testChannelID,
		Title:       "First Video",
		Duration:    "PT4M20S",
		ViewCount:   "500",
		PublishedAt: "2024-01-01T00:00:00Z",
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:   shared.DefaultConfig(),
		Store:    repositories.NewMemoryStorage(),
		Provider: provider,
		Logger:   shared.NewLogger(&bytes.Buffer{}),
		Output:   output,
	})
	return runner, provider, output
}

// runCLI drives a command through the full cli definition, the way main does.
func runCLI(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "vidstash",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"vidstash"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := repositories.NewMemoryStorage()
			provider := tu.NewFakeProvider()

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Store:    store,
				Provider: provider,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})
	})

	t.Run("ensureEngine", func(t *testing.T) {
		t.Run("fails without api key or provider", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Store:  repositories.NewMemoryStorage(),
				Logger: shared.NewLogger(&bytes.Buffer{}),
			})

			if _, err := runner.ensureEngine(); err == nil {
				t.Error("expected error without api key")
			}
		})

		t.Run("reuses injected provider", func(t *testing.T) {
			runner, _, _ := newTestRunner(t)
			engine, err := runner.ensureEngine()
			if err != nil {
				t.Fatalf("ensureEngine failed: %v", err)
			}
			again, _ := runner.ensureEngine()
			if engine != again {
				t.Error("expected engine to be built once")
			}
		})
	})
}

func TestChannelCommands(t *testing.T) {
	t.Run("add then list", func(t *testing.T) {
		runner, _, output := newTestRunner(t)

		if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if !strings.Contains(output.String(), "Saved 'Test Channel'") {
			t.Errorf("expected save confirmation, got %q", output.String())
		}

		output.Reset()
		if err := runCLI(t, runner, "channels", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Test Channel") {
			t.Errorf("expected channel title in output, got %q", output.String())
		}
		if !strings.Contains(output.String(), "15K") {
			t.Errorf("expected abbreviated subscriber count, got %q", output.String())
		}
	})

	t.Run("add twice reports already saved", func(t *testing.T) {
		runner, _, output := newTestRunner(t)

		if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		output.Reset()
		if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
			t.Fatalf("repeat add failed: %v", err)
		}
		if !strings.Contains(output.String(), "already saved") {
			t.Errorf("expected idempotent hint, got %q", output.String())
		}
	})

	t.Run("add without url fails", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		if err := runCLI(t, runner, "channels", "add"); err == nil {
			t.Error("expected error for missing url")
		}
	})

	t.Run("list with no channels", func(t *testing.T) {
		runner, _, output := newTestRunner(t)

		if err := runCLI(t, runner, "channels", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "No channels saved") {
			t.Errorf("expected empty hint, got %q", output.String())
		}
	})

	t.Run("delete removes cached data", func(t *testing.T) {
		runner, _, output := newTestRunner(t)

		if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := runCLI(t, runner, "channels", "delete", testChannelID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if !strings.Contains(output.String(), "Deleted 'Test Channel'") {
			t.Errorf("expected delete confirmation, got %q", output.String())
		}

		if _, err := runner.store.GetChannel(context.Background(), testChannelID); err == nil {
			t.Error("expected channel to be gone")
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	runner, _, output := newTestRunner(t)

	if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	t.Run("list", func(t *testing.T) {
		output.Reset()
		if err := runCLI(t, runner, "playlists", "list", testChannelID); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Uploads") {
			t.Errorf("expected uploads playlist, got %q", output.String())
		}
	})

	t.Run("videos", func(t *testing.T) {
		output.Reset()
		if err := runCLI(t, runner, "playlists", "videos", "UUuploads"); err != nil {
			t.Fatalf("videos failed: %v", err)
		}
		if !strings.Contains(output.String(), "First Video") {
			t.Errorf("expected video title, got %q", output.String())
		}
	})

	t.Run("videos for unknown playlist fails", func(t *testing.T) {
		if err := runCLI(t, runner, "playlists", "videos", "PLmissing"); err == nil {
			t.Error("expected error for unknown playlist")
		}
	})
}

func TestWatchCommands(t *testing.T) {
	runner, _, output := newTestRunner(t)

	if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := runCLI(t, runner, "watch-later", "add", "vidA"); err != nil {
		t.Fatalf("watch add failed: %v", err)
	}

	output.Reset()
	if err := runCLI(t, runner, "watch-later", "add", "vidA"); err != nil {
		t.Fatalf("repeat watch add failed: %v", err)
	}
	if !strings.Contains(output.String(), "already in watch later") {
		t.Errorf("expected repeat add notice, got %q", output.String())
	}

	output.Reset()
	if err := runCLI(t, runner, "watch-later", "list"); err != nil {
		t.Fatalf("watch list failed: %v", err)
	}
	if !strings.Contains(output.String(), "First Video") {
		t.Errorf("expected queued video, got %q", output.String())
	}
	if !strings.Contains(output.String(), "4:20") {
		t.Errorf("expected formatted duration, got %q", output.String())
	}

	if err := runCLI(t, runner, "watch-later", "remove", "vidA"); err != nil {
		t.Fatalf("watch remove failed: %v", err)
	}

	output.Reset()
	if err := runCLI(t, runner, "watch-later", "list"); err != nil {
		t.Fatalf("watch list failed: %v", err)
	}
	if !strings.Contains(output.String(), "empty") {
		t.Errorf("expected empty queue, got %q", output.String())
	}

	if err := runCLI(t, runner, "watch-later", "add", "vidUnknown"); err == nil {
		t.Error("expected error for unknown video")
	}
}

func TestSearchCommand(t *testing.T) {
	runner, provider, output := newTestRunner(t)
	provider.Hits["video:cats"] = []services.SearchResult{
		{Kind: "video", ID: "vidCat", Title: "Cats", ChannelTitle: "Cat Channel"},
	}

	if err := runCLI(t, runner, "search", "cats"); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(output.String(), "Cats") {
		t.Errorf("expected search hit, got %q", output.String())
	}

	if err := runCLI(t, runner, "search"); err == nil {
		t.Error("expected error for missing query")
	}

	t.Run("local", func(t *testing.T) {
		if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		output.Reset()
		if err := runCLI(t, runner, "search", "--local", "--type", "video", "First"); err != nil {
			t.Fatalf("local search failed: %v", err)
		}
		if !strings.Contains(output.String(), "First Video") {
			t.Errorf("expected stored video hit, got %q", output.String())
		}

		output.Reset()
		if err := runCLI(t, runner, "search", "--local", "--type", "playlist", "Uploads"); err != nil {
			t.Fatalf("local playlist search failed: %v", err)
		}
		if !strings.Contains(output.String(), "UUuploads") {
			t.Errorf("expected stored playlist hit, got %q", output.String())
		}

		if err := runCLI(t, runner, "search", "--local", "--type", "bogus", "x"); err == nil {
			t.Error("expected error for unknown type")
		}
	})
}

func TestExportCommand(t *testing.T) {
	runner, _, output := newTestRunner(t)

	if err := runCLI(t, runner, "channels", "add", testChannelID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "export")
	if err := runCLI(t, runner, "export", "--output", dir, "--format", "json", testChannelID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(output.String(), "Exported") {
		t.Errorf("expected export summary, got %q", output.String())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read export dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected export files")
	}
}
