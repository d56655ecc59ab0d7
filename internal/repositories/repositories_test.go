package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/vidstash/internal/models"
	"github.com/desertthunder/vidstash/internal/shared"
)

// setupSQLStorage creates a SQLStorage over an in-memory SQLite database
// with migrations applied.
func setupSQLStorage(t *testing.T) *SQLStorage {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewSQLStorage(db)
}

// backends returns both storage implementations so every test runs against each.
func backends(t *testing.T) map[string]Storage {
	t.Helper()
	return map[string]Storage{
		"sqlite": setupSQLStorage(t),
		"memory": NewMemoryStorage(),
	}
}

func testChannel(suffix string) *models.Channel {
	return &models.Channel{
		ChannelID:       "UC" + suffix,
		Title:           "Channel " + suffix,
		Description:     "A test channel",
		CustomURL:       "@channel" + suffix,
		ThumbnailURL:    "https://example.com/thumb.jpg",
		SubscriberCount: "1000",
		ViewCount:       "50000",
		VideoCount:      3,
	}
}

func testVideo(suffix, channelID string) *models.Video {
	return &models.Video{
		VideoID:     "vid" + suffix,
		ChannelID:   channelID,
		Title:       "Video " + suffix,
		Duration:    "PT4M13S",
		ViewCount:   "42",
		LikeCount:   "7",
		PublishedAt: "2024-01-0" + suffix + "T00:00:00Z",
	}
}

func TestChannelStorage(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("Create and Get", func(t *testing.T) {
				channel := testChannel("1")
				if err := store.CreateChannel(ctx, channel); err != nil {
					t.Fatalf("failed to create channel: %v", err)
				}
				if channel.ID == 0 {
					t.Error("channel ID should be set after creation")
				}

				got, err := store.GetChannel(ctx, "UC1")
				if err != nil {
					t.Fatalf("failed to get channel: %v", err)
				}
				if got.Title != "Channel 1" {
					t.Errorf("expected title Channel 1, got %s", got.Title)
				}
				if got.SubscriberCount != "1000" {
					t.Errorf("expected subscriber count 1000, got %s", got.SubscriberCount)
				}
				if got.CustomURL != "@channel1" {
					t.Errorf("expected custom url @channel1, got %s", got.CustomURL)
				}
				if got.ViewCount != "50000" {
					t.Errorf("expected view count 50000, got %s", got.ViewCount)
				}
			})

			t.Run("Get Missing", func(t *testing.T) {
				_, err := store.GetChannel(ctx, "UCmissing")
				if !errors.Is(err, shared.ErrChannelNotFound) {
					t.Errorf("expected ErrChannelNotFound, got %v", err)
				}
			})

			t.Run("Get By Numeric ID", func(t *testing.T) {
				channel, err := store.GetChannel(ctx, "UC1")
				if err != nil {
					t.Fatalf("failed to get channel: %v", err)
				}

				got, err := store.GetChannelByID(ctx, channel.ID)
				if err != nil {
					t.Fatalf("failed to get channel by id: %v", err)
				}
				if got.ChannelID != "UC1" {
					t.Errorf("expected UC1, got %s", got.ChannelID)
				}

				if _, err := store.GetChannelByID(ctx, 9999); !errors.Is(err, shared.ErrChannelNotFound) {
					t.Errorf("expected ErrChannelNotFound, got %v", err)
				}
			})

			t.Run("List", func(t *testing.T) {
				if err := store.CreateChannel(ctx, testChannel("2")); err != nil {
					t.Fatalf("failed to create channel: %v", err)
				}

				channels, err := store.ListChannels(ctx)
				if err != nil {
					t.Fatalf("failed to list channels: %v", err)
				}
				if len(channels) != 2 {
					t.Fatalf("expected 2 channels, got %d", len(channels))
				}
				if channels[0].ChannelID != "UC1" || channels[1].ChannelID != "UC2" {
					t.Errorf("channels out of creation order: %s, %s", channels[0].ChannelID, channels[1].ChannelID)
				}
			})

			t.Run("Search", func(t *testing.T) {
				results, err := store.SearchChannels(ctx, "channel 1")
				if err != nil {
					t.Fatalf("failed to search channels: %v", err)
				}
				if len(results) != 1 || results[0].ChannelID != "UC1" {
					t.Errorf("expected UC1 only, got %d results", len(results))
				}
			})

			t.Run("Delete", func(t *testing.T) {
				if err := store.DeleteChannel(ctx, "UC2"); err != nil {
					t.Fatalf("failed to delete channel: %v", err)
				}
				if _, err := store.GetChannel(ctx, "UC2"); !errors.Is(err, shared.ErrChannelNotFound) {
					t.Errorf("expected ErrChannelNotFound after delete, got %v", err)
				}
				if err := store.DeleteChannel(ctx, "UC2"); !errors.Is(err, shared.ErrChannelNotFound) {
					t.Errorf("deleting twice should return ErrChannelNotFound, got %v", err)
				}
			})

			t.Run("Validation", func(t *testing.T) {
				err := store.CreateChannel(ctx, &models.Channel{Title: "no id"})
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		})
	}
}

func TestPlaylistStorage(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			playlist := &models.Playlist{
				PlaylistID: "PL1",
				ChannelID:  "UC1",
				Title:      "Favorites",
				VideoCount: 2,
			}
			if err := store.CreatePlaylist(ctx, playlist); err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}

			t.Run("Get", func(t *testing.T) {
				got, err := store.GetPlaylist(ctx, "PL1")
				if err != nil {
					t.Fatalf("failed to get playlist: %v", err)
				}
				if got.Title != "Favorites" {
					t.Errorf("expected title Favorites, got %s", got.Title)
				}
			})

			t.Run("Get Missing", func(t *testing.T) {
				_, err := store.GetPlaylist(ctx, "PLmissing")
				if !errors.Is(err, shared.ErrPlaylistNotFound) {
					t.Errorf("expected ErrPlaylistNotFound, got %v", err)
				}
			})

			t.Run("List By Channel", func(t *testing.T) {
				other := &models.Playlist{PlaylistID: "PL2", ChannelID: "UC2", Title: "Other"}
				if err := store.CreatePlaylist(ctx, other); err != nil {
					t.Fatalf("failed to create playlist: %v", err)
				}

				playlists, err := store.ListPlaylistsByChannel(ctx, "UC1")
				if err != nil {
					t.Fatalf("failed to list playlists: %v", err)
				}
				if len(playlists) != 1 || playlists[0].PlaylistID != "PL1" {
					t.Errorf("expected PL1 only, got %d playlists", len(playlists))
				}
			})

			t.Run("Delete By Channel", func(t *testing.T) {
				if err := store.DeletePlaylistsByChannel(ctx, "UC2"); err != nil {
					t.Fatalf("failed to delete playlists: %v", err)
				}
				if _, err := store.GetPlaylist(ctx, "PL2"); !errors.Is(err, shared.ErrPlaylistNotFound) {
					t.Errorf("expected ErrPlaylistNotFound after delete, got %v", err)
				}
			})
		})
	}
}

func TestPlaylistItemStorage(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 3; i++ {
				video := testVideo(fmt.Sprint(i), "UC1")
				if err := store.CreateVideo(ctx, video); err != nil {
					t.Fatalf("failed to create video: %v", err)
				}
			}

			for i, videoID := range []string{"vid1", "vid2", "vid3"} {
				item := &models.PlaylistItem{PlaylistID: "PL1", VideoID: videoID, Position: i}
				if err := store.CreatePlaylistItem(ctx, item); err != nil {
					t.Fatalf("failed to create playlist item: %v", err)
				}
			}

			t.Run("HasPlaylistItem", func(t *testing.T) {
				exists, err := store.HasPlaylistItem(ctx, "PL1", "vid2")
				if err != nil {
					t.Fatalf("failed to check playlist item: %v", err)
				}
				if !exists {
					t.Error("vid2 should be in PL1")
				}

				exists, err = store.HasPlaylistItem(ctx, "PL1", "vid9")
				if err != nil {
					t.Fatalf("failed to check playlist item: %v", err)
				}
				if exists {
					t.Error("vid9 should not be in PL1")
				}
			})

			t.Run("ListPlaylistVideos Ordered", func(t *testing.T) {
				videos, err := store.ListPlaylistVideos(ctx, "PL1")
				if err != nil {
					t.Fatalf("failed to list playlist videos: %v", err)
				}
				if len(videos) != 3 {
					t.Fatalf("expected 3 videos, got %d", len(videos))
				}
				for i, pv := range videos {
					if pv.Position != i {
						t.Errorf("expected position %d, got %d", i, pv.Position)
					}
				}
				if videos[0].VideoID != "vid1" {
					t.Errorf("expected vid1 first, got %s", videos[0].VideoID)
				}
			})

			t.Run("Dangling Items Omitted", func(t *testing.T) {
				item := &models.PlaylistItem{PlaylistID: "PL1", VideoID: "vidGone", Position: 3}
				if err := store.CreatePlaylistItem(ctx, item); err != nil {
					t.Fatalf("failed to create playlist item: %v", err)
				}

				videos, err := store.ListPlaylistVideos(ctx, "PL1")
				if err != nil {
					t.Fatalf("failed to list playlist videos: %v", err)
				}
				if len(videos) != 3 {
					t.Errorf("dangling item should be omitted, got %d videos", len(videos))
				}
			})

			t.Run("Delete By Playlist", func(t *testing.T) {
				if err := store.DeletePlaylistItemsByPlaylist(ctx, "PL1"); err != nil {
					t.Fatalf("failed to delete playlist items: %v", err)
				}
				videos, err := store.ListPlaylistVideos(ctx, "PL1")
				if err != nil {
					t.Fatalf("failed to list playlist videos: %v", err)
				}
				if len(videos) != 0 {
					t.Errorf("expected empty playlist after delete, got %d videos", len(videos))
				}
			})
		})
	}
}

func TestVideoStorage(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 3; i++ {
				if err := store.CreateVideo(ctx, testVideo(fmt.Sprint(i), "UC1")); err != nil {
					t.Fatalf("failed to create video: %v", err)
				}
			}
			if err := store.CreateVideo(ctx, testVideo("9", "UC2")); err != nil {
				t.Fatalf("failed to create video: %v", err)
			}

			t.Run("List By Channel Newest First", func(t *testing.T) {
				videos, err := store.ListVideosByChannel(ctx, "UC1")
				if err != nil {
					t.Fatalf("failed to list videos: %v", err)
				}
				if len(videos) != 3 {
					t.Fatalf("expected 3 videos, got %d", len(videos))
				}
				if videos[0].VideoID != "vid3" {
					t.Errorf("expected newest video first, got %s", videos[0].VideoID)
				}
				if videos[0].ViewCount != "42" || videos[0].LikeCount != "7" {
					t.Errorf("expected counts 42/7, got %s/%s", videos[0].ViewCount, videos[0].LikeCount)
				}
			})

			t.Run("Search", func(t *testing.T) {
				results, err := store.SearchVideos(ctx, "video 2")
				if err != nil {
					t.Fatalf("failed to search videos: %v", err)
				}
				if len(results) != 1 || results[0].VideoID != "vid2" {
					t.Errorf("expected vid2 only, got %d results", len(results))
				}
			})

			t.Run("Delete By Channel", func(t *testing.T) {
				if err := store.DeleteVideosByChannel(ctx, "UC1"); err != nil {
					t.Fatalf("failed to delete videos: %v", err)
				}
				videos, err := store.ListVideosByChannel(ctx, "UC1")
				if err != nil {
					t.Fatalf("failed to list videos: %v", err)
				}
				if len(videos) != 0 {
					t.Errorf("expected no videos after delete, got %d", len(videos))
				}

				// Other channels untouched
				if _, err := store.GetVideo(ctx, "vid9"); err != nil {
					t.Errorf("vid9 should survive UC1 deletion: %v", err)
				}
			})
		})
	}
}

func TestWatchLaterStorage(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.CreateVideo(ctx, testVideo("1", "UC1")); err != nil {
				t.Fatalf("failed to create video: %v", err)
			}

			t.Run("Add Unknown Video", func(t *testing.T) {
				_, _, err := store.AddWatchLater(ctx, "vidMissing")
				if !errors.Is(err, shared.ErrVideoNotFound) {
					t.Errorf("expected ErrVideoNotFound, got %v", err)
				}
			})

			t.Run("Add and List", func(t *testing.T) {
				entry, created, err := store.AddWatchLater(ctx, "vid1")
				if err != nil {
					t.Fatalf("failed to add watch later entry: %v", err)
				}
				if entry.ID == 0 {
					t.Error("entry ID should be set")
				}
				if !created {
					t.Error("first add should report created")
				}

				// Re-adding is idempotent
				again, created, err := store.AddWatchLater(ctx, "vid1")
				if err != nil {
					t.Fatalf("re-adding should not fail: %v", err)
				}
				if again.ID != entry.ID {
					t.Errorf("expected same entry id %d, got %d", entry.ID, again.ID)
				}
				if created {
					t.Error("re-adding should not report created")
				}

				videos, err := store.ListWatchLater(ctx)
				if err != nil {
					t.Fatalf("failed to list watch later: %v", err)
				}
				if len(videos) != 1 || videos[0].VideoID != "vid1" {
					t.Errorf("expected vid1 queued once, got %d videos", len(videos))
				}
			})

			t.Run("Remove", func(t *testing.T) {
				if err := store.RemoveWatchLater(ctx, "vid1"); err != nil {
					t.Fatalf("failed to remove watch later entry: %v", err)
				}
				if err := store.RemoveWatchLater(ctx, "vid1"); !errors.Is(err, shared.ErrVideoNotFound) {
					t.Errorf("removing twice should return ErrVideoNotFound, got %v", err)
				}
			})
		})
	}
}

func TestTransact(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("Commit", func(t *testing.T) {
				err := store.Transact(ctx, func(tx Storage) error {
					return tx.CreateChannel(ctx, testChannel("1"))
				})
				if err != nil {
					t.Fatalf("transaction should commit: %v", err)
				}
				if _, err := store.GetChannel(ctx, "UC1"); err != nil {
					t.Errorf("channel should exist after commit: %v", err)
				}
			})

			t.Run("Rollback", func(t *testing.T) {
				boom := errors.New("boom")
				err := store.Transact(ctx, func(tx Storage) error {
					if err := tx.CreateChannel(ctx, testChannel("2")); err != nil {
						return err
					}
					return boom
				})
				if !errors.Is(err, boom) {
					t.Fatalf("expected fn error, got %v", err)
				}
				if _, err := store.GetChannel(ctx, "UC2"); !errors.Is(err, shared.ErrChannelNotFound) {
					t.Errorf("channel should not exist after rollback, got %v", err)
				}
			})
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("memory driver", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Driver = "memory"

		store, err := Open(config)
		if err != nil {
			t.Fatalf("failed to open memory storage: %v", err)
		}
		defer store.Close()

		if _, ok := store.(*MemoryStorage); !ok {
			t.Errorf("expected MemoryStorage, got %T", store)
		}
	})

	t.Run("sqlite driver", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Driver = "sqlite"
		config.Database.Path = ":memory:"

		store, err := Open(config)
		if err != nil {
			t.Fatalf("failed to open sqlite storage: %v", err)
		}
		defer store.Close()

		if _, err := store.ListChannels(context.Background()); err != nil {
			t.Errorf("migrations should have run: %v", err)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Driver = "postgres"

		if _, err := Open(config); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
