// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/desertthunder/vidstash/internal/services"
	"github.com/desertthunder/vidstash/internal/shared"
)

// FakeProvider is a scripted test double for [services.Provider].
//
// Fixtures are plain maps keyed by external id. Paged endpoints serve
// fixed-size pages so pagination paths get exercised, and Calls records
// every operation for asserting call counts.
type FakeProvider struct {
	Channels      map[string]*services.ChannelResource
	SearchResults map[string]string // query -> channel id
	Playlists     map[string][]services.PlaylistResource
	Items         map[string][]services.PlaylistItemEntry
	Videos        map[string]services.VideoResource
	Hits          map[string][]services.SearchResult

	// PageSize controls how many entries each page serves. Zero means 50.
	PageSize int
	// Err, when set, fails every call.
	Err error

	Calls []string
}

// NewFakeProvider creates an empty FakeProvider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Channels:      make(map[string]*services.ChannelResource),
		SearchResults: make(map[string]string),
		Playlists:     make(map[string][]services.PlaylistResource),
		Items:         make(map[string][]services.PlaylistItemEntry),
		Videos:        make(map[string]services.VideoResource),
		Hits:          make(map[string][]services.SearchResult),
	}
}

func (f *FakeProvider) pageSize() int {
	if f.PageSize > 0 {
		return f.PageSize
	}
	return 50
}

func (f *FakeProvider) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *FakeProvider) GetChannel(_ context.Context, channelID string) (*services.ChannelResource, error) {
	f.record("GetChannel(%s)", channelID)
	if f.Err != nil {
		return nil, f.Err
	}
	channel, ok := f.Channels[channelID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
	}
	return channel, nil
}

func (f *FakeProvider) SearchChannel(_ context.Context, query string) (string, error) {
	f.record("SearchChannel(%s)", query)
	if f.Err != nil {
		return "", f.Err
	}
	id, ok := f.SearchResults[query]
	if !ok {
		return "", fmt.Errorf("%w: no channel matches %q", shared.ErrChannelNotFound, query)
	}
	return id, nil
}

// page slices a fixture list into the page the token names. Tokens are
// "page:N" offsets, mirroring opaque provider cursors.
func page[T any](all []T, token string, size int) ([]T, string, error) {
	start := 0
	if token != "" {
		if _, err := fmt.Sscanf(token, "page:%d", &start); err != nil {
			return nil, "", fmt.Errorf("bad page token %q", token)
		}
	}
	if start >= len(all) {
		return nil, "", nil
	}

	end := start + size
	next := ""
	if end < len(all) {
		next = fmt.Sprintf("page:%d", end)
	} else {
		end = len(all)
	}
	return all[start:end], next, nil
}

func (f *FakeProvider) ListPlaylists(_ context.Context, channelID, pageToken string) (*services.PlaylistPage, error) {
	f.record("ListPlaylists(%s,%s)", channelID, pageToken)
	if f.Err != nil {
		return nil, f.Err
	}
	playlists, next, err := page(f.Playlists[channelID], pageToken, f.pageSize())
	if err != nil {
		return nil, err
	}
	return &services.PlaylistPage{Playlists: playlists, NextPageToken: next}, nil
}

func (f *FakeProvider) ListPlaylistItems(_ context.Context, playlistID, pageToken string) (*services.PlaylistItemPage, error) {
	f.record("ListPlaylistItems(%s,%s)", playlistID, pageToken)
	if f.Err != nil {
		return nil, f.Err
	}
	items, next, err := page(f.Items[playlistID], pageToken, f.pageSize())
	if err != nil {
		return nil, err
	}
	return &services.PlaylistItemPage{Items: items, NextPageToken: next}, nil
}

func (f *FakeProvider) GetVideos(_ context.Context, videoIDs []string) ([]services.VideoResource, error) {
	f.record("GetVideos(%d ids)", len(videoIDs))
	if f.Err != nil {
		return nil, f.Err
	}
	var videos []services.VideoResource
	for _, id := range videoIDs {
		if video, ok := f.Videos[id]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

func (f *FakeProvider) Search(_ context.Context, query, kind string) ([]services.SearchResult, error) {
	f.record("Search(%s,%s)", query, kind)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Hits[kind+":"+query], nil
}

func (f *FakeProvider) Name() string { return "fake" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
