// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the local library:
//  1. [ChannelListView] : Browse saved channels
//  2. [PlaylistListView] : Browse a channel's playlists
//  3. [VideoListView] : Browse a playlist's videos
//  4. [SyncView] : Monitor real-time progress while a refresh runs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ChannelEngine, providing non-blocking status reporting during refreshes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, w, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
