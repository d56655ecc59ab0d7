package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidstash/internal/models"
	"github.com/desertthunder/vidstash/internal/repositories"
	"github.com/desertthunder/vidstash/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ChannelListView ViewState = iota
	PlaylistListView
	VideoListView
	SyncView
)

// Model represents the TUI application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	store            repositories.Storage
	engine           tasks.Engine
	width            int
	height           int
	channelList      list.Model
	playlistList     list.Model
	videoList        list.Model
	selectedChannel  *models.Channel
	selectedPlaylist *models.Playlist
	progressChan     chan tasks.ProgressUpdate
	syncDone         chan error
	progress         tasks.ProgressUpdate
	status           string
	err              error
	help             help.Model
	keys             keyMap
}

type channelsLoadedMsg struct {
	channels []*models.Channel
	err      error
}

type playlistsLoadedMsg struct {
	playlists []*models.Playlist
	err       error
}

type videosLoadedMsg struct {
	videos []*models.PlaylistVideo
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type syncDoneMsg struct {
	err error
}

type watchLaterAddedMsg struct {
	title string
	err   error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store repositories.Storage, engine tasks.Engine) *Model {
	return &Model{
		ctx:    ctx,
		view:   ChannelListView,
		store:  store,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading saved channels.
func (m *Model) Init() tea.Cmd {
	return m.loadChannels()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.channelList, &m.playlistList, &m.videoList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ChannelListView:
			return m.handleChannelListKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case VideoListView:
			return m.handleVideoListKeys(msg)
		case SyncView:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}

	case channelsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.channels))
		for i, channel := range msg.channels {
			items[i] = channelItem{channel: *channel}
		}
		m.channelList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.channelList.Title = "Saved Channels"
		m.channelList.SetSize(m.width-4, m.height-8)
		return m, nil

	case playlistsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ChannelListView
			return m, nil
		}
		items := make([]list.Item, len(msg.playlists))
		for i, playlist := range msg.playlists {
			items[i] = playlistItem{playlist: *playlist}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = fmt.Sprintf("Playlists in '%s'", m.selectedChannel.Title)
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.view = PlaylistListView
		return m, nil

	case videosLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		items := make([]list.Item, len(msg.videos))
		for i, video := range msg.videos {
			items[i] = videoItem{video: *video}
		}
		m.videoList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.videoList.Title = fmt.Sprintf("Videos in '%s'", m.selectedPlaylist.Title)
		m.videoList.SetSize(m.width-4, m.height-8)
		m.view = VideoListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncDoneMsg:
		if m.progressChan != nil {
			m.progressChan = nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		return m, m.loadPlaylists(m.selectedChannel.ChannelID)

	case watchLaterAddedMsg:
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Could not save: %v", msg.err))
		} else {
			m.status = styles.ok.Render(fmt.Sprintf("Saved '%s' to watch later", msg.title))
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ChannelListView:
		return m.renderChannelList()
	case PlaylistListView:
		return m.renderPlaylistList()
	case VideoListView:
		return m.renderVideoList()
	case SyncView:
		return m.renderSync()
	default:
		return ""
	}
}

func (m *Model) handleChannelListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.channelList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(channelItem); ok {
				channel := item.channel
				m.selectedChannel = &channel
				return m, m.loadPlaylists(channel.ChannelID)
			}
		}
	}

	var cmd tea.Cmd
	m.channelList, cmd = m.channelList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ChannelListView
		return m, nil
	case "r":
		m.view = SyncView
		return m, m.startRefresh()
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(playlistItem); ok {
				playlist := item.playlist
				m.selectedPlaylist = &playlist
				return m, m.loadVideos(playlist.PlaylistID)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleVideoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.status = ""
		m.view = PlaylistListView
		return m, nil
	case "w":
		selected := m.videoList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(videoItem); ok {
				return m, m.addWatchLater(item.video)
			}
		}
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ChannelListView:
		m.channelList, cmd = m.channelList.Update(msg)
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case VideoListView:
		m.videoList, cmd = m.videoList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadChannels() tea.Cmd {
	return func() tea.Msg {
		channels, err := m.store.ListChannels(m.ctx)
		return channelsLoadedMsg{channels: channels, err: err}
	}
}

func (m *Model) loadPlaylists(channelID string) tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.store.ListPlaylistsByChannel(m.ctx, channelID)
		return playlistsLoadedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) loadVideos(playlistID string) tea.Cmd {
	return func() tea.Msg {
		videos, err := m.store.ListPlaylistVideos(m.ctx, playlistID)
		return videosLoadedMsg{videos: videos, err: err}
	}
}

// startRefresh runs a playlist discovery pass for the selected channel in
// the background and streams progress back into the update loop.
func (m *Model) startRefresh() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan error, 1)
	progress := m.progressChan

	go func() {
		_, err := m.engine.SyncPlaylists(m.ctx, m.selectedChannel.ChannelID, progress)
		done <- err
		close(progress)
	}()

	m.syncDone = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncDoneMsg{}
		}

		update, ok := <-m.progressChan
		if !ok {
			return syncDoneMsg{err: <-m.syncDone}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) addWatchLater(video models.PlaylistVideo) tea.Cmd {
	return func() tea.Msg {
		_, _, err := m.store.AddWatchLater(m.ctx, video.VideoID)
		return watchLaterAddedMsg{title: video.Title, err: err}
	}
}

func (m *Model) renderChannelList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.channelList.View(), helpView)
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderVideoList() string {
	helpKeys := []key.Binding{m.keys.watch, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.status != "" {
		return fmt.Sprintf("%s\n\n%s\n%s", m.videoList.View(), m.status, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.videoList.View(), helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render(fmt.Sprintf("Refreshing '%s'", m.selectedChannel.Title))

	var phase string
	switch m.progress.Phase {
	case tasks.SyncPlaylistsPhase:
		phase = "Discovering playlists..."
	case tasks.SyncVideosPhase:
		phase = fmt.Sprintf("Syncing videos (%d so far)", m.progress.Step)
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}
