package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidstash/internal/models"
	"github.com/desertthunder/vidstash/internal/repositories"
	"github.com/desertthunder/vidstash/internal/services"
	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/desertthunder/vidstash/internal/tasks"
)

// APIHandler serves the organizer's REST endpoints.
type APIHandler struct {
	store    repositories.Storage
	engine   tasks.Engine
	provider services.Provider
	logger   *log.Logger
}

// NewAPIHandler creates an APIHandler with the provided dependencies.
// A nil logger disables handler logging.
func NewAPIHandler(store repositories.Storage, engine tasks.Engine, provider services.Provider, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &APIHandler{store: store, engine: engine, provider: provider, logger: logger}
}

// Register wires every endpoint into the router.
func (h *APIHandler) Register(r Router) {
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(h.health))

	r.Handle(http.MethodPost, "/api/channels", http.HandlerFunc(h.addChannel))
	r.Handle(http.MethodGet, "/api/channels", http.HandlerFunc(h.listChannels))
	r.Handle(http.MethodGet, "/api/channels/{id}", http.HandlerFunc(h.getChannel))
	r.Handle(http.MethodDelete, "/api/channels/{id}", http.HandlerFunc(h.deleteChannel))
	r.Handle(http.MethodGet, "/api/channels/{channelId}/videos", http.HandlerFunc(h.channelVideos))
	r.Handle(http.MethodGet, "/api/channels/{channelId}/playlists", http.HandlerFunc(h.channelPlaylists))

	r.Handle(http.MethodGet, "/api/playlists/{playlistId}", http.HandlerFunc(h.getPlaylist))
	r.Handle(http.MethodGet, "/api/playlists/{playlistId}/videos", http.HandlerFunc(h.playlistVideos))

	r.Handle(http.MethodGet, "/api/search", http.HandlerFunc(h.search))

	r.Handle(http.MethodGet, "/api/watch-later", http.HandlerFunc(h.listWatchLater))
	r.Handle(http.MethodPost, "/api/watch-later", http.HandlerFunc(h.addWatchLater))
	r.Handle(http.MethodDelete, "/api/watch-later/{videoId}", http.HandlerFunc(h.removeWatchLater))
}

func (h *APIHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// addChannel onboards a channel from {"url": "..."}. Returns 201 with the
// new row, or 200 with the existing row when the channel was already added.
func (h *APIHandler) addChannel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrInvalidInput))
		return
	}
	if body.URL == "" {
		writeError(w, fmt.Errorf("%w: url is required", shared.ErrInvalidInput))
		return
	}

	result, err := h.engine.AddChannel(r.Context(), body.URL, nil)
	if err != nil {
		h.logger.Error("channel onboarding failed", "url", body.URL, "err", err)
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Existed {
		status = http.StatusOK
	}
	writeJSON(w, status, result.Channel)
}

func (h *APIHandler) listChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.store.ListChannels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if channels == nil {
		channels = []*models.Channel{}
	}
	writeJSON(w, http.StatusOK, channels)
}

func (h *APIHandler) getChannel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: channel id must be numeric", shared.ErrInvalidInput))
		return
	}

	channel, err := h.store.GetChannelByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

func (h *APIHandler) deleteChannel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: channel id must be numeric", shared.ErrInvalidInput))
		return
	}

	channel, err := h.store.GetChannelByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.engine.DeleteChannel(r.Context(), channel.ChannelID, nil); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Channel deleted successfully"})
}

func (h *APIHandler) channelVideos(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelId")

	if _, err := h.store.GetChannel(r.Context(), channelID); err != nil {
		writeError(w, err)
		return
	}

	videos, err := h.store.ListVideosByChannel(r.Context(), channelID)
	if err != nil {
		writeError(w, err)
		return
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

// channelPlaylists lists a channel's stored playlists. With ?refresh=true a
// playlist discovery pass runs first, picking up playlists created upstream
// since onboarding.
func (h *APIHandler) channelPlaylists(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelId")

	if _, err := h.store.GetChannel(r.Context(), channelID); err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("refresh") == "true" {
		if _, err := h.engine.SyncPlaylists(r.Context(), channelID, nil); err != nil {
			h.logger.Error("playlist refresh failed", "channel", channelID, "err", err)
			writeError(w, err)
			return
		}
	}

	playlists, err := h.store.ListPlaylistsByChannel(r.Context(), channelID)
	if err != nil {
		writeError(w, err)
		return
	}
	if playlists == nil {
		playlists = []*models.Playlist{}
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (h *APIHandler) getPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.store.GetPlaylist(r.Context(), r.PathValue("playlistId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (h *APIHandler) playlistVideos(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("playlistId")

	if _, err := h.store.GetPlaylist(r.Context(), playlistID); err != nil {
		writeError(w, err)
		return
	}

	videos, err := h.store.ListPlaylistVideos(r.Context(), playlistID)
	if err != nil {
		writeError(w, err)
		return
	}
	if videos == nil {
		videos = []*models.PlaylistVideo{}
	}
	writeJSON(w, http.StatusOK, videos)
}

// search proxies a free-text search to the provider. type defaults to
// "video" and accepts "channel" and "playlist".
func (h *APIHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, fmt.Errorf("%w: q is required", shared.ErrInvalidInput))
		return
	}

	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "video"
	}

	results, err := h.provider.Search(r.Context(), query, kind)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []services.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *APIHandler) listWatchLater(w http.ResponseWriter, r *http.Request) {
	videos, err := h.store.ListWatchLater(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *APIHandler) addWatchLater(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VideoID string `json:"videoId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrInvalidInput))
		return
	}
	if body.VideoID == "" {
		writeError(w, fmt.Errorf("%w: videoId is required", shared.ErrInvalidInput))
		return
	}

	entry, created, err := h.store.AddWatchLater(r.Context(), body.VideoID)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	writeJSON(w, status, entry)
}

func (h *APIHandler) removeWatchLater(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveWatchLater(r.Context(), r.PathValue("videoId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from watch later"})
}
