// YouTube Data API v3 [Provider] implementation.
//
// Authentication is a key query parameter on every request. Paged endpoints
// use opaque nextPageToken cursors with pages of at most 50 items, batch
// video lookups join up to 50 ids with commas.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/vidstash/internal/shared"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxPageSize is the largest page the Data API serves.
const maxPageSize = 50

// YouTubeService implements [Provider] against the YouTube Data API v3.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a YouTube Data API client. An empty baseURL
// falls back to the public API endpoint.
func NewYouTubeService(apiKey, baseURL string) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &YouTubeService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

// Name returns the provider name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// thumbnails is the nested thumbnail set the API attaches to snippets.
type thumbnails struct {
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
	Medium struct {
		URL string `json:"url"`
	} `json:"medium"`
	High struct {
		URL string `json:"url"`
	} `json:"high"`
}

// url returns the preferred thumbnail variant.
func (t thumbnails) url() string {
	if t.Medium.URL != "" {
		return t.Medium.URL
	}
	if t.High.URL != "" {
		return t.High.URL
	}
	return t.Default.URL
}

func (y *YouTubeService) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if y.apiKey == "" {
		return fmt.Errorf("%w: set youtube.api_key or YOUTUBE_API_KEY", shared.ErrMissingAPIKey)
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("key", y.apiKey)
	reqURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetChannel retrieves a channel's snippet, statistics and uploads playlist id.
//
// Calls GET /channels?part=snippet,statistics,contentDetails&id=.
func (y *YouTubeService) GetChannel(ctx context.Context, channelID string) (*ChannelResource, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", channelID)

	var resp struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string     `json:"title"`
				Description string     `json:"description"`
				CustomURL   string     `json:"customUrl"`
				Thumbnails  thumbnails `json:"thumbnails"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
				ViewCount       string `json:"viewCount"`
				VideoCount      string `json:"videoCount"`
			} `json:"statistics"`
			ContentDetails struct {
				RelatedPlaylists struct {
					Uploads string `json:"uploads"`
				} `json:"relatedPlaylists"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := y.get(ctx, "/channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
	}

	item := resp.Items[0]
	videoCount, _ := strconv.Atoi(item.Statistics.VideoCount)

	return &ChannelResource{
		ChannelID:       item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		CustomURL:       item.Snippet.CustomURL,
		ThumbnailURL:    item.Snippet.Thumbnails.url(),
		SubscriberCount: item.Statistics.SubscriberCount,
		ViewCount:       item.Statistics.ViewCount,
		VideoCount:      videoCount,
		UploadsPlaylist: item.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// SearchChannel resolves a handle or free-text query to the first matching channel id.
//
// Calls GET /search?part=snippet&type=channel&q=.
func (y *YouTubeService) SearchChannel(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", query)
	params.Set("maxResults", "1")

	var resp struct {
		Items []struct {
			ID struct {
				ChannelID string `json:"channelId"`
			} `json:"id"`
		} `json:"items"`
	}

	if err := y.get(ctx, "/search", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 || resp.Items[0].ID.ChannelID == "" {
		return "", fmt.Errorf("%w: no channel matches %q", shared.ErrChannelNotFound, query)
	}
	return resp.Items[0].ID.ChannelID, nil
}

// ListPlaylists retrieves one page of a channel's playlists.
//
// Calls GET /playlists?part=snippet,contentDetails&channelId=&maxResults=50.
func (y *YouTubeService) ListPlaylists(ctx context.Context, channelID, pageToken string) (*PlaylistPage, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("channelId", channelID)
	params.Set("maxResults", strconv.Itoa(maxPageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp struct {
		NextPageToken string `json:"nextPageToken"`
		Items         []struct {
			ID      string `json:"id"`
			Snippet struct {
				ChannelID   string     `json:"channelId"`
				Title       string     `json:"title"`
				Description string     `json:"description"`
				Thumbnails  thumbnails `json:"thumbnails"`
			} `json:"snippet"`
			ContentDetails struct {
				ItemCount int `json:"itemCount"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := y.get(ctx, "/playlists", params, &resp); err != nil {
		return nil, err
	}

	page := &PlaylistPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		page.Playlists = append(page.Playlists, PlaylistResource{
			PlaylistID:   item.ID,
			ChannelID:    item.Snippet.ChannelID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.url(),
			VideoCount:   item.ContentDetails.ItemCount,
		})
	}
	return page, nil
}

// ListPlaylistItems retrieves one page of a playlist's membership.
//
// Calls GET /playlistItems?part=contentDetails&playlistId=&maxResults=50.
func (y *YouTubeService) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*PlaylistItemPage, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(maxPageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp struct {
		NextPageToken string `json:"nextPageToken"`
		Items         []struct {
			ContentDetails struct {
				VideoID string `json:"videoId"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := y.get(ctx, "/playlistItems", params, &resp); err != nil {
		return nil, err
	}

	page := &PlaylistItemPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		page.Items = append(page.Items, PlaylistItemEntry{VideoID: item.ContentDetails.VideoID})
	}
	return page, nil
}

// GetVideos retrieves details for the given video ids. Ids are joined with
// commas into batches of at most 50 per request. Unknown ids are silently
// absent from the result.
//
// Calls GET /videos?part=snippet,statistics,contentDetails&id=a,b,c.
func (y *YouTubeService) GetVideos(ctx context.Context, videoIDs []string) ([]VideoResource, error) {
	var videos []VideoResource

	for start := 0; start < len(videoIDs); start += maxPageSize {
		end := start + maxPageSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		batch, err := y.getVideoBatch(ctx, videoIDs[start:end])
		if err != nil {
			return nil, err
		}
		videos = append(videos, batch...)
	}
	return videos, nil
}

func (y *YouTubeService) getVideoBatch(ctx context.Context, videoIDs []string) ([]VideoResource, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(videoIDs, ","))

	var resp struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				ChannelID   string     `json:"channelId"`
				Title       string     `json:"title"`
				Description string     `json:"description"`
				Thumbnails  thumbnails `json:"thumbnails"`
				PublishedAt string     `json:"publishedAt"`
			} `json:"snippet"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
				LikeCount string `json:"likeCount"`
			} `json:"statistics"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := y.get(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	var videos []VideoResource
	for _, item := range resp.Items {
		videos = append(videos, VideoResource{
			VideoID:      item.ID,
			ChannelID:    item.Snippet.ChannelID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.url(),
			Duration:     item.ContentDetails.Duration,
			ViewCount:    item.Statistics.ViewCount,
			LikeCount:    item.Statistics.LikeCount,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

// Search performs a free-text search scoped to one result kind.
//
// Calls GET /search?part=snippet&q=&type=.
func (y *YouTubeService) Search(ctx context.Context, query, kind string) ([]SearchResult, error) {
	switch kind {
	case "video", "channel", "playlist":
	default:
		return nil, fmt.Errorf("%w: unknown search type %q", shared.ErrInvalidInput, kind)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", kind)
	params.Set("maxResults", "25")

	var resp struct {
		Items []struct {
			ID struct {
				VideoID    string `json:"videoId"`
				ChannelID  string `json:"channelId"`
				PlaylistID string `json:"playlistId"`
			} `json:"id"`
			Snippet struct {
				ChannelID    string     `json:"channelId"`
				ChannelTitle string     `json:"channelTitle"`
				Title        string     `json:"title"`
				Description  string     `json:"description"`
				Thumbnails   thumbnails `json:"thumbnails"`
				PublishedAt  string     `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if err := y.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, item := range resp.Items {
		id := item.ID.VideoID
		if id == "" {
			id = item.ID.ChannelID
		}
		if id == "" {
			id = item.ID.PlaylistID
		}
		if id == "" {
			continue
		}

		results = append(results, SearchResult{
			Kind:         kind,
			ID:           id,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.url(),
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return results, nil
}
