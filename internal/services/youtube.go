// YouTube Data API [PlaylistBuilder] implementation
//
// Uses the search endpoint (GET /search?part=snippet&type=video) authenticated with an API key.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultYTBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultYTMaxResults = 5
	youtubeWatchURL     = "https://www.youtube.com/watch?v="
)

// YouTubeThumbnail represents a thumbnail in YouTube search results.
type YouTubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeSearchItem represents one item of a YouTube search response.
type YouTubeSearchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string                      `json:"title"`
		ChannelTitle string                      `json:"channelTitle"`
		Thumbnails   map[string]YouTubeThumbnail `json:"thumbnails"`
	} `json:"snippet"`
}

type youtubeSearchResponse struct {
	Items []YouTubeSearchItem `json:"items"`
}

// YouTubeService implements [PlaylistBuilder] using the YouTube Data API.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a new YouTube search service from cfg.
func NewYouTubeService(cfg shared.YouTubeConfig, client *http.Client) (*YouTubeService, error) {
	if !shared.Configured(cfg.APIKey) {
		return nil, fmt.Errorf("%w: youtube api key", shared.ErrMissingCredentials)
	}

	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultYTMaxResults
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		httpClient: client,
		limiter:    newLimiter(cfg.RequestsPerSecond),
	}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// PlaylistQuery builds the search query for a mood and optional genre.
func PlaylistQuery(mood, genre string) string {
	parts := []string{strings.TrimSpace(mood)}
	if g := strings.TrimSpace(genre); g != "" {
		parts = append(parts, g)
	}
	parts = append(parts, "songs")
	return strings.Join(parts, " ")
}

// BuildPlaylist searches for videos matching mood and genre.
func (y *YouTubeService) BuildPlaylist(ctx context.Context, mood, genre string) ([]models.Video, error) {
	if strings.TrimSpace(mood) == "" {
		return nil, fmt.Errorf("%w: empty mood", shared.ErrInvalidInput)
	}
	return y.Search(ctx, PlaylistQuery(mood, genre))
}

// Search returns up to maxResults videos for query, in the order YouTube ranks them.
//
// Calls GET /search?part=snippet&type=video&q={query}&maxResults={n}&key={key}.
func (y *YouTubeService) Search(ctx context.Context, query string) ([]models.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(y.maxResults))
	params.Set("key", y.apiKey)

	var result youtubeSearchResponse
	if err := y.doRequest(ctx, "/search?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, models.Video{
			Title: html.UnescapeString(item.Snippet.Title),
			URL:   youtubeWatchURL + item.ID.VideoID,
		})
	}

	return videos, nil
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: youtube API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: youtube API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
