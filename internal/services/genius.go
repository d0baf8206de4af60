// Genius API [MetadataFetcher] implementation
//
// The Genius API returns song metadata but not lyrics, so lyrics are read from the song page HTML.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultGeniusBaseURL = "https://api.genius.com"

// lyricsSelector matches the containers holding lyric lines on a Genius song page.
const lyricsSelector = `div[data-lyrics-container="true"]`

// GeniusArtist represents an artist in Genius API responses.
type GeniusArtist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GeniusSong represents a song result in Genius API responses.
type GeniusSong struct {
	ID            int          `json:"id"`
	Title         string       `json:"title"`
	FullTitle     string       `json:"full_title"`
	URL           string       `json:"url"`
	PrimaryArtist GeniusArtist `json:"primary_artist"`
}

type geniusHit struct {
	Type   string     `json:"type"`
	Result GeniusSong `json:"result"`
}

type geniusSearchResponse struct {
	Meta struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"meta"`
	Response struct {
		Hits []geniusHit `json:"hits"`
	} `json:"response"`
}

// GeniusService implements [MetadataFetcher] against the Genius API.
type GeniusService struct {
	baseURL    string
	httpClient *http.Client // API requests, carries the bearer token
	pageClient *http.Client // song page scrapes
	limiter    *rate.Limiter
}

// NewGeniusService creates a Genius client authenticating with cfg.AccessToken.
//
// The given client (or [http.DefaultClient]) is wrapped so API requests carry the bearer token.
// Song pages are fetched with the unwrapped client.
func NewGeniusService(cfg shared.GeniusConfig, client *http.Client) (*GeniusService, error) {
	if !shared.Configured(cfg.AccessToken) {
		return nil, fmt.Errorf("%w: genius access token", shared.ErrMissingCredentials)
	}

	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = defaultGeniusBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})

	return &GeniusService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, src),
		pageClient: client,
		limiter:    newLimiter(cfg.RequestsPerSecond),
	}, nil
}

// Name returns the service name.
func (g *GeniusService) Name() string {
	return "Genius"
}

// FetchSong searches Genius for title and returns the first song hit with its lyrics.
func (g *GeniusService) FetchSong(ctx context.Context, title string) (*models.SongMetadata, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty song title", shared.ErrInvalidInput)
	}

	song, err := g.Search(ctx, title)
	if err != nil {
		return nil, err
	}

	lyrics, err := g.Lyrics(ctx, song.URL)
	if err != nil {
		return nil, err
	}

	return &models.SongMetadata{
		Title:  song.Title,
		Artist: song.PrimaryArtist.Name,
		Lyrics: lyrics,
		URL:    song.URL,
	}, nil
}

// Search returns the first song hit for query.
//
// Calls GET /search?q={query}.
func (g *GeniusService) Search(ctx context.Context, query string) (*GeniusSong, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", g.baseURL, url.QueryEscape(query))

	var result geniusSearchResponse
	if err := g.doRequest(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	for _, hit := range result.Response.Hits {
		if hit.Type == "song" && hit.Result.URL != "" {
			song := hit.Result
			return &song, nil
		}
	}

	return nil, fmt.Errorf("%w: no Genius results for '%s'", shared.ErrTrackNotFound, query)
}

// Lyrics downloads the song page at pageURL and extracts the lyric text.
func (g *GeniusService) Lyrics(ctx context.Context, pageURL string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.pageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: lyrics page not found", shared.ErrTrackNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: genius page status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse lyrics page: %w", err)
	}

	lyrics := extractLyrics(doc)
	if lyrics == "" {
		return "", fmt.Errorf("%w: no lyrics on page", shared.ErrTrackNotFound)
	}

	return lyrics, nil
}

// extractLyrics joins the text of every lyrics container, turning <br> into newlines.
func extractLyrics(doc *goquery.Document) string {
	var blocks []string

	doc.Find(lyricsSelector).Each(func(_ int, s *goquery.Selection) {
		s.Find(`[data-exclude-from-selection="true"]`).Remove()
		s.Find("br").ReplaceWithHtml("\n")

		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	return strings.TrimSpace(strings.Join(blocks, "\n"))
}

func (g *GeniusService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp geniusSearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Meta.Message != "" {
			return fmt.Errorf("%w: genius API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Meta.Message)
		}
		return fmt.Errorf("%w: genius API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
