// Client for the storage resource (POST /songs/, GET /songs/)
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

const (
	defaultStorageURL = "http://localhost:8000"
	songsPath         = "/songs/"
)

// StorageClient makes requests to the storage resource on behalf of the presentation layers.
type StorageClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewStorageClient creates a new client for the storage resource at baseURL.
func NewStorageClient(baseURL string, client *http.Client) *StorageClient {
	if baseURL == "" {
		baseURL = defaultStorageURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &StorageClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
		logger:     shared.NewLogger(nil),
	}
}

// SetLogger replaces the client's logger.
func (s *StorageClient) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// BaseURL returns the storage resource root.
func (s *StorageClient) BaseURL() string {
	return s.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the response status is 200.
func (r *APIResponse) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Get performs a GET request to the specified path and returns the raw response.
func (s *StorageClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	return s.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (s *StorageClient) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return s.do(ctx, http.MethodPost, path, data)
}

func (s *StorageClient) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// CreateSong stores one playlist entry and returns the stored record.
//
// Transport failures wrap both [shared.ErrStorageFailure] and [shared.ErrServiceUnavailable];
// non-200 responses wrap [shared.ErrStorageFailure] with the response body.
// A 200 whose body cannot be decoded still counts as stored and returns the submitted entry.
func (s *StorageClient) CreateSong(ctx context.Context, entry *models.PlaylistEntry) (*models.PlaylistEntry, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}

	resp, err := s.Post(ctx, songsPath, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", shared.ErrStorageFailure, shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrStorageFailure, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	// Any 200 counts as stored.
	var stored models.PlaylistEntry
	if err := json.Unmarshal(resp.Body, &stored); err != nil {
		s.logger.Warn("stored song but could not decode response", "title", entry.Title, "error", err)
		submitted := *entry
		return &submitted, nil
	}

	return &stored, nil
}

// ListSongs returns every stored entry in insertion order.
func (s *StorageClient) ListSongs(ctx context.Context) ([]*models.PlaylistEntry, error) {
	resp, err := s.Get(ctx, songsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	entries := []*models.PlaylistEntry{}
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode songs: %w", err)
	}

	return entries, nil
}

// Ping reports whether the storage resource answers at all.
func (s *StorageClient) Ping(ctx context.Context) error {
	if _, err := s.Get(ctx, songsPath); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return nil
}
