// External catalog search client.
//
// The catalog exposes a public track search keyed by a client id; responses
// are Jamendo-shaped: {"headers": {...}, "results": [...]}.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/kaset/kaset/internal/shared"
)

const defaultCatalogBaseURL = "https://api.jamendo.com/v3.0"

// CatalogTrack represents a search result from the external catalog.
// A track without an audio URL cannot be previewed or ingested.
type CatalogTrack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistName  string `json:"artist_name"`
	AlbumName   string `json:"album_name"`
	AudioURL    string `json:"audio"`
	DownloadURL string `json:"audiodownload"`
	Image       string `json:"image"`
}

// Playable reports whether the track carries a streamable audio URL.
func (t CatalogTrack) Playable() bool {
	return t.AudioURL != ""
}

// Song materializes the catalog track into the canonical song shape with its
// origin tagged explicitly.
func (t CatalogTrack) Song() Song {
	return Song{
		ID:         "catalog-" + t.ID,
		Title:      t.Name,
		Artist:     t.ArtistName,
		URL:        t.AudioURL,
		Album:      t.AlbumName,
		Source:     SourceCatalog,
		OriginalID: t.ID,
	}
}

// Preview synthesizes an untagged pseudo-song for playing a catalog track
// before it is imported. The prefixed id lets ingestion attribute the origin
// later, when the listener decides to keep the track.
func (t CatalogTrack) Preview() Song {
	return Song{
		ID:     "catalog-" + t.ID,
		Title:  t.Name,
		Artist: t.ArtistName,
		URL:    t.AudioURL,
		Album:  t.AlbumName,
	}
}

// CatalogService implements track search against the external catalog.
// Requests are throttled with a [rate.Limiter] to respect the API quota.
type CatalogService struct {
	baseURL    string
	clientID   string
	limit      int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewCatalogService creates a catalog client. A zero limit defaults to 20
// results; a zero rps disables throttling.
func NewCatalogService(baseURL, clientID string, limit int, rps float64, client *http.Client) *CatalogService {
	if baseURL == "" {
		baseURL = defaultCatalogBaseURL
	}
	if limit <= 0 {
		limit = 20
	}
	if client == nil {
		client = http.DefaultClient
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	return &CatalogService{
		baseURL:    baseURL,
		clientID:   clientID,
		limit:      limit,
		httpClient: client,
		limiter:    limiter,
	}
}

// Search queries the catalog for tracks matching term.
func (c *CatalogService) Search(ctx context.Context, term string) ([]CatalogTrack, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term", shared.ErrMissingArgument)
	}
	if c.clientID == "" {
		return nil, fmt.Errorf("%w: catalog client id not configured", shared.ErrInvalidConfig)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	endpoint := fmt.Sprintf("%s/tracks/?client_id=%s&format=json&limit=%d&search=%s",
		c.baseURL, url.QueryEscape(c.clientID), c.limit, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: catalog returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var response struct {
		Results []CatalogTrack `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return response.Results, nil
}
