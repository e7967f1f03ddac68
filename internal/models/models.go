package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Model is the base interface for entities persisted in the cache database.
type Model interface {
	Validate() error // Validate checks if the entity's data is valid and returns an error if not
}

// CachedSearch is one cached catalog search: the term and the raw JSON
// results as returned by the catalog.
type CachedSearch struct {
	ID        string          `json:"id"`
	Sequence  int             `json:"sequence"`
	Term      string          `json:"term"`
	Results   json.RawMessage `json:"results"`
	FetchedAt time.Time       `json:"fetched_at"`
}

func (c *CachedSearch) Validate() error {
	if strings.TrimSpace(c.Term) == "" {
		return fmt.Errorf("search term is required")
	}
	if len(c.Results) == 0 {
		return fmt.Errorf("search results are required")
	}
	return nil
}

// Age returns how long ago the search was fetched.
func (c *CachedSearch) Age() time.Duration {
	return time.Since(c.FetchedAt)
}

// PlayRecord is one playback history entry, appended when the transport
// starts a song.
type PlayRecord struct {
	ID       string    `json:"id"`
	Sequence int       `json:"sequence"`
	SongID   string    `json:"song_id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Source   string    `json:"source"`
	PlayedAt time.Time `json:"played_at"`
}

func (p *PlayRecord) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(p.SongID) == "" {
		return fmt.Errorf("song id is required")
	}
	return nil
}
