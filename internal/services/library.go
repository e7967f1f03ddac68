package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kaset/kaset/internal/shared"
)

// Song origin tags. Attached when a track is first materialized, never
// inferred downstream.
const (
	SourceLocal   = "local"
	SourceCatalog = "external"
)

// Playlist represents a named playlist from the backend.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Song represents a playlist member.
type Song struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	URL        string `json:"url"`
	Album      string `json:"album,omitempty"`
	Source     string `json:"source,omitempty"`
	OriginalID string `json:"original_id,omitempty"`
}

// Playable reports whether the song carries a usable playback URL.
// Placeholder URLs seeded by the backend are not playable.
func (s Song) Playable() bool {
	return s.URL != "" && !strings.HasPrefix(s.URL, "URL_MUSIK_DUMMY")
}

// MutationResult is the backend's response to a song add/remove. The playlist
// field is present when the backend returns the updated playlist snapshot.
type MutationResult struct {
	Message  string    `json:"message"`
	Playlist *Playlist `json:"playlist"`
}

// LibraryService provides typed access to the playlist backend via [Gateway].
type LibraryService struct {
	gateway *Gateway
}

// NewLibraryService creates a library client over the given gateway.
func NewLibraryService(gateway *Gateway) *LibraryService {
	return &LibraryService{gateway: gateway}
}

// Login exchanges credentials for a bearer token. The caller is responsible
// for swapping the token into the session.
func (l *LibraryService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password", shared.ErrMissingArgument)
	}

	payload, err := l.gateway.Call(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: login response carried no token", shared.ErrAPIRequest)
	}

	return resp.Token, nil
}

// Signup registers a new account and returns the backend's confirmation message.
func (l *LibraryService) Signup(ctx context.Context, name, email, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", fmt.Errorf("%w: name, email and password", shared.ErrMissingArgument)
	}

	payload, err := l.gateway.Call(ctx, http.MethodPost, "/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", fmt.Errorf("failed to decode signup response: %w", err)
	}

	return resp.Message, nil
}

// ListPlaylists retrieves all playlists in server order.
func (l *LibraryService) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	payload, err := l.gateway.Call(ctx, http.MethodGet, "/playlists", nil)
	if err != nil {
		return nil, err
	}

	var playlists []Playlist
	if err := json.Unmarshal(payload, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists: %w", err)
	}

	return playlists, nil
}

// CreatePlaylist creates a playlist with the given name. The name must be
// non-empty after trimming.
func (l *LibraryService) CreatePlaylist(ctx context.Context, name string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name must not be empty", shared.ErrInvalidInput)
	}

	payload, err := l.gateway.Call(ctx, http.MethodPost, "/playlists", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	var playlist Playlist
	if err := json.Unmarshal(payload, &playlist); err != nil {
		return nil, fmt.Errorf("failed to decode created playlist: %w", err)
	}

	return &playlist, nil
}

// DeletePlaylist removes a playlist and returns the backend's message, or a
// generic one when the backend answers 204.
func (l *LibraryService) DeletePlaylist(ctx context.Context, playlistID string) (string, error) {
	payload, err := l.gateway.Call(ctx, http.MethodDelete, "/playlists/"+url.PathEscape(playlistID), nil)
	if err != nil {
		return "", err
	}
	if payload == nil {
		return "playlist deleted", nil
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", fmt.Errorf("failed to decode delete response: %w", err)
	}

	return resp.Message, nil
}

// ListSongs retrieves the songs of a playlist in playlist order.
func (l *LibraryService) ListSongs(ctx context.Context, playlistID string) ([]Song, error) {
	path := fmt.Sprintf("/playlists/%s/songs", url.PathEscape(playlistID))
	payload, err := l.gateway.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var songs []Song
	if err := json.Unmarshal(payload, &songs); err != nil {
		return nil, fmt.Errorf("failed to decode songs: %w", err)
	}

	return songs, nil
}

// AddSong submits a normalized song record to a playlist. The backend performs
// its own authoritative dedup and returns either the updated playlist snapshot
// or only a confirmation message.
func (l *LibraryService) AddSong(ctx context.Context, playlistID string, song Song) (*MutationResult, error) {
	path := fmt.Sprintf("/playlists/%s/songs", url.PathEscape(playlistID))
	payload, err := l.gateway.Call(ctx, http.MethodPost, path, map[string]Song{"song_object": song})
	if err != nil {
		return nil, err
	}

	var result MutationResult
	if payload != nil {
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to decode add response: %w", err)
		}
	}

	return &result, nil
}

// RemoveSong removes a song membership from a playlist.
func (l *LibraryService) RemoveSong(ctx context.Context, playlistID, songID string) (*MutationResult, error) {
	path := fmt.Sprintf("/playlists/%s/songs/%s", url.PathEscape(playlistID), url.PathEscape(songID))
	payload, err := l.gateway.Call(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}

	result := &MutationResult{Message: "song removed"}
	if payload != nil {
		if err := json.Unmarshal(payload, result); err != nil {
			return nil, fmt.Errorf("failed to decode remove response: %w", err)
		}
	}

	return result, nil
}
