package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kaset/kaset/internal/shared"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewCatalogService", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			svc := NewCatalogService("", "cid", 0, 0, nil)
			if svc.baseURL != defaultCatalogBaseURL {
				t.Errorf("expected default base URL, got %s", svc.baseURL)
			}
			if svc.limit != 20 {
				t.Errorf("expected default limit 20, got %d", svc.limit)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("passes client id, limit and term", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("client_id") != "cid" {
					t.Errorf("expected client_id cid, got %q", q.Get("client_id"))
				}
				if q.Get("limit") != "5" {
					t.Errorf("expected limit 5, got %q", q.Get("limit"))
				}
				if q.Get("search") != "tulus monokrom" {
					t.Errorf("expected search term, got %q", q.Get("search"))
				}
				json.NewEncoder(w).Encode(map[string]any{
					"results": []CatalogTrack{
						{ID: "991", Name: "Monokrom", ArtistName: "Tulus", AudioURL: "http://stream/991.mp3", AlbumName: "Monokrom"},
						{ID: "992", Name: "Instrumental", ArtistName: "Anon"},
					},
				})
			}))
			defer server.Close()

			svc := NewCatalogService(server.URL, "cid", 5, 0, nil)
			tracks, err := svc.Search(ctx, "  tulus monokrom ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 2 {
				t.Fatalf("expected 2 tracks, got %d", len(tracks))
			}
			if !tracks[0].Playable() {
				t.Error("expected first track to be playable")
			}
			if tracks[1].Playable() {
				t.Error("expected track without audio to be unplayable")
			}
		})

		t.Run("rejects empty terms", func(t *testing.T) {
			svc := NewCatalogService("http://unused", "cid", 5, 0, nil)
			if _, err := svc.Search(ctx, "   "); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("rejects missing client id", func(t *testing.T) {
			svc := NewCatalogService("http://unused", "", 5, 0, nil)
			if _, err := svc.Search(ctx, "tulus"); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("surfaces non-2xx as API errors", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer server.Close()

			svc := NewCatalogService(server.URL, "cid", 5, 0, nil)
			if _, err := svc.Search(ctx, "tulus"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Song materialization tags the origin", func(t *testing.T) {
		track := CatalogTrack{ID: "991", Name: "Monokrom", ArtistName: "Tulus", AudioURL: "http://stream/991.mp3", AlbumName: "Monokrom"}
		song := track.Song()

		if song.ID != "catalog-991" {
			t.Errorf("expected pseudo id catalog-991, got %s", song.ID)
		}
		if song.Source != SourceCatalog || song.OriginalID != "991" {
			t.Errorf("expected tagged origin, got source=%s original=%s", song.Source, song.OriginalID)
		}
		if song.URL != track.AudioURL {
			t.Errorf("expected audio URL carried over, got %s", song.URL)
		}
	})

	t.Run("Preview synthesizes an untagged pseudo-song", func(t *testing.T) {
		track := CatalogTrack{ID: "991", Name: "Monokrom", ArtistName: "Tulus", AudioURL: "http://stream/991.mp3"}
		song := track.Preview()

		if song.ID != "catalog-991" {
			t.Errorf("expected pseudo id catalog-991, got %s", song.ID)
		}
		if song.Source != "" || song.OriginalID != "" {
			t.Errorf("expected untagged origin, got source=%s original=%s", song.Source, song.OriginalID)
		}
		if !song.Playable() {
			t.Error("expected a playable preview")
		}
	})
}
