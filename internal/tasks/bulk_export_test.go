package tasks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
	tu "github.com/kaset/kaset/internal/testing"
)

func newTestExporter(t *testing.T, handler http.HandlerFunc) *Exporter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := services.NewSession("token", nil)
	gateway := services.NewGateway(server.URL, server.Client(), session)
	return NewExporter(services.NewLibraryService(gateway), nil)
}

// libraryHandler serves two playlists with songs, with an optional override
// for individual paths.
func libraryHandler(override func(w http.ResponseWriter, r *http.Request) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if override != nil && override(w, r) {
			return
		}
		switch r.URL.Path {
		case "/playlists":
			w.Write([]byte(`[{"id":"pl-1","name":"Morning"},{"id":"pl-2","name":"Focus"}]`))
		case "/playlists/pl-1/songs":
			w.Write([]byte(`[
				{"id":"s-1","title":"Sunrise","artist":"Aria","url":"https://cdn.example/s1.mp3"},
				{"id":"s-2","title":"Dawn","artist":"Aria","url":"https://cdn.example/s2.mp3"}
			]`))
		case "/playlists/pl-2/songs":
			w.Write([]byte(`[{"id":"s-3","title":"Deep","artist":"Pulse","url":"https://cdn.example/s3.mp3"}]`))
		default:
			http.NotFound(w, r)
		}
	}
}

func resultByID(result *BulkExportResult, id string) *PlaylistExportResult {
	for i := range result.Results {
		if result.Results[i].PlaylistID == id {
			return &result.Results[i]
		}
	}
	return nil
}

func TestBulkExport(t *testing.T) {
	t.Run("exports all playlists as JSON", func(t *testing.T) {
		e := newTestExporter(t, libraryHandler(nil))
		dir := t.TempDir()

		result, err := e.BulkExport(context.Background(), nil, nil, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalPlaylists != 2 {
			t.Errorf("expected 2 playlists, got %d", result.TotalPlaylists)
		}
		if result.SuccessfulExports != 2 || result.FailedExports != 0 {
			t.Errorf("expected 2 successes and 0 failures, got %d/%d",
				result.SuccessfulExports, result.FailedExports)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "pl-1.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "pl-2.json"))
		tu.AssertFileExists(t, result.ManifestPath)

		content := tu.MustReadFile(t, filepath.Join(dir, "pl-1.json"))
		if !strings.Contains(content, `"Morning"`) {
			t.Errorf("expected playlist name in export, got %s", content)
		}
		if !strings.Contains(content, `"Sunrise"`) {
			t.Errorf("expected song title in export, got %s", content)
		}
	})

	t.Run("filters by requested ids", func(t *testing.T) {
		e := newTestExporter(t, libraryHandler(nil))
		dir := t.TempDir()

		result, err := e.BulkExport(context.Background(), nil, []string{"pl-2"}, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalPlaylists != 1 {
			t.Errorf("expected 1 playlist, got %d", result.TotalPlaylists)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "pl-2.json"))
		if _, err := os.Stat(filepath.Join(dir, "pl-1.json")); !os.IsNotExist(err) {
			t.Error("expected pl-1 to be skipped")
		}
	})

	t.Run("rejects unknown playlist ids", func(t *testing.T) {
		e := newTestExporter(t, libraryHandler(nil))

		_, err := e.BulkExport(context.Background(), nil, []string{"missing"}, BulkExportOpts{
			OutputDir: t.TempDir(),
		})
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("csv format writes songs and metadata files", func(t *testing.T) {
		e := newTestExporter(t, libraryHandler(nil))
		dir := t.TempDir()

		result, err := e.BulkExport(context.Background(), nil, []string{"pl-1"}, BulkExportOpts{
			Format:    "csv",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SuccessfulExports != 1 {
			t.Fatalf("expected 1 success, got %d", result.SuccessfulExports)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "pl-1_songs.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "pl-1_metadata.json"))
	})

	t.Run("records partial failure without aborting", func(t *testing.T) {
		e := newTestExporter(t, libraryHandler(func(w http.ResponseWriter, r *http.Request) bool {
			if r.URL.Path == "/playlists/pl-2/songs" {
				http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
				return true
			}
			return false
		}))
		dir := t.TempDir()

		result, err := e.BulkExport(context.Background(), nil, nil, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.SuccessfulExports != 1 || result.FailedExports != 1 {
			t.Fatalf("expected 1 success and 1 failure, got %d/%d",
				result.SuccessfulExports, result.FailedExports)
		}

		failed := resultByID(result, "pl-2")
		if failed == nil {
			t.Fatal("expected a result for pl-2")
		}
		if failed.Success || failed.Error == "" {
			t.Errorf("expected failed result with error, got %+v", failed)
		}
		tu.AssertFileExists(t, result.ManifestPath)
	})

	t.Run("reports progress updates", func(t *testing.T) {
		e := newTestExporter(t, libraryHandler(nil))
		prog := make(chan ProgressUpdate, 64)

		_, err := e.BulkExport(context.Background(), prog, nil, BulkExportOpts{
			Format:    "json",
			OutputDir: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(prog)

		seen := map[Phase]int{}
		for update := range prog {
			seen[update.Phase]++
		}
		if seen[FetchPlaylists] == 0 {
			t.Error("expected a fetch_playlists update")
		}
		if seen[FetchSongs] == 0 {
			t.Error("expected fetch_songs updates")
		}
		if seen[ExportPlaylist] == 0 {
			t.Error("expected export_playlist updates")
		}
	})

	t.Run("playlist listing failure aborts the run", func(t *testing.T) {
		e := newTestExporter(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"unavailable"}`, http.StatusBadGateway)
		})

		_, err := e.BulkExport(context.Background(), nil, nil, BulkExportOpts{
			OutputDir: t.TempDir(),
		})
		if err == nil {
			t.Fatal("expected error when listing fails")
		}
	})

	t.Run("unknown format is recorded per playlist", func(t *testing.T) {
		e := newTestExporter(t, libraryHandler(nil))

		result, err := e.BulkExport(context.Background(), nil, []string{"pl-1"}, BulkExportOpts{
			Format:    "yaml",
			OutputDir: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FailedExports != 1 {
			t.Errorf("expected 1 failure, got %d", result.FailedExports)
		}
	})
}
