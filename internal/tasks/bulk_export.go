package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kaset/kaset/internal/formatter"
	"github.com/kaset/kaset/internal/shared"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, text
	OutputDir  string  // Base output directory (default: kaset_export_{epoch})
	NumWorkers int     // Concurrent file writers (default: 4)
	RateLimit  float64 // Song fetches per second (default: 5)
}

// BulkExport exports the given playlists concurrently with rate limiting and
// progress tracking. An empty id list exports every playlist in the library.
//
// Song fetches are serialized through a rate limiter so a large library does
// not hammer the backend. File writes run on a worker pool, and partial
// failures are recorded per playlist rather than aborting the run. A manifest
// summarizing the results is written into the output directory.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("kaset_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	e.sendProgress(prog, fetchPlaylistsUpdate())
	playlists, err := e.library.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	targets := playlists
	if len(ids) > 0 {
		targets = targets[:0:0]
		wanted := make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
		for _, playlist := range playlists {
			if wanted[playlist.ID] {
				targets = append(targets, playlist)
			}
		}
		if len(targets) != len(ids) {
			return nil, fmt.Errorf("%w: %d of %d requested playlists", shared.ErrPlaylistNotFound, len(ids)-len(targets), len(ids))
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(targets),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(targets)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ExportJob, len(targets))
	results := make(chan PlaylistExportResult, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(&wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, playlist := range targets {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, fetchSongsUpdate(i+1, len(targets), playlist.Name))
			songs, err := e.library.ListSongs(ctx, playlist.ID)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID:   playlist.ID,
					PlaylistName: playlist.Name,
					Error:        fmt.Sprintf("failed to fetch songs: %v", err),
				}
				continue
			}

			jobs <- ExportJob{Playlist: playlist, Songs: songs}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(targets), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(targets), res.PlaylistName, fmt.Errorf("%s", res.Error)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if e.logger != nil {
		e.logger.Info("bulk export finished",
			"playlists", result.TotalPlaylists,
			"succeeded", result.SuccessfulExports,
			"failed", result.FailedExports,
			"dir", result.OutputDirectory,
		)
	}
	return result, nil
}

// exportWorker writes playlists from the jobs channel to disk.
func (e *Exporter) exportWorker(
	wg *sync.WaitGroup,
	jobs <-chan ExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		results <- exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist writes a single playlist in the requested format.
func exportSinglePlaylist(job ExportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   job.Playlist.ID,
		PlaylistName: job.Playlist.Name,
		Files:        []string{},
	}
	export := &formatter.Export{Playlist: job.Playlist, Songs: job.Songs}

	switch opts.Format {
	case "csv":
		base := filepath.Join(opts.OutputDir, job.Playlist.ID)
		csvRes, err := formatter.WriteCSVExport(export, base)
		if err != nil {
			result.Error = fmt.Sprintf("CSV export failed: %v", err)
			return result
		}
		result.Files = []string{csvRes.SongsFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown", "md":
		data, err := formatter.ExportToMarkdown(export)
		if err != nil {
			result.Error = fmt.Sprintf("markdown export failed: %v", err)
			return result
		}
		path := filepath.Join(opts.OutputDir, job.Playlist.ID+".md")
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Error = fmt.Sprintf("markdown write failed: %v", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "text", "txt":
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_songs.txt", job.Playlist.ID))
		written, err := formatter.WriteTextExport(export, path)
		if err != nil {
			result.Error = fmt.Sprintf("text export failed: %v", err)
			return result
		}
		result.Files = []string{written}
		result.Success = true

	case "json", "":
		path := filepath.Join(opts.OutputDir, job.Playlist.ID+".json")
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			result.Error = fmt.Sprintf("JSON marshal failed: %v", err)
			return result
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Error = fmt.Sprintf("JSON write failed: %v", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	default:
		result.Error = fmt.Sprintf("unknown format %q", opts.Format)
	}
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
