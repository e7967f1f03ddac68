package tasks

import (
	"github.com/charmbracelet/log"

	"github.com/kaset/kaset/internal/services"
)

// ExportJob carries one fully fetched playlist to a write worker.
type ExportJob struct {
	Playlist services.Playlist
	Songs    []services.Song
}

// PlaylistExportResult records the outcome for a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files"`
	Error        string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export run. It is also the shape of the
// manifest file written alongside the exports.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path,omitempty"`
	Results           []PlaylistExportResult `json:"results"`
}

// Exporter dumps playlists with their songs to disk.
type Exporter struct {
	library *services.LibraryService
	logger  *log.Logger
}

// NewExporter creates an Exporter over the given library client.
func NewExporter(library *services.LibraryService, logger *log.Logger) *Exporter {
	return &Exporter{library: library, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Updates are dropped when the channel is nil or full.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
