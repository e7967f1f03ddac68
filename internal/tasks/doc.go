// package tasks implements long-running batch operations over the playlist
// backend.
//
// The core type is Exporter, which dumps playlists with their songs to disk
// in bulk. Fetches are rate limited, file writes run on a small worker pool,
// and operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks
