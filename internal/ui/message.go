package ui

import (
	"github.com/kaset/kaset/internal/player"
	"github.com/kaset/kaset/internal/services"
)

// playlistsLoadedMsg reports the initial playlist load.
type playlistsLoadedMsg struct {
	playlists []services.Playlist
	err       error
}

// playlistCreatedMsg reports a completed playlist creation.
type playlistCreatedMsg struct {
	playlist *services.Playlist
	err      error
}

// playlistDeletedMsg reports a completed playlist deletion.
type playlistDeletedMsg struct {
	id      string
	message string
	err     error
}

// songsFetchedMsg carries a completed song fetch together with the selection
// generation it was started under.
type songsFetchedMsg struct {
	gen      uint64
	playlist string
	songs    []services.Song
	err      error
}

// searchResultsMsg carries catalog search results.
type searchResultsMsg struct {
	term    string
	results []services.CatalogTrack
	err     error
}

// mutationDoneMsg reports a completed song mutation (ingest or remove).
// The playlist snapshot is present when the backend returned one, and
// removedID carries the song a removal deleted.
type mutationDoneMsg struct {
	message   string
	playlist  *services.Playlist
	removedID string
	err       error
}

// sinkEventMsg wraps one [player.Event] for the transport.
type sinkEventMsg player.Event

// sinkClosedMsg signals that the sink's event channel closed.
type sinkClosedMsg struct{}

// statusClearMsg expires the status banner set at the given sequence.
type statusClearMsg struct {
	seq int
}
