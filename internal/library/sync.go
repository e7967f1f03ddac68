package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

// Synchronizer mirrors the selected playlist's songs. Begin marks a fetch in
// flight for a selection generation; Apply installs the result only when the
// generation still matches, so responses for superseded selections are
// dropped instead of overwriting newer state.
type Synchronizer struct {
	svc     *services.LibraryService
	logger  *log.Logger
	songs   []services.Song
	loading bool
	err     string
	gen     uint64
}

func NewSynchronizer(svc *services.LibraryService, logger *log.Logger) *Synchronizer {
	return &Synchronizer{svc: svc, logger: logger}
}

// Begin resets the song view for a new selection. It returns true when a
// fetch should follow; a nil selection just clears the view.
func (sy *Synchronizer) Begin(sel Selection) bool {
	sy.gen = sel.Gen
	sy.songs = nil
	sy.err = ""
	if sel.Playlist == nil || sel.Playlist.ID == "" {
		sy.loading = false
		return false
	}
	sy.loading = true
	return true
}

// Fetch loads the songs for a playlist. Run it off the event loop and hand
// the result to Apply together with the generation Begin was called under.
func (sy *Synchronizer) Fetch(ctx context.Context, playlistID string) ([]services.Song, error) {
	return sy.svc.ListSongs(ctx, playlistID)
}

// Remove deletes a song membership on the backend. The caller republishes
// the selection afterwards so the view re-fetches.
func (sy *Synchronizer) Remove(ctx context.Context, playlistID, songID string) (*services.MutationResult, error) {
	return sy.svc.RemoveSong(ctx, playlistID, songID)
}

// Apply installs a completed fetch. It reports false when the result belongs
// to a superseded generation and was discarded. Session-expiry errors leave
// the view empty without recording a failure.
func (sy *Synchronizer) Apply(gen uint64, playlistName string, songs []services.Song, err error) bool {
	if gen != sy.gen {
		if sy.logger != nil {
			sy.logger.Debug("discarding stale song fetch", "gen", gen, "current", sy.gen)
		}
		return false
	}

	sy.loading = false
	if err != nil {
		if !errors.Is(err, shared.ErrUnauthorized) {
			sy.err = fmt.Sprintf("failed to load songs for %q: %v", playlistName, err)
		}
		return true
	}
	sy.songs = songs
	return true
}

func (sy *Synchronizer) Songs() []services.Song { return sy.songs }

func (sy *Synchronizer) Loading() bool { return sy.loading }

// Err returns the song-scoped error message, empty when the last fetch
// succeeded or was swallowed.
func (sy *Synchronizer) Err() string { return sy.err }
