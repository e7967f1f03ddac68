package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

// Selection pairs the selected playlist with the generation at which it was
// published. A nil Playlist means nothing is selected.
type Selection struct {
	Playlist *services.Playlist
	Gen      uint64
}

// Store holds the playlist collection and the current selection. It is not
// safe for concurrent use; callers drive it from a single event loop.
type Store struct {
	svc       *services.LibraryService
	logger    *log.Logger
	playlists []services.Playlist
	selected  *services.Playlist
	gen       uint64
}

func NewStore(svc *services.LibraryService, logger *log.Logger) *Store {
	return &Store{svc: svc, logger: logger}
}

// Fetch retrieves the playlist collection without touching local state.
// Session-expiry errors are swallowed: expiry is already routed through the
// session callback and must not surface as a load failure.
func (st *Store) Fetch(ctx context.Context) ([]services.Playlist, error) {
	playlists, err := st.svc.ListPlaylists(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}
	return playlists, nil
}

// Install replaces the collection. When it is non-empty and nothing is
// selected yet, the first playlist becomes the selection.
func (st *Store) Install(playlists []services.Playlist) {
	st.playlists = playlists
	if st.selected == nil && len(st.playlists) > 0 {
		st.Select(&st.playlists[0])
	}
}

// LoadAll fetches and installs the playlist collection.
func (st *Store) LoadAll(ctx context.Context) error {
	playlists, err := st.Fetch(ctx)
	if err != nil {
		return err
	}
	st.Install(playlists)
	return nil
}

// Insert appends a created playlist snapshot to the collection and selects it.
func (st *Store) Insert(playlist *services.Playlist) {
	st.playlists = append(st.playlists, *playlist)
	st.Select(&st.playlists[len(st.playlists)-1])
}

// Create submits a new playlist, appends the server's snapshot to the
// collection and selects it.
func (st *Store) Create(ctx context.Context, name string) (*services.Playlist, error) {
	playlist, err := st.svc.CreatePlaylist(ctx, name)
	if err != nil {
		return nil, err
	}
	st.Insert(playlist)
	return playlist, nil
}

// Forget removes a playlist from the collection. When it was selected, the
// first remaining playlist is selected, or the selection clears if none
// remain.
func (st *Store) Forget(id string) {
	kept := st.playlists[:0]
	for _, p := range st.playlists {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	st.playlists = kept

	if st.selected != nil && st.selected.ID == id {
		if len(st.playlists) > 0 {
			st.Select(&st.playlists[0])
		} else {
			st.Select(nil)
		}
	}
}

// Delete removes a playlist on the server and from the collection.
func (st *Store) Delete(ctx context.Context, id string) (string, error) {
	message, err := st.svc.DeletePlaylist(ctx, id)
	if err != nil {
		return "", err
	}
	st.Forget(id)
	return message, nil
}

// Select publishes a new selection. The generation advances even when the
// playlist id is unchanged, so re-selecting forces a song re-fetch.
func (st *Store) Select(p *services.Playlist) {
	st.selected = p
	st.gen++
	if st.logger != nil {
		if p != nil {
			st.logger.Debug("playlist selected", "id", p.ID, "gen", st.gen)
		} else {
			st.logger.Debug("playlist selection cleared", "gen", st.gen)
		}
	}
}

// Adopt replaces the selection with a server snapshot of the same playlist,
// updating the collection entry in place when present.
func (st *Store) Adopt(p *services.Playlist) {
	if p == nil {
		st.Republish()
		return
	}
	for i := range st.playlists {
		if st.playlists[i].ID == p.ID {
			st.playlists[i] = *p
			st.Select(&st.playlists[i])
			return
		}
	}
	st.Select(p)
}

// Republish re-announces the current selection under a fresh generation.
// Mutations that change a playlist's contents call this to trigger a song
// re-fetch without changing which playlist is selected.
func (st *Store) Republish() {
	if st.selected == nil {
		return
	}
	snapshot := *st.selected
	st.Select(&snapshot)
}

func (st *Store) Playlists() []services.Playlist { return st.playlists }

// Service exposes the underlying library client for callers that perform
// the network call themselves and apply the state change afterwards.
func (st *Store) Service() *services.LibraryService { return st.svc }

func (st *Store) Selected() *services.Playlist { return st.selected }

// Selection returns the current selection with its generation.
func (st *Store) Selection() Selection {
	return Selection{Playlist: st.selected, Gen: st.gen}
}
