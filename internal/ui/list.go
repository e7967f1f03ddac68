package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/kaset/kaset/internal/services"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
	_ list.Item = resultItem{}
)

// playlistItem wraps [services.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist services.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return i.playlist.ID }

// songItem wraps [services.Song] to implement [list.Item].
type songItem struct {
	song services.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	if !i.song.Playable() {
		return fmt.Sprintf("%s (unplayable)", i.song.Title)
	}
	return i.song.Title
}
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	return desc
}

// resultItem wraps [services.CatalogTrack] to implement [list.Item].
type resultItem struct {
	track services.CatalogTrack
}

func (i resultItem) FilterValue() string { return i.track.Name }
func (i resultItem) Title() string       { return i.track.Name }
func (i resultItem) Description() string {
	desc := i.track.ArtistName
	if i.track.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.AlbumName)
	}
	return desc
}
