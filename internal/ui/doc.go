// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and playing playlists:
//  1. [PlaylistListView] : Browse playlists and manage the selection
//  2. [SongListView] : Browse the selected playlist's songs and drive playback
//  3. [SearchView] : Search the catalog and add tracks to the selected playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Song fetches are tagged with the selection generation so a late
// response for a superseded selection is discarded instead of overwriting
// the current view. Sink events flow through a channel command, keeping the
// transport in sync with mpv without blocking the event loop.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus
// playback keys (space, n/p, left/right) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
