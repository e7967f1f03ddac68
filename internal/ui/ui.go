package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kaset/kaset/internal/library"
	"github.com/kaset/kaset/internal/player"
	"github.com/kaset/kaset/internal/repositories"
	"github.com/kaset/kaset/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	SongListView
	SearchInputView
	SearchView
	CreateInputView
)

const statusTimeout = 3 * time.Second

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	store     *library.Store
	sync      *library.Synchronizer
	ingestor  *library.Ingestor
	catalog   *services.CatalogService
	transport *player.Transport
	sink      player.Sink
	history   *repositories.HistoryRepository

	view         ViewState
	width        int
	height       int
	playlistList list.Model
	songList     list.Model
	searchList   list.Model
	input        textinput.Model
	results      []services.CatalogTrack
	loadErr      error
	status       string
	statusIsErr  bool
	statusSeq    int
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies. The
// history repository may be nil when the cache database is unavailable.
func NewModel(ctx context.Context, store *library.Store, sync *library.Synchronizer, ingestor *library.Ingestor, catalog *services.CatalogService, transport *player.Transport, sink player.Sink, history *repositories.HistoryRepository) *Model {
	input := textinput.New()
	input.CharLimit = 120
	return &Model{
		ctx:       ctx,
		store:     store,
		sync:      sync,
		ingestor:  ingestor,
		catalog:   catalog,
		transport: transport,
		sink:      sink,
		history:   history,
		view:      PlaylistListView,
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init loads the playlist collection and starts draining sink events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadPlaylists(), m.waitForSink())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-10)
		m.songList.SetSize(msg.Width-4, msg.Height-10)
		m.searchList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistKeys(msg)
		case SongListView:
			return m.handleSongKeys(msg)
		case SearchInputView, CreateInputView:
			return m.handleInputKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		}

	case playlistsLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.store.Install(msg.playlists)
		m.rebuildPlaylistList()
		return m, m.beginSongFetch()

	case playlistCreatedMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.store.Insert(msg.playlist)
		m.rebuildPlaylistList()
		return m, tea.Batch(
			m.setStatus(fmt.Sprintf("created '%s'", msg.playlist.Name), false),
			m.beginSongFetch(),
		)

	case playlistDeletedMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.store.Forget(msg.id)
		m.rebuildPlaylistList()
		return m, tea.Batch(m.setStatus(msg.message, false), m.beginSongFetch())

	case songsFetchedMsg:
		if m.sync.Apply(msg.gen, msg.playlist, msg.songs, msg.err) {
			m.rebuildSongList()
		}
		return m, nil

	case searchResultsMsg:
		if msg.err != nil {
			m.view = SongListView
			return m, m.setStatus(fmt.Sprintf("search failed: %v", msg.err), true)
		}
		m.results = msg.results
		m.rebuildSearchList(msg.term)
		m.view = SearchView
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		if msg.removedID != "" {
			// The removed song may be the one playing.
			m.transport.Eject(msg.removedID)
		}
		if msg.playlist != nil {
			m.store.Adopt(msg.playlist)
		} else {
			m.store.Republish()
		}
		m.rebuildPlaylistList()
		return m, tea.Batch(m.setStatus(msg.message, false), m.beginSongFetch())

	case sinkEventMsg:
		if m.transport.Apply(player.Event(msg)) {
			if err := m.transport.Next(m.sync.Songs()); err == nil {
				m.recordPlay()
			}
		}
		return m, m.waitForSink()

	case sinkClosedMsg:
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.loadErr != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.loadErr))
	}

	var body string
	switch m.view {
	case PlaylistListView:
		body = m.playlistList.View()
	case SongListView:
		body = m.renderSongList()
	case SearchInputView:
		body = fmt.Sprintf("%s\n\n%s", styles.title.Render("Search the catalog"), m.input.View())
	case CreateInputView:
		body = fmt.Sprintf("%s\n\n%s", styles.title.Render("New playlist"), m.input.View())
	case SearchView:
		body = m.searchList.View()
	}

	return fmt.Sprintf("%s\n\n%s\n%s", body, m.renderTransportBar(), m.renderStatus())
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selectByID(item.playlist.ID)
			m.view = SongListView
			return m, m.beginSongFetch()
		}
	case key.Matches(msg, m.keys.create):
		m.input.SetValue("")
		m.input.Placeholder = "playlist name"
		m.input.Focus()
		m.view = CreateInputView
		return m, textinput.Blink
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.deletePlaylist(item.playlist)
		}
	}
	return m.updateLists(msg)
}

func (m *Model) handleSongKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			if err := m.transport.Play(item.song); err != nil {
				return m, m.setStatus(err.Error(), true)
			}
			m.recordPlay()
		}
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		if err := m.transport.Toggle(); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.step(m.transport.Next)
	case key.Matches(msg, m.keys.prev):
		return m, m.step(m.transport.Previous)
	case key.Matches(msg, m.keys.seekB):
		return m, m.seekBy(-5)
	case key.Matches(msg, m.keys.seekF):
		return m, m.seekBy(5)
	case key.Matches(msg, m.keys.search):
		m.input.SetValue("")
		m.input.Placeholder = "search term"
		m.input.Focus()
		m.view = SearchInputView
		return m, textinput.Blink
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.removeSong(item.song)
		}
	case key.Matches(msg, m.keys.addNow):
		if now := m.transport.NowPlaying(); now != nil {
			return m, m.ingestSong(*now)
		}
		return m, m.setStatus("nothing playing to add", true)
	}
	return m.updateLists(msg)
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.view = m.inputOrigin()
		return m, nil
	case "enter":
		value := m.input.Value()
		m.input.Blur()
		if m.view == CreateInputView {
			m.view = PlaylistListView
			return m, m.createPlaylist(value)
		}
		m.view = SongListView
		return m, m.search(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) inputOrigin() ViewState {
	if m.view == CreateInputView {
		return PlaylistListView
	}
	return SongListView
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SongListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.searchList.SelectedItem().(resultItem); ok {
			return m, m.ingest(item.track)
		}
	case key.Matches(msg, m.keys.preview):
		if item, ok := m.searchList.SelectedItem().(resultItem); ok {
			if err := m.transport.Play(item.track.Preview()); err != nil {
				return m, m.setStatus(err.Error(), true)
			}
			m.recordPlay()
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	case SearchView:
		m.searchList, cmd = m.searchList.Update(msg)
	}
	return m, cmd
}

// selectByID publishes the playlist with the given id as the selection.
func (m *Model) selectByID(id string) {
	playlists := m.store.Playlists()
	for i := range playlists {
		if playlists[i].ID == id {
			m.store.Select(&playlists[i])
			return
		}
	}
}

func (m *Model) rebuildPlaylistList() {
	playlists := m.store.Playlists()
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{playlist: pl}
	}
	m.playlistList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-10)
	m.playlistList.Title = "Playlists"
}

func (m *Model) rebuildSongList() {
	songs := m.sync.Songs()
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song}
	}
	m.songList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-10)
	if selected := m.store.Selected(); selected != nil {
		m.songList.Title = fmt.Sprintf("Songs in '%s'", selected.Name)
	} else {
		m.songList.Title = "Songs"
	}
}

func (m *Model) rebuildSearchList(term string) {
	items := make([]list.Item, len(m.results))
	for i, track := range m.results {
		items[i] = resultItem{track: track}
	}
	m.searchList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-10)
	m.searchList.Title = fmt.Sprintf("Results for '%s'", term)
}

func (m *Model) renderSongList() string {
	if m.sync.Loading() {
		return fmt.Sprintf("%s\n\nLoading songs...", styles.title.Render(m.songList.Title))
	}
	if songErr := m.sync.Err(); songErr != "" {
		return styles.warn.Render(songErr)
	}
	return m.songList.View()
}

func (m *Model) renderTransportBar() string {
	now := m.transport.NowPlaying()
	if now == nil {
		return styles.help.Render("nothing playing")
	}
	return fmt.Sprintf("%s %s - %s  %s",
		styles.ok.Render("["+m.transport.State().String()+"]"),
		now.Artist, now.Title,
		m.transport.Clock(),
	)
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return m.help.ShortHelpView(m.keys.ShortHelp())
	}
	if m.statusIsErr {
		return styles.err.Render(m.status)
	}
	return styles.ok.Render(m.status)
}

// setStatus shows an ephemeral banner and schedules its expiry. A newer
// banner supersedes the pending clear of an older one.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusIsErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m *Model) step(fn func([]services.Song) error) tea.Cmd {
	if err := fn(m.sync.Songs()); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.recordPlay()
	return nil
}

func (m *Model) seekBy(delta float64) tea.Cmd {
	if err := m.transport.Seek(m.transport.Position() + delta); err != nil {
		return m.setStatus(err.Error(), true)
	}
	return nil
}

func (m *Model) recordPlay() {
	if m.history == nil {
		return
	}
	if now := m.transport.NowPlaying(); now != nil {
		_ = m.history.Record(*now)
	}
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.store.Fetch(m.ctx)
		return playlistsLoadedMsg{playlists: playlists, err: err}
	}
}

// beginSongFetch starts a song fetch for the current selection and tags the
// result with the selection generation.
func (m *Model) beginSongFetch() tea.Cmd {
	sel := m.store.Selection()
	needsFetch := m.sync.Begin(sel)
	m.rebuildSongList()
	if !needsFetch {
		return nil
	}

	gen := sel.Gen
	id := sel.Playlist.ID
	name := sel.Playlist.Name
	return func() tea.Msg {
		songs, err := m.sync.Fetch(m.ctx, id)
		return songsFetchedMsg{gen: gen, playlist: name, songs: songs, err: err}
	}
}

func (m *Model) search(term string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.catalog.Search(m.ctx, term)
		return searchResultsMsg{term: term, results: results, err: err}
	}
}

func (m *Model) ingest(track services.CatalogTrack) tea.Cmd {
	return m.ingestSong(track.Song())
}

// ingestSong submits a candidate to the selected playlist. Previewed catalog
// tracks arrive untagged; the ingestor attributes their origin from the
// prefixed pseudo id.
func (m *Model) ingestSong(candidate services.Song) tea.Cmd {
	target := m.store.Selected()
	current := m.sync.Songs()
	return func() tea.Msg {
		outcome, err := m.ingestor.Ingest(m.ctx, target, current, candidate)
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{message: outcome.Message, playlist: outcome.Playlist}
	}
}

func (m *Model) createPlaylist(name string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.store.Service().CreatePlaylist(m.ctx, name)
		return playlistCreatedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) deletePlaylist(playlist services.Playlist) tea.Cmd {
	return func() tea.Msg {
		message, err := m.store.Service().DeletePlaylist(m.ctx, playlist.ID)
		return playlistDeletedMsg{id: playlist.ID, message: message, err: err}
	}
}

func (m *Model) removeSong(song services.Song) tea.Cmd {
	selected := m.store.Selected()
	if selected == nil {
		return nil
	}
	id := selected.ID
	return func() tea.Msg {
		result, err := m.sync.Remove(m.ctx, id, song.ID)
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{message: result.Message, playlist: result.Playlist, removedID: song.ID}
	}
}

func (m *Model) waitForSink() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.sink.Events()
		if !ok {
			return sinkClosedMsg{}
		}
		return sinkEventMsg(ev)
	}
}
