package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	toggle  key.Binding
	next    key.Binding
	prev    key.Binding
	seekB   key.Binding
	seekF   key.Binding
	search  key.Binding
	create  key.Binding
	remove  key.Binding
	preview key.Binding
	addNow  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		seekB:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "seek -5s")),
		seekF:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "seek +5s")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search catalog")),
		create:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		addNow:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add playing track")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.toggle, k.next, k.prev, k.seekB, k.seekF},
		{k.search, k.create, k.remove, k.preview, k.addNow, k.quit},
	}
}
