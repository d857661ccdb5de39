package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	space   key.Binding
	back    key.Binding
	history key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		space:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle track")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		history: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new playlist")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.space, k.back, k.history},
		{k.restart, k.quit},
	}
}
