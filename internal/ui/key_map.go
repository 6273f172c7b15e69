package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	mark    key.Binding
	remove  key.Binding
	add     key.Binding
	share   key.Binding
	copy    key.Binding
	open    key.Binding
	refresh key.Binding
	next    key.Binding
	prev    key.Binding
	submit  key.Binding
	recover key.Binding
	back    key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		mark:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "gotten")),
		remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		share:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		recover: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "recover links")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.mark, k.remove, k.add, k.share, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.mark, k.remove},
		{k.add, k.share, k.copy, k.open},
		{k.refresh, k.help, k.quit},
	}
}
