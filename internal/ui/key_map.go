package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	complete key.Binding
	dismiss  key.Binding
	tasks    key.Binding
	back     key.Binding
	sound    key.Binding
	restart  key.Binding
	reset    key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		complete: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "done!")),
		dismiss:  key.NewBinding(key.WithKeys("enter", " ", "esc"), key.WithHelp("enter", "continue")),
		tasks:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tasks")),
		back:     key.NewBinding(key.WithKeys("esc", "t"), key.WithHelp("esc", "back")),
		sound:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sound pack")),
		restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset today")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.complete, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.complete, k.tasks, k.sound},
		{k.restart, k.reset},
		{k.help, k.quit},
	}
}
