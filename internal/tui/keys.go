package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Prev    key.Binding
	Next    key.Binding
	Deploy  key.Binding
	Open    key.Binding
	Restart key.Binding
	Remove  key.Binding
	Yes     key.Binding
	No      key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "older version")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "newer version")),
	Deploy:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "deploy")),
	Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
	Yes:     key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
	No:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Deploy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next},
		{k.Deploy, k.Open, k.Restart, k.Remove},
		{k.Help, k.Quit},
	}
}
