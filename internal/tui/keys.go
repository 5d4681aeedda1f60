package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tickfetch/internal/app"
)

type keyMap struct {
	quit   key.Binding
	up     key.Binding
	down   key.Binding
	top    key.Binding
	bottom key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "oldest"),
		),
		bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "newest"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.top, k.bottom, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// translate maps a key press to the dashboard's key set. Unbound keys map to
// app.KeyNone.
func (k keyMap) translate(msg tea.KeyMsg) app.Key {
	switch {
	case key.Matches(msg, k.quit):
		return app.KeyQuit
	case key.Matches(msg, k.up):
		return app.KeyUp
	case key.Matches(msg, k.down):
		return app.KeyDown
	case key.Matches(msg, k.top):
		return app.KeyTop
	case key.Matches(msg, k.bottom):
		return app.KeyBottom
	default:
		return app.KeyNone
	}
}
