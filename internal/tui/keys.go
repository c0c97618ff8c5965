package tui

import "github.com/charmbracelet/bubbles/key"

// Keys are the bindings shared by every screen.
type Keys struct {
	Quit   key.Binding
	Back   key.Binding
	Theme  key.Binding
	Submit key.Binding
	Upload key.Binding
	Ask    key.Binding
}

// NewKeys creates the standard key bindings.
func NewKeys() Keys {
	return Keys{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Upload: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "upload"),
		),
		Ask: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "ask"),
		),
	}
}
