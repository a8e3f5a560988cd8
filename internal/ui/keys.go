package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the session key bindings
type KeyMap struct {
	Save   key.Binding
	Cancel key.Binding
	Quit   key.Binding
	Next   key.Binding
	Prev   key.Binding
}

// NewKeyMap binds the configured save and cancel keys
func NewKeyMap(saveKey, cancelKey string) KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys(saveKey),
			key.WithHelp(saveKey, "save & exit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(cancelKey),
			key.WithHelp(cancelKey, "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Cancel, k.Next, k.Prev}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Cancel, k.Quit},
		{k.Next, k.Prev},
	}
}

// ParseButton maps a configured pointer button name to a mouse button
func ParseButton(name string) (tea.MouseButton, error) {
	switch name {
	case "left":
		return tea.MouseButtonLeft, nil
	case "middle":
		return tea.MouseButtonMiddle, nil
	case "right":
		return tea.MouseButtonRight, nil
	default:
		return tea.MouseButtonNone, fmt.Errorf("unknown pointer button: %s", name)
	}
}
