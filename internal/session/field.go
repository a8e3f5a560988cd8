package session

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RankField is the editable rank entry bound to one stimulus item
type RankField struct {
	input  textinput.Model
	hidden bool
}

// NewRankField creates an empty field sized for ranks up to maxRank
func NewRankField(width, maxRank int) *RankField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = ""
	ti.CharLimit = len(strconv.Itoa(maxRank))
	ti.Width = width
	ti.Blur()
	return &RankField{input: ti}
}

// Text returns the current field contents
func (f *RankField) Text() string {
	return f.input.Value()
}

// SetText replaces the field contents
func (f *RankField) SetText(s string) {
	f.input.SetValue(s)
}

// Clear empties the field
func (f *RankField) Clear() {
	f.input.Reset()
}

// HasFocus reports whether the field currently receives keystrokes
func (f *RankField) HasFocus() bool {
	return f.input.Focused()
}

// Focus gives the field input focus
func (f *RankField) Focus() tea.Cmd {
	return f.input.Focus()
}

// Blur removes input focus
func (f *RankField) Blur() {
	f.input.Blur()
}

// Hide stops rendering and input routing for the field
func (f *RankField) Hide() {
	f.hidden = true
}

// Show reverses Hide
func (f *RankField) Show() {
	f.hidden = false
}

// Hidden reports whether the field is hidden
func (f *RankField) Hidden() bool {
	return f.hidden
}

// Update feeds a message to the underlying input. Hidden fields ignore input.
func (f *RankField) Update(msg tea.Msg) tea.Cmd {
	if f.hidden {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the field text
func (f *RankField) View() string {
	if f.hidden {
		return ""
	}
	return f.input.View()
}
