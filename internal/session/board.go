package session

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/RankGrid/internal/grid"
)

// Entry pairs a stimulus item with its rank field. Item holds the current
// geometry, Base the geometry assigned by the layout.
type Entry struct {
	Item  grid.StimulusItem
	Base  grid.StimulusItem
	Field *RankField
}

// Board owns the session's items and fields, indexed in grid order
type Board struct {
	layout  grid.Layout
	entries []*Entry
}

// NewBoard creates one empty rank field per grid item
func NewBoard(g *grid.Grid) *Board {
	layout := g.Layout()
	items := g.Items()
	entries := make([]*Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, &Entry{
			Item:  item,
			Base:  item,
			Field: NewRankField(layout.FieldSize.W, len(items)),
		})
	}
	return &Board{layout: layout, entries: entries}
}

// Len returns the number of entries
func (b *Board) Len() int {
	return len(b.entries)
}

// MaxRank is the highest valid rank, equal to the number of stimuli
func (b *Board) MaxRank() int {
	return len(b.entries)
}

// Layout returns the grid layout
func (b *Board) Layout() grid.Layout {
	return b.layout
}

// Entry returns the entry at index i
func (b *Board) Entry(i int) *Entry {
	return b.entries[i]
}

// Entries returns the entries in grid order
func (b *Board) Entries() []*Entry {
	return b.entries
}

// FieldBounds returns the rectangle of entry i's field
func (b *Board) FieldBounds(i int) grid.Rect {
	return b.layout.FieldBounds(b.entries[i].Base.Cell)
}

// ItemAt returns the index of the item whose current bounds contain (x, y).
// Later entries win so an item drawn on top is found first.
func (b *Board) ItemAt(x, y int) (int, bool) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Item.Bounds().Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// FieldAt returns the index of the visible field containing (x, y)
func (b *Board) FieldAt(x, y int) (int, bool) {
	for i, e := range b.entries {
		if e.Field.Hidden() {
			continue
		}
		if b.FieldBounds(i).Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// Focused returns the index of the focused field
func (b *Board) Focused() (int, bool) {
	for i, e := range b.entries {
		if e.Field.HasFocus() {
			return i, true
		}
	}
	return -1, false
}

// FocusField moves input focus to field i, blurring every other field
func (b *Board) FocusField(i int) tea.Cmd {
	if i < 0 || i >= len(b.entries) {
		return nil
	}
	for j, e := range b.entries {
		if j != i {
			e.Field.Blur()
		}
	}
	return b.entries[i].Field.Focus()
}

// FocusNext moves focus to the next field, wrapping around
func (b *Board) FocusNext() tea.Cmd {
	i, ok := b.Focused()
	if !ok {
		return b.FocusField(0)
	}
	return b.FocusField((i + 1) % len(b.entries))
}

// FocusPrev moves focus to the previous field, wrapping around
func (b *Board) FocusPrev() tea.Cmd {
	i, ok := b.Focused()
	if !ok {
		return b.FocusField(len(b.entries) - 1)
	}
	return b.FocusField((i - 1 + len(b.entries)) % len(b.entries))
}

// BlurAll removes focus from every field
func (b *Board) BlurAll() {
	for _, e := range b.entries {
		e.Field.Blur()
	}
}

// HideFields hides every field
func (b *Board) HideFields() {
	for _, e := range b.entries {
		e.Field.Hide()
	}
}

// ShowFields shows every field
func (b *Board) ShowFields() {
	for _, e := range b.entries {
		e.Field.Show()
	}
}

// FieldsHidden reports whether any field is hidden
func (b *Board) FieldsHidden() bool {
	for _, e := range b.entries {
		if e.Field.Hidden() {
			return true
		}
	}
	return false
}

// Filled returns the number of fields with non-empty text
func (b *Board) Filled() int {
	n := 0
	for _, e := range b.entries {
		if e.Field.Text() != "" {
			n++
		}
	}
	return n
}
