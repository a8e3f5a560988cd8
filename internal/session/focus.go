package session

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/RankGrid/internal/grid"
)

// FocusState is the zoom state of the board
type FocusState int

const (
	Idle FocusState = iota
	Enlarged
)

func (s FocusState) String() string {
	if s == Enlarged {
		return "enlarged"
	}
	return "idle"
}

// FocusConfig holds the fixed zoom parameters of a session
type FocusConfig struct {
	EnlargedSize grid.Size
	Dwell        time.Duration
	Button       tea.MouseButton
}

// DwellRequest asks the caller to report back after Duration with Token
type DwellRequest struct {
	Token    int
	Duration time.Duration
}

// Transition records one state change of the focus controller
type Transition struct {
	From  FocusState
	To    FocusState
	Index int
	At    time.Time
}

const transitionHistory = 64

// FocusController enlarges one stimulus on press and restores it on release.
//
// Only one item can be enlarged at a time: while Enlarged every press is
// ignored, so a second item is never picked up before the first is restored.
// After a restore the controller drains pointer events until Flush is called,
// dropping presses and releases that were queued during the enlarged phase.
type FocusController struct {
	cfg    FocusConfig
	board  *Board
	screen grid.Size
	now    func() time.Time

	state       FocusState
	index       int
	savedPos    grid.Point
	savedSize   grid.Size
	token       int
	dwellDone   bool
	releaseSeen bool
	draining    bool

	history []Transition
}

// NewFocusController creates an idle controller for a board
func NewFocusController(board *Board, cfg FocusConfig) *FocusController {
	return &FocusController{
		cfg:   cfg,
		board: board,
		now:   time.Now,
		index: -1,
	}
}

// SetScreen updates the screen size used to center enlarged items
func (f *FocusController) SetScreen(s grid.Size) {
	f.screen = s
}

// State returns the current state
func (f *FocusController) State() FocusState {
	return f.state
}

// Enlarged returns the index of the enlarged item
func (f *FocusController) Enlarged() (int, bool) {
	if f.state != Enlarged {
		return -1, false
	}
	return f.index, true
}

// Button returns the designated pointer button
func (f *FocusController) Button() tea.MouseButton {
	return f.cfg.Button
}

// Draining reports whether pointer events are currently discarded
func (f *FocusController) Draining() bool {
	return f.draining
}

// Transitions returns the recent state changes, oldest first
func (f *FocusController) Transitions() []Transition {
	out := make([]Transition, len(f.history))
	copy(out, f.history)
	return out
}

// Press handles a pointer press. It returns a dwell request when the press
// enlarged an item.
func (f *FocusController) Press(x, y int, button tea.MouseButton) (DwellRequest, bool) {
	if f.state != Idle || f.draining || button != f.cfg.Button {
		return DwellRequest{}, false
	}
	i, ok := f.board.ItemAt(x, y)
	if !ok {
		return DwellRequest{}, false
	}

	e := f.board.Entry(i)
	f.board.HideFields()
	f.savedPos = e.Item.Pos
	f.savedSize = e.Item.Size
	e.Item.Pos = grid.Point{X: f.screen.W / 2, Y: f.screen.H / 2}
	e.Item.Size = f.enlargedSize()

	f.index = i
	f.token++
	f.dwellDone = false
	f.releaseSeen = false
	f.transition(Enlarged, i)

	return DwellRequest{Token: f.token, Duration: f.cfg.Dwell}, true
}

// DwellElapsed marks the dwell as over. It returns true when a release seen
// during the dwell caused an immediate restore.
func (f *FocusController) DwellElapsed(token int) bool {
	if f.state != Enlarged || token != f.token {
		return false
	}
	f.dwellDone = true
	if f.releaseSeen {
		f.restore()
		return true
	}
	return false
}

// Release handles a pointer release and returns true when it restored the item
func (f *FocusController) Release(button tea.MouseButton) bool {
	if f.state != Enlarged || button != f.cfg.Button {
		return false
	}
	if !f.dwellDone {
		f.releaseSeen = true
		return false
	}
	f.restore()
	return true
}

// Flush ends the post-restore drain
func (f *FocusController) Flush() {
	f.draining = false
}

func (f *FocusController) restore() {
	e := f.board.Entry(f.index)
	e.Item.Pos = f.savedPos
	e.Item.Size = f.savedSize
	f.board.ShowFields()

	i := f.index
	f.index = -1
	f.draining = true
	f.transition(Idle, i)
}

func (f *FocusController) enlargedSize() grid.Size {
	s := f.cfg.EnlargedSize
	if f.screen.W > 0 && s.W > f.screen.W {
		s.W = f.screen.W
	}
	if f.screen.H > 0 && s.H > f.screen.H {
		s.H = f.screen.H
	}
	return s
}

func (f *FocusController) transition(to FocusState, index int) {
	t := Transition{From: f.state, To: to, Index: index, At: f.now()}
	f.state = to
	if len(f.history) == transitionHistory {
		f.history = append(f.history[:0], f.history[1:]...)
	}
	f.history = append(f.history, t)
}
