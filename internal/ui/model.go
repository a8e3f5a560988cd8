package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/RankGrid/internal/emoji"
	"github.com/yildizm/RankGrid/internal/grid"
	"github.com/yildizm/RankGrid/internal/logger"
	"github.com/yildizm/RankGrid/internal/session"
	"github.com/yildizm/RankGrid/internal/thumbnail"
)

// Message types for the session loop
type frameMsg time.Time

type dwellMsg struct {
	token int
}

type flushMsg struct{}

type terminalAction int

const (
	actionNone terminalAction = iota
	actionSave
	actionCancel
)

// SessionOptions holds the fixed parameters of one ranking session
type SessionOptions struct {
	Instruction   string
	SaveKey       string
	CancelKey     string
	FrameInterval time.Duration
	Focus         session.FocusConfig
	Validation    session.ValidationMode
}

// SessionModel runs one ranking session: every Update is one frame of input
// routing, zoom handling, the validator sweep and terminal key handling.
type SessionModel struct {
	board     *session.Board
	focus     *session.FocusController
	collector *session.Collector
	terminal  session.Terminal
	records   []session.Record

	keys   KeyMap
	help   help.Model
	styles *Styles
	thumbs *thumbnail.Renderer
	log    *logger.Logger

	instruction   string
	frameInterval time.Duration

	width  int
	height int

	deferred terminalAction
	banner   string
	frames   int
	cleared  int
}

// NewSessionModel creates the session loop for a board
func NewSessionModel(board *session.Board, opts SessionOptions, thumbs *thumbnail.Renderer, log *logger.Logger) *SessionModel {
	h := help.New()
	h.ShortSeparator = "  "

	return &SessionModel{
		board:         board,
		focus:         session.NewFocusController(board, opts.Focus),
		collector:     session.NewCollector(opts.Validation),
		keys:          NewKeyMap(opts.SaveKey, opts.CancelKey),
		help:          h,
		styles:        GetStyles(),
		thumbs:        thumbs,
		log:           log.WithComponent("session"),
		instruction:   opts.Instruction,
		frameInterval: opts.FrameInterval,
	}
}

// Outcome returns the terminal outcome, Pending while the session runs
func (m *SessionModel) Outcome() session.Outcome {
	return m.terminal.Outcome()
}

// Records returns the collected rankings. Only set when the outcome is Saved.
func (m *SessionModel) Records() []session.Record {
	return m.records
}

// Board returns the board the session edits
func (m *SessionModel) Board() *session.Board {
	return m.board
}

// Focus returns the zoom state machine
func (m *SessionModel) Focus() *session.FocusController {
	return m.focus
}

// Frames returns the number of frame ticks handled
func (m *SessionModel) Frames() int {
	return m.frames
}

// Init starts the frame clock
func (m *SessionModel) Init() tea.Cmd {
	m.log.InfoWithFields("session started", []logger.Field{logger.Count(m.board.Len())})
	return m.frameTick()
}

// Update handles one frame
func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.terminal.Done() {
		return m, nil
	}

	var cmds []tea.Cmd
	act := actionNone

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.focus.SetScreen(grid.Size{W: msg.Width, H: msg.Height})
		m.help.Width = msg.Width

	case frameMsg:
		m.frames++
		cmds = append(cmds, m.frameTick())

	case dwellMsg:
		if m.focus.DwellElapsed(msg.token) {
			cmd, deferred := m.restored()
			cmds = append(cmds, cmd)
			act = deferred
		}

	case flushMsg:
		m.focus.Flush()

	case tea.KeyMsg:
		cmd, a := m.handleKey(msg)
		cmds = append(cmds, cmd)
		act = a

	case tea.MouseMsg:
		cmd, deferred := m.handleMouse(msg)
		cmds = append(cmds, cmd)
		act = deferred
	}

	if n := session.Sweep(m.board); n > 0 {
		m.cleared += n
		m.log.DebugWithFields("cleared invalid rank", []logger.Field{logger.Count(n)})
	}

	switch act {
	case actionSave:
		cmds = append(cmds, m.save())
	case actionCancel:
		cmds = append(cmds, m.cancel())
	}

	return m, tea.Batch(cmds...)
}

func (m *SessionModel) handleKey(msg tea.KeyMsg) (tea.Cmd, terminalAction) {
	if key.Matches(msg, m.keys.Quit) {
		return nil, actionCancel
	}

	_, enlarged := m.focus.Enlarged()

	var act terminalAction
	switch {
	case key.Matches(msg, m.keys.Save):
		act = actionSave
	case key.Matches(msg, m.keys.Cancel):
		act = actionCancel
	}
	if act != actionNone {
		if enlarged {
			m.deferred = act
			m.log.Debug("terminal key deferred until restore")
			return nil, actionNone
		}
		return nil, act
	}

	// Fields are hidden while enlarged
	if enlarged {
		return nil, actionNone
	}

	m.banner = ""
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.board.FocusNext(), actionNone
	case key.Matches(msg, m.keys.Prev):
		return m.board.FocusPrev(), actionNone
	}

	if i, ok := m.board.Focused(); ok {
		return m.board.Entry(i).Field.Update(msg), actionNone
	}
	return nil, actionNone
}

func (m *SessionModel) handleMouse(msg tea.MouseMsg) (tea.Cmd, terminalAction) {
	switch msg.Action {
	case tea.MouseActionPress:
		if m.focus.Draining() {
			return nil, actionNone
		}
		if _, enlarged := m.focus.Enlarged(); !enlarged && msg.Button == tea.MouseButtonLeft {
			if i, ok := m.board.FieldAt(msg.X, msg.Y); ok {
				m.banner = ""
				return m.board.FocusField(i), actionNone
			}
		}
		req, ok := m.focus.Press(msg.X, msg.Y, msg.Button)
		if !ok {
			return nil, actionNone
		}
		i, _ := m.focus.Enlarged()
		m.log.DebugWithFields("stimulus enlarged", []logger.Field{logger.Index(i), logger.F("id", m.board.Entry(i).Base.ID)})
		token := req.Token
		return tea.Tick(req.Duration, func(time.Time) tea.Msg {
			return dwellMsg{token: token}
		}), actionNone

	case tea.MouseActionRelease:
		button := msg.Button
		// Legacy mouse encodings report releases without a button
		if button == tea.MouseButtonNone {
			button = m.focus.Button()
		}
		if m.focus.Release(button) {
			return m.restored()
		}
	}
	return nil, actionNone
}

// restored runs after the enlarged item is back in its cell. It schedules the
// end of the pointer drain and hands back a deferred terminal key.
func (m *SessionModel) restored() (tea.Cmd, terminalAction) {
	m.log.Debug("stimulus restored")
	act := m.deferred
	m.deferred = actionNone
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return flushMsg{}
	}), act
}

func (m *SessionModel) save() tea.Cmd {
	records := m.collector.Collect(m.board)
	if err := m.collector.Check(records); err != nil {
		if m.collector.Blocks(err) {
			m.banner = err.Error()
			m.log.WarnWithFields("save refused", []logger.Field{logger.Error(err)})
			return nil
		}
		m.log.WarnWithFields("saving incomplete ranking", []logger.Field{logger.Error(err)})
	}

	if err := m.terminal.Set(session.Saved); err != nil {
		return nil
	}
	m.records = records
	m.log.InfoWithFields("session saved", []logger.Field{
		logger.F("filled", m.board.Filled()),
		logger.F("cleared", m.cleared),
		logger.F("frames", m.frames),
	})
	return tea.Quit
}

func (m *SessionModel) cancel() tea.Cmd {
	if err := m.terminal.Set(session.Cancelled); err != nil {
		return nil
	}
	m.deferred = actionNone
	m.log.InfoWithFields("session cancelled", []logger.Field{logger.F("filled", m.board.Filled())})
	return tea.Quit
}

func (m *SessionModel) frameTick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// View renders the instruction, every stimulus at its current geometry, the
// visible fields and the status line. The enlarged stimulus is drawn last.
func (m *SessionModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.terminal.Done() {
		return ""
	}

	c := NewCanvas(m.width, m.height)
	c.Put(0, 0, m.styles.Instruction.Render(m.instruction))

	enlarged, isEnlarged := m.focus.Enlarged()
	for i, e := range m.board.Entries() {
		if isEnlarged && i == enlarged {
			continue
		}
		r := e.Item.Bounds()
		c.Put(r.X, r.Y, m.thumbs.Render(e.Base.ID, r.W, r.H))
	}

	for i, e := range m.board.Entries() {
		if e.Field.Hidden() {
			continue
		}
		r := m.board.FieldBounds(i)
		style := m.styles.Field
		if e.Field.HasFocus() {
			style = m.styles.FieldFocused
		}
		c.Put(r.X, r.Y, style.Width(r.W).MaxWidth(r.W).Render(e.Field.View()))
	}

	if isEnlarged {
		e := m.board.Entry(enlarged)
		r := e.Item.Bounds()
		c.Put(r.X, r.Y, m.thumbs.Render(e.Base.ID, r.W, r.H))
	}

	c.Put(0, m.height-1, m.statusLine())
	return c.String()
}

func (m *SessionModel) statusLine() string {
	progress := m.styles.Progress.Render(fmt.Sprintf("%s %d/%d ranked", emoji.GetEmoji("number"), m.board.Filled(), m.board.Len()))
	if m.banner != "" {
		return lipgloss.JoinHorizontal(lipgloss.Top, progress, "  ", m.styles.Banner.Render(emoji.GetEmoji("warning")+" "+m.banner))
	}
	if _, enlarged := m.focus.Enlarged(); enlarged {
		return lipgloss.JoinHorizontal(lipgloss.Top, progress, "  ", m.styles.Muted.Render("release to return the image"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, progress, "  ", m.help.View(m.keys))
}
