package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Canvas is a fixed-size screen that blocks are pasted onto at absolute cell
// positions. Later pastes cover earlier ones.
type Canvas struct {
	w, h  int
	lines []string
}

// NewCanvas creates a blank w x h canvas
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	lines := make([]string, h)
	blank := strings.Repeat(" ", w)
	for i := range lines {
		lines[i] = blank
	}
	return &Canvas{w: w, h: h, lines: lines}
}

// Put pastes a multi-line block with its top-left corner at (x, y), clipping
// whatever falls outside the canvas.
func (c *Canvas) Put(x, y int, block string) {
	if block == "" || x >= c.w {
		return
	}
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		if row >= c.h {
			break
		}

		start := x
		width := ansi.StringWidth(line)
		if start < 0 {
			line = ansi.Cut(line, -start, width)
			width += start
			start = 0
		}
		if start+width > c.w {
			line = ansi.Cut(line, 0, c.w-start)
			width = c.w - start
		}
		if width <= 0 {
			continue
		}

		bg := c.lines[row]
		c.lines[row] = ansi.Cut(bg, 0, start) + line + ansi.Cut(bg, start+width, c.w)
	}
}

// String joins the canvas rows
func (c *Canvas) String() string {
	return strings.Join(c.lines, "\n")
}
