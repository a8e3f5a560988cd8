package grid

import (
	"errors"
	"fmt"
)

// ErrInsufficientStimuli is returned when there are fewer stimuli than grid cells
var ErrInsufficientStimuli = errors.New("not enough stimuli for grid")

// Point is a position measured in terminal cells
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Size is a width/height pair measured in terminal cells
type Size struct {
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Overlaps reports whether two rectangles share at least one cell
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Bounds returns the rectangle of the given size centered on pos
func Bounds(pos Point, size Size) Rect {
	return Rect{X: pos.X - size.W/2, Y: pos.Y - size.H/2, W: size.W, H: size.H}
}

// Cell identifies a grid cell
type Cell struct {
	Row int
	Col int
}

// StimulusItem is one stimulus bound to its grid cell
type StimulusItem struct {
	ID   string
	Cell Cell
	Pos  Point // center
	Size Size
}

// Bounds returns the item's bounding box
func (s StimulusItem) Bounds() Rect {
	return Bounds(s.Pos, s.Size)
}

// Layout describes grid geometry
type Layout struct {
	Rows      int
	Cols      int
	Origin    Point // top-left corner of cell (0, 0)
	ImageSize Size
	FieldSize Size
	FieldGap  int // rows between an image and its field
	Spacing   Size
}

// Cells returns the number of grid cells
func (l Layout) Cells() int {
	return l.Rows * l.Cols
}

// Pitch returns the distance between neighbouring cell centers
func (l Layout) Pitch() Size {
	return Size{
		W: l.ImageSize.W + l.Spacing.W,
		H: l.ImageSize.H + l.FieldGap + l.FieldSize.H + l.Spacing.H,
	}
}

// Center returns the image center of a cell
func (l Layout) Center(c Cell) Point {
	p := l.Pitch()
	return Point{
		X: l.Origin.X + c.Col*p.W + l.ImageSize.W/2,
		Y: l.Origin.Y + c.Row*p.H + l.ImageSize.H/2,
	}
}

// FieldBounds returns the rank field rectangle under a cell's image
func (l Layout) FieldBounds(c Cell) Rect {
	img := Bounds(l.Center(c), l.ImageSize)
	return Rect{
		X: img.X + (l.ImageSize.W-l.FieldSize.W)/2,
		Y: img.Y + img.H + l.FieldGap,
		W: l.FieldSize.W,
		H: l.FieldSize.H,
	}
}

// Validate checks that the layout is well formed
func (l Layout) Validate() error {
	if l.Rows < 1 || l.Cols < 1 {
		return fmt.Errorf("grid must have at least one row and column, got %dx%d", l.Rows, l.Cols)
	}
	if l.ImageSize.W < 1 || l.ImageSize.H < 1 {
		return fmt.Errorf("image size must be positive, got %dx%d", l.ImageSize.W, l.ImageSize.H)
	}
	if l.FieldSize.W < 1 || l.FieldSize.H < 1 {
		return fmt.Errorf("field size must be positive, got %dx%d", l.FieldSize.W, l.FieldSize.H)
	}
	if l.FieldSize.W > l.ImageSize.W {
		return fmt.Errorf("field width %d exceeds image width %d", l.FieldSize.W, l.ImageSize.W)
	}
	if l.Spacing.W < 0 || l.Spacing.H < 0 || l.FieldGap < 0 {
		return fmt.Errorf("spacing must be non-negative")
	}
	if l.Origin.X < 0 || l.Origin.Y < 0 {
		return fmt.Errorf("origin must be non-negative")
	}
	return nil
}

// Grid is the immutable cell-to-stimulus assignment for one session
type Grid struct {
	layout Layout
	items  []StimulusItem
}

// Build assigns identifiers to cells in row-major order.
// Identifiers beyond Rows*Cols are ignored.
func (l Layout) Build(ids []string) (*Grid, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	n := l.Cells()
	if len(ids) < n {
		return nil, fmt.Errorf("%w: have %d, need %d (%dx%d)", ErrInsufficientStimuli, len(ids), n, l.Rows, l.Cols)
	}

	items := make([]StimulusItem, 0, n)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			c := Cell{Row: row, Col: col}
			items = append(items, StimulusItem{
				ID:   ids[row*l.Cols+col],
				Cell: c,
				Pos:  l.Center(c),
				Size: l.ImageSize,
			})
		}
	}

	return &Grid{layout: l, items: items}, nil
}

// Layout returns the layout the grid was built from
func (g *Grid) Layout() Layout {
	return g.layout
}

// Len returns the number of items
func (g *Grid) Len() int {
	return len(g.items)
}

// Items returns a copy of the items in grid order
func (g *Grid) Items() []StimulusItem {
	out := make([]StimulusItem, len(g.items))
	copy(out, g.items)
	return out
}

// At returns the item at a cell
func (g *Grid) At(c Cell) (StimulusItem, bool) {
	if c.Row < 0 || c.Row >= g.layout.Rows || c.Col < 0 || c.Col >= g.layout.Cols {
		return StimulusItem{}, false
	}
	return g.items[c.Row*g.layout.Cols+c.Col], true
}

// Extent returns the size of the area covered by the grid, origin included
func (g *Grid) Extent() Size {
	l := g.layout
	p := l.Pitch()
	return Size{
		W: l.Origin.X + l.Cols*p.W - l.Spacing.W,
		H: l.Origin.Y + l.Rows*p.H - l.Spacing.H,
	}
}

// NormPoint is a position in normalized screen units: both axes span -1..1, y up
type NormPoint struct {
	X float64
	Y float64
}

// Normalize converts a cell position to normalized units for a screen size
func Normalize(p Point, screen Size) NormPoint {
	if screen.W <= 0 || screen.H <= 0 {
		return NormPoint{}
	}
	return NormPoint{
		X: 2*float64(p.X)/float64(screen.W) - 1,
		Y: 1 - 2*float64(p.Y)/float64(screen.H),
	}
}
