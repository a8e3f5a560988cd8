package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yildizm/RankGrid/internal/logger"
	_ "golang.org/x/image/bmp" // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

const halfBlock = "▀"

type cacheKey struct {
	path string
	w, h int
}

// Renderer turns image files into half-block terminal art. Each terminal cell
// shows two vertically stacked pixels. Decoded images and rendered strings are
// cached for the life of the renderer.
type Renderer struct {
	decoded  map[string]image.Image
	failed   map[string]bool
	rendered map[cacheKey]string
	border   lipgloss.TerminalColor
	log      *logger.Logger
}

// NewRenderer creates a renderer. border colours placeholder boxes.
func NewRenderer(border lipgloss.TerminalColor, log *logger.Logger) *Renderer {
	return &Renderer{
		decoded:  make(map[string]image.Image),
		failed:   make(map[string]bool),
		rendered: make(map[cacheKey]string),
		border:   border,
		log:      log,
	}
}

// Render returns exactly h lines of w cells depicting the image at path.
// Files that cannot be decoded render as a labelled placeholder.
func (r *Renderer) Render(path string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	key := cacheKey{path: path, w: w, h: h}
	if s, ok := r.rendered[key]; ok {
		return s
	}

	var s string
	if img, ok := r.load(path); ok {
		s = HalfBlocks(Scale(img, w, h*2))
	} else {
		s = Placeholder(filepath.Base(path), w, h, r.border)
	}
	r.rendered[key] = s
	return s
}

// Preload decodes every path up front and returns how many failed
func (r *Renderer) Preload(paths []string) int {
	failed := 0
	for _, p := range paths {
		if _, ok := r.load(p); !ok {
			failed++
		}
	}
	return failed
}

func (r *Renderer) load(path string) (image.Image, bool) {
	if img, ok := r.decoded[path]; ok {
		return img, true
	}
	if r.failed[path] {
		return nil, false
	}

	img, err := Decode(path)
	if err != nil {
		r.failed[path] = true
		if r.log != nil {
			r.log.WarnWithFields("using placeholder for stimulus", []logger.Field{logger.F("path", path), logger.Error(err)})
		}
		return nil, false
	}
	r.decoded[path] = img
	return img, true
}

// Decode reads and decodes an image file
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from stimulus scanning
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Scale resizes img to exactly w x h pixels, stretching like a fixed-size image stimulus
func Scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// HalfBlocks renders an image with an even pixel height as terminal rows
func HalfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	lines := make([]string, 0, b.Dy()/2)
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		var line strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(img.RGBAAt(x, y)))).
				Background(lipgloss.Color(hex(img.RGBAAt(x, y+1))))
			line.WriteString(style.Render(halfBlock))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// Placeholder draws a bordered box of w x h cells with a truncated label
func Placeholder(label string, w, h int, border lipgloss.TerminalColor) string {
	if w < 3 || h < 3 {
		row := strings.Repeat("░", w)
		rows := make([]string, h)
		for i := range rows {
			rows[i] = row
		}
		return strings.Join(rows, "\n")
	}
	label = ansi.Truncate(label, w-2, "…")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(w-2).
		Height(h-2).
		MaxHeight(h).
		Align(lipgloss.Center, lipgloss.Center).
		Render(label)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
