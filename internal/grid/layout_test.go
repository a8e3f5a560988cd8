package grid

import (
	"errors"
	"fmt"
	"testing"
)

func testLayout(rows, cols int) Layout {
	return Layout{
		Rows:      rows,
		Cols:      cols,
		Origin:    Point{X: 2, Y: 2},
		ImageSize: Size{W: 12, H: 5},
		FieldSize: Size{W: 6, H: 1},
		FieldGap:  0,
		Spacing:   Size{W: 2, H: 1},
	}
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("stimuli/set/img%02d.jpg", i)
	}
	return out
}

func TestBuildRowMajor(t *testing.T) {
	layout := testLayout(6, 6)
	input := ids(36)

	g, err := layout.Build(input)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Len() != 36 {
		t.Fatalf("Expected 36 items, got %d", g.Len())
	}

	for i, item := range g.Items() {
		if item.ID != input[i] {
			t.Errorf("item %d: expected %s, got %s", i, input[i], item.ID)
		}
		if item.Cell.Row != i/6 || item.Cell.Col != i%6 {
			t.Errorf("item %d: expected cell (%d,%d), got (%d,%d)", i, i/6, i%6, item.Cell.Row, item.Cell.Col)
		}
	}
}

func TestBuildBijection(t *testing.T) {
	layout := testLayout(4, 5)
	input := ids(20)

	g, err := layout.Build(input)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	seenIDs := make(map[string]bool)
	seenCells := make(map[Cell]bool)
	for _, item := range g.Items() {
		if seenIDs[item.ID] {
			t.Errorf("identifier %s assigned twice", item.ID)
		}
		if seenCells[item.Cell] {
			t.Errorf("cell %+v assigned twice", item.Cell)
		}
		seenIDs[item.ID] = true
		seenCells[item.Cell] = true
	}
	if len(seenIDs) != 20 || len(seenCells) != 20 {
		t.Errorf("Expected 20 distinct ids and cells, got %d and %d", len(seenIDs), len(seenCells))
	}
}

func TestBuildDeterministic(t *testing.T) {
	layout := testLayout(3, 3)
	input := ids(9)

	a, err := layout.Build(input)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := layout.Build(input)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ai, bi := a.Items(), b.Items()
	for i := range ai {
		if ai[i] != bi[i] {
			t.Errorf("item %d differs between builds: %+v vs %+v", i, ai[i], bi[i])
		}
	}
}

func TestBuildInsufficientStimuli(t *testing.T) {
	layout := testLayout(6, 6)

	_, err := layout.Build(ids(35))
	if err == nil {
		t.Fatal("Expected error for 35 stimuli on a 6x6 grid")
	}
	if !errors.Is(err, ErrInsufficientStimuli) {
		t.Errorf("Expected ErrInsufficientStimuli, got %v", err)
	}
}

func TestBuildIgnoresExtraStimuli(t *testing.T) {
	layout := testLayout(2, 2)
	input := ids(10)

	g, err := layout.Build(input)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Len() != 4 {
		t.Errorf("Expected 4 items, got %d", g.Len())
	}
	if last, _ := g.At(Cell{Row: 1, Col: 1}); last.ID != input[3] {
		t.Errorf("Expected last cell to hold %s, got %s", input[3], last.ID)
	}
}

func TestImagesAndFieldsDoNotOverlap(t *testing.T) {
	layouts := []Layout{
		testLayout(6, 6),
		{Rows: 3, Cols: 4, ImageSize: Size{W: 7, H: 3}, FieldSize: Size{W: 7, H: 1}},
		{Rows: 2, Cols: 2, ImageSize: Size{W: 5, H: 4}, FieldSize: Size{W: 3, H: 2}, FieldGap: 1},
	}

	for li, layout := range layouts {
		g, err := layout.Build(ids(layout.Cells()))
		if err != nil {
			t.Fatalf("layout %d: Build failed: %v", li, err)
		}

		var rects []Rect
		for _, item := range g.Items() {
			rects = append(rects, item.Bounds(), layout.FieldBounds(item.Cell))
		}
		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				if rects[i].Overlaps(rects[j]) {
					t.Errorf("layout %d: rect %d %+v overlaps rect %d %+v", li, i, rects[i], j, rects[j])
				}
			}
		}
	}
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Layout)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Layout) {}, wantErr: false},
		{name: "zero rows", mutate: func(l *Layout) { l.Rows = 0 }, wantErr: true},
		{name: "zero image width", mutate: func(l *Layout) { l.ImageSize.W = 0 }, wantErr: true},
		{name: "field wider than image", mutate: func(l *Layout) { l.FieldSize.W = 20 }, wantErr: true},
		{name: "negative spacing", mutate: func(l *Layout) { l.Spacing.W = -1 }, wantErr: true},
		{name: "negative origin", mutate: func(l *Layout) { l.Origin.Y = -3 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLayout(2, 2)
			tt.mutate(&l)
			err := l.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCenterAndExtent(t *testing.T) {
	layout := testLayout(2, 3)
	g, err := layout.Build(ids(6))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	first, _ := g.At(Cell{Row: 0, Col: 0})
	if first.Pos != (Point{X: 8, Y: 4}) {
		t.Errorf("Expected first center (8,4), got %+v", first.Pos)
	}
	if first.Bounds() != (Rect{X: 2, Y: 2, W: 12, H: 5}) {
		t.Errorf("Unexpected first bounds %+v", first.Bounds())
	}

	second, _ := g.At(Cell{Row: 1, Col: 2})
	if second.Pos != (Point{X: 36, Y: 11}) {
		t.Errorf("Expected center (36,11), got %+v", second.Pos)
	}

	if ext := g.Extent(); ext != (Size{W: 42, H: 15}) {
		t.Errorf("Expected extent 42x15, got %+v", ext)
	}
}

func TestNormalize(t *testing.T) {
	screen := Size{W: 100, H: 50}

	center := Normalize(Point{X: 50, Y: 25}, screen)
	if center.X != 0 || center.Y != 0 {
		t.Errorf("Expected screen center at (0,0), got %+v", center)
	}

	topLeft := Normalize(Point{X: 0, Y: 0}, screen)
	if topLeft.X != -1 || topLeft.Y != 1 {
		t.Errorf("Expected top-left at (-1,1), got %+v", topLeft)
	}

	if zero := Normalize(Point{X: 3, Y: 3}, Size{}); zero != (NormPoint{}) {
		t.Errorf("Expected zero point for empty screen, got %+v", zero)
	}
}
