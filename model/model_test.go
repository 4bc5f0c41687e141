package model

import (
	"math"
	"testing"
)

func TestBBoxEdges(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)

	if b.Left() != 10 || b.Right() != 110 {
		t.Errorf("Expected left 10 right 110, got %.1f and %.1f", b.Left(), b.Right())
	}
	if b.Top() != 20 || b.Bottom() != 70 {
		t.Errorf("Expected top 20 bottom 70, got %.1f and %.1f", b.Top(), b.Bottom())
	}
	if c := b.Center(); c.X != 60 || c.Y != 45 {
		t.Errorf("Expected center (60, 45), got (%.1f, %.1f)", c.X, c.Y)
	}
}

func TestBBoxIntersects(t *testing.T) {
	a := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name string
		b    BBox
		want bool
	}{
		{"overlapping", NewBBox(50, 50, 100, 100), true},
		{"touching edge", NewBBox(100, 0, 50, 100), true},
		{"disjoint", NewBBox(200, 200, 10, 10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersects(tc.b); got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestBBoxUnionAndIntersection(t *testing.T) {
	a := NewBBox(0, 0, 100, 100)
	b := NewBBox(50, 50, 100, 100)

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Width != 150 || u.Height != 150 {
		t.Errorf("Unexpected union: %+v", u)
	}

	i := a.Intersection(b)
	if i.X != 50 || i.Y != 50 || i.Width != 50 || i.Height != 50 {
		t.Errorf("Unexpected intersection: %+v", i)
	}

	if got := a.Intersection(NewBBox(500, 500, 10, 10)); !got.IsEmpty() {
		t.Errorf("Expected empty intersection for disjoint boxes, got %+v", got)
	}
}

func TestBBoxExpand(t *testing.T) {
	b := NewBBox(10, 10, 20, 20).Expand(5)
	if b.X != 5 || b.Y != 5 || b.Width != 30 || b.Height != 30 {
		t.Errorf("Unexpected expanded box: %+v", b)
	}
}

func TestBBoxOverlapRatio(t *testing.T) {
	a := NewBBox(0, 0, 100, 100)
	b := NewBBox(0, 0, 50, 100)

	if got := a.OverlapRatio(b); got != 1 {
		t.Errorf("Expected full overlap of smaller box, got %.2f", got)
	}
	if got := a.OverlapRatio(NewBBox(200, 0, 10, 10)); got != 0 {
		t.Errorf("Expected 0 for disjoint boxes, got %.2f", got)
	}
}

func TestPointDistance(t *testing.T) {
	d := Point{X: 0, Y: 0}.Distance(Point{X: 3, Y: 4})
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("Expected distance 5, got %.3f", d)
	}
}

func TestColorLuminance(t *testing.T) {
	if got := (Color{R: 1, G: 1, B: 1}).Luminance(); math.Abs(got-1) > 1e-9 {
		t.Errorf("Expected white luminance 1, got %.3f", got)
	}
	if got := (Color{}).Luminance(); got != 0 {
		t.Errorf("Expected black luminance 0, got %.3f", got)
	}

	if !(Color{R: 0.97, G: 0.97, B: 0.97}).IsNearWhite() {
		t.Error("Expected light gray to read as near white")
	}
	if (Color{R: 0.5, G: 0.5, B: 0.5}).IsNearWhite() {
		t.Error("Expected mid gray to read as visible")
	}
}

func TestRectNormalized(t *testing.T) {
	r := RectElement{X: 100, Y: 200, Width: -40, Height: -30}
	n := r.Normalized()

	if n.X != 60 || n.Y != 170 || n.Width != 40 || n.Height != 30 {
		t.Errorf("Unexpected normalized rect: %+v", n)
	}
	if b := r.Bounds(); b.X != 60 || b.Y != 170 {
		t.Errorf("Expected Bounds to normalize, got %+v", b)
	}
}

func TestPathBounds(t *testing.T) {
	p := PathElement{
		Ops: []PathOp{
			{Op: PathMoveTo, Points: []Point{{X: 10, Y: 20}}},
			{Op: PathLineTo, Points: []Point{{X: 110, Y: 70}}},
			{Op: PathClose},
		},
	}

	b := p.Bounds()
	if b.X != 10 || b.Y != 20 || b.Width != 100 || b.Height != 50 {
		t.Errorf("Unexpected path bounds: %+v", b)
	}

	if !(PathElement{}).Bounds().IsEmpty() {
		t.Error("Expected empty bounds for empty path")
	}
}

func TestPageSceneAccessors(t *testing.T) {
	scene := &PageScene{
		Width:  612,
		Height: 792,
		Elements: []SceneElement{
			TextElement{X: 0, Y: 0, Width: 50, Height: 10, Text: "a"},
			RectElement{X: 0, Y: 0, Width: 100, Height: 100},
			PathElement{Ops: []PathOp{{Op: PathMoveTo, Points: []Point{{X: 1, Y: 1}}}}},
			ImageElement{X: 0, Y: 0, Width: 10, Height: 10},
			TextElement{X: 0, Y: 20, Width: 50, Height: 10, Text: "b"},
		},
	}

	if got := len(scene.Texts()); got != 2 {
		t.Errorf("Expected 2 texts, got %d", got)
	}
	if got := len(scene.Rects()); got != 1 {
		t.Errorf("Expected 1 rect, got %d", got)
	}
	if got := len(scene.Paths()); got != 1 {
		t.Errorf("Expected 1 path, got %d", got)
	}
	if got := len(scene.Images()); got != 1 {
		t.Errorf("Expected 1 image, got %d", got)
	}
}

func TestParagraphText_ReadingOrderAndNFC(t *testing.T) {
	p := &ParagraphGroup{
		Texts: []TextElement{
			{X: 60, Y: 0, Width: 40, Height: 10, Text: "world"},
			{X: 0, Y: 0, Width: 50, Height: 10, Text: "hello"},
			{X: 0, Y: 20, Width: 50, Height: 10, Text: "café"},
		},
	}

	if got, want := p.Text(), "hello world café"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDetectedTableCellAt(t *testing.T) {
	table := &DetectedTable{
		Rows: 2,
		Cols: 2,
		Cells: []*DetectedCell{
			{Row: 0, Col: 0, RowSpan: 1, ColSpan: 2, Texts: []TextElement{{Text: "head"}}},
			{Row: 1, Col: 0, RowSpan: 1, ColSpan: 1, Texts: []TextElement{{Text: "a"}}},
			{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, Texts: []TextElement{{Text: "b"}}},
		},
	}

	if c := table.CellAt(0, 0); c == nil || c.Text() != "head" {
		t.Error("Expected anchored cell at (0,0)")
	}
	if c := table.CellAt(0, 1); c != nil {
		t.Error("Expected nil for position covered by a span")
	}
	if c := table.CellAt(5, 5); c != nil {
		t.Error("Expected nil for out-of-range position")
	}
}

func TestTwoColumnRegionBounds(t *testing.T) {
	left := &ParagraphGroup{Texts: []TextElement{{X: 0, Y: 100, Width: 100, Height: 10}}}
	right := &ParagraphGroup{Texts: []TextElement{{X: 200, Y: 105, Width: 100, Height: 10}}}

	region := &TwoColumnRegion{Left: []LayoutElement{left}, Right: []LayoutElement{right}}

	b := region.Bounds()
	if b.X != 0 || b.Y != 100 || b.Right() != 300 || b.Bottom() != 115 {
		t.Errorf("Unexpected region bounds: %+v", b)
	}
}
