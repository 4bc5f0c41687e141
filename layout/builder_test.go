package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/Ohio15/relayout/model"
)

func borderedBox(x, y, w, h float64) model.RectElement {
	black := model.Color{}
	return model.RectElement{X: x, Y: y, Width: w, Height: h, StrokeColor: &black, LineWidth: 1}
}

// gridScene builds a page holding a rows x cols grid of bordered boxes
// separated by small gaps, one text run per box.
func gridScene(rows, cols int, x0, y0, cellW, cellH, gap float64) *model.PageScene {
	scene := &model.PageScene{Width: 612, Height: 792}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := x0 + float64(c)*(cellW+gap)
			y := y0 + float64(r)*(cellH+gap)
			scene.Elements = append(scene.Elements,
				borderedBox(x, y, cellW, cellH),
				model.TextElement{X: x + 5, Y: y + 5, Width: 20, Height: 10, FontSize: 10, Text: "cell"},
			)
		}
	}
	return scene
}

func TestBuilder_GridBecomesTable(t *testing.T) {
	b := NewBuilder()

	page, warnings, err := b.Build(context.Background(), gridScene(2, 3, 50, 100, 100, 20, 7))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if len(page.Elements) != 1 {
		t.Fatalf("Expected 1 element, got %d", len(page.Elements))
	}
	tables := page.Tables()
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	if tables[0].Rows != 2 || tables[0].Cols != 3 {
		t.Errorf("Expected 2x3 table, got %dx%d", tables[0].Rows, tables[0].Cols)
	}
	if got := len(page.Paragraphs()); got != 0 {
		t.Errorf("Expected all text consumed by the table, got %d paragraphs", got)
	}
}

func TestBuilder_ContentBoundsClamped(t *testing.T) {
	b := NewBuilder()

	page, _, err := b.Build(context.Background(), gridScene(2, 3, 50, 100, 100, 20, 7))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	cb := page.ContentBounds
	if cb == nil {
		t.Fatal("Expected content bounds")
	}
	if cb.Left != 55 {
		t.Errorf("Expected left margin 55, got %.1f", cb.Left)
	}
	if cb.Top != 105 {
		t.Errorf("Expected top margin 105, got %.1f", cb.Top)
	}
	// Large raw margins clamp to the plausible maximum.
	if cb.Right != 108 || cb.Bottom != 108 {
		t.Errorf("Expected right/bottom clamped to 108, got %.1f and %.1f", cb.Right, cb.Bottom)
	}
}

func TestBuilder_EmptySceneHasNoBounds(t *testing.T) {
	b := NewBuilder()

	page, _, err := b.Build(context.Background(), &model.PageScene{Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if page.ContentBounds != nil {
		t.Error("Expected nil content bounds for empty page")
	}
	if len(page.Elements) != 0 {
		t.Errorf("Expected no elements, got %d", len(page.Elements))
	}
}

func TestBuilder_ParagraphSpacing(t *testing.T) {
	b := NewBuilder()

	scene := &model.PageScene{Width: 612, Height: 792}
	scene.Elements = append(scene.Elements,
		model.TextElement{X: 50, Y: 100, Width: 100, Height: 10, FontSize: 10, Text: "first"},
		model.TextElement{X: 50, Y: 150, Width: 100, Height: 10, FontSize: 10, Text: "second"},
	)

	page, _, err := b.Build(context.Background(), scene)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	paras := page.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(paras))
	}
	if paras[0].SpacingAfter != 40 {
		t.Errorf("Expected spacing after 40, got %.1f", paras[0].SpacingAfter)
	}
	if paras[1].SpacingBefore != 40 {
		t.Errorf("Expected spacing before 40, got %.1f", paras[1].SpacingBefore)
	}
	if paras[0].RightEdge != 150 {
		t.Errorf("Expected right edge 150, got %.1f", paras[0].RightEdge)
	}
	if page.BodyFontSize != 10 {
		t.Errorf("Expected body font size 10, got %.1f", page.BodyFontSize)
	}
}

func TestBuilder_PathGroupBecomesImage(t *testing.T) {
	b := NewBuilder()

	red := model.Color{R: 1}
	scene := &model.PageScene{Width: 612, Height: 792}
	scene.Elements = append(scene.Elements, model.PathElement{
		Ops: []model.PathOp{
			{Op: model.PathMoveTo, Points: []model.Point{{X: 300, Y: 400}}},
			{Op: model.PathLineTo, Points: []model.Point{{X: 350, Y: 400}}},
			{Op: model.PathLineTo, Points: []model.Point{{X: 350, Y: 450}}},
			{Op: model.PathLineTo, Points: []model.Point{{X: 300, Y: 450}}},
			{Op: model.PathClose},
		},
		FillColor: &red,
	})

	page, warnings, err := b.Build(context.Background(), scene)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if len(page.Elements) != 1 {
		t.Fatalf("Expected 1 element, got %d", len(page.Elements))
	}
	img, ok := page.Elements[0].(*model.ImageBlock)
	if !ok {
		t.Fatalf("Expected an ImageBlock, got %T", page.Elements[0])
	}
	if img.X != 300 || img.Y != 400 || img.Width != 50 || img.Height != 50 {
		t.Errorf("Unexpected image placement: %+v", img)
	}
	if len(img.Data) == 0 {
		t.Error("Expected rendered PNG data")
	}
}

func TestBuilder_GenuineImagesPassThrough(t *testing.T) {
	b := NewBuilder()

	scene := &model.PageScene{Width: 612, Height: 792}
	scene.Elements = append(scene.Elements,
		model.ImageElement{X: 100, Y: 100, Width: 200, Height: 150, Data: []byte{1}, Genuine: true},
		model.ImageElement{X: 0, Y: 0, Width: 612, Height: 792, Data: []byte{2}, Genuine: false},
	)

	page, _, err := b.Build(context.Background(), scene)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(page.Elements) != 1 {
		t.Fatalf("Expected only the genuine image, got %d elements", len(page.Elements))
	}
	img, ok := page.Elements[0].(*model.ImageBlock)
	if !ok || !img.Genuine {
		t.Errorf("Expected a genuine ImageBlock, got %T", page.Elements[0])
	}
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) RecognizeImage(ctx context.Context, imageData []byte) (string, error) {
	return f.text, f.err
}

func TestBuilder_RecognizerFillsAltText(t *testing.T) {
	b := NewBuilder().WithRecognizer(fakeRecognizer{text: "hello"})

	scene := &model.PageScene{Width: 612, Height: 792}
	scene.Elements = append(scene.Elements,
		model.ImageElement{X: 100, Y: 100, Width: 200, Height: 150, Data: []byte{1}, Genuine: true},
	)

	page, warnings, err := b.Build(context.Background(), scene)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	img := page.Elements[0].(*model.ImageBlock)
	if img.AltText != "hello" {
		t.Errorf("Expected alt text %q, got %q", "hello", img.AltText)
	}
}

func TestBuilder_RecognizerFailureWarns(t *testing.T) {
	b := NewBuilder().WithRecognizer(fakeRecognizer{err: errors.New("engine unavailable")})

	scene := &model.PageScene{Width: 612, Height: 792}
	scene.Elements = append(scene.Elements,
		model.ImageElement{X: 100, Y: 100, Width: 200, Height: 150, Data: []byte{1}, Genuine: true},
	)

	page, warnings, err := b.Build(context.Background(), scene)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Stage != "ocr" {
		t.Errorf("Expected ocr stage warning, got %q", warnings[0].Stage)
	}

	img := page.Elements[0].(*model.ImageBlock)
	if img.AltText != "" {
		t.Errorf("Expected empty alt text after failure, got %q", img.AltText)
	}
}

func TestBuilder_CancelledContext(t *testing.T) {
	b := NewBuilder()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := b.Build(ctx, gridScene(2, 3, 50, 100, 100, 20, 7))
	if err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestBuilder_SideBySideParagraphsFormColumns(t *testing.T) {
	b := NewBuilder()

	scene := &model.PageScene{Width: 612, Height: 792}
	scene.Elements = append(scene.Elements,
		model.TextElement{X: 50, Y: 100, Width: 150, Height: 10, FontSize: 10, Text: "left col"},
		model.TextElement{X: 350, Y: 100, Width: 150, Height: 10, FontSize: 10, Text: "right col"},
	)

	page, _, err := b.Build(context.Background(), scene)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(page.Elements) != 1 {
		t.Fatalf("Expected 1 element, got %d", len(page.Elements))
	}
	region, ok := page.Elements[0].(*model.TwoColumnRegion)
	if !ok {
		t.Fatalf("Expected a TwoColumnRegion, got %T", page.Elements[0])
	}
	if len(region.Left) != 1 || len(region.Right) != 1 {
		t.Errorf("Expected 1 element per column, got %d and %d",
			len(region.Left), len(region.Right))
	}
	if region.GapX != 275 {
		t.Errorf("Expected gap midpoint 275, got %.1f", region.GapX)
	}
}
