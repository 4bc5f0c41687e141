package relayout

import (
	"context"
	"errors"
	"testing"

	"github.com/Ohio15/relayout/model"
)

func simpleScene() *model.PageScene {
	return &model.PageScene{
		Width:  612,
		Height: 792,
		Elements: []model.SceneElement{
			model.TextElement{X: 72, Y: 72, Width: 200, Height: 12, FontSize: 12, Text: "Hello, layout"},
		},
	}
}

func TestAnalyze(t *testing.T) {
	page, warnings, err := Analyze(context.Background(), simpleScene())
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	paras := page.Paragraphs()
	if len(paras) != 1 {
		t.Fatalf("Expected 1 paragraph, got %d", len(paras))
	}
	if got := paras[0].Text(); got != "Hello, layout" {
		t.Errorf("Expected paragraph text, got %q", got)
	}
}

func TestAnalyzeWithConfig(t *testing.T) {
	config := DefaultConfig()
	config.Paragraph.LineSplitGap = 5

	page, _, err := AnalyzeWithConfig(context.Background(), simpleScene(), config)
	if err != nil {
		t.Fatalf("AnalyzeWithConfig returned error: %v", err)
	}
	if len(page.Paragraphs()) != 1 {
		t.Errorf("Expected 1 paragraph, got %d", len(page.Paragraphs()))
	}
}

func TestFormatWarnings(t *testing.T) {
	if got := FormatWarnings(nil); got != "" {
		t.Errorf("Expected empty string for no warnings, got %q", got)
	}

	warnings := []Warning{
		{Stage: "raster", Message: "skipped drawing"},
		{Stage: "ocr", Message: "engine unavailable"},
	}
	want := "raster: skipped drawing; ocr: engine unavailable"
	if got := FormatWarnings(warnings); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected Must to panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestMustLayout(t *testing.T) {
	page := MustLayout(Analyze(context.Background(), simpleScene()))
	if page == nil {
		t.Fatal("Expected a layout")
	}
}
