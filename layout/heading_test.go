package layout

import (
	"testing"

	"github.com/Ohio15/relayout/model"
)

func sizedParagraph(size float64, bold bool, s string) *model.ParagraphGroup {
	return &model.ParagraphGroup{
		Texts: []model.TextElement{{X: 0, Y: 0, Width: 100, Height: size, FontSize: size, Bold: bold, Text: s}},
	}
}

func TestBodyFontSize_Modal(t *testing.T) {
	paras := []*model.ParagraphGroup{
		sizedParagraph(10, false, "a"),
		sizedParagraph(10.2, false, "b"),
		sizedParagraph(9.8, false, "c"),
		sizedParagraph(16, false, "d"),
	}

	if got := bodyFontSize(paras); got != 10 {
		t.Errorf("Expected body size 10, got %.1f", got)
	}
}

func TestBodyFontSize_TieResolvesSmaller(t *testing.T) {
	paras := []*model.ParagraphGroup{
		sizedParagraph(10, false, "a"),
		sizedParagraph(12, false, "b"),
	}

	if got := bodyFontSize(paras); got != 10 {
		t.Errorf("Expected tie to resolve to 10, got %.1f", got)
	}
}

func TestBodyFontSize_NoText(t *testing.T) {
	paras := []*model.ParagraphGroup{
		{Fields: []model.FormField{{X: 0, Y: 0, Width: 50, Height: 10}}},
	}

	if got := bodyFontSize(paras); got != 0 {
		t.Errorf("Expected 0 for field-only page, got %.1f", got)
	}
}

func TestApplyHeadingLevels(t *testing.T) {
	tests := []struct {
		name  string
		size  float64
		bold  bool
		level int
	}{
		{"level 1 at 1.6x", 16, false, 1},
		{"level 2 at 1.3x", 13, false, 2},
		{"level 3 at 1.15x bold", 11.5, true, 3},
		{"no level at 1.15x regular", 11.5, false, 0},
		{"no level at 1.05x bold", 10.5, true, 0},
		{"body stays 0", 10, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := sizedParagraph(tc.size, tc.bold, "x")
			applyHeadingLevels([]*model.ParagraphGroup{p}, 10)
			if p.HeadingLevel != tc.level {
				t.Errorf("Expected level %d, got %d", tc.level, p.HeadingLevel)
			}
		})
	}
}

func TestApplyHeadingLevels_LongParagraphExcluded(t *testing.T) {
	p := &model.ParagraphGroup{
		Texts: []model.TextElement{
			{X: 0, Y: 0, Width: 100, Height: 16, FontSize: 16, Text: "a"},
			{X: 0, Y: 20, Width: 100, Height: 16, FontSize: 16, Text: "b"},
			{X: 0, Y: 40, Width: 100, Height: 16, FontSize: 16, Text: "c"},
			{X: 0, Y: 60, Width: 100, Height: 16, FontSize: 16, Text: "d"},
		},
	}

	applyHeadingLevels([]*model.ParagraphGroup{p}, 10)
	if p.HeadingLevel != 0 {
		t.Errorf("Expected four-line paragraph to stay body, got level %d", p.HeadingLevel)
	}
}
