package layout

import (
	"testing"

	"github.com/Ohio15/relayout/model"
	"github.com/Ohio15/relayout/rects"
)

func fillRect(x, y, w, h float64, fill model.Color) model.RectElement {
	return model.RectElement{X: x, Y: y, Width: w, Height: h, FillColor: &fill}
}

func TestStyleMapper_Background(t *testing.T) {
	m := NewStyleMapper()

	p := paragraphAt(50, 20, 100, 10, "shaded")
	gray := model.Color{R: 0.8, G: 0.8, B: 0.8}
	rs := []model.RectElement{fillRect(45, 10, 200, 30, gray)}
	roles := []rects.Role{rects.RoleCellFill}

	m.Apply([]*model.ParagraphGroup{p}, rs, roles, 612)

	if p.Background == nil {
		t.Fatal("Expected background to be set")
	}
	if *p.Background != gray {
		t.Errorf("Expected gray background, got %+v", *p.Background)
	}
}

func TestStyleMapper_NearWhiteFillIgnored(t *testing.T) {
	m := NewStyleMapper()

	p := paragraphAt(50, 20, 100, 10, "plain")
	rs := []model.RectElement{fillRect(45, 10, 200, 30, model.Color{R: 0.99, G: 0.99, B: 0.99})}
	roles := []rects.Role{rects.RoleCellFill}

	m.Apply([]*model.ParagraphGroup{p}, rs, roles, 612)

	if p.Background != nil {
		t.Error("Expected near-white fill to be ignored")
	}
}

func TestStyleMapper_BackgroundRequiresLeftAlignment(t *testing.T) {
	m := NewStyleMapper()

	p := paragraphAt(50, 20, 100, 10, "text")
	rs := []model.RectElement{fillRect(100, 10, 200, 30, model.Color{R: 0.8, G: 0.8, B: 0.8})}
	roles := []rects.Role{rects.RoleCellFill}

	m.Apply([]*model.ParagraphGroup{p}, rs, roles, 612)

	if p.Background != nil {
		t.Error("Expected misaligned fill to be ignored")
	}
}

func TestStyleMapper_UnderlineFromThinFill(t *testing.T) {
	m := NewStyleMapper()

	// Paragraph bottom at 30; thin rule 2 units below it.
	p := paragraphAt(50, 20, 100, 10, "underlined")
	blue := model.Color{B: 1}
	rs := []model.RectElement{fillRect(50, 32, 100, 2, blue)}
	roles := []rects.Role{rects.RoleCellFill}

	m.Apply([]*model.ParagraphGroup{p}, rs, roles, 612)

	if p.BottomBorder == nil {
		t.Fatal("Expected bottom border to be set")
	}
	if p.BottomBorder.Color != blue {
		t.Errorf("Expected blue border, got %+v", p.BottomBorder.Color)
	}
	if p.BottomBorder.Width != 2 {
		t.Errorf("Expected border width 2, got %.1f", p.BottomBorder.Width)
	}
}

func TestStyleMapper_UnderlineFromSeparatorFallback(t *testing.T) {
	m := NewStyleMapper()

	p := paragraphAt(50, 20, 100, 10, "ruled")
	black := model.Color{}
	rs := []model.RectElement{{
		X: 0, Y: 35, Width: 600, Height: 1,
		StrokeColor: &black, LineWidth: 1,
	}}
	roles := []rects.Role{rects.RoleSeparator}

	m.Apply([]*model.ParagraphGroup{p}, rs, roles, 612)

	if p.BottomBorder == nil {
		t.Fatal("Expected separator to underline the paragraph")
	}
	if p.BottomBorder.Width != 1 {
		t.Errorf("Expected border width 1, got %.1f", p.BottomBorder.Width)
	}
}

func TestStyleMapper_ThinFillBeatsSeparator(t *testing.T) {
	m := NewStyleMapper()

	p := paragraphAt(50, 20, 100, 10, "both")
	blue := model.Color{B: 1}
	black := model.Color{}
	rs := []model.RectElement{
		{X: 0, Y: 31, Width: 600, Height: 1, StrokeColor: &black, LineWidth: 1},
		fillRect(50, 34, 100, 2, blue),
	}
	roles := []rects.Role{rects.RoleSeparator, rects.RoleCellFill}

	m.Apply([]*model.ParagraphGroup{p}, rs, roles, 612)

	if p.BottomBorder == nil {
		t.Fatal("Expected bottom border to be set")
	}
	if p.BottomBorder.Color != blue {
		t.Errorf("Expected the thin fill to win, got color %+v", p.BottomBorder.Color)
	}
}

func TestStyleMapper_FarRuleIgnored(t *testing.T) {
	m := NewStyleMapper()

	p := paragraphAt(50, 20, 100, 10, "text")
	rs := []model.RectElement{fillRect(50, 60, 100, 2, model.Color{B: 1})}
	roles := []rects.Role{rects.RoleCellFill}

	m.Apply([]*model.ParagraphGroup{p}, rs, roles, 612)

	if p.BottomBorder != nil {
		t.Error("Expected rule 30 units below to be ignored")
	}
}
