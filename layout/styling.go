package layout

import (
	"math"

	"github.com/Ohio15/relayout/model"
	"github.com/Ohio15/relayout/rects"
)

// StyleConfig holds tolerances for mapping rect styling onto paragraphs.
type StyleConfig struct {
	// TallFillMinHeight separates background fills from underline rules.
	// Default: 5 units.
	TallFillMinHeight float64

	// LeftEdgeTolerance is how close a background fill's left edge must
	// sit to the paragraph's left edge. Default: 10 units.
	LeftEdgeTolerance float64

	// UnderlineRange is how far below the paragraph an underline rule may
	// sit. Default: 15 units.
	UnderlineRange float64

	// PageWideRatio excludes near-page-wide rules from underline
	// candidates (those are section separators, not underlines).
	// Default: 0.9.
	PageWideRatio float64
}

// DefaultStyleConfig returns the default styling tolerances.
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		TallFillMinHeight: 5.0,
		LeftEdgeTolerance: 10.0,
		UnderlineRange:    15.0,
		PageWideRatio:     0.9,
	}
}

// StyleMapper attaches background and underline styling from classified
// rects onto paragraphs.
type StyleMapper struct {
	config StyleConfig
}

// NewStyleMapper creates a mapper with default configuration.
func NewStyleMapper() *StyleMapper {
	return &StyleMapper{config: DefaultStyleConfig()}
}

// NewStyleMapperWithConfig creates a mapper with custom configuration.
func NewStyleMapperWithConfig(config StyleConfig) *StyleMapper {
	return &StyleMapper{config: config}
}

// Apply mutates each paragraph with the background and bottom border
// inferred from the page's rects. Roles must be index-parallel to rs.
func (m *StyleMapper) Apply(paras []*model.ParagraphGroup, rs []model.RectElement, roles []rects.Role, pageWidth float64) {
	for _, p := range paras {
		box := p.Bounds()
		if box.IsEmpty() {
			continue
		}
		m.applyBackground(p, box, rs, roles)
		m.applyUnderline(p, box, rs, roles, pageWidth)
	}
}

// applyBackground inherits the fill of a tall, visible cell-fill rect
// that vertically contains the paragraph's center and starts near its
// left edge.
func (m *StyleMapper) applyBackground(p *model.ParagraphGroup, box model.BBox, rs []model.RectElement, roles []rects.Role) {
	centerY := box.Center().Y

	for i, r := range rs {
		if roles[i] != rects.RoleCellFill {
			continue
		}
		n := r.Normalized()
		if n.FillColor == nil || n.FillColor.IsNearWhite() {
			continue
		}
		b := n.Bounds()
		if b.Height < m.config.TallFillMinHeight {
			continue
		}
		if centerY < b.Top() || centerY > b.Bottom() {
			continue
		}
		if math.Abs(b.Left()-box.Left()) > m.config.LeftEdgeTolerance {
			continue
		}

		c := *n.FillColor
		p.Background = &c
		return
	}
}

// applyUnderline finds the nearest thin rule under the paragraph. Thin
// cell-fill rects are preferred; separator-role rects are the fallback.
func (m *StyleMapper) applyUnderline(p *model.ParagraphGroup, box model.BBox, rs []model.RectElement, roles []rects.Role, pageWidth float64) {
	var best *model.BorderEdge
	bestGap := math.Inf(1)
	bestFill := false

	for i, r := range rs {
		role := roles[i]
		if role != rects.RoleCellFill && role != rects.RoleSeparator {
			continue
		}
		n := r.Normalized()
		b := n.Bounds()

		isFill := role == rects.RoleCellFill
		if isFill {
			if n.FillColor == nil || n.FillColor.IsNearWhite() {
				continue
			}
			if b.Height >= m.config.TallFillMinHeight {
				continue
			}
			if b.Width > m.config.PageWideRatio*pageWidth {
				continue
			}
		}

		gap := b.Top() - box.Bottom()
		if gap < 0 || gap > m.config.UnderlineRange {
			continue
		}
		if b.Right() < box.Left() || b.Left() > box.Right() {
			continue
		}

		// Thin fills win over separators; among peers the nearest wins.
		if best != nil && (bestFill && !isFill || bestFill == isFill && gap >= bestGap) {
			continue
		}

		edge := model.BorderEdge{Width: b.Height}
		switch {
		case n.FillColor != nil:
			edge.Color = *n.FillColor
		case n.StrokeColor != nil:
			edge.Color = *n.StrokeColor
			edge.Width = math.Max(b.Height, n.LineWidth)
		}

		best = &edge
		bestGap = gap
		bestFill = isFill
	}

	p.BottomBorder = best
}
