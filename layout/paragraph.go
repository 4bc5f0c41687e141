package layout

import (
	"math"
	"sort"

	"github.com/Ohio15/relayout/model"
)

// ParagraphConfig holds tolerances for paragraph grouping.
type ParagraphConfig struct {
	// BaselineTolerance is the Y proximity grouping texts into one line.
	// Default: 3 units.
	BaselineTolerance float64

	// LineSplitGap is the X gap between consecutive texts on a shared
	// baseline above which the line splits, separating side-by-side
	// content. Default: 30 units.
	LineSplitGap float64

	// GapFactor scales the average font size into the maximum vertical
	// gap between lines of one paragraph. Default: 1.5.
	GapFactor float64

	// FontChangeRatio is the relative font-size change between lines that
	// forces a paragraph boundary. Default: 0.15.
	FontChangeRatio float64

	// FieldAttachRange is the maximum vertical distance between a form
	// field and its associated text. Default: 25 units.
	FieldAttachRange float64

	// RowBand is the Y-center band used when splitting dense form
	// sections into per-row paragraphs. Default: 8 units.
	RowBand float64

	// MinSplitItems and MinSplitFields gate the dense-section split: a
	// paragraph must hold at least this many combined items and fields.
	// Defaults: 4 and 2.
	MinSplitItems  int
	MinSplitFields int
}

// DefaultParagraphConfig returns the default grouping tolerances.
func DefaultParagraphConfig() ParagraphConfig {
	return ParagraphConfig{
		BaselineTolerance: 3.0,
		LineSplitGap:      30.0,
		GapFactor:         1.5,
		FontChangeRatio:   0.15,
		FieldAttachRange:  25.0,
		RowBand:           8.0,
		MinSplitItems:     4,
		MinSplitFields:    2,
	}
}

// ParagraphGrouper clusters loose text and form fields into paragraphs.
type ParagraphGrouper struct {
	config ParagraphConfig
}

// NewParagraphGrouper creates a grouper with default configuration.
func NewParagraphGrouper() *ParagraphGrouper {
	return &ParagraphGrouper{config: DefaultParagraphConfig()}
}

// NewParagraphGrouperWithConfig creates a grouper with custom configuration.
func NewParagraphGrouperWithConfig(config ParagraphConfig) *ParagraphGrouper {
	return &ParagraphGrouper{config: config}
}

// textLine is one visual line: texts sharing a baseline, already split at
// large X gaps.
type textLine struct {
	texts    []model.TextElement
	y        float64 // topmost Y
	fontSize float64 // average font size
}

// Group clusters the given texts and fields into paragraphs in reading
// order. Fields with no nearby text become singleton paragraphs.
func (g *ParagraphGrouper) Group(texts []model.TextElement, fields []model.FormField) []*model.ParagraphGroup {
	if len(texts) == 0 {
		// Fields with no text are never merged.
		var paras []*model.ParagraphGroup
		for _, f := range fields {
			paras = append(paras, fieldParagraph(f))
		}
		return paras
	}

	lines := g.buildLines(texts)
	paras := g.mergeLines(lines)
	paras = g.attachFields(paras, fields)
	paras = g.splitDense(paras)

	sort.SliceStable(paras, func(i, j int) bool {
		bi, bj := paras[i].Bounds(), paras[j].Bounds()
		if bi.Y != bj.Y {
			return bi.Y < bj.Y
		}
		return bi.X < bj.X
	})
	for _, p := range paras {
		b := p.Bounds()
		p.X, p.Y = b.X, b.Y
	}
	return paras
}

// buildLines sorts texts by (Y, X), groups them into baseline lines, and
// splits lines at large X gaps.
func (g *ParagraphGrouper) buildLines(texts []model.TextElement) []textLine {
	sorted := make([]model.TextElement, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	// Baseline grouping with a running mean Y per line.
	var groups [][]model.TextElement
	var means []float64
	for _, t := range sorted {
		placed := false
		for gi := range groups {
			if math.Abs(t.Y-means[gi]) <= g.config.BaselineTolerance {
				n := float64(len(groups[gi]))
				means[gi] = (means[gi]*n + t.Y) / (n + 1)
				groups[gi] = append(groups[gi], t)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []model.TextElement{t})
			means = append(means, t.Y)
		}
	}

	var lines []textLine
	for _, grp := range groups {
		sort.SliceStable(grp, func(i, j int) bool { return grp[i].X < grp[j].X })

		start := 0
		for i := 1; i <= len(grp); i++ {
			if i < len(grp) && grp[i].X-grp[i-1].Bounds().Right() <= g.config.LineSplitGap {
				continue
			}
			lines = append(lines, newTextLine(grp[start:i]))
			start = i
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].y != lines[j].y {
			return lines[i].y < lines[j].y
		}
		return lines[i].texts[0].X < lines[j].texts[0].X
	})
	return lines
}

func newTextLine(texts []model.TextElement) textLine {
	line := textLine{texts: append([]model.TextElement(nil), texts...)}
	line.y = texts[0].Y
	total := 0.0
	for _, t := range texts {
		if t.Y < line.y {
			line.y = t.Y
		}
		total += t.FontSize
	}
	line.fontSize = total / float64(len(texts))
	return line
}

// mergeLines joins consecutive lines into paragraphs. A new paragraph
// starts on a shared baseline (side-by-side lines stay separate), on a
// vertical gap beyond GapFactor x the average font size, or on a font
// size change beyond FontChangeRatio.
func (g *ParagraphGrouper) mergeLines(lines []textLine) []*model.ParagraphGroup {
	var paras []*model.ParagraphGroup
	var current []textLine

	flush := func() {
		if len(current) == 0 {
			return
		}
		para := &model.ParagraphGroup{}
		var deltas []float64
		for i, line := range current {
			para.Texts = append(para.Texts, line.texts...)
			if i > 0 {
				deltas = append(deltas, line.y-current[i-1].y)
			}
		}
		if len(deltas) > 0 {
			sum := 0.0
			for _, d := range deltas {
				sum += d
			}
			para.LineSpacing = sum / float64(len(deltas))
		}
		paras = append(paras, para)
		current = nil
	}

	for _, line := range lines {
		if len(current) == 0 {
			current = append(current, line)
			continue
		}

		prev := current[len(current)-1]
		gap := line.y - prev.y
		avgSize := (line.fontSize + prev.fontSize) / 2

		sameBaseline := gap < g.config.BaselineTolerance
		tooFar := gap > g.config.GapFactor*avgSize
		fontChanged := prev.fontSize > 0 &&
			math.Abs(line.fontSize/prev.fontSize-1) > g.config.FontChangeRatio

		if sameBaseline || tooFar || fontChanged {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return paras
}

// attachFields associates each field with the paragraph holding the text
// whose vertical center is closest to the field's center, within range.
// Orphan fields get their own singleton paragraphs.
func (g *ParagraphGrouper) attachFields(paras []*model.ParagraphGroup, fields []model.FormField) []*model.ParagraphGroup {
	for _, f := range fields {
		fc := f.Bounds().Center().Y

		best := -1
		bestDist := math.Inf(1)
		for pi, p := range paras {
			for _, t := range p.Texts {
				if d := math.Abs(t.Bounds().Center().Y - fc); d < bestDist {
					bestDist = d
					best = pi
				}
			}
		}

		if best >= 0 && bestDist <= g.config.FieldAttachRange {
			paras[best].Fields = append(paras[best].Fields, f)
		} else {
			paras = append(paras, fieldParagraph(f))
		}
	}
	return paras
}

// fieldParagraph wraps an orphan field in its own paragraph.
func fieldParagraph(f model.FormField) *model.ParagraphGroup {
	return &model.ParagraphGroup{
		Fields: []model.FormField{f},
		X:      f.Bounds().X,
		Y:      f.Bounds().Y,
	}
}

// splitDense breaks paragraphs holding tightly packed form sections into
// one paragraph per visual row, clustering items by Y-center band.
func (g *ParagraphGrouper) splitDense(paras []*model.ParagraphGroup) []*model.ParagraphGroup {
	var out []*model.ParagraphGroup

	for _, p := range paras {
		if len(p.Texts)+len(p.Fields) < g.config.MinSplitItems || len(p.Fields) < g.config.MinSplitFields {
			out = append(out, p)
			continue
		}

		type item struct {
			centerY float64
			text    *model.TextElement
			field   *model.FormField
		}
		var items []item
		for i := range p.Texts {
			items = append(items, item{centerY: p.Texts[i].Bounds().Center().Y, text: &p.Texts[i]})
		}
		for i := range p.Fields {
			items = append(items, item{centerY: p.Fields[i].Bounds().Center().Y, field: &p.Fields[i]})
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].centerY < items[j].centerY })

		var bands [][]item
		var means []float64
		for _, it := range items {
			placed := false
			for bi := range bands {
				if math.Abs(it.centerY-means[bi]) <= g.config.RowBand {
					n := float64(len(bands[bi]))
					means[bi] = (means[bi]*n + it.centerY) / (n + 1)
					bands[bi] = append(bands[bi], it)
					placed = true
					break
				}
			}
			if !placed {
				bands = append(bands, []item{it})
				means = append(means, it.centerY)
			}
		}

		for _, band := range bands {
			sort.SliceStable(band, func(i, j int) bool {
				var xi, xj float64
				if band[i].text != nil {
					xi = band[i].text.X
				} else {
					xi = band[i].field.X
				}
				if band[j].text != nil {
					xj = band[j].text.X
				} else {
					xj = band[j].field.X
				}
				return xi < xj
			})

			row := &model.ParagraphGroup{LineSpacing: 0}
			for _, it := range band {
				if it.text != nil {
					row.Texts = append(row.Texts, *it.text)
				} else {
					row.Fields = append(row.Fields, *it.field)
				}
			}
			out = append(out, row)
		}
	}

	return out
}
