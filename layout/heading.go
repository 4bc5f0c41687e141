package layout

import (
	"math"
	"sort"

	"github.com/Ohio15/relayout/model"
)

// Heading classification cutoffs: the ratio of a short paragraph's font
// size to the page's body size.
const (
	headingLevel1Ratio = 1.5
	headingLevel2Ratio = 1.25
	headingLevel3Ratio = 1.1

	// maxHeadingLines caps how many distinct baselines a heading
	// paragraph may have.
	maxHeadingLines = 3
)

// bodyFontSize returns the page's dominant body font size: the most
// frequent paragraph first-line font size, rounded to 0.5 units. Ties
// resolve to the smaller size. Returns 0 when no paragraph has text.
func bodyFontSize(paras []*model.ParagraphGroup) float64 {
	counts := make(map[float64]int)
	for _, p := range paras {
		if size := firstLineFontSize(p); size > 0 {
			counts[roundHalf(size)]++
		}
	}
	if len(counts) == 0 {
		return 0
	}

	sizes := make([]float64, 0, len(counts))
	for s := range counts {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)

	best := sizes[0]
	for _, s := range sizes[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

// applyHeadingLevels assigns heading levels 1-3 to short paragraphs whose
// first-line font size stands out against the body size.
func applyHeadingLevels(paras []*model.ParagraphGroup, bodySize float64) {
	if bodySize <= 0 {
		return
	}

	for _, p := range paras {
		if len(p.Texts) == 0 || distinctBaselines(p) > maxHeadingLines {
			continue
		}

		size := firstLineFontSize(p)
		ratio := size / bodySize
		switch {
		case ratio >= headingLevel1Ratio:
			p.HeadingLevel = 1
		case ratio >= headingLevel2Ratio:
			p.HeadingLevel = 2
		case ratio >= headingLevel3Ratio && firstLineBold(p):
			p.HeadingLevel = 3
		}
	}
}

// firstLineFontSize returns the font size of the paragraph's topmost,
// leftmost text, or 0 for field-only paragraphs.
func firstLineFontSize(p *model.ParagraphGroup) float64 {
	if len(p.Texts) == 0 {
		return 0
	}
	first := p.Texts[0]
	for _, t := range p.Texts[1:] {
		if t.Y < first.Y || (t.Y == first.Y && t.X < first.X) {
			first = t
		}
	}
	return first.FontSize
}

// firstLineBold reports whether any text on the paragraph's first
// baseline is bold.
func firstLineBold(p *model.ParagraphGroup) bool {
	if len(p.Texts) == 0 {
		return false
	}
	minY := p.Texts[0].Y
	for _, t := range p.Texts[1:] {
		if t.Y < minY {
			minY = t.Y
		}
	}
	for _, t := range p.Texts {
		if t.Y == minY && t.Bold {
			return true
		}
	}
	return false
}

// distinctBaselines counts the distinct Y positions among a paragraph's
// texts.
func distinctBaselines(p *model.ParagraphGroup) int {
	seen := make(map[float64]bool)
	for _, t := range p.Texts {
		seen[t.Y] = true
	}
	return len(seen)
}

// roundHalf rounds to the nearest 0.5.
func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
