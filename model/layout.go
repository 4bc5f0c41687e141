package model

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LayoutKind identifies the variant of a LayoutElement.
type LayoutKind int

const (
	LayoutKindTable LayoutKind = iota
	LayoutKindParagraph
	LayoutKindImage
	LayoutKindTwoColumn
)

// String returns a string representation of the layout element kind.
func (k LayoutKind) String() string {
	switch k {
	case LayoutKindTable:
		return "table"
	case LayoutKindParagraph:
		return "paragraph"
	case LayoutKindImage:
		return "image"
	case LayoutKindTwoColumn:
		return "two-column"
	default:
		return "unknown"
	}
}

// LayoutElement is the interface implemented by every reconstructed
// structural element. Consumers switch exhaustively over Kind.
type LayoutElement interface {
	Kind() LayoutKind
	Bounds() BBox
}

// PageLayout is the reconstructed structure of a single page: an ordered
// reading-order sequence of layout elements plus inferred page metrics.
type PageLayout struct {
	Width  float64
	Height float64

	// Elements in reading order (sorted by topmost Y).
	Elements []LayoutElement

	// ContentBounds holds the inferred page margins, or nil when the page
	// had no text or fields to infer them from.
	ContentBounds *ContentBounds

	// BodyFontSize is the modal paragraph first-line font size, rounded
	// to 0.5 units. Zero when the page has no paragraphs.
	BodyFontSize float64
}

// Tables returns all table elements of the layout, in reading order.
func (l *PageLayout) Tables() []*DetectedTable {
	var out []*DetectedTable
	for _, el := range l.Elements {
		if t, ok := el.(*DetectedTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// Paragraphs returns all paragraph elements of the layout, in reading order.
func (l *PageLayout) Paragraphs() []*ParagraphGroup {
	var out []*ParagraphGroup
	for _, el := range l.Elements {
		if p, ok := el.(*ParagraphGroup); ok {
			out = append(out, p)
		}
	}
	return out
}

// ContentBounds are the inferred page margins in page-space units, each
// clamped to [36, 108].
type ContentBounds struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// BorderEdge describes one visible border line: its color and stroke width.
type BorderEdge struct {
	Color Color
	Width float64
}

// CellBorders holds per-edge border overrides for a single cell. A nil
// edge means the cell uses the table-level border for that edge.
type CellBorders struct {
	Top    *BorderEdge
	Bottom *BorderEdge
	Left   *BorderEdge
	Right  *BorderEdge
}

// CellPadding holds the inferred inner padding of a cell, per edge.
type CellPadding struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// VerticalAlign classifies the vertical placement of a cell's content.
type VerticalAlign int

const (
	VAlignUnset VerticalAlign = iota
	VAlignTop
	VAlignCenter
	VAlignBottom
)

// String returns a string representation of the vertical alignment.
func (a VerticalAlign) String() string {
	switch a {
	case VAlignTop:
		return "top"
	case VAlignCenter:
		return "center"
	case VAlignBottom:
		return "bottom"
	default:
		return "unset"
	}
}

// DetectedCell is one cell of a reconstructed table. Row and Col anchor
// the cell in the grid; RowSpan and ColSpan (always >= 1) give the grid
// positions it consumes. Spanned positions are consumed, not duplicated:
// only origin cells appear in DetectedTable.Cells.
type DetectedCell struct {
	Row, Col         int
	RowSpan, ColSpan int
	BBox             BBox

	Texts  []TextElement
	Fields []FormField

	// FillColor is the cell's background, nil when unfilled.
	FillColor *Color

	// Borders holds per-edge overrides of the table-level border, nil
	// when no edge differs.
	Borders *CellBorders

	// Padding is the inferred inner padding, nil when indistinguishable
	// from noise.
	Padding *CellPadding

	// VAlign is the inferred vertical alignment of the cell content.
	VAlign VerticalAlign
}

// Text assembles the cell's text content in reading order, normalized to
// NFC.
func (c *DetectedCell) Text() string {
	return assembleText(c.Texts)
}

// DetectedTable is a reconstructed table: grid geometry plus a flat list
// of cells. Invariant: the (row, col) positions covered by all cells'
// spans tile the rows x cols grid exactly, with no overlaps and no gaps.
type DetectedTable struct {
	Rows, Cols int

	ColWidths  []float64
	RowHeights []float64
	BBox       BBox

	// BorderColor and BorderWidth describe the dominant table border, nil
	// color when the table's source rects carried no stroke.
	BorderColor *Color
	BorderWidth float64

	Cells []*DetectedCell
}

// Kind returns LayoutKindTable.
func (t *DetectedTable) Kind() LayoutKind { return LayoutKindTable }

// Bounds returns the table's bounding box.
func (t *DetectedTable) Bounds() BBox { return t.BBox }

// CellAt returns the cell anchored at (row, col), or nil when that
// position is covered by a spanning cell or out of range.
func (t *DetectedTable) CellAt(row, col int) *DetectedCell {
	for _, c := range t.Cells {
		if c.Row == row && c.Col == col {
			return c
		}
	}
	return nil
}

// String renders the table as tab-separated rows for debugging.
func (t *DetectedTable) String() string {
	var sb strings.Builder
	for row := 0; row < t.Rows; row++ {
		for col := 0; col < t.Cols; col++ {
			if c := t.CellAt(row, col); c != nil {
				sb.WriteString(c.Text())
			}
			if col < t.Cols-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ParagraphGroup is a reconstructed paragraph: a group of text runs and
// associated form fields sharing one logical flow.
type ParagraphGroup struct {
	Texts  []TextElement
	Fields []FormField

	// X, Y anchor the paragraph at its top-left corner.
	X, Y float64

	// LineSpacing is the average inter-line spacing, zero for single-line
	// paragraphs.
	LineSpacing float64

	// HeadingLevel is 1-3 for headings, 0 for body paragraphs.
	HeadingLevel int

	// Background is the inherited fill color, nil when unstyled.
	Background *Color

	// BottomBorder is the underline detected beneath the paragraph, nil
	// when absent.
	BottomBorder *BorderEdge

	// SpacingBefore and SpacingAfter are the vertical gaps to the
	// neighboring paragraphs, recorded only when above noise (> 2 units).
	SpacingBefore float64
	SpacingAfter  float64

	// RightEdge is the rightmost X extent of the paragraph content, used
	// downstream for indent inference. Zero when unset.
	RightEdge float64
}

// Kind returns LayoutKindParagraph.
func (p *ParagraphGroup) Kind() LayoutKind { return LayoutKindParagraph }

// Bounds returns the bounding box of the paragraph's texts and fields.
func (p *ParagraphGroup) Bounds() BBox {
	first := true
	var box BBox
	for _, t := range p.Texts {
		if first {
			box = t.Bounds()
			first = false
			continue
		}
		box = box.Union(t.Bounds())
	}
	for _, f := range p.Fields {
		if first {
			box = f.Bounds()
			first = false
			continue
		}
		box = box.Union(f.Bounds())
	}
	return box
}

// Text assembles the paragraph's text content in reading order, normalized
// to NFC.
func (p *ParagraphGroup) Text() string {
	return assembleText(p.Texts)
}

// ImageBlock is a placed raster image: either a genuine image from the
// scene or the rasterization of a vector path group.
type ImageBlock struct {
	X, Y   float64
	Width  float64
	Height float64
	Data   []byte

	// Genuine carries through the scene flag; synthetic path-group
	// rasterizations are tagged genuine so downstream placement treats
	// them as content.
	Genuine bool

	// AltText holds recovered text for the image when an OCR recognizer
	// was configured, empty otherwise.
	AltText string
}

// Kind returns LayoutKindImage.
func (im *ImageBlock) Kind() LayoutKind { return LayoutKindImage }

// Bounds returns the bounding box of the image.
func (im *ImageBlock) Bounds() BBox {
	return BBox{X: im.X, Y: im.Y, Width: im.Width, Height: im.Height}
}

// TwoColumnRegion groups side-by-side layout elements into a left and a
// right column.
type TwoColumnRegion struct {
	Left  []LayoutElement
	Right []LayoutElement

	// GapX is the X midpoint of the whitespace gap separating the columns.
	GapX float64

	// Y and Height give the vertical extent of the region.
	Y      float64
	Height float64

	// PageWidth is the page width the region was computed against.
	PageWidth float64
}

// Kind returns LayoutKindTwoColumn.
func (r *TwoColumnRegion) Kind() LayoutKind { return LayoutKindTwoColumn }

// Bounds returns the combined bounding box of both columns.
func (r *TwoColumnRegion) Bounds() BBox {
	first := true
	var box BBox
	for _, el := range r.Left {
		if first {
			box = el.Bounds()
			first = false
			continue
		}
		box = box.Union(el.Bounds())
	}
	for _, el := range r.Right {
		if first {
			box = el.Bounds()
			first = false
			continue
		}
		box = box.Union(el.Bounds())
	}
	return box
}

// assembleText joins text runs in reading order (Y, then X) with single
// spaces, normalized to NFC so decomposed sequences from upstream font
// mapping compare and render consistently.
func assembleText(texts []TextElement) string {
	if len(texts) == 0 {
		return ""
	}

	sorted := make([]TextElement, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var sb strings.Builder
	for i, t := range sorted {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.Text)
	}

	return norm.NFC.String(sb.String())
}
