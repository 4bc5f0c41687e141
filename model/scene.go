package model

import "math"

// SceneKind identifies the variant of a SceneElement.
type SceneKind int

const (
	SceneKindText SceneKind = iota
	SceneKindRect
	SceneKindPath
	SceneKindImage
)

// String returns a string representation of the scene element kind.
func (k SceneKind) String() string {
	switch k {
	case SceneKindText:
		return "text"
	case SceneKindRect:
		return "rect"
	case SceneKindPath:
		return "path"
	case SceneKindImage:
		return "image"
	default:
		return "unknown"
	}
}

// SceneElement is the interface implemented by every drawing primitive in
// a PageScene. Consumers switch exhaustively over Kind.
type SceneElement interface {
	Kind() SceneKind
	Bounds() BBox
}

// PageScene is the flat, untagged input to layout reconstruction: the
// drawing primitives of a single page plus its interactive form fields.
// It carries no structural intent; that is what the pipeline recovers.
// A PageScene is immutable once constructed.
type PageScene struct {
	// Width and Height are the page dimensions in page-space units.
	Width  float64
	Height float64

	// Elements are the drawing primitives in original stream order.
	Elements []SceneElement

	// Fields are the page's form fields.
	Fields []FormField
}

// Texts returns the text elements of the scene in stream order.
func (s *PageScene) Texts() []TextElement {
	var out []TextElement
	for _, el := range s.Elements {
		if t, ok := el.(TextElement); ok {
			out = append(out, t)
		}
	}
	return out
}

// Rects returns the rectangle elements of the scene in stream order.
func (s *PageScene) Rects() []RectElement {
	var out []RectElement
	for _, el := range s.Elements {
		if r, ok := el.(RectElement); ok {
			out = append(out, r)
		}
	}
	return out
}

// Paths returns the path elements of the scene in stream order.
func (s *PageScene) Paths() []PathElement {
	var out []PathElement
	for _, el := range s.Elements {
		if p, ok := el.(PathElement); ok {
			out = append(out, p)
		}
	}
	return out
}

// Images returns the image elements of the scene in stream order.
func (s *PageScene) Images() []ImageElement {
	var out []ImageElement
	for _, el := range s.Elements {
		if im, ok := el.(ImageElement); ok {
			out = append(out, im)
		}
	}
	return out
}

// TextElement is a positioned run of text produced by the upstream
// content-stream analyzer.
type TextElement struct {
	X, Y     float64
	Width    float64
	Height   float64
	FontSize float64
	Bold     bool
	Italic   bool
	Text     string
}

// Kind returns SceneKindText.
func (t TextElement) Kind() SceneKind { return SceneKindText }

// Bounds returns the bounding box of the text run.
func (t TextElement) Bounds() BBox {
	return BBox{X: t.X, Y: t.Y, Width: math.Abs(t.Width), Height: math.Abs(t.Height)}
}

// RectElement is a filled and/or stroked rectangle. A rect with neither
// stroke nor fill never occurs. Width and Height may be negative,
// reflecting the original drawing direction; call Normalized before
// geometric comparison.
type RectElement struct {
	X, Y   float64
	Width  float64
	Height float64

	// StrokeColor and LineWidth describe the rect's outline; StrokeColor
	// nil means unstroked.
	StrokeColor *Color
	LineWidth   float64

	// FillColor nil means unfilled.
	FillColor *Color
}

// Kind returns SceneKindRect.
func (r RectElement) Kind() SceneKind { return SceneKindRect }

// Bounds returns the normalized bounding box of the rect.
func (r RectElement) Bounds() BBox {
	n := r.Normalized()
	return BBox{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// Normalized returns a copy with non-negative Width and Height, adjusting
// the origin so the rect covers the same page area.
func (r RectElement) Normalized() RectElement {
	n := r
	if n.Width < 0 {
		n.X += n.Width
		n.Width = -n.Width
	}
	if n.Height < 0 {
		n.Y += n.Height
		n.Height = -n.Height
	}
	return n
}

// PathOpKind identifies a path drawing operation.
type PathOpKind int

const (
	PathMoveTo PathOpKind = iota
	PathLineTo
	PathCurveTo
	PathClose
)

// PathOp is a single drawing operation within a path. MoveTo and LineTo
// carry one point; CurveTo carries two control points followed by the end
// point; Close carries none.
type PathOp struct {
	Op     PathOpKind
	Points []Point
}

// PathElement is a vector path. Paths are consumed only by image
// assembly (rasterization of spatial path groups), never by structural
// detection.
type PathElement struct {
	Ops         []PathOp
	FillColor   *Color
	StrokeColor *Color
}

// Kind returns SceneKindPath.
func (p PathElement) Kind() SceneKind { return SceneKindPath }

// Bounds returns the bounding box of all points in the path's operations,
// or a zero box for an empty path.
func (p PathElement) Bounds() BBox {
	first := true
	var minX, minY, maxX, maxY float64
	for _, op := range p.Ops {
		for _, pt := range op.Points {
			if first {
				minX, maxX = pt.X, pt.X
				minY, maxY = pt.Y, pt.Y
				first = false
				continue
			}
			minX = math.Min(minX, pt.X)
			maxX = math.Max(maxX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if first {
		return BBox{}
	}
	return BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ImageElement is a positioned raster image. Genuine marks images that
// belong in the reconstructed layout, as opposed to incidental artifacts
// (tiling patterns, soft masks) that upstream extraction surfaces but a
// faithful document should not place.
type ImageElement struct {
	X, Y    float64
	Width   float64
	Height  float64
	Data    []byte
	Genuine bool
}

// Kind returns SceneKindImage.
func (im ImageElement) Kind() SceneKind { return SceneKindImage }

// Bounds returns the bounding box of the image.
func (im ImageElement) Bounds() BBox {
	return BBox{X: im.X, Y: im.Y, Width: math.Abs(im.Width), Height: math.Abs(im.Height)}
}

// FieldKind identifies the type of a form field. Only text-input fields
// participate in spatial table inference.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldCheckbox
	FieldRadio
	FieldChoice
	FieldSignature
)

// String returns a string representation of the field kind.
func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldCheckbox:
		return "checkbox"
	case FieldRadio:
		return "radio"
	case FieldChoice:
		return "choice"
	case FieldSignature:
		return "signature"
	default:
		return "unknown"
	}
}

// FormField is an interactive input widget on the page.
type FormField struct {
	X, Y   float64
	Width  float64
	Height float64
	Type   FieldKind
}

// Bounds returns the bounding box of the field.
func (f FormField) Bounds() BBox {
	return BBox{X: f.X, Y: f.Y, Width: math.Abs(f.Width), Height: math.Abs(f.Height)}
}
