// Package raster renders groups of vector paths into PNG images. The
// layout builder hands it the spatially clustered path groups it cannot
// represent structurally; the rendered image is placed in the layout at
// the group's origin.
//
// Oversized or degenerate input yields an empty Rendered value rather
// than an error: callers treat it exactly like "no image produced".
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/Ohio15/relayout/model"
)

// MaxCanvasDim is the largest allowed canvas dimension in device pixels.
const MaxCanvasDim = 4096

// Rendered is the result of rasterizing one path group. A zero value
// means no image was produced.
type Rendered struct {
	// Data is the PNG-encoded image.
	Data []byte

	// WidthPt and HeightPt are the rendered area's dimensions in
	// page-space units.
	WidthPt  float64
	HeightPt float64
}

// IsEmpty reports whether no image was produced.
func (r Rendered) IsEmpty() bool {
	return len(r.Data) == 0 || r.WidthPt <= 0 || r.HeightPt <= 0
}

// Rasterizer renders a group of paths at the given scale (device pixels
// per page-space unit).
type Rasterizer interface {
	Rasterize(ctx context.Context, paths []model.PathElement, scale float64) (Rendered, error)
}

// VectorRasterizer is the default Rasterizer, backed by
// golang.org/x/image/vector.
type VectorRasterizer struct {
	// MaxDim caps the canvas size in device pixels per axis.
	MaxDim int
}

// NewVectorRasterizer creates a rasterizer with the default canvas limit.
func NewVectorRasterizer() *VectorRasterizer {
	return &VectorRasterizer{MaxDim: MaxCanvasDim}
}

// Rasterize renders the paths into a PNG covering their combined
// bounding box. Degenerate input (no geometry, non-positive size, canvas
// beyond the dimension limit) returns an empty Rendered and no error.
func (vr *VectorRasterizer) Rasterize(ctx context.Context, paths []model.PathElement, scale float64) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}
	if len(paths) == 0 || scale <= 0 {
		return Rendered{}, nil
	}

	box := groupBounds(paths)
	if box.IsEmpty() {
		return Rendered{}, nil
	}

	w := int(math.Ceil(box.Width * scale))
	h := int(math.Ceil(box.Height * scale))
	maxDim := vr.MaxDim
	if maxDim <= 0 {
		maxDim = MaxCanvasDim
	}
	if w <= 0 || h <= 0 || w > maxDim || h > maxDim {
		return Rendered{}, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for _, p := range paths {
		vr.drawPath(dst, p, box, scale)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return Rendered{}, fmt.Errorf("encoding path group: %w", err)
	}

	return Rendered{
		Data:     buf.Bytes(),
		WidthPt:  box.Width,
		HeightPt: box.Height,
	}, nil
}

// drawPath fills one path onto the canvas, translated to the group
// origin and scaled to device pixels.
func (vr *VectorRasterizer) drawPath(dst *image.RGBA, p model.PathElement, box model.BBox, scale float64) {
	if len(p.Ops) == 0 {
		return
	}

	r := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	tx := func(pt model.Point) (float32, float32) {
		return float32((pt.X - box.X) * scale), float32((pt.Y - box.Y) * scale)
	}

	open := false
	for _, op := range p.Ops {
		switch op.Op {
		case model.PathMoveTo:
			if len(op.Points) < 1 {
				continue
			}
			x, y := tx(op.Points[0])
			r.MoveTo(x, y)
			open = true
		case model.PathLineTo:
			if !open || len(op.Points) < 1 {
				continue
			}
			x, y := tx(op.Points[0])
			r.LineTo(x, y)
		case model.PathCurveTo:
			if !open || len(op.Points) < 3 {
				continue
			}
			bx, by := tx(op.Points[0])
			cx, cy := tx(op.Points[1])
			dx, dy := tx(op.Points[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		case model.PathClose:
			if open {
				r.ClosePath()
			}
		}
	}
	if !open {
		return
	}

	src := image.NewUniform(toNRGBA(pathColor(p)))
	r.Draw(dst, dst.Bounds(), src, image.Point{})
}

// pathColor picks the path's paint color: fill first, then stroke, then
// black.
func pathColor(p model.PathElement) model.Color {
	switch {
	case p.FillColor != nil:
		return *p.FillColor
	case p.StrokeColor != nil:
		return *p.StrokeColor
	default:
		return model.Color{}
	}
}

func toNRGBA(c model.Color) color.NRGBA {
	clamp := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: 255}
}

// groupBounds unions the bounding boxes of all paths in the group.
func groupBounds(paths []model.PathElement) model.BBox {
	var box model.BBox
	first := true
	for _, p := range paths {
		if len(p.Ops) == 0 {
			continue
		}
		b := p.Bounds()
		if first {
			box = b
			first = false
			continue
		}
		box = box.Union(b)
	}
	return box
}
