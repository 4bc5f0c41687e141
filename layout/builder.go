package layout

import (
	"context"
	"sort"

	"github.com/Ohio15/relayout/internal/unionfind"
	"github.com/Ohio15/relayout/model"
	"github.com/Ohio15/relayout/raster"
	"github.com/Ohio15/relayout/rects"
	"github.com/Ohio15/relayout/tables"
)

// spacingNoise is the smallest inter-paragraph gap worth recording.
const spacingNoise = 2.0

// Page margins inferred from content extents are clamped to this range.
const (
	marginMin = 36.0
	marginMax = 108.0
)

// TextRecognizer recovers text from an encoded raster image. It is the
// seam through which an OCR engine plugs into the builder; *ocr.Client
// satisfies it.
type TextRecognizer interface {
	RecognizeImage(ctx context.Context, imageData []byte) (string, error)
}

// BuilderConfig bundles the configuration of every reconstruction stage.
type BuilderConfig struct {
	Rect        rects.Config
	VectorTable tables.VectorConfig
	FieldTable  tables.FieldConfig
	Paragraph   ParagraphConfig
	Style       StyleConfig
	TwoColumn   TwoColumnConfig

	// PathGroupGap is the maximum distance between two vector paths for
	// them to be rasterized as one drawing.
	PathGroupGap float64

	// RasterScale is the device-pixel density used when rasterizing path
	// groups, in pixels per page-space unit.
	RasterScale float64
}

// DefaultBuilderConfig returns the default configuration for all stages.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Rect:         rects.DefaultConfig(),
		VectorTable:  tables.DefaultVectorConfig(),
		FieldTable:   tables.DefaultFieldConfig(),
		Paragraph:    DefaultParagraphConfig(),
		Style:        DefaultStyleConfig(),
		TwoColumn:    DefaultTwoColumnConfig(),
		PathGroupGap: 25,
		RasterScale:  2,
	}
}

// Builder runs the full reconstruction pipeline over a page scene:
// rectangle classification, table detection (vector borders first, then
// form-field alignment), image and drawing placement, paragraph
// grouping, styling, two-column detection and page metric inference.
type Builder struct {
	config     BuilderConfig
	rasterizer raster.Rasterizer
	recognizer TextRecognizer
}

// NewBuilder creates a builder with default configuration and the
// default vector rasterizer. No OCR recognizer is attached.
func NewBuilder() *Builder {
	return NewBuilderWithConfig(DefaultBuilderConfig())
}

// NewBuilderWithConfig creates a builder with custom configuration.
func NewBuilderWithConfig(config BuilderConfig) *Builder {
	return &Builder{
		config:     config,
		rasterizer: raster.NewVectorRasterizer(),
	}
}

// WithRasterizer replaces the path-group rasterizer. A nil rasterizer
// disables drawing rasterization entirely.
func (b *Builder) WithRasterizer(r raster.Rasterizer) *Builder {
	b.rasterizer = r
	return b
}

// WithRecognizer attaches an OCR recognizer used to fill image alt text.
func (b *Builder) WithRecognizer(r TextRecognizer) *Builder {
	b.recognizer = r
	return b
}

// Build reconstructs the logical layout of one page. Structural
// anomalies in the scene degrade into warnings, never errors; the error
// return is reserved for context cancellation.
func (b *Builder) Build(ctx context.Context, scene *model.PageScene) (*model.PageLayout, []Warning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var warnings []Warning

	texts := scene.Texts()
	rawRects := scene.Rects()
	rs := make([]model.RectElement, len(rawRects))
	for i, r := range rawRects {
		rs[i] = r.Normalized()
	}

	classifier := rects.NewClassifierWithConfig(b.config.Rect)
	roles := classifier.Classify(rs, scene.Width, scene.Height)

	vres := tables.NewVectorDetectorWithConfig(b.config.VectorTable).Detect(tables.VectorInput{
		Rects:      rs,
		Roles:      roles,
		Texts:      texts,
		Fields:     scene.Fields,
		PageWidth:  scene.Width,
		PageHeight: scene.Height,
	})

	fres := tables.NewFieldDetectorWithConfig(b.config.FieldTable).Detect(tables.FieldInput{
		Texts:     texts,
		TextUsed:  vres.TextUsed,
		Fields:    scene.Fields,
		FieldUsed: vres.FieldUsed,
	})

	var elements []model.LayoutElement
	for _, t := range vres.Tables {
		elements = append(elements, t)
	}
	for _, t := range fres.Tables {
		elements = append(elements, t)
	}

	images, imgWarnings, err := b.placeImages(ctx, scene)
	warnings = append(warnings, imgWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	for _, im := range images {
		elements = append(elements, im)
	}

	var leftoverTexts []model.TextElement
	for i, t := range texts {
		if !fres.TextUsed[i] {
			leftoverTexts = append(leftoverTexts, t)
		}
	}
	var leftoverFields []model.FormField
	for i, f := range scene.Fields {
		if !fres.FieldUsed[i] {
			leftoverFields = append(leftoverFields, f)
		}
	}

	paras := NewParagraphGrouperWithConfig(b.config.Paragraph).Group(leftoverTexts, leftoverFields)
	NewStyleMapperWithConfig(b.config.Style).Apply(paras, rs, roles, scene.Width)
	for _, p := range paras {
		elements = append(elements, p)
	}

	sortByPosition(elements)
	elements = NewTwoColumnDetectorWithConfig(b.config.TwoColumn).Detect(elements, scene.Width)
	sortByPosition(elements)

	layout := &model.PageLayout{
		Width:    scene.Width,
		Height:   scene.Height,
		Elements: elements,
	}
	layout.ContentBounds = contentBounds(texts, scene.Fields, scene.Width, scene.Height)

	allParas := collectParagraphs(elements)
	layout.BodyFontSize = bodyFontSize(allParas)
	applyHeadingLevels(allParas, layout.BodyFontSize)
	applyParagraphSpacing(allParas)

	return layout, warnings, nil
}

// placeImages converts genuine scene images into image blocks and
// rasterizes clustered vector path groups into synthetic ones.
// Rasterization failures degrade into warnings unless the context was
// cancelled.
func (b *Builder) placeImages(ctx context.Context, scene *model.PageScene) ([]*model.ImageBlock, []Warning, error) {
	var warnings []Warning
	var out []*model.ImageBlock

	for _, im := range scene.Images() {
		if !im.Genuine {
			continue
		}
		block := &model.ImageBlock{
			X:       im.X,
			Y:       im.Y,
			Width:   im.Width,
			Height:  im.Height,
			Data:    im.Data,
			Genuine: true,
		}
		b.fillAltText(ctx, block, &warnings)
		out = append(out, block)
	}

	if b.rasterizer == nil {
		return out, warnings, nil
	}

	for _, group := range b.groupPaths(scene.Paths()) {
		rendered, err := b.rasterizer.Rasterize(ctx, group, b.config.RasterScale)
		if err != nil {
			if ctx.Err() != nil {
				return nil, warnings, ctx.Err()
			}
			warnings = append(warnings, warnf("raster", "rasterizing drawing group: %v", err))
			continue
		}
		if rendered.IsEmpty() {
			continue
		}

		origin := groupOrigin(group)
		block := &model.ImageBlock{
			X:       origin.X,
			Y:       origin.Y,
			Width:   rendered.WidthPt,
			Height:  rendered.HeightPt,
			Data:    rendered.Data,
			Genuine: true,
		}
		b.fillAltText(ctx, block, &warnings)
		out = append(out, block)
	}

	return out, warnings, nil
}

// fillAltText runs the configured recognizer over the image data. OCR
// failures produce a warning and leave the alt text empty.
func (b *Builder) fillAltText(ctx context.Context, block *model.ImageBlock, warnings *[]Warning) {
	if b.recognizer == nil || len(block.Data) == 0 {
		return
	}
	text, err := b.recognizer.RecognizeImage(ctx, block.Data)
	if err != nil {
		*warnings = append(*warnings, warnf("ocr", "recognizing image text: %v", err))
		return
	}
	block.AltText = text
}

// groupPaths clusters vector paths into drawings: paths whose bounds lie
// within PathGroupGap of each other merge into one group.
func (b *Builder) groupPaths(paths []model.PathElement) [][]model.PathElement {
	if len(paths) == 0 {
		return nil
	}

	boxes := make([]model.BBox, len(paths))
	for i, p := range paths {
		boxes[i] = p.Bounds()
	}

	uf := unionfind.New(len(paths))
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if boxes[i].Expand(b.config.PathGroupGap).Intersects(boxes[j]) {
				uf.Union(i, j)
			}
		}
	}

	var groups [][]model.PathElement
	for _, members := range uf.Groups() {
		group := make([]model.PathElement, len(members))
		for k, idx := range members {
			group[k] = paths[idx]
		}
		groups = append(groups, group)
	}
	return groups
}

// groupOrigin returns the top-left corner of a path group's combined
// bounds.
func groupOrigin(group []model.PathElement) model.Point {
	var box model.BBox
	for i, p := range group {
		if i == 0 {
			box = p.Bounds()
			continue
		}
		box = box.Union(p.Bounds())
	}
	return model.Point{X: box.Left(), Y: box.Top()}
}

// contentBounds infers page margins from the extents of text and form
// fields, each edge clamped to the plausible margin range. Returns nil
// when the page carries neither.
func contentBounds(texts []model.TextElement, fields []model.FormField, pageWidth, pageHeight float64) *model.ContentBounds {
	if len(texts) == 0 && len(fields) == 0 {
		return nil
	}

	first := true
	var box model.BBox
	extend := func(b model.BBox) {
		if first {
			box = b
			first = false
			return
		}
		box = box.Union(b)
	}
	for _, t := range texts {
		extend(t.Bounds())
	}
	for _, f := range fields {
		extend(f.Bounds())
	}

	clamp := func(v float64) float64 {
		if v < marginMin {
			return marginMin
		}
		if v > marginMax {
			return marginMax
		}
		return v
	}

	return &model.ContentBounds{
		Left:   clamp(box.Left()),
		Top:    clamp(box.Top()),
		Right:  clamp(pageWidth - box.Right()),
		Bottom: clamp(pageHeight - box.Bottom()),
	}
}

// collectParagraphs gathers every paragraph in document order, including
// those nested inside two-column regions.
func collectParagraphs(elements []model.LayoutElement) []*model.ParagraphGroup {
	var out []*model.ParagraphGroup
	for _, el := range elements {
		switch v := el.(type) {
		case *model.ParagraphGroup:
			out = append(out, v)
		case *model.TwoColumnRegion:
			out = append(out, collectParagraphs(v.Left)...)
			out = append(out, collectParagraphs(v.Right)...)
		}
	}
	return out
}

// applyParagraphSpacing records the vertical gaps between consecutive
// paragraphs and each paragraph's right content edge. Gaps at or below
// measurement noise stay zero.
func applyParagraphSpacing(paras []*model.ParagraphGroup) {
	sorted := make([]*model.ParagraphGroup, len(paras))
	copy(sorted, paras)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bounds().Top() < sorted[j].Bounds().Top()
	})

	for i, p := range sorted {
		p.RightEdge = p.Bounds().Right()
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		gap := p.Bounds().Top() - prev.Bounds().Bottom()
		if gap > spacingNoise {
			prev.SpacingAfter = gap
			p.SpacingBefore = gap
		}
	}
}

func sortByPosition(elements []model.LayoutElement) {
	sort.SliceStable(elements, func(i, j int) bool {
		bi, bj := elements[i].Bounds(), elements[j].Bounds()
		if bi.Top() != bj.Top() {
			return bi.Top() < bj.Top()
		}
		return bi.Left() < bj.Left()
	})
}
