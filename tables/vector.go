package tables

import (
	"math"
	"sort"

	"github.com/Ohio15/relayout/internal/unionfind"
	"github.com/Ohio15/relayout/model"
	"github.com/Ohio15/relayout/rects"
)

// Thresholds for per-cell styling inference.
const (
	// edgeOverlapRatio is the fraction of a cell edge a border rect must
	// cover to act as that edge's override.
	edgeOverlapRatio = 0.3

	// paddingNoise is the minimum inferred padding worth recording.
	paddingNoise = 2.0

	// valignSlack is the minimum free space between text height and cell
	// height for vertical alignment to be meaningful.
	valignSlack = 6.0

	// Gap-above ratio cutoffs classifying vertical alignment.
	valignTopRatio    = 0.3
	valignBottomRatio = 0.7
)

// VectorConfig holds tolerances for border-based table detection.
type VectorConfig struct {
	// BridgeGap is the expansion applied when testing whether two border
	// rects are connected, bridging the consistent spacing many forms use
	// between adjacent field boxes. Default: 8 units.
	BridgeGap float64

	// EdgeTolerance is the clustering tolerance for grid line positions.
	// Default: 2 units.
	EdgeTolerance float64

	// MinCellSize is the minimum distance between grid boundaries;
	// boundaries closer than this collapse into the preceding one,
	// removing spurious gap columns and rows. Default: 10 units.
	MinCellSize float64

	// MinVerifiedRatio is the fraction of provisional cells that must be
	// backed by border geometry for the candidate to count as a table.
	// Default: 0.5.
	MinVerifiedRatio float64

	// LabelReach is how far left of the first column a text run may sit
	// and still be absorbed as a row label. Default: 120 units.
	LabelReach float64

	// HeaderGap is the maximum vertical distance between the grid and a
	// text run absorbed as header or footer text. Default: 30 units.
	HeaderGap float64
}

// DefaultVectorConfig returns the default detection tolerances.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		BridgeGap:        8.0,
		EdgeTolerance:    2.0,
		MinCellSize:      10.0,
		MinVerifiedRatio: 0.5,
		LabelReach:       120.0,
		HeaderGap:        30.0,
	}
}

// VectorInput is the material for one detection pass: the page's rects
// with their classified roles (index-parallel), and the text and field
// primitives available for cell assignment.
type VectorInput struct {
	Rects  []model.RectElement
	Roles  []rects.Role
	Texts  []model.TextElement
	Fields []model.FormField

	PageWidth  float64
	PageHeight float64
}

// VectorResult carries the detected tables plus index-parallel consumption
// flags for the input texts and fields.
type VectorResult struct {
	Tables    []*model.DetectedTable
	TextUsed  []bool
	FieldUsed []bool
}

// VectorDetector reconstructs tables from stroked border rectangles.
type VectorDetector struct {
	config VectorConfig
}

// NewVectorDetector creates a detector with default configuration.
func NewVectorDetector() *VectorDetector {
	return &VectorDetector{config: DefaultVectorConfig()}
}

// NewVectorDetectorWithConfig creates a detector with custom configuration.
func NewVectorDetectorWithConfig(config VectorConfig) *VectorDetector {
	return &VectorDetector{config: config}
}

// Detect finds all vector-bordered tables in the input. Candidates that
// fail any structural check yield no table; Detect never fails.
func (d *VectorDetector) Detect(in VectorInput) *VectorResult {
	res := &VectorResult{
		TextUsed:  make([]bool, len(in.Texts)),
		FieldUsed: make([]bool, len(in.Fields)),
	}

	// Collect border and fill rects, normalized, keeping source indices.
	var borders []model.RectElement
	var fills []model.RectElement
	for i, r := range in.Rects {
		if i >= len(in.Roles) {
			break
		}
		switch in.Roles[i] {
		case rects.RoleTableBorder:
			borders = append(borders, r.Normalized())
		case rects.RoleCellFill:
			fills = append(fills, r.Normalized())
		}
	}
	if len(borders) == 0 {
		return res
	}

	// Partition borders into connected components; each is a candidate.
	uf := unionfind.New(len(borders))
	for i := 0; i < len(borders); i++ {
		bi := borders[i].Bounds().Expand(d.config.BridgeGap)
		for j := i + 1; j < len(borders); j++ {
			if bi.Intersects(borders[j].Bounds()) {
				uf.Union(i, j)
			}
		}
	}

	for _, group := range uf.Groups() {
		members := make([]model.RectElement, len(group))
		for k, idx := range group {
			members[k] = borders[idx]
		}
		if table := d.detectInGroup(members, fills, in, res); table != nil {
			res.Tables = append(res.Tables, table)
		}
	}

	return res
}

// detectInGroup runs steps 2-12 on one connected border group.
func (d *VectorDetector) detectInGroup(group, fills []model.RectElement, in VectorInput, res *VectorResult) *model.DetectedTable {
	// Cluster edge values into grid boundaries.
	var xs, ys []float64
	for _, r := range group {
		b := r.Bounds()
		xs = append(xs, b.Left(), b.Right())
		ys = append(ys, b.Top(), b.Bottom())
	}
	colBounds := d.collapseBoundaries(d.clusterValues(xs))
	rowBounds := d.collapseBoundaries(d.clusterValues(ys))

	cols := len(colBounds) - 1
	rows := len(rowBounds) - 1
	if cols < 2 || rows < 2 {
		return nil
	}

	// Verify provisional cells against the source geometry.
	verified := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cellBox := gridCellBox(colBounds, rowBounds, r, c, 1, 1)
			for _, br := range group {
				if br.Bounds().Expand(d.config.EdgeTolerance).Intersects(cellBox) {
					verified++
					break
				}
			}
		}
	}
	if float64(verified) < d.config.MinVerifiedRatio*float64(rows*cols) {
		return nil
	}

	// Detect merges over the provisional grid. consumed marks positions
	// absorbed by a spanning cell; owner maps every position to its
	// origin cell.
	consumed := make([]bool, rows*cols)
	owner := make([]int, rows*cols)
	var cells []*model.DetectedCell

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if consumed[r*cols+c] {
				continue
			}

			colSpan := 1
			for c+colSpan < cols &&
				!consumed[r*cols+c+colSpan] &&
				!d.hasVerticalEdge(group, colBounds[c+colSpan], rowBounds[r], rowBounds[r+1]) {
				colSpan++
			}

			rowSpan := 1
			for r+rowSpan < rows {
				blocked := d.hasHorizontalEdge(group, rowBounds[r+rowSpan], colBounds[c], colBounds[c+colSpan])
				for cc := c; cc < c+colSpan && !blocked; cc++ {
					blocked = consumed[(r+rowSpan)*cols+cc]
				}
				if blocked {
					break
				}
				rowSpan++
			}

			cell := &model.DetectedCell{
				Row: r, Col: c,
				RowSpan: rowSpan, ColSpan: colSpan,
				BBox: gridCellBox(colBounds, rowBounds, r, c, rowSpan, colSpan),
			}
			idx := len(cells)
			cells = append(cells, cell)
			for rr := r; rr < r+rowSpan; rr++ {
				for cc := c; cc < c+colSpan; cc++ {
					consumed[rr*cols+cc] = true
					owner[rr*cols+cc] = idx
				}
			}
		}
	}

	// Assign content by center-point containment.
	for _, fr := range fills {
		if row, col, ok := FindContainingCell(fr.Bounds().Center(), colBounds, rowBounds); ok {
			cell := cells[owner[row*cols+col]]
			if cell.FillColor == nil && fr.FillColor != nil {
				fc := *fr.FillColor
				cell.FillColor = &fc
			}
		}
	}
	for i, t := range in.Texts {
		if res.TextUsed[i] {
			continue
		}
		if row, col, ok := FindContainingCell(t.Bounds().Center(), colBounds, rowBounds); ok {
			cells[owner[row*cols+col]].Texts = append(cells[owner[row*cols+col]].Texts, t)
			res.TextUsed[i] = true
		}
	}
	for i, f := range in.Fields {
		if res.FieldUsed[i] {
			continue
		}
		if row, col, ok := FindContainingCell(f.Bounds().Center(), colBounds, rowBounds); ok {
			cells[owner[row*cols+col]].Fields = append(cells[owner[row*cols+col]].Fields, f)
			res.FieldUsed[i] = true
		}
	}

	// Absorb labels sitting just outside the grid.
	leftEdge := d.absorbRowLabels(cells, owner, colBounds, rowBounds, cols, in, res)
	d.absorbHeaderFooter(cells, owner, colBounds, rowBounds, rows, cols, leftEdge, in, res)

	table := &model.DetectedTable{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
		BBox: model.BBox{
			X:      leftEdge,
			Y:      rowBounds[0],
			Width:  colBounds[cols] - leftEdge,
			Height: rowBounds[rows] - rowBounds[0],
		},
	}

	table.ColWidths = make([]float64, cols)
	for c := 0; c < cols; c++ {
		table.ColWidths[c] = colBounds[c+1] - colBounds[c]
	}
	table.ColWidths[0] = colBounds[1] - leftEdge
	table.RowHeights = make([]float64, rows)
	for r := 0; r < rows; r++ {
		table.RowHeights[r] = rowBounds[r+1] - rowBounds[r]
	}

	table.BorderColor, table.BorderWidth = dominantBorder(group)

	d.applyCellBorders(table, group)
	d.applyCellMetrics(cells)

	return table
}

// clusterValues clusters nearby values within the edge tolerance and
// returns the mean of each cluster, sorted ascending.
func (d *VectorDetector) clusterValues(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)

	var out []float64
	start := 0
	for i := 1; i <= len(values); i++ {
		if i == len(values) || values[i]-values[i-1] > d.config.EdgeTolerance {
			sum := 0.0
			for _, v := range values[start:i] {
				sum += v
			}
			out = append(out, sum/float64(i-start))
			start = i
		}
	}
	return out
}

// collapseBoundaries drops boundaries closer than the minimum cell size
// to the previously kept one.
func (d *VectorDetector) collapseBoundaries(bounds []float64) []float64 {
	if len(bounds) == 0 {
		return nil
	}
	out := []float64{bounds[0]}
	for _, b := range bounds[1:] {
		if b-out[len(out)-1] >= d.config.MinCellSize {
			out = append(out, b)
		}
	}
	return out
}

// hasVerticalEdge reports whether any border rect presents a vertical
// edge at x covering the row range [y0, y1].
func (d *VectorDetector) hasVerticalEdge(group []model.RectElement, x, y0, y1 float64) bool {
	tol := d.config.EdgeTolerance
	for _, r := range group {
		b := r.Bounds()
		if math.Abs(b.Left()-x) > tol && math.Abs(b.Right()-x) > tol {
			continue
		}
		if math.Min(b.Bottom(), y1)-math.Max(b.Top(), y0) > tol {
			return true
		}
	}
	return false
}

// hasHorizontalEdge reports whether any border rect presents a horizontal
// edge at y overlapping the column range [x0, x1].
func (d *VectorDetector) hasHorizontalEdge(group []model.RectElement, y, x0, x1 float64) bool {
	tol := d.config.EdgeTolerance
	for _, r := range group {
		b := r.Bounds()
		if math.Abs(b.Top()-y) > tol && math.Abs(b.Bottom()-y) > tol {
			continue
		}
		if math.Min(b.Right(), x1)-math.Max(b.Left(), x0) > tol {
			return true
		}
	}
	return false
}

// absorbRowLabels appends text sitting within reach left of the first
// column to the leftmost cell of its row, and returns the table's left
// edge after widening the first column to include those labels.
func (d *VectorDetector) absorbRowLabels(cells []*model.DetectedCell, owner []int, colBounds, rowBounds []float64, cols int, in VectorInput, res *VectorResult) float64 {
	leftEdge := colBounds[0]

	for i, t := range in.Texts {
		if res.TextUsed[i] {
			continue
		}
		b := t.Bounds()
		if b.Right() > colBounds[0]+d.config.EdgeTolerance {
			continue
		}
		if colBounds[0]-b.Left() > d.config.LabelReach {
			continue
		}

		row := -1
		cy := b.Center().Y
		for r := 0; r < len(rowBounds)-1; r++ {
			if cy >= rowBounds[r] && cy <= rowBounds[r+1] {
				row = r
				break
			}
		}
		if row < 0 {
			continue
		}

		cell := cells[owner[row*cols]]
		cell.Texts = append(cell.Texts, t)
		res.TextUsed[i] = true
		if b.Left() < leftEdge {
			leftEdge = b.Left()
		}
	}

	if leftEdge < colBounds[0] {
		// Widen the first column's cells to the new edge.
		for _, cell := range cells {
			if cell.Col == 0 {
				cell.BBox.Width += cell.BBox.X - leftEdge
				cell.BBox.X = leftEdge
			}
		}
	}

	return leftEdge
}

// absorbHeaderFooter appends text immediately above or below the grid
// that horizontally aligns with a column to the first or last row.
func (d *VectorDetector) absorbHeaderFooter(cells []*model.DetectedCell, owner []int, colBounds, rowBounds []float64, rows, cols int, leftEdge float64, in VectorInput, res *VectorResult) {
	tol := d.config.EdgeTolerance

	colAt := func(x float64) int {
		for c := 0; c < cols; c++ {
			left := colBounds[c]
			if c == 0 {
				left = leftEdge
			}
			if x >= left-tol && x <= colBounds[c+1]+tol {
				return c
			}
		}
		return -1
	}

	for i, t := range in.Texts {
		if res.TextUsed[i] {
			continue
		}
		b := t.Bounds()
		col := colAt(b.Center().X)
		if col < 0 {
			continue
		}

		switch {
		case b.Bottom() <= rowBounds[0]+tol && rowBounds[0]-b.Bottom() <= d.config.HeaderGap:
			cell := cells[owner[col]]
			cell.Texts = append(cell.Texts, t)
			res.TextUsed[i] = true

		case b.Top() >= rowBounds[rows]-tol && b.Top()-rowBounds[rows] <= d.config.HeaderGap:
			cell := cells[owner[(rows-1)*cols+col]]
			cell.Texts = append(cell.Texts, t)
			res.TextUsed[i] = true
		}
	}
}

// applyCellBorders records per-edge border overrides: the first border
// rect substantially covering a cell edge whose stroke differs from the
// table-level border.
func (d *VectorDetector) applyCellBorders(table *model.DetectedTable, group []model.RectElement) {
	tol := d.config.EdgeTolerance

	for _, cell := range table.Cells {
		var borders model.CellBorders
		found := false

		check := func(horizontal bool, pos, lo, hi float64) *model.BorderEdge {
			need := edgeOverlapRatio * (hi - lo)
			for _, r := range group {
				if r.StrokeColor == nil {
					continue
				}
				b := r.Bounds()
				var near bool
				var overlap float64
				if horizontal {
					near = math.Abs(b.Top()-pos) <= tol || math.Abs(b.Bottom()-pos) <= tol
					overlap = math.Min(b.Right(), hi) - math.Max(b.Left(), lo)
				} else {
					near = math.Abs(b.Left()-pos) <= tol || math.Abs(b.Right()-pos) <= tol
					overlap = math.Min(b.Bottom(), hi) - math.Max(b.Top(), lo)
				}
				if !near || overlap < need {
					continue
				}
				edge := &model.BorderEdge{Color: *r.StrokeColor, Width: r.LineWidth}
				if sameBorder(edge, table.BorderColor, table.BorderWidth) {
					return nil
				}
				return edge
			}
			return nil
		}

		box := cell.BBox
		if e := check(true, box.Top(), box.Left(), box.Right()); e != nil {
			borders.Top = e
			found = true
		}
		if e := check(true, box.Bottom(), box.Left(), box.Right()); e != nil {
			borders.Bottom = e
			found = true
		}
		if e := check(false, box.Left(), box.Top(), box.Bottom()); e != nil {
			borders.Left = e
			found = true
		}
		if e := check(false, box.Right(), box.Top(), box.Bottom()); e != nil {
			borders.Right = e
			found = true
		}

		if found {
			b := borders
			cell.Borders = &b
		}
	}
}

// sameBorder reports whether an edge matches the table-level border
// within color and width noise.
func sameBorder(e *model.BorderEdge, color *model.Color, width float64) bool {
	if color == nil {
		return false
	}
	const eps = 0.01
	return math.Abs(e.Color.R-color.R) < eps &&
		math.Abs(e.Color.G-color.G) < eps &&
		math.Abs(e.Color.B-color.B) < eps &&
		math.Abs(e.Width-width) < 0.25
}

// applyCellMetrics derives padding and vertical alignment from each
// cell's assigned text against the cell's own bounds.
func (d *VectorDetector) applyCellMetrics(cells []*model.DetectedCell) {
	for _, cell := range cells {
		if len(cell.Texts) == 0 {
			continue
		}

		textBox := cell.Texts[0].Bounds()
		for _, t := range cell.Texts[1:] {
			textBox = textBox.Union(t.Bounds())
		}

		var pad model.CellPadding
		havePad := false
		if v := textBox.Left() - cell.BBox.Left(); v > paddingNoise {
			pad.Left = v
			havePad = true
		}
		if v := textBox.Top() - cell.BBox.Top(); v > paddingNoise {
			pad.Top = v
			havePad = true
		}
		if v := cell.BBox.Right() - textBox.Right(); v > paddingNoise {
			pad.Right = v
			havePad = true
		}
		if v := cell.BBox.Bottom() - textBox.Bottom(); v > paddingNoise {
			pad.Bottom = v
			havePad = true
		}
		if havePad {
			p := pad
			cell.Padding = &p
		}

		slack := cell.BBox.Height - textBox.Height
		if slack > valignSlack {
			above := textBox.Top() - cell.BBox.Top()
			below := cell.BBox.Bottom() - textBox.Bottom()
			total := above + below
			if total > 0 {
				switch ratio := above / total; {
				case ratio < valignTopRatio:
					cell.VAlign = model.VAlignTop
				case ratio > valignBottomRatio:
					cell.VAlign = model.VAlignBottom
				default:
					cell.VAlign = model.VAlignCenter
				}
			}
		}
	}
}

// dominantBorder computes the table-level border as the median stroke
// color (ordered by luminance) and median line width of the source rects.
func dominantBorder(group []model.RectElement) (*model.Color, float64) {
	var colors []model.Color
	var widths []float64
	for _, r := range group {
		if r.StrokeColor != nil {
			colors = append(colors, *r.StrokeColor)
			widths = append(widths, r.LineWidth)
		}
	}
	if len(colors) == 0 {
		return nil, 0
	}

	sort.Slice(colors, func(i, j int) bool {
		return colors[i].Luminance() < colors[j].Luminance()
	})
	sort.Float64s(widths)

	c := colors[len(colors)/2]
	return &c, widths[len(widths)/2]
}

// gridCellBox returns the page-space box of the grid region anchored at
// (row, col) spanning rowSpan x colSpan positions.
func gridCellBox(colBounds, rowBounds []float64, row, col, rowSpan, colSpan int) model.BBox {
	return model.BBox{
		X:      colBounds[col],
		Y:      rowBounds[row],
		Width:  colBounds[col+colSpan] - colBounds[col],
		Height: rowBounds[row+rowSpan] - rowBounds[row],
	}
}

// FindContainingCell returns the grid position whose bounds contain the
// query point, for monotonically increasing column and row boundaries.
// Points on an interior boundary resolve to the lower-indexed position;
// points outside the grid report ok = false.
func FindContainingCell(p model.Point, colBounds, rowBounds []float64) (row, col int, ok bool) {
	if len(colBounds) < 2 || len(rowBounds) < 2 {
		return 0, 0, false
	}

	col = -1
	for c := 0; c < len(colBounds)-1; c++ {
		if p.X >= colBounds[c] && p.X <= colBounds[c+1] {
			col = c
			break
		}
	}
	row = -1
	for r := 0; r < len(rowBounds)-1; r++ {
		if p.Y >= rowBounds[r] && p.Y <= rowBounds[r+1] {
			row = r
			break
		}
	}

	if row < 0 || col < 0 {
		return 0, 0, false
	}
	return row, col, true
}
