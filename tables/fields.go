package tables

import (
	"math"
	"sort"

	"github.com/Ohio15/relayout/model"
)

// FieldConfig holds tolerances for form-field table inference.
type FieldConfig struct {
	// RowTolerance is the Y-center band grouping fields into rows.
	// Default: 8 units.
	RowTolerance float64

	// ColTolerance is the X-start tolerance for column alignment across
	// rows. Default: 15 units.
	ColTolerance float64

	// HeaderGap is the maximum vertical distance between a header text
	// row and the first field row. Default: 30 units.
	HeaderGap float64

	// MinFields is the minimum number of unclaimed text-input fields for
	// the detector to activate. Default: 4.
	MinFields int

	// FontSizeSpread is the allowed relative deviation from the median
	// font size within a header row, and the excess over body size that
	// marks a text as a section header. Default: 0.2.
	FontSizeSpread float64

	// HeaderWidthRatio caps header text width relative to the average
	// field width. Default: 1.5.
	HeaderWidthRatio float64
}

// DefaultFieldConfig returns the default inference tolerances.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		RowTolerance:     8.0,
		ColTolerance:     15.0,
		HeaderGap:        30.0,
		MinFields:        4,
		FontSizeSpread:   0.2,
		HeaderWidthRatio: 1.5,
	}
}

// FieldInput is the material for one inference pass. TextUsed and
// FieldUsed carry consumption state from earlier detection stages; nil
// means nothing is consumed yet.
type FieldInput struct {
	Texts     []model.TextElement
	TextUsed  []bool
	Fields    []model.FormField
	FieldUsed []bool
}

// FieldResult carries the inferred tables plus updated consumption flags.
type FieldResult struct {
	Tables    []*model.DetectedTable
	TextUsed  []bool
	FieldUsed []bool
}

// FieldDetector infers tabular structure from the spatial alignment of
// text-input form fields when no vector borders exist.
type FieldDetector struct {
	config FieldConfig
}

// NewFieldDetector creates a detector with default configuration.
func NewFieldDetector() *FieldDetector {
	return &FieldDetector{config: DefaultFieldConfig()}
}

// NewFieldDetectorWithConfig creates a detector with custom configuration.
func NewFieldDetectorWithConfig(config FieldConfig) *FieldDetector {
	return &FieldDetector{config: config}
}

// fieldRow is one Y-band of fields, sorted by X.
type fieldRow struct {
	indices []int
	centerY float64
}

// Detect infers tables from field alignment. It never fails; input that
// does not look tabular yields no tables.
func (d *FieldDetector) Detect(in FieldInput) *FieldResult {
	res := &FieldResult{
		TextUsed:  copyFlags(in.TextUsed, len(in.Texts)),
		FieldUsed: copyFlags(in.FieldUsed, len(in.Fields)),
	}

	var candidates []int
	for i, f := range in.Fields {
		if !res.FieldUsed[i] && f.Type == model.FieldText {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < d.config.MinFields {
		return res
	}

	rows := d.clusterRows(candidates, in.Fields)

	// Run-based detection: consecutive rows with identical counts and
	// aligned column starts.
	rowConsumed := make([]bool, len(rows))
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) &&
			len(rows[end].indices) == len(rows[start].indices) &&
			d.columnsAligned(rows[end-1], rows[end], in.Fields) {
			end++
		}

		n := len(rows[start].indices)
		runLen := end - start
		if n >= 2 && runLen >= 2 {
			header := d.findHeaderRow(rows[start], in, res)
			res.Tables = append(res.Tables, d.buildTable(rows[start:end], header, in, res))
			for i := start; i < end; i++ {
				rowConsumed[i] = true
			}
		} else if n >= 2 && runLen == 1 {
			// A single row still qualifies when a matching header row
			// sits above it.
			if header := d.findHeaderRow(rows[start], in, res); len(header) >= 2 {
				res.Tables = append(res.Tables, d.buildTable(rows[start:end], header, in, res))
				rowConsumed[start] = true
			}
		}
		start = end
	}

	// Paired-row detection: leftover consecutive rows of exactly two
	// fields form their own 2-column tables even without strict column
	// alignment.
	for start := 0; start < len(rows); {
		if rowConsumed[start] || len(rows[start].indices) != 2 {
			start++
			continue
		}
		end := start + 1
		for end < len(rows) && !rowConsumed[end] && len(rows[end].indices) == 2 {
			end++
		}
		if end-start >= 2 {
			res.Tables = append(res.Tables, d.buildTable(rows[start:end], nil, in, res))
			for i := start; i < end; i++ {
				rowConsumed[i] = true
			}
		}
		start = end
	}

	return res
}

// clusterRows groups fields into Y-bands, updating each band's running
// mean center as members join, then sorts bands top to bottom and fields
// within a band left to right.
func (d *FieldDetector) clusterRows(indices []int, fields []model.FormField) []fieldRow {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Slice(sorted, func(i, j int) bool {
		return fields[sorted[i]].Bounds().Center().Y < fields[sorted[j]].Bounds().Center().Y
	})

	var rows []fieldRow
	for _, idx := range sorted {
		cy := fields[idx].Bounds().Center().Y
		placed := false
		for r := range rows {
			if math.Abs(rows[r].centerY-cy) <= d.config.RowTolerance {
				n := float64(len(rows[r].indices))
				rows[r].centerY = (rows[r].centerY*n + cy) / (n + 1)
				rows[r].indices = append(rows[r].indices, idx)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, fieldRow{indices: []int{idx}, centerY: cy})
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].centerY < rows[j].centerY })
	for r := range rows {
		row := rows[r]
		sort.Slice(row.indices, func(i, j int) bool {
			return fields[row.indices[i]].X < fields[row.indices[j]].X
		})
	}
	return rows
}

// columnsAligned reports whether two rows of equal field count have every
// column's X start matching within the column tolerance.
func (d *FieldDetector) columnsAligned(a, b fieldRow, fields []model.FormField) bool {
	if len(a.indices) != len(b.indices) {
		return false
	}
	for j := range a.indices {
		if math.Abs(fields[a.indices[j]].X-fields[b.indices[j]].X) > d.config.ColTolerance {
			return false
		}
	}
	return true
}

// findHeaderRow locates text runs immediately above the first field row
// that align with its columns: close enough vertically, no wider than the
// header width cap (section headers are wider), and sharing a consistent
// font size. Returns the indices of the header texts.
func (d *FieldDetector) findHeaderRow(first fieldRow, in FieldInput, res *FieldResult) []int {
	rowTop := math.Inf(1)
	avgWidth := 0.0
	for _, idx := range first.indices {
		b := in.Fields[idx].Bounds()
		rowTop = math.Min(rowTop, b.Top())
		avgWidth += b.Width
	}
	avgWidth /= float64(len(first.indices))

	var found []int
	for i, t := range in.Texts {
		if res.TextUsed[i] {
			continue
		}
		b := t.Bounds()
		if b.Bottom() > rowTop || rowTop-b.Bottom() > d.config.HeaderGap {
			continue
		}
		if b.Width > d.config.HeaderWidthRatio*avgWidth {
			continue
		}
		if d.columnFor(b.Center().X, first, in.Fields) < 0 {
			continue
		}
		found = append(found, i)
	}
	if len(found) == 0 {
		return nil
	}

	// Require a consistent font size across the header row.
	sizes := make([]float64, len(found))
	for k, i := range found {
		sizes[k] = in.Texts[i].FontSize
	}
	sort.Float64s(sizes)
	median := sizes[len(sizes)/2]

	var kept []int
	for _, i := range found {
		if median > 0 && math.Abs(in.Texts[i].FontSize-median) <= d.config.FontSizeSpread*median {
			kept = append(kept, i)
		}
	}
	return kept
}

// columnFor returns the column of the reference row whose X range
// (expanded by the column tolerance) contains x, or -1.
func (d *FieldDetector) columnFor(x float64, row fieldRow, fields []model.FormField) int {
	for j, idx := range row.indices {
		b := fields[idx].Bounds()
		if x >= b.Left()-d.config.ColTolerance && x <= b.Right()+d.config.ColTolerance {
			return j
		}
	}
	return -1
}

// buildTable constructs a DetectedTable from a run of aligned field rows
// and an optional header text row, then sweeps up remaining nearby text
// labels into the closest cells.
func (d *FieldDetector) buildTable(run []fieldRow, header []int, in FieldInput, res *FieldResult) *model.DetectedTable {
	cols := len(run[0].indices)

	// Column boundaries from averaged start X per column; the right edge
	// from the averaged end of the last column.
	colBounds := make([]float64, cols+1)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for _, row := range run {
			sum += in.Fields[row.indices[j]].X
		}
		colBounds[j] = sum / float64(len(run))
	}
	sumEnd := 0.0
	for _, row := range run {
		b := in.Fields[row.indices[cols-1]].Bounds()
		sumEnd += b.Right()
	}
	colBounds[cols] = sumEnd / float64(len(run))

	// Row extents of the field rows.
	tops := make([]float64, len(run))
	bottoms := make([]float64, len(run))
	for i, row := range run {
		top, bottom := math.Inf(1), math.Inf(-1)
		for _, idx := range row.indices {
			b := in.Fields[idx].Bounds()
			top = math.Min(top, b.Top())
			bottom = math.Max(bottom, b.Bottom())
		}
		tops[i] = top
		bottoms[i] = bottom
	}

	headerRows := 0
	if len(header) > 0 {
		headerRows = 1
	}
	rows := len(run) + headerRows

	// Row boundaries at the midpoints between consecutive rows, and
	// above/below the header and outer rows.
	rowBounds := make([]float64, 0, rows+1)
	if headerRows == 1 {
		hTop, hBottom := math.Inf(1), math.Inf(-1)
		for _, i := range header {
			b := in.Texts[i].Bounds()
			hTop = math.Min(hTop, b.Top())
			hBottom = math.Max(hBottom, b.Bottom())
		}
		rowBounds = append(rowBounds, hTop, (hBottom+tops[0])/2)
	} else {
		rowBounds = append(rowBounds, tops[0])
	}
	for i := 1; i < len(run); i++ {
		rowBounds = append(rowBounds, (bottoms[i-1]+tops[i])/2)
	}
	rowBounds = append(rowBounds, bottoms[len(run)-1])

	table := &model.DetectedTable{Rows: rows, Cols: cols}
	table.ColWidths = make([]float64, cols)
	for j := 0; j < cols; j++ {
		table.ColWidths[j] = colBounds[j+1] - colBounds[j]
	}
	table.RowHeights = make([]float64, rows)
	for r := 0; r < rows; r++ {
		table.RowHeights[r] = rowBounds[r+1] - rowBounds[r]
	}
	table.BBox = model.BBox{
		X:      colBounds[0],
		Y:      rowBounds[0],
		Width:  colBounds[cols] - colBounds[0],
		Height: rowBounds[rows] - rowBounds[0],
	}

	cellAt := make([]*model.DetectedCell, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := &model.DetectedCell{
				Row: r, Col: c,
				RowSpan: 1, ColSpan: 1,
				BBox: gridCellBox(colBounds, rowBounds, r, c, 1, 1),
			}
			cellAt[r*cols+c] = cell
			table.Cells = append(table.Cells, cell)
		}
	}

	// Header texts go to row 0 by column membership.
	if headerRows == 1 {
		for _, i := range header {
			if j := d.columnFor(in.Texts[i].Bounds().Center().X, run[0], in.Fields); j >= 0 {
				cellAt[j].Texts = append(cellAt[j].Texts, in.Texts[i])
				res.TextUsed[i] = true
			}
		}
	}

	// Fields go to their row and column.
	for i, row := range run {
		for j, idx := range row.indices {
			cell := cellAt[(i+headerRows)*cols+j]
			cell.Fields = append(cell.Fields, in.Fields[idx])
			res.FieldUsed[idx] = true
		}
	}

	d.sweepLabels(table, cellAt, run, headerRows, rowBounds, in, res)

	return table
}

// sweepLabels assigns remaining text near the table to the closest cell,
// excluding section headers (text much larger than the body size).
func (d *FieldDetector) sweepLabels(table *model.DetectedTable, cellAt []*model.DetectedCell, run []fieldRow, headerRows int, rowBounds []float64, in FieldInput, res *FieldResult) {
	bodySize := medianFontSize(in.Texts)

	for i, t := range in.Texts {
		if res.TextUsed[i] {
			continue
		}
		if bodySize > 0 && t.FontSize > (1+d.config.FontSizeSpread)*bodySize {
			continue
		}

		c := t.Bounds().Center()
		if c.X < table.BBox.Left()-d.config.ColTolerance || c.X > table.BBox.Right()+d.config.ColTolerance {
			continue
		}

		row := -1
		for r := headerRows; r < table.Rows; r++ {
			if c.Y >= rowBounds[r]-d.config.RowTolerance && c.Y <= rowBounds[r+1]+d.config.RowTolerance {
				row = r
				break
			}
		}
		if row < 0 {
			continue
		}

		col := d.columnFor(c.X, run[row-headerRows], in.Fields)
		if col < 0 {
			continue
		}

		cell := cellAt[row*table.Cols+col]
		cell.Texts = append(cell.Texts, t)
		res.TextUsed[i] = true
	}
}

// medianFontSize returns the median font size over all texts, or 0 when
// there are none.
func medianFontSize(texts []model.TextElement) float64 {
	if len(texts) == 0 {
		return 0
	}
	sizes := make([]float64, len(texts))
	for i, t := range texts {
		sizes[i] = t.FontSize
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}

// copyFlags returns a copy of flags grown to n entries.
func copyFlags(flags []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, flags)
	return out
}
