// Package layout turns the flat primitives of a page into its logical
// structure. The Builder orchestrates the full pipeline: rectangle
// classification, vector and form-field table detection, paragraph
// grouping, rect-to-paragraph styling, image and path-group integration,
// two-column region detection, heading and spacing analysis, and the
// final reading-order sequence.
//
// The pipeline is a pure transform from model.PageScene to
// model.PageLayout: no state survives between pages, and separate pages
// may be processed concurrently without coordination. Its only suspension
// points are the external rasterization and text-recognition calls, whose
// failures surface as warnings rather than errors.
package layout
