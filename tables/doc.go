// Package tables reconstructs tabular structure from positioned page
// primitives. Two independent strategies are provided:
//
//   - VectorDetector recovers tables from stroked border rectangles: it
//     groups connected borders with union-find, clusters their edges into
//     grid lines, verifies the resulting cells against the source
//     geometry, and detects merged cells, per-cell styling, and labels
//     sitting just outside the grid.
//
//   - FieldDetector is a fallback for borderless forms: it infers a grid
//     purely from the row/column alignment of text-input form fields,
//     optionally picking up a textual header row above the fields.
//
// Both detectors are total: a candidate that fails any structural check
// simply yields no table, never an error.
package tables
