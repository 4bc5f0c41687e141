// Package model defines the shared data types for page layout
// reconstruction: basic geometry (Point, BBox, Color), the input scene of
// positioned drawing primitives (PageScene and its tagged element
// variants), and the reconstructed output structure (PageLayout and its
// tagged layout elements).
//
// All coordinates use page-space units with the origin at the top-left
// corner of the page, so larger Y means lower on the page. Element widths
// and heights may arrive signed (reflecting the original drawing
// direction) and must be normalized before geometric comparison; see
// RectElement.Normalized.
package model
