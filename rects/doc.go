// Package rects classifies rectangle primitives by visual role. Every
// rect on a page is labeled as page background, separator rule, table
// border, cell fill, or decorative, and the downstream detectors consume
// those labels read-only: table reconstruction keys off border and fill
// rects, paragraph styling off fills and separators.
package rects
