// Package relayout reconstructs the logical structure of a page from a
// flat collection of positioned drawing primitives: text runs,
// rectangles, vector paths, images and form fields go in; tables,
// paragraphs, images and two-column regions come out.
//
// Basic usage:
//
//	page, warnings, err := relayout.Analyze(ctx, scene)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", relayout.FormatWarnings(warnings))
//	}
//	for _, table := range page.Tables() {
//	    fmt.Println(table)
//	}
//
// For advanced use cases, the lower-level layout, tables and rects
// packages are also available.
package relayout

import (
	"context"
	"strings"

	"github.com/Ohio15/relayout/layout"
	"github.com/Ohio15/relayout/model"
)

// Warning describes a non-fatal issue encountered during reconstruction.
type Warning = layout.Warning

// Config bundles the configuration of every reconstruction stage.
type Config = layout.BuilderConfig

// DefaultConfig returns the default configuration for all stages.
func DefaultConfig() Config {
	return layout.DefaultBuilderConfig()
}

// Analyze reconstructs the logical layout of one page scene using the
// default configuration.
//
// Example:
//
//	page, warnings, err := relayout.Analyze(ctx, scene)
func Analyze(ctx context.Context, scene *model.PageScene) (*model.PageLayout, []Warning, error) {
	return layout.NewBuilder().Build(ctx, scene)
}

// AnalyzeWithConfig reconstructs the logical layout of one page scene
// with custom configuration.
func AnalyzeWithConfig(ctx context.Context, scene *model.PageScene, config Config) (*model.PageLayout, []Warning, error) {
	return layout.NewBuilderWithConfig(config).Build(ctx, scene)
}

// FormatWarnings renders warnings as a single semicolon-separated line
// for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustLayout is a helper that wraps a call to Analyze and panics if the
// error is non-nil. It discards warnings and returns just the layout.
//
// Example:
//
//	page := relayout.MustLayout(relayout.Analyze(ctx, scene))
func MustLayout[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
