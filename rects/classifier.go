package rects

import "github.com/Ohio15/relayout/model"

// Role is the visual role assigned to a rectangle primitive.
type Role int

const (
	RoleDecorative Role = iota
	RolePageBackground
	RoleSeparator
	RoleTableBorder
	RoleCellFill
)

// String returns a string representation of the role.
func (r Role) String() string {
	switch r {
	case RolePageBackground:
		return "page-background"
	case RoleSeparator:
		return "separator"
	case RoleTableBorder:
		return "table-border"
	case RoleCellFill:
		return "cell-fill"
	default:
		return "decorative"
	}
}

// Config holds thresholds for rectangle classification.
type Config struct {
	// BackgroundAreaRatio is the fraction of the page area above which a
	// rect is the page background. Default: 0.9.
	BackgroundAreaRatio float64

	// ThinLimit is the dimension below which a rect counts as thin for
	// separator detection. Default: 2 units.
	ThinLimit float64

	// SeparatorSpanRatio is the fraction of the page width or height a
	// thin rect must span to count as a separator. Default: 0.5.
	SeparatorSpanRatio float64
}

// DefaultConfig returns the default classification thresholds.
func DefaultConfig() Config {
	return Config{
		BackgroundAreaRatio: 0.9,
		ThinLimit:           2.0,
		SeparatorSpanRatio:  0.5,
	}
}

// Classifier labels rectangle primitives by visual role.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
func NewClassifierWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// Classify assigns a role to each rect. The result is index-parallel to
// rs; rect identity throughout the pipeline is the slice index. The
// checks apply in priority order: page background, separator, table
// border (stroke takes precedence over any fill), cell fill, decorative.
func (c *Classifier) Classify(rs []model.RectElement, pageWidth, pageHeight float64) []Role {
	roles := make([]Role, len(rs))
	pageArea := pageWidth * pageHeight

	for i, r := range rs {
		n := r.Normalized()

		switch {
		case pageArea > 0 && n.Width*n.Height > c.config.BackgroundAreaRatio*pageArea:
			roles[i] = RolePageBackground

		case c.isSeparator(n, pageWidth, pageHeight):
			roles[i] = RoleSeparator

		case n.StrokeColor != nil && n.LineWidth > 0:
			roles[i] = RoleTableBorder

		case n.FillColor != nil && n.StrokeColor == nil:
			roles[i] = RoleCellFill

		default:
			roles[i] = RoleDecorative
		}
	}

	return roles
}

// isSeparator reports whether a normalized rect is a thin rule spanning a
// large share of the page.
func (c *Classifier) isSeparator(n model.RectElement, pageWidth, pageHeight float64) bool {
	if n.Height < c.config.ThinLimit && n.Width > c.config.SeparatorSpanRatio*pageWidth {
		return true
	}
	if n.Width < c.config.ThinLimit && n.Height > c.config.SeparatorSpanRatio*pageHeight {
		return true
	}
	return false
}
