package layout

import (
	"sort"

	"github.com/Ohio15/relayout/model"
)

// TwoColumnConfig holds tolerances for two-column region detection.
type TwoColumnConfig struct {
	// BandTolerance is the vertical slack when absorbing elements into a
	// Y-band. Default: 20 units.
	BandTolerance float64

	// MinGap is the horizontal whitespace between two elements above
	// which a band splits into columns. Default: 40 units.
	MinGap float64
}

// DefaultTwoColumnConfig returns the default detection tolerances.
func DefaultTwoColumnConfig() TwoColumnConfig {
	return TwoColumnConfig{
		BandTolerance: 20.0,
		MinGap:        40.0,
	}
}

// TwoColumnDetector finds side-by-side placement among already-produced
// layout elements and merges each qualifying group into a
// TwoColumnRegion.
type TwoColumnDetector struct {
	config TwoColumnConfig
}

// NewTwoColumnDetector creates a detector with default configuration.
func NewTwoColumnDetector() *TwoColumnDetector {
	return &TwoColumnDetector{config: DefaultTwoColumnConfig()}
}

// NewTwoColumnDetectorWithConfig creates a detector with custom configuration.
func NewTwoColumnDetectorWithConfig(config TwoColumnConfig) *TwoColumnDetector {
	return &TwoColumnDetector{config: config}
}

// Detect replaces each qualifying group of side-by-side elements with a
// single TwoColumnRegion. Elements in bands without a qualifying gap pass
// through unchanged, in their original order.
func (d *TwoColumnDetector) Detect(elems []model.LayoutElement, pageWidth float64) []model.LayoutElement {
	if len(elems) < 2 {
		return elems
	}

	bands := d.clusterBands(elems)

	// regionOf maps an element index to the region replacing it.
	regionOf := make(map[int]*model.TwoColumnRegion)
	emitted := make(map[*model.TwoColumnRegion]bool)

	for _, band := range bands {
		if len(band) < 2 {
			continue
		}
		if region := d.splitBand(band, elems, pageWidth); region != nil {
			for _, idx := range band {
				regionOf[idx] = region
			}
		}
	}

	var out []model.LayoutElement
	for i, el := range elems {
		if region, ok := regionOf[i]; ok {
			if !emitted[region] {
				out = append(out, region)
				emitted[region] = true
			}
			continue
		}
		out = append(out, el)
	}
	return out
}

// clusterBands groups element indices into vertical bands: starting from
// the topmost unassigned element, a band repeatedly absorbs any element
// overlapping its Y extent within tolerance until nothing more fits.
func (d *TwoColumnDetector) clusterBands(elems []model.LayoutElement) [][]int {
	order := make([]int, len(elems))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return elems[order[i]].Bounds().Top() < elems[order[j]].Bounds().Top()
	})

	assigned := make([]bool, len(elems))
	var bands [][]int

	for _, seed := range order {
		if assigned[seed] {
			continue
		}
		assigned[seed] = true
		band := []int{seed}
		top := elems[seed].Bounds().Top()
		bottom := elems[seed].Bounds().Bottom()

		for changed := true; changed; {
			changed = false
			for i, el := range elems {
				if assigned[i] {
					continue
				}
				b := el.Bounds()
				if b.Bottom() < top-d.config.BandTolerance || b.Top() > bottom+d.config.BandTolerance {
					continue
				}
				assigned[i] = true
				band = append(band, i)
				if b.Top() < top {
					top = b.Top()
				}
				if b.Bottom() > bottom {
					bottom = b.Bottom()
				}
				changed = true
			}
		}

		bands = append(bands, band)
	}

	return bands
}

// splitBand finds the largest horizontal gap within a band and, when it
// qualifies, builds the region spanning the band.
func (d *TwoColumnDetector) splitBand(band []int, elems []model.LayoutElement, pageWidth float64) *model.TwoColumnRegion {
	sorted := make([]int, len(band))
	copy(sorted, band)
	sort.SliceStable(sorted, func(i, j int) bool {
		return elems[sorted[i]].Bounds().Left() < elems[sorted[j]].Bounds().Left()
	})

	bestGap := 0.0
	split := -1
	reach := elems[sorted[0]].Bounds().Right()
	for i := 1; i < len(sorted); i++ {
		left := elems[sorted[i]].Bounds().Left()
		if gap := left - reach; gap > bestGap {
			bestGap = gap
			split = i
		}
		if r := elems[sorted[i]].Bounds().Right(); r > reach {
			reach = r
		}
	}

	if split < 0 || bestGap <= d.config.MinGap {
		return nil
	}

	region := &model.TwoColumnRegion{PageWidth: pageWidth}
	top, bottom := elems[sorted[0]].Bounds().Top(), elems[sorted[0]].Bounds().Bottom()
	for i, idx := range sorted {
		b := elems[idx].Bounds()
		if b.Top() < top {
			top = b.Top()
		}
		if b.Bottom() > bottom {
			bottom = b.Bottom()
		}
		if i < split {
			region.Left = append(region.Left, elems[idx])
		} else {
			region.Right = append(region.Right, elems[idx])
		}
	}

	leftEdge := elems[sorted[split]].Bounds().Left()
	rightReach := elems[sorted[split-1]].Bounds().Right()
	for _, idx := range sorted[:split] {
		if r := elems[idx].Bounds().Right(); r > rightReach {
			rightReach = r
		}
	}
	region.GapX = (rightReach + leftEdge) / 2
	region.Y = top
	region.Height = bottom - top

	return region
}
