package selection

import (
	"github.com/Carmen-Shannon/oxy-caps/common"
	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
)

// modeTier ranks how well a display mode matches the desktop. A mode never replaces a better-tiered one.
type modeTier int

const (
	tierNone modeTier = iota
	tierFirst
	tierSameWidth
	tierSameResolution
)

// chooseDisplayMode picks the mode in format closest to the desktop mode: an exact
// (width, height, refresh) match; else the same resolution at the highest refresh rate; else the
// same width with the nearest height; else the first mode in format.
//
// Parameters:
//   - modes: the adapter's sorted display modes
//   - format: the adapter format the chosen mode must use
//   - desktop: the adapter's desktop mode to match against
//
// Returns:
//   - caps.DisplayMode: the chosen mode
//   - bool: false if no mode uses format
func chooseDisplayMode(modes []caps.DisplayMode, format caps.SurfaceFormat, desktop caps.DisplayMode) (caps.DisplayMode, bool) {
	var (
		best caps.DisplayMode
		tier = tierNone
	)
	for _, m := range modes {
		if m.Format != format {
			continue
		}

		sameWidth := m.Width == desktop.Width
		sameResolution := sameWidth && m.Height == desktop.Height

		switch {
		case sameResolution && m.RefreshRate == desktop.RefreshRate:
			return m, true
		case sameResolution:
			if tier < tierSameResolution || m.RefreshRate > best.RefreshRate {
				best, tier = m, tierSameResolution
			}
		case sameWidth:
			if tier < tierSameWidth ||
				(tier == tierSameWidth && common.Abs(m.Height-desktop.Height) < common.Abs(best.Height-desktop.Height)) {
				best, tier = m, tierSameWidth
			}
		case tier == tierNone:
			best, tier = m, tierFirst
		}
	}
	return best, tier != tierNone
}
