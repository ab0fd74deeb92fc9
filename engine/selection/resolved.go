package selection

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-caps/common"
	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/enumeration"
)

// ResolvedConfiguration is the outcome of a selection: either a *WindowedConfiguration or a
// *FullscreenConfiguration. Consume it with a type switch.
type ResolvedConfiguration interface {
	// Resolved returns the choices shared by both variants.
	//
	// Returns:
	//   - Choices: a copy of the chosen settings
	Resolved() Choices

	isResolvedConfiguration()
}

// Choices are the concrete settings picked from a single catalog combo. A resolved configuration
// is immutable once returned: callers must treat every field as read-only, including the catalog
// combo behind Combo, which is shared with every other selection against the same catalog.
type Choices struct {
	// AdapterIdentity and DeviceCaps describe the adapter and device that own Combo.
	AdapterIdentity caps.AdapterIdentity `yaml:"adapter_identity"`
	DeviceCaps      caps.CapabilityBits  `yaml:"device_caps"`

	// Combo points into the catalog the selection ran against; it is never a copy.
	Combo *enumeration.DeviceCombo `yaml:"-"`

	// DisplayMode is the primary desktop mode for windowed selections and the chosen fullscreen mode otherwise.
	DisplayMode caps.DisplayMode `yaml:"display_mode"`

	DepthStencilFormat caps.SurfaceFormat    `yaml:"depth_stencil_format"`
	Multisample        caps.MultisampleType  `yaml:"multisample"`
	MultisampleQuality int                   `yaml:"multisample_quality"`
	VertexProcessing   caps.VertexProcessing `yaml:"vertex_processing"`
	PresentInterval    caps.PresentInterval  `yaml:"present_interval"`

	// Warnings carries soft degradations such as caps.ErrHardwareFallback. Selection still succeeded.
	Warnings []error `yaml:"-"`
}

// WindowedConfiguration is the configuration resolved for rendering into a window on the primary desktop.
// It is read-only; use Resolved for a copy whose Warnings may be modified.
type WindowedConfiguration struct {
	Choices `yaml:",inline"`
}

// FullscreenConfiguration is the configuration resolved for exclusive fullscreen rendering.
// It is read-only; use Resolved for a copy whose Warnings may be modified.
type FullscreenConfiguration struct {
	Choices `yaml:",inline"`

	// AdapterDesktopMode is the desktop mode of the chosen adapter that the display mode was matched against.
	AdapterDesktopMode caps.DisplayMode `yaml:"adapter_desktop_mode"`
}

func (c *WindowedConfiguration) Resolved() Choices {
	return c.Choices.clone()
}

func (c *WindowedConfiguration) isResolvedConfiguration() {}

func (c *FullscreenConfiguration) Resolved() Choices {
	return c.Choices.clone()
}

func (c *FullscreenConfiguration) isResolvedConfiguration() {}

func (c Choices) clone() Choices {
	c.Warnings = append([]error(nil), c.Warnings...)
	return c
}

// newChoices fills the default choices from the winning combo: the first depth/stencil format, the
// first multisample type at quality 0, the first vertex processing mode and the default present interval.
func newChoices(win candidate, displayMode caps.DisplayMode) Choices {
	combo := win.combo

	interval := caps.PresentIntervalDefault
	if !slices.Contains(combo.PresentIntervals, interval) {
		interval = common.FirstOr(combo.PresentIntervals, interval)
	}

	return Choices{
		AdapterIdentity:    win.adapter.Identity,
		DeviceCaps:         win.device.Caps,
		Combo:              combo,
		DisplayMode:        displayMode,
		DepthStencilFormat: common.FirstOr(combo.DepthStencilFormats, caps.FormatUnknown),
		Multisample:        common.FirstOr(combo.MultisampleTypes, caps.MultisampleNone),
		MultisampleQuality: 0,
		VertexProcessing:   common.FirstOr(combo.VertexProcessing, caps.VertexProcessingSoftware),
		PresentInterval:    interval,
	}
}
