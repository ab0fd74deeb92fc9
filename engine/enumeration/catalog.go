package enumeration

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
)

// Catalog is the immutable result of enumeration: every adapter that survived pruning, its
// display modes, and the devices and combos validated for it. Once returned by BuildCatalog a
// Catalog is never mutated and may be read from multiple goroutines.
type Catalog struct {
	primaryDesktopMode caps.DisplayMode
	requirements       Requirements
	adapters           []*Adapter
}

// Adapter is a display adapter together with the display modes and devices that survived validation.
type Adapter struct {
	Ordinal      int                  `yaml:"ordinal"`
	Identity     caps.AdapterIdentity `yaml:"identity"`
	DesktopMode  caps.DisplayMode     `yaml:"desktop_mode"`
	DisplayModes []caps.DisplayMode   `yaml:"display_modes"`
	Devices      []*Device            `yaml:"devices"`
}

// Device is one device kind on an adapter together with its validated combos.
type Device struct {
	AdapterOrdinal int                 `yaml:"adapter_ordinal"`
	Kind           caps.DeviceKind     `yaml:"kind"`
	Caps           caps.CapabilityBits `yaml:"caps"`
	Combos         []*DeviceCombo      `yaml:"combos"`
}

// Conflict is a depth/stencil format and multisample type pair the device cannot use together.
type Conflict struct {
	DepthStencilFormat caps.SurfaceFormat   `yaml:"depth_stencil"`
	Multisample        caps.MultisampleType `yaml:"multisample"`
}

// DeviceCombo is a hardware-confirmed adapter, device kind, adapter format, back-buffer format and
// windowed flag, together with everything the device supports for that combination.
// MultisampleQualities runs parallel to MultisampleTypes.
type DeviceCombo struct {
	AdapterOrdinal   int                `yaml:"adapter_ordinal"`
	DeviceKind       caps.DeviceKind    `yaml:"device_kind"`
	AdapterFormat    caps.SurfaceFormat `yaml:"adapter_format"`
	BackBufferFormat caps.SurfaceFormat `yaml:"back_buffer_format"`
	Windowed         bool               `yaml:"windowed"`

	DepthStencilFormats  []caps.SurfaceFormat    `yaml:"depth_stencil_formats"`
	MultisampleTypes     []caps.MultisampleType  `yaml:"multisample_types"`
	MultisampleQualities []int                   `yaml:"multisample_qualities"`
	Conflicts            []Conflict              `yaml:"conflicts,omitempty"`
	VertexProcessing     []caps.VertexProcessing `yaml:"vertex_processing"`
	PresentIntervals     []caps.PresentInterval  `yaml:"present_intervals"`
}

// NewCatalog assembles a catalog from already validated adapters. BuildCatalog is the normal way to
// obtain a catalog; NewCatalog exists for callers that persist or synthesize catalogs.
//
// Parameters:
//   - primaryDesktopMode: the desktop display mode of adapter ordinal 0
//   - requirements: the requirements the adapters were validated against
//   - adapters: the adapters in ordinal order
//
// Returns:
//   - *Catalog: the catalog
func NewCatalog(primaryDesktopMode caps.DisplayMode, requirements Requirements, adapters []*Adapter) *Catalog {
	return &Catalog{
		primaryDesktopMode: primaryDesktopMode,
		requirements:       requirements,
		adapters:           slices.Clone(adapters),
	}
}

// Adapters returns the adapters in ordinal order. The returned slice is a copy; the adapters are shared and must not be modified.
func (c *Catalog) Adapters() []*Adapter {
	return slices.Clone(c.adapters)
}

// Adapter returns the adapter with the given ordinal, or nil if it was pruned or never existed.
func (c *Catalog) Adapter(ordinal int) *Adapter {
	for _, a := range c.adapters {
		if a.Ordinal == ordinal {
			return a
		}
	}
	return nil
}

// PrimaryDesktopMode returns the desktop mode of the primary adapter (provider ordinal 0),
// captured during the build even if that adapter was pruned.
func (c *Catalog) PrimaryDesktopMode() caps.DisplayMode {
	return c.primaryDesktopMode
}

// Requirements returns the requirements the catalog was built against.
func (c *Catalog) Requirements() Requirements {
	return c.requirements
}

// Combos returns every combo for which keep returns true, in catalog order. A nil keep returns all combos.
//
// Parameters:
//   - keep: predicate receiving the owning adapter, device and the combo
//
// Returns:
//   - []*DeviceCombo: the matching combos
func (c *Catalog) Combos(keep func(a *Adapter, d *Device, combo *DeviceCombo) bool) []*DeviceCombo {
	var combos []*DeviceCombo
	for _, a := range c.adapters {
		for _, d := range a.Devices {
			for _, combo := range d.Combos {
				if keep == nil || keep(a, d, combo) {
					combos = append(combos, combo)
				}
			}
		}
	}
	return combos
}

// Contains reports whether combo is one of the catalog's own combos (pointer identity).
func (c *Catalog) Contains(combo *DeviceCombo) bool {
	if combo == nil {
		return false
	}
	found := c.Combos(func(_ *Adapter, _ *Device, candidate *DeviceCombo) bool {
		return candidate == combo
	})
	return len(found) > 0
}

// MarshalYAML renders the catalog as a plain document for dumps and diagnostics.
func (c *Catalog) MarshalYAML() (any, error) {
	return struct {
		PrimaryDesktopMode caps.DisplayMode `yaml:"primary_desktop_mode"`
		Adapters           []*Adapter       `yaml:"adapters"`
	}{c.primaryDesktopMode, c.adapters}, nil
}

// QualityLevels returns the number of quality levels supported for the multisample type.
//
// Returns:
//   - int: the quality level count
//   - bool: false if the combo does not support the multisample type
func (c *DeviceCombo) QualityLevels(multisample caps.MultisampleType) (int, bool) {
	i := slices.Index(c.MultisampleTypes, multisample)
	if i < 0 || i >= len(c.MultisampleQualities) {
		return 0, false
	}
	return c.MultisampleQualities[i], true
}

// HasConflict reports whether the depth/stencil format and multisample type cannot be used together.
func (c *DeviceCombo) HasConflict(depthStencil caps.SurfaceFormat, multisample caps.MultisampleType) bool {
	return slices.Contains(c.Conflicts, Conflict{DepthStencilFormat: depthStencil, Multisample: multisample})
}

// SelfMatching reports whether the adapter format equals the back-buffer format.
func (c *DeviceCombo) SelfMatching() bool {
	return c.AdapterFormat == c.BackBufferFormat
}
