package simulated

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
)

// presets maps preset names accepted by Preset to their constructors.
var presets = map[string]func() Profile{
	"workstation":    Workstation,
	"software-only":  SoftwareOnly,
	"dual-adapter":   DualAdapter,
	"reference-only": ReferenceOnly,
}

// PresetNames returns the names accepted by Preset, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns a built-in profile by name.
//
// Parameters:
//   - name: one of PresetNames, case-insensitive
//
// Returns:
//   - Profile: a fresh copy of the preset
//   - error: an error if no preset has that name
func Preset(name string) (Profile, error) {
	build, ok := presets[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("unknown preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}

// DesktopModes returns a typical mode list for format: 640x480 up to 1920x1080 at 60Hz, plus 1920x1080 at 144Hz.
func DesktopModes(format caps.SurfaceFormat) []caps.DisplayMode {
	return []caps.DisplayMode{
		{Width: 640, Height: 480, Format: format, RefreshRate: 60},
		{Width: 1280, Height: 720, Format: format, RefreshRate: 60},
		{Width: 1600, Height: 900, Format: format, RefreshRate: 60},
		{Width: 1920, Height: 1080, Format: format, RefreshRate: 60},
		{Width: 1920, Height: 1080, Format: format, RefreshRate: 144},
	}
}

// HardwareDevice is a hardware T&L, pure device presenting XRGB8 and ARGB8 back buffers on an XRGB8
// adapter in both window modes, with D24S8, D24X8 and D16 depth buffers and 4x multisampling.
func HardwareDevice() DeviceProfile {
	return DeviceProfile{
		Kind: caps.DeviceKindHardware,
		Caps: []string{"hwtl", "pure", "interval-one", "interval-two"},
		Surfaces: []SurfaceProfile{
			{AdapterFormat: caps.FormatXRGB8, BackBufferFormat: caps.FormatARGB8, Windowed: true, Fullscreen: true},
			{AdapterFormat: caps.FormatXRGB8, BackBufferFormat: caps.FormatXRGB8, Windowed: true, Fullscreen: true},
		},
		DepthStencil: []caps.SurfaceFormat{caps.FormatD16, caps.FormatD24X8, caps.FormatD24S8},
		Multisample: []MultisampleProfile{
			{Type: caps.MultisampleNone, Qualities: 1},
			{Type: caps.Multisample4x, Qualities: 4},
		},
	}
}

// SoftwareDevice is a device without hardware T&L presenting XRGB8 back buffers with a D16 depth buffer.
func SoftwareDevice() DeviceProfile {
	return DeviceProfile{
		Kind: caps.DeviceKindSoftware,
		Surfaces: []SurfaceProfile{
			{AdapterFormat: caps.FormatXRGB8, BackBufferFormat: caps.FormatXRGB8, Windowed: true, Fullscreen: true},
		},
		DepthStencil: []caps.SurfaceFormat{caps.FormatD16},
		Multisample:  []MultisampleProfile{{Type: caps.MultisampleNone, Qualities: 1}},
	}
}

// ReferenceDevice is a reference rasterizer that presents every back-buffer format on XRGB8 and RGB565
// adapters with every depth buffer but offers only software vertex processing.
func ReferenceDevice() DeviceProfile {
	d := DeviceProfile{
		Kind:         caps.DeviceKindReference,
		DepthStencil: slices.Clone(caps.DepthStencilFormats),
		Multisample:  []MultisampleProfile{{Type: caps.MultisampleNone, Qualities: 1}},
	}
	for _, af := range []caps.SurfaceFormat{caps.FormatXRGB8, caps.FormatRGB565} {
		for _, bb := range caps.BackBufferFormats {
			d.Surfaces = append(d.Surfaces, SurfaceProfile{AdapterFormat: af, BackBufferFormat: bb, Windowed: true, Fullscreen: true})
		}
	}
	return d
}

// Workstation is one adapter at a 1920x1080 XRGB8 desktop with a hardware and a reference device.
func Workstation() Profile {
	return Profile{Adapters: []AdapterProfile{{
		Identity: caps.AdapterIdentity{
			Description:   "Simulated Workstation GPU",
			Vendor:        "Simulated",
			VendorID:      0x10de,
			DeviceID:      0x2204,
			DriverVersion: "31.0.15.5222",
		},
		Desktop: caps.DisplayMode{Width: 1920, Height: 1080, Format: caps.FormatXRGB8, RefreshRate: 60},
		Modes:   DesktopModes(caps.FormatXRGB8),
		Devices: []DeviceProfile{HardwareDevice(), ReferenceDevice()},
	}}}
}

// SoftwareOnly is the workstation adapter with only a software device reporting capabilities.
func SoftwareOnly() Profile {
	p := Workstation()
	p.Adapters[0].Identity.Description = "Simulated Software Renderer"
	p.Adapters[0].Devices = []DeviceProfile{SoftwareDevice()}
	return p
}

// ReferenceOnly is the workstation adapter with only a reference device.
func ReferenceOnly() Profile {
	p := Workstation()
	p.Adapters[0].Identity.Description = "Simulated Reference Rasterizer"
	p.Adapters[0].Devices = []DeviceProfile{ReferenceDevice()}
	return p
}

// DualAdapter is a 16-bit primary adapter with only a software device, plus a secondary workstation
// adapter at 2560x1440 with a hardware device.
func DualAdapter() Profile {
	secondary := Workstation().Adapters[0]
	secondary.Identity.Description = "Simulated Secondary GPU"
	secondary.Desktop = caps.DisplayMode{Width: 2560, Height: 1440, Format: caps.FormatXRGB8, RefreshRate: 120}
	secondary.Modes = append(DesktopModes(caps.FormatXRGB8),
		caps.DisplayMode{Width: 2560, Height: 1440, Format: caps.FormatXRGB8, RefreshRate: 120})
	secondary.Devices = []DeviceProfile{HardwareDevice()}

	return Profile{Adapters: []AdapterProfile{
		{
			Identity: caps.AdapterIdentity{
				Description:   "Simulated Integrated GPU",
				Vendor:        "Simulated",
				VendorID:      0x8086,
				DeviceID:      0x9bc4,
				DriverVersion: "27.20.100.9316",
			},
			Desktop: caps.DisplayMode{Width: 1366, Height: 768, Format: caps.FormatRGB565, RefreshRate: 60},
			Modes: []caps.DisplayMode{
				{Width: 1024, Height: 768, Format: caps.FormatRGB565, RefreshRate: 60},
				{Width: 1366, Height: 768, Format: caps.FormatRGB565, RefreshRate: 60},
			},
			Devices: []DeviceProfile{{
				Kind: caps.DeviceKindSoftware,
				Surfaces: []SurfaceProfile{
					{AdapterFormat: caps.FormatRGB565, BackBufferFormat: caps.FormatRGB565, Windowed: true, Fullscreen: true},
				},
				DepthStencil: []caps.SurfaceFormat{caps.FormatD16},
				Multisample:  []MultisampleProfile{{Type: caps.MultisampleNone, Qualities: 1}},
			}},
		},
		secondary,
	}}
}
