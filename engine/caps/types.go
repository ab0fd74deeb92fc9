package caps

import (
	"fmt"
	"strconv"
	"strings"
)

// DeviceKind identifies where rendering work for a device is executed.
type DeviceKind int

const (
	// DeviceKindHardware runs rendering on dedicated graphics hardware.
	DeviceKindHardware DeviceKind = iota

	// DeviceKindSoftware emulates rendering on the CPU.
	DeviceKindSoftware

	// DeviceKindReference runs a vendor diagnostic/reference implementation. Slow, but feature complete.
	DeviceKindReference
)

// DeviceKinds is the fixed order in which device kinds are probed for every adapter.
var DeviceKinds = []DeviceKind{DeviceKindHardware, DeviceKindSoftware, DeviceKindReference}

var deviceKindNames = map[DeviceKind]string{
	DeviceKindHardware:  "hardware",
	DeviceKindSoftware:  "software",
	DeviceKindReference: "reference",
}

func (k DeviceKind) String() string {
	if name, ok := deviceKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DeviceKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k DeviceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DeviceKind) UnmarshalText(text []byte) error {
	for kind, name := range deviceKindNames {
		if strings.EqualFold(name, string(text)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown device kind %q", string(text))
}

// VertexProcessing controls where geometry transform and lighting is performed.
type VertexProcessing int

const (
	// VertexProcessingSoftware transforms vertices on the CPU.
	VertexProcessingSoftware VertexProcessing = iota

	// VertexProcessingMixed allows switching between hardware and software at runtime.
	VertexProcessingMixed

	// VertexProcessingHardware transforms vertices on the device.
	VertexProcessingHardware

	// VertexProcessingPureHardware transforms vertices on the device without runtime state shadowing.
	VertexProcessingPureHardware
)

var vertexProcessingNames = map[VertexProcessing]string{
	VertexProcessingSoftware:     "software",
	VertexProcessingMixed:        "mixed",
	VertexProcessingHardware:     "hardware",
	VertexProcessingPureHardware: "pure-hardware",
}

func (v VertexProcessing) String() string {
	if name, ok := vertexProcessingNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VertexProcessing(%d)", int(v))
}

// MarshalText implements encoding.TextMarshaler.
func (v VertexProcessing) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// MultisampleType is the number of samples per pixel used for multisample anti-aliasing.
// Only specific values are meaningful: MultisampleNone, MultisampleNonMaskable and 2 through 16.
type MultisampleType int

const (
	// MultisampleNone disables multisampling.
	MultisampleNone MultisampleType = 0

	// MultisampleNonMaskable enables vendor-defined multisampling controlled by quality level only.
	MultisampleNonMaskable MultisampleType = 1

	// Multisample2x through Multisample16x are maskable sample counts.
	Multisample2x  MultisampleType = 2
	Multisample4x  MultisampleType = 4
	Multisample8x  MultisampleType = 8
	Multisample16x MultisampleType = 16
)

// MultisampleTypes is the allow-list of multisample levels probed for each combo, in ascending order.
var MultisampleTypes = func() []MultisampleType {
	types := []MultisampleType{MultisampleNone, MultisampleNonMaskable}
	for samples := 2; samples <= 16; samples++ {
		types = append(types, MultisampleType(samples))
	}
	return types
}()

func (m MultisampleType) String() string {
	switch m {
	case MultisampleNone:
		return "none"
	case MultisampleNonMaskable:
		return "nonmaskable"
	default:
		return fmt.Sprintf("%dx", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m MultisampleType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Accepts "none", "nonmaskable", "<n>x" or a bare sample count.
func (m *MultisampleType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	switch s {
	case "none", "":
		*m = MultisampleNone
		return nil
	case "nonmaskable":
		*m = MultisampleNonMaskable
		return nil
	}
	samples, err := strconv.Atoi(strings.TrimSuffix(s, "x"))
	if err != nil || samples < 2 || samples > 16 {
		return fmt.Errorf("unknown multisample type %q", string(text))
	}
	*m = MultisampleType(samples)
	return nil
}

// PresentInterval is the synchronization policy between frame submission and display refresh.
type PresentInterval int

const (
	// PresentIntervalDefault waits for one vertical blank using the platform's default timer resolution.
	PresentIntervalDefault PresentInterval = iota

	// PresentIntervalOne waits for every vertical blank.
	PresentIntervalOne

	// PresentIntervalTwo waits for every second vertical blank.
	PresentIntervalTwo

	// PresentIntervalThree waits for every third vertical blank.
	PresentIntervalThree

	// PresentIntervalFour waits for every fourth vertical blank.
	PresentIntervalFour

	// PresentIntervalImmediate presents without waiting. May tear, lowest latency.
	PresentIntervalImmediate
)

// PresentIntervals is the order in which present intervals are considered for each combo.
var PresentIntervals = []PresentInterval{
	PresentIntervalImmediate,
	PresentIntervalDefault,
	PresentIntervalOne,
	PresentIntervalTwo,
	PresentIntervalThree,
	PresentIntervalFour,
}

var presentIntervalNames = map[PresentInterval]string{
	PresentIntervalDefault:   "default",
	PresentIntervalOne:       "one",
	PresentIntervalTwo:       "two",
	PresentIntervalThree:     "three",
	PresentIntervalFour:      "four",
	PresentIntervalImmediate: "immediate",
}

func (p PresentInterval) String() string {
	if name, ok := presentIntervalNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PresentInterval(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p PresentInterval) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// IsMultiFrame reports whether the interval waits for more than one vertical blank.
// Multi-frame intervals are never offered to windowed combos.
func (p PresentInterval) IsMultiFrame() bool {
	return p == PresentIntervalTwo || p == PresentIntervalThree || p == PresentIntervalFour
}

// Usage describes how a surface format is going to be used when asking the provider whether it is usable.
type Usage int

const (
	// UsageRenderTarget asks whether the format can be rendered to.
	UsageRenderTarget Usage = iota

	// UsageDepthStencil asks whether the format can back a depth/stencil buffer.
	UsageDepthStencil
)

// ResourceKind is the kind of resource a format check applies to.
type ResourceKind int

const (
	// ResourceSurface is a plain 2D surface.
	ResourceSurface ResourceKind = iota

	// ResourceTexture is a sampled texture.
	ResourceTexture
)

// DisplayMode is a resolution, surface format and refresh rate supported by an adapter.
// A RefreshRate of 0 means the rate is unknown or adapter-default.
type DisplayMode struct {
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	Format      SurfaceFormat `yaml:"format"`
	RefreshRate int           `yaml:"refresh_rate,omitempty"`
}

func (m DisplayMode) String() string {
	if m.RefreshRate > 0 {
		return fmt.Sprintf("%dx%d %s @%dHz", m.Width, m.Height, m.Format, m.RefreshRate)
	}
	return fmt.Sprintf("%dx%d %s", m.Width, m.Height, m.Format)
}

// AdapterIdentity is the human-readable identity reported for an adapter.
type AdapterIdentity struct {
	// Description is the adapter's marketing or driver-reported name.
	Description string `yaml:"description"`

	// Vendor is the vendor name, if the platform reports one.
	Vendor string `yaml:"vendor,omitempty"`

	// VendorID and DeviceID are the PCI identifiers, 0 when unknown.
	VendorID uint32 `yaml:"vendor_id,omitempty"`
	DeviceID uint32 `yaml:"device_id,omitempty"`

	// DriverVersion is the driver version string; checked against Requirements.MinDriverVersion when set.
	DriverVersion string `yaml:"driver_version,omitempty"`
}
