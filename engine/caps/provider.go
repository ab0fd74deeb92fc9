package caps

import "strings"

// CapabilityBits is the vendor-provided capability bitset of a device.
// Only the bits named here are interpreted by the negotiation engine; every other bit is passed
// through untouched to the application's ConfirmFunc.
type CapabilityBits uint64

const (
	// CapHardwareTransformLighting reports that the device can transform and light vertices in hardware.
	CapHardwareTransformLighting CapabilityBits = 1 << iota

	// CapPureDevice reports that the device supports pure hardware vertex processing.
	CapPureDevice

	// CapPresentIntervalOne through CapPresentIntervalFour report support for the matching present interval.
	CapPresentIntervalOne
	CapPresentIntervalTwo
	CapPresentIntervalThree
	CapPresentIntervalFour
)

var capabilityNames = []struct {
	bit  CapabilityBits
	name string
}{
	{CapHardwareTransformLighting, "hwtl"},
	{CapPureDevice, "pure"},
	{CapPresentIntervalOne, "interval-one"},
	{CapPresentIntervalTwo, "interval-two"},
	{CapPresentIntervalThree, "interval-three"},
	{CapPresentIntervalFour, "interval-four"},
}

// Has reports whether every bit in mask is set.
func (c CapabilityBits) Has(mask CapabilityBits) bool {
	return c&mask == mask
}

// PresentIntervalBit returns the capability bit gating the given present interval, or 0 when the
// interval is not gated by a capability.
func PresentIntervalBit(p PresentInterval) CapabilityBits {
	switch p {
	case PresentIntervalOne:
		return CapPresentIntervalOne
	case PresentIntervalTwo:
		return CapPresentIntervalTwo
	case PresentIntervalThree:
		return CapPresentIntervalThree
	case PresentIntervalFour:
		return CapPresentIntervalFour
	}
	return 0
}

func (c CapabilityBits) String() string {
	var names []string
	for _, n := range capabilityNames {
		if c.Has(n.bit) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// MarshalText implements encoding.TextMarshaler so catalog dumps list capability names.
func (c CapabilityBits) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCapabilityBits builds a bitset from capability names as produced by CapabilityBits.String.
//
// Parameters:
//   - names: capability names such as "hwtl" or "interval-one"
//
// Returns:
//   - CapabilityBits: the combined bitset
//   - bool: false if any name is unknown
func ParseCapabilityBits(names []string) (CapabilityBits, bool) {
	var bits CapabilityBits
	for _, name := range names {
		found := false
		for _, n := range capabilityNames {
			if strings.EqualFold(n.name, name) {
				bits |= n.bit
				found = true
				break
			}
		}
		if !found {
			return bits, false
		}
	}
	return bits, true
}

// ConfirmFunc lets the host application veto an otherwise valid vertex processing mode for a
// device and format pair. Returning false removes the mode from the combo.
type ConfirmFunc func(caps CapabilityBits, vp VertexProcessing, adapterFormat, backBufferFormat SurfaceFormat) bool

// Provider is the capability query surface the negotiation engine enumerates hardware through.
// All queries are assumed to be fast, local and idempotent. A Provider used with parallel
// probing must be safe for concurrent reads.
type Provider interface {
	// AdapterCount returns the number of adapters the platform reports.
	//
	// Returns:
	//   - int: the adapter count, ordinals run from 0 to count-1
	//   - error: an error wrapping ErrNoGraphicsProvider if the platform cannot be queried at all
	AdapterCount() (int, error)

	// AdapterIdentity returns the identity of the adapter at ordinal.
	AdapterIdentity(ordinal int) (AdapterIdentity, error)

	// AdapterDesktopMode returns the current desktop display mode of the adapter at ordinal.
	AdapterDesktopMode(ordinal int) (DisplayMode, error)

	// EnumerateDisplayModes returns every display mode the adapter supports in the given format.
	//
	// Parameters:
	//   - ordinal: the adapter ordinal
	//   - format: the adapter format to enumerate modes for
	//
	// Returns:
	//   - []DisplayMode: the supported modes, possibly containing duplicates that differ only in refresh rate
	//   - error: an error if the modes could not be listed
	EnumerateDisplayModes(ordinal int, format SurfaceFormat) ([]DisplayMode, error)

	// DeviceCapabilities returns the capability bits of the given device kind on the adapter.
	// An error means the device kind is unavailable on that adapter.
	DeviceCapabilities(ordinal int, kind DeviceKind) (CapabilityBits, error)

	// IsTypeSupported reports whether the device can present a back buffer of backBufferFormat on a
	// display in adapterFormat, windowed or fullscreen.
	IsTypeSupported(ordinal int, kind DeviceKind, adapterFormat, backBufferFormat SurfaceFormat, windowed bool) bool

	// IsFormatUsable reports whether format can be used for usage on resource while the display is in adapterFormat.
	IsFormatUsable(ordinal int, kind DeviceKind, adapterFormat SurfaceFormat, usage Usage, resource ResourceKind, format SurfaceFormat) bool

	// IsDepthStencilCompatible reports whether depthStencilFormat can be paired with backBufferFormat.
	IsDepthStencilCompatible(ordinal int, kind DeviceKind, adapterFormat, backBufferFormat, depthStencilFormat SurfaceFormat) bool

	// MultisampleQualityLevels returns the number of quality levels the device supports for the
	// multisample type on a surface of format.
	//
	// Returns:
	//   - int: the number of quality levels (at least 1 when supported)
	//   - bool: false if the multisample type is unsupported for the format
	MultisampleQualityLevels(ordinal int, kind DeviceKind, format SurfaceFormat, windowed bool, multisample MultisampleType) (int, bool)
}
