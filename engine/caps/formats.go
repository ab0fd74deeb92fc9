package caps

import (
	"fmt"
	"strings"
)

// SurfaceFormat identifies the pixel layout of a display surface, back buffer or depth/stencil buffer.
// The zero value is FormatUnknown.
type SurfaceFormat int

const (
	// FormatUnknown is the zero value and is never reported as supported.
	FormatUnknown SurfaceFormat = iota

	// FormatARGB8 is 8 bits per channel with an 8-bit alpha channel.
	FormatARGB8
	// FormatXRGB8 is 8 bits per channel with the alpha byte unused.
	FormatXRGB8
	// FormatA2RGB10 is 10 bits per color channel with a 2-bit alpha channel.
	FormatA2RGB10
	// FormatRGB565 is a 16-bit format with 5 red, 6 green and 5 blue bits.
	FormatRGB565
	// FormatARGB1555 is a 16-bit format with 5 bits per channel and a 1-bit alpha channel.
	FormatARGB1555
	// FormatXRGB1555 is a 16-bit format with 5 bits per channel and the top bit unused.
	FormatXRGB1555

	// FormatD16 is a 16-bit depth buffer.
	FormatD16
	// FormatD15S1 is a 15-bit depth buffer with a 1-bit stencil.
	FormatD15S1
	// FormatD24X8 is a 24-bit depth buffer with 8 unused bits.
	FormatD24X8
	// FormatD24S8 is a 24-bit depth buffer with an 8-bit stencil.
	FormatD24S8
	// FormatD24X4S4 is a 24-bit depth buffer with a 4-bit stencil.
	FormatD24X4S4
	// FormatD32 is a 32-bit depth buffer.
	FormatD32
	// FormatD32FS8 is a 32-bit floating point depth buffer with an 8-bit stencil.
	FormatD32FS8
)

// formatInfo describes the bit layout of a SurfaceFormat.
type formatInfo struct {
	name         string
	channelBits  int
	alphaBits    int
	depthBits    int
	stencilBits  int
	depthStencil bool
}

var formatTable = map[SurfaceFormat]formatInfo{
	FormatUnknown:  {name: "Unknown"},
	FormatARGB8:    {name: "ARGB8", channelBits: 8, alphaBits: 8},
	FormatXRGB8:    {name: "XRGB8", channelBits: 8},
	FormatA2RGB10:  {name: "A2RGB10", channelBits: 10, alphaBits: 2},
	FormatRGB565:   {name: "RGB565", channelBits: 5},
	FormatARGB1555: {name: "ARGB1555", channelBits: 5, alphaBits: 1},
	FormatXRGB1555: {name: "XRGB1555", channelBits: 5},
	FormatD16:      {name: "D16", depthBits: 16, depthStencil: true},
	FormatD15S1:    {name: "D15S1", depthBits: 15, stencilBits: 1, depthStencil: true},
	FormatD24X8:    {name: "D24X8", depthBits: 24, depthStencil: true},
	FormatD24S8:    {name: "D24S8", depthBits: 24, stencilBits: 8, depthStencil: true},
	FormatD24X4S4:  {name: "D24X4S4", depthBits: 24, stencilBits: 4, depthStencil: true},
	FormatD32:      {name: "D32", depthBits: 32, depthStencil: true},
	FormatD32FS8:   {name: "D32FS8", depthBits: 32, stencilBits: 8, depthStencil: true},
}

// AdapterFormats is the allow-list of display formats whose modes are enumerated for each adapter.
var AdapterFormats = []SurfaceFormat{
	FormatXRGB8,
	FormatXRGB1555,
	FormatRGB565,
	FormatA2RGB10,
}

// BackBufferFormats is the allow-list of back-buffer formats, ordered richest to leanest.
var BackBufferFormats = []SurfaceFormat{
	FormatARGB8,
	FormatXRGB8,
	FormatA2RGB10,
	FormatRGB565,
	FormatXRGB1555,
}

// DepthStencilFormats is the allow-list of depth/stencil formats probed for each combo.
var DepthStencilFormats = []SurfaceFormat{
	FormatD16,
	FormatD15S1,
	FormatD24X8,
	FormatD24S8,
	FormatD24X4S4,
	FormatD32,
	FormatD32FS8,
}

// ColorChannelBits returns the number of bits in each color channel of the format.
// Depth/stencil formats and unknown formats report 0.
//
// Returns:
//   - int: bits per color channel (for RGB565 the narrowest channel, 5)
func (f SurfaceFormat) ColorChannelBits() int {
	return formatTable[f].channelBits
}

// AlphaBits returns the number of alpha bits in the format.
//
// Returns:
//   - int: alpha channel bits (0 when the format has no alpha)
func (f SurfaceFormat) AlphaBits() int {
	return formatTable[f].alphaBits
}

// DepthBits returns the number of depth bits in a depth/stencil format.
//
// Returns:
//   - int: depth bits (0 for color formats)
func (f SurfaceFormat) DepthBits() int {
	return formatTable[f].depthBits
}

// StencilBits returns the number of stencil bits in a depth/stencil format.
//
// Returns:
//   - int: stencil bits (0 for color formats and depth-only formats)
func (f SurfaceFormat) StencilBits() int {
	return formatTable[f].stencilBits
}

// IsDepthStencil reports whether the format describes a depth/stencil buffer.
func (f SurfaceFormat) IsDepthStencil() bool {
	return formatTable[f].depthStencil
}

func (f SurfaceFormat) String() string {
	if info, ok := formatTable[f]; ok {
		return info.name
	}
	return fmt.Sprintf("SurfaceFormat(%d)", int(f))
}

// ParseSurfaceFormat resolves a format by its String name, case-insensitively.
//
// Parameters:
//   - name: the format name, e.g. "XRGB8" or "d24s8"
//
// Returns:
//   - SurfaceFormat: the matching format
//   - error: an error if the name is not a known format
func ParseSurfaceFormat(name string) (SurfaceFormat, error) {
	for f, info := range formatTable {
		if strings.EqualFold(info.name, name) {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown surface format %q", name)
}

// MarshalText implements encoding.TextMarshaler so formats read naturally in YAML profiles and dumps.
func (f SurfaceFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *SurfaceFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseSurfaceFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
