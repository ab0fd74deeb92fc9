package enumeration

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Masterminds/semver/v3"
)

// Requirements are the application's minimum needs. Anything that does not meet them is pruned
// from the catalog before selection runs.
type Requirements struct {
	// MinFullscreenWidth and MinFullscreenHeight discard smaller display modes.
	MinFullscreenWidth  int `mapstructure:"min_fullscreen_width" yaml:"min_fullscreen_width"`
	MinFullscreenHeight int `mapstructure:"min_fullscreen_height" yaml:"min_fullscreen_height"`

	// MinColorChannelBits discards display modes whose format has fewer bits per color channel.
	MinColorChannelBits int `mapstructure:"min_color_channel_bits" yaml:"min_color_channel_bits"`

	// MinAlphaChannelBits discards back-buffer formats with fewer alpha bits.
	MinAlphaChannelBits int `mapstructure:"min_alpha_channel_bits" yaml:"min_alpha_channel_bits"`

	// MinDepthBits and MinStencilBits discard depth/stencil formats with fewer bits.
	MinDepthBits   int `mapstructure:"min_depth_bits" yaml:"min_depth_bits"`
	MinStencilBits int `mapstructure:"min_stencil_bits" yaml:"min_stencil_bits"`

	// UsesDepthBuffer drops combos without at least one usable depth/stencil format.
	UsesDepthBuffer bool `mapstructure:"uses_depth_buffer" yaml:"uses_depth_buffer"`

	// UsesMixedVertexProcessing offers mixed vertex processing on hardware T&L devices.
	UsesMixedVertexProcessing bool `mapstructure:"uses_mixed_vertex_processing" yaml:"uses_mixed_vertex_processing"`

	// RequireWindowed excludes fullscreen combos; RequireFullscreen excludes windowed combos.
	RequireWindowed   bool `mapstructure:"require_windowed" yaml:"require_windowed"`
	RequireFullscreen bool `mapstructure:"require_fullscreen" yaml:"require_fullscreen"`

	// RequireHardware restricts selection to hardware devices, degrading with a warning when none qualify.
	RequireHardware bool `mapstructure:"require_hardware" yaml:"require_hardware"`

	// RequireReference restricts selection to reference devices.
	RequireReference bool `mapstructure:"require_reference" yaml:"require_reference"`

	// MinDriverVersion is an optional semver constraint (e.g. ">= 22.0") every adapter driver must satisfy.
	MinDriverVersion string `mapstructure:"min_driver_version" yaml:"min_driver_version,omitempty"`

	// Confirm lets the application veto vertex processing modes. Nil accepts everything.
	Confirm caps.ConfirmFunc `mapstructure:"-" yaml:"-"`
}

// DefaultRequirements returns permissive requirements: 640x480, 5 bits per channel, a 15-bit depth buffer.
//
// Returns:
//   - Requirements: the default requirements
func DefaultRequirements() Requirements {
	return Requirements{
		MinFullscreenWidth:  640,
		MinFullscreenHeight: 480,
		MinColorChannelBits: 5,
		MinAlphaChannelBits: 0,
		MinDepthBits:        15,
		MinStencilBits:      0,
		UsesDepthBuffer:     true,
	}
}

// Validate checks the requirements for contradictions.
//
// Returns:
//   - error: an error wrapping caps.ErrInvalidRequirements, or nil
func (r Requirements) Validate() error {
	var problems []string
	if r.MinFullscreenWidth < 0 || r.MinFullscreenHeight < 0 {
		problems = append(problems, "minimum fullscreen size must not be negative")
	}
	if r.MinColorChannelBits < 0 || r.MinAlphaChannelBits < 0 || r.MinDepthBits < 0 || r.MinStencilBits < 0 {
		problems = append(problems, "minimum bit counts must not be negative")
	}
	if r.RequireWindowed && r.RequireFullscreen {
		problems = append(problems, "windowed and fullscreen cannot both be required")
	}
	if r.RequireHardware && r.RequireReference {
		problems = append(problems, "hardware and reference devices cannot both be required")
	}
	if _, err := r.driverConstraint(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", caps.ErrInvalidRequirements, strings.Join(problems, "; "))
	}
	return nil
}

// AllowsDeviceKind reports whether selection may consider the device kind at all.
func (r Requirements) AllowsDeviceKind(kind caps.DeviceKind) bool {
	switch {
	case r.RequireHardware:
		return kind == caps.DeviceKindHardware
	case r.RequireReference:
		return kind == caps.DeviceKindReference
	}
	return true
}

// driverConstraint parses MinDriverVersion, returning nil when no constraint is set.
func (r Requirements) driverConstraint() (*semver.Constraints, error) {
	raw := strings.TrimSpace(r.MinDriverVersion)
	if raw == "" {
		return nil, nil
	}
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid driver version constraint %q: %v", raw, err)
	}
	return c, nil
}

// confirm runs the application's confirmation predicate, accepting everything when none is set.
func (r Requirements) confirm(bits caps.CapabilityBits, vp caps.VertexProcessing, adapterFormat, backBufferFormat caps.SurfaceFormat) bool {
	return r.Confirm == nil || r.Confirm(bits, vp, adapterFormat, backBufferFormat)
}
