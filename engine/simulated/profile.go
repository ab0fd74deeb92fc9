// Package simulated provides a caps.Provider backed by a declarative hardware profile instead of
// real adapters. Profiles are plain Go values or YAML documents; they drive the package tests,
// the CLI's --profile flag and reproducible bug reports.
package simulated

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"gopkg.in/yaml.v3"
)

// Profile describes a whole machine.
type Profile struct {
	// Unavailable makes AdapterCount fail as if the graphics runtime were missing.
	Unavailable bool `yaml:"unavailable,omitempty"`

	Adapters []AdapterProfile `yaml:"adapters"`
}

// AdapterProfile describes one adapter, its desktop mode, supported display modes and devices.
type AdapterProfile struct {
	Identity caps.AdapterIdentity `yaml:"identity"`
	Desktop  caps.DisplayMode     `yaml:"desktop"`
	Modes    []caps.DisplayMode   `yaml:"modes"`
	Devices  []DeviceProfile      `yaml:"devices"`

	// IdentityUnavailable makes AdapterIdentity fail for this adapter.
	IdentityUnavailable bool `yaml:"identity_unavailable,omitempty"`
}

// DeviceProfile describes one device kind on an adapter.
type DeviceProfile struct {
	Kind caps.DeviceKind `yaml:"kind"`

	// Caps lists capability names as accepted by caps.ParseCapabilityBits.
	Caps []string `yaml:"caps,omitempty"`

	// Surfaces lists the adapter/back-buffer format pairs the device can present.
	Surfaces []SurfaceProfile `yaml:"surfaces"`

	// DepthStencil lists the depth/stencil formats usable on the device.
	DepthStencil []caps.SurfaceFormat `yaml:"depth_stencil"`

	// IncompatibleDepthStencil lists back-buffer and depth/stencil pairs that cannot be combined.
	IncompatibleDepthStencil []DepthStencilPair `yaml:"incompatible_depth_stencil,omitempty"`

	// Multisample lists supported multisample types and their quality level counts.
	Multisample []MultisampleProfile `yaml:"multisample"`

	// Conflicts lists depth/stencil formats that cannot be used with a multisample type.
	Conflicts []ConflictProfile `yaml:"conflicts,omitempty"`
}

// SurfaceProfile is an adapter format and back-buffer format pair and the modes it works in.
type SurfaceProfile struct {
	AdapterFormat    caps.SurfaceFormat `yaml:"adapter_format"`
	BackBufferFormat caps.SurfaceFormat `yaml:"back_buffer_format"`
	Windowed         bool               `yaml:"windowed"`
	Fullscreen       bool               `yaml:"fullscreen"`
}

// DepthStencilPair is a back-buffer format and depth/stencil format pair.
type DepthStencilPair struct {
	BackBufferFormat   caps.SurfaceFormat `yaml:"back_buffer_format"`
	DepthStencilFormat caps.SurfaceFormat `yaml:"depth_stencil"`
}

// MultisampleProfile is a supported multisample type and its quality level count.
type MultisampleProfile struct {
	Type      caps.MultisampleType `yaml:"type"`
	Qualities int                  `yaml:"qualities"`
}

// ConflictProfile is a depth/stencil format that cannot be multisampled with Type.
type ConflictProfile struct {
	DepthStencilFormat caps.SurfaceFormat   `yaml:"depth_stencil"`
	Multisample        caps.MultisampleType `yaml:"multisample"`
}

// LoadProfile reads and validates a YAML profile from path.
//
// Parameters:
//   - path: the profile file path
//
// Returns:
//   - Profile: the parsed profile
//   - error: an error if the file cannot be read or is invalid
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates a YAML profile. Unknown fields are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Profile: the parsed profile
//   - error: an error if the document is malformed or names unknown capabilities
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Marshal encodes the profile as YAML.
func (p Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// Validate checks that every capability name is known and every device kind appears once per adapter.
func (p Profile) Validate() error {
	for i, a := range p.Adapters {
		seen := make(map[caps.DeviceKind]bool)
		for _, d := range a.Devices {
			if seen[d.Kind] {
				return fmt.Errorf("adapter %d: duplicate %s device", i, d.Kind)
			}
			seen[d.Kind] = true
			if _, ok := caps.ParseCapabilityBits(d.Caps); !ok {
				return fmt.Errorf("adapter %d: %s device has unknown capability in %v", i, d.Kind, d.Caps)
			}
		}
	}
	return nil
}
