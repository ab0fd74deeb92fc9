package simulated

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
)

// Provider answers capability queries from a Profile. It is read-only after construction and safe
// for concurrent use.
type Provider struct {
	profile Profile
	caps    [][]caps.CapabilityBits
	queries atomic.Int64
}

var _ caps.Provider = &Provider{}

// New creates a Provider for profile.
//
// Parameters:
//   - profile: the machine description
//
// Returns:
//   - *Provider: the provider
//   - error: an error if the profile is invalid
func New(profile Profile) (*Provider, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	p := &Provider{profile: profile}
	p.caps = make([][]caps.CapabilityBits, len(profile.Adapters))
	for i, a := range profile.Adapters {
		p.caps[i] = make([]caps.CapabilityBits, len(a.Devices))
		for j, d := range a.Devices {
			p.caps[i][j], _ = caps.ParseCapabilityBits(d.Caps)
		}
	}
	return p, nil
}

// MustNew is New for profiles known to be valid, such as test fixtures. It panics on an invalid profile.
func MustNew(profile Profile) *Provider {
	p, err := New(profile)
	if err != nil {
		panic(fmt.Sprintf("invalid simulated profile: %v", err))
	}
	return p
}

// Queries returns how many capability queries have been answered.
func (p *Provider) Queries() int64 {
	return p.queries.Load()
}

func (p *Provider) adapter(ordinal int) (*AdapterProfile, error) {
	p.queries.Add(1)
	if ordinal < 0 || ordinal >= len(p.profile.Adapters) {
		return nil, fmt.Errorf("adapter ordinal %d out of range", ordinal)
	}
	return &p.profile.Adapters[ordinal], nil
}

func (p *Provider) device(ordinal int, kind caps.DeviceKind) (*DeviceProfile, caps.CapabilityBits, bool) {
	a, err := p.adapter(ordinal)
	if err != nil {
		return nil, 0, false
	}
	for i := range a.Devices {
		if a.Devices[i].Kind == kind {
			return &a.Devices[i], p.caps[ordinal][i], true
		}
	}
	return nil, 0, false
}

func (p *Provider) AdapterCount() (int, error) {
	p.queries.Add(1)
	if p.profile.Unavailable {
		return 0, caps.ErrNoGraphicsProvider
	}
	return len(p.profile.Adapters), nil
}

func (p *Provider) AdapterIdentity(ordinal int) (caps.AdapterIdentity, error) {
	a, err := p.adapter(ordinal)
	if err != nil {
		return caps.AdapterIdentity{}, err
	}
	if a.IdentityUnavailable {
		return caps.AdapterIdentity{}, fmt.Errorf("adapter %d: identity unavailable", ordinal)
	}
	return a.Identity, nil
}

func (p *Provider) AdapterDesktopMode(ordinal int) (caps.DisplayMode, error) {
	a, err := p.adapter(ordinal)
	if err != nil {
		return caps.DisplayMode{}, err
	}
	return a.Desktop, nil
}

func (p *Provider) EnumerateDisplayModes(ordinal int, format caps.SurfaceFormat) ([]caps.DisplayMode, error) {
	a, err := p.adapter(ordinal)
	if err != nil {
		return nil, err
	}
	var modes []caps.DisplayMode
	for _, m := range a.Modes {
		if m.Format == format {
			modes = append(modes, m)
		}
	}
	return modes, nil
}

func (p *Provider) DeviceCapabilities(ordinal int, kind caps.DeviceKind) (caps.CapabilityBits, error) {
	_, bits, ok := p.device(ordinal, kind)
	if !ok {
		return 0, fmt.Errorf("adapter %d: %w: %s", ordinal, caps.ErrDeviceKindUnavailable, kind)
	}
	return bits, nil
}

func (p *Provider) IsTypeSupported(ordinal int, kind caps.DeviceKind, adapterFormat, backBufferFormat caps.SurfaceFormat, windowed bool) bool {
	d, _, ok := p.device(ordinal, kind)
	if !ok {
		return false
	}
	return slices.ContainsFunc(d.Surfaces, func(s SurfaceProfile) bool {
		return s.AdapterFormat == adapterFormat &&
			s.BackBufferFormat == backBufferFormat &&
			((windowed && s.Windowed) || (!windowed && s.Fullscreen))
	})
}

func (p *Provider) IsFormatUsable(ordinal int, kind caps.DeviceKind, adapterFormat caps.SurfaceFormat, usage caps.Usage, resource caps.ResourceKind, format caps.SurfaceFormat) bool {
	d, _, ok := p.device(ordinal, kind)
	if !ok {
		return false
	}
	switch usage {
	case caps.UsageDepthStencil:
		return resource == caps.ResourceSurface && slices.Contains(d.DepthStencil, format)
	case caps.UsageRenderTarget:
		return slices.ContainsFunc(d.Surfaces, func(s SurfaceProfile) bool {
			return s.AdapterFormat == adapterFormat && s.BackBufferFormat == format
		})
	}
	return false
}

func (p *Provider) IsDepthStencilCompatible(ordinal int, kind caps.DeviceKind, adapterFormat, backBufferFormat, depthStencilFormat caps.SurfaceFormat) bool {
	d, _, ok := p.device(ordinal, kind)
	if !ok || !slices.Contains(d.DepthStencil, depthStencilFormat) {
		return false
	}
	return !slices.Contains(d.IncompatibleDepthStencil, DepthStencilPair{
		BackBufferFormat:   backBufferFormat,
		DepthStencilFormat: depthStencilFormat,
	})
}

func (p *Provider) MultisampleQualityLevels(ordinal int, kind caps.DeviceKind, format caps.SurfaceFormat, windowed bool, multisample caps.MultisampleType) (int, bool) {
	d, _, ok := p.device(ordinal, kind)
	if !ok {
		return 0, false
	}
	i := slices.IndexFunc(d.Multisample, func(m MultisampleProfile) bool { return m.Type == multisample })
	if i < 0 {
		return 0, false
	}
	if format.IsDepthStencil() {
		conflict := slices.Contains(d.Conflicts, ConflictProfile{DepthStencilFormat: format, Multisample: multisample})
		if conflict || !slices.Contains(d.DepthStencil, format) {
			return 0, false
		}
	}
	return max(d.Multisample[i].Qualities, 1), true
}
