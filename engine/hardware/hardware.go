// Package hardware provides a caps.Provider for the machine the process runs on. Monitors are
// probed through GLFW and GPU adapters through WebGPU once, at construction; every capability
// query is then answered from that snapshot, so the provider is safe for concurrent reads.
//
// Each connected monitor is an adapter ordinal, primary first, and shares the probed GPU
// devices. WebGPU has no reference rasterizer, so DeviceKindReference is never available.
package hardware

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"go.uber.org/zap"
)

// presentableFormats are the swap-chain formats WebGPU surfaces can be configured with.
var presentableFormats = []caps.SurfaceFormat{
	caps.FormatARGB8,
	caps.FormatXRGB8,
	caps.FormatA2RGB10,
}

// depthStencilFormats are the depth/stencil texture formats every WebGPU device supports.
var depthStencilFormats = []caps.SurfaceFormat{
	caps.FormatD16,
	caps.FormatD24X8,
	caps.FormatD24S8,
	caps.FormatD32,
}

// Provider answers capability queries from a snapshot of the local monitors and GPU adapters.
type Provider struct {
	logger        *zap.Logger
	backend       hardwareBackend
	forceFallback bool

	monitors []monitorSnapshot
	devices  []gpuSnapshot
}

var _ caps.Provider = &Provider{}

// New probes the local machine and returns a Provider for it.
// Call it from the goroutine that owns the windowing system (usually main).
//
// Parameters:
//   - options: variadic list of HardwareBuilderOption functions
//
// Returns:
//   - *Provider: the provider
//   - error: an error wrapping caps.ErrNoGraphicsProvider if no monitor or GPU adapter could be probed
func New(options ...HardwareBuilderOption) (*Provider, error) {
	p := &Provider{
		logger:  zap.NewNop(),
		backend: platformBackend{},
	}
	for _, opt := range options {
		opt(p)
	}

	monitors, err := p.backend.probeMonitors()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", caps.ErrNoGraphicsProvider, err)
	}
	devices, err := p.backend.probeAdapters(p.forceFallback)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", caps.ErrNoGraphicsProvider, err)
	}
	if len(monitors) == 0 || len(devices) == 0 {
		return nil, fmt.Errorf("%w: probed %d monitors and %d gpu adapters", caps.ErrNoGraphicsProvider, len(monitors), len(devices))
	}
	p.monitors = monitors
	p.devices = devices

	for i, m := range monitors {
		p.logger.Debug("probed monitor",
			zap.Int("ordinal", i),
			zap.String("name", m.name),
			zap.Stringer("desktop", m.desktop),
			zap.Int("modes", len(m.modes)),
		)
	}
	for _, d := range devices {
		p.logger.Debug("probed gpu adapter",
			zap.Stringer("kind", d.kind),
			zap.String("description", d.identity.Description),
			zap.String("driver", d.identity.DriverVersion),
			zap.Bool("depth32_stencil8", d.depth32Stencil8),
		)
	}
	return p, nil
}

func (p *Provider) monitor(ordinal int) (*monitorSnapshot, error) {
	if ordinal < 0 || ordinal >= len(p.monitors) {
		return nil, fmt.Errorf("adapter ordinal %d out of range", ordinal)
	}
	return &p.monitors[ordinal], nil
}

func (p *Provider) device(ordinal int, kind caps.DeviceKind) (*gpuSnapshot, bool) {
	if _, err := p.monitor(ordinal); err != nil {
		return nil, false
	}
	for i := range p.devices {
		if p.devices[i].kind == kind {
			return &p.devices[i], true
		}
	}
	return nil, false
}

func (p *Provider) AdapterCount() (int, error) {
	return len(p.monitors), nil
}

// AdapterIdentity reports the GPU driving the monitor. The hardware adapter is preferred when
// both a hardware and a software adapter were probed.
func (p *Provider) AdapterIdentity(ordinal int) (caps.AdapterIdentity, error) {
	if _, err := p.monitor(ordinal); err != nil {
		return caps.AdapterIdentity{}, err
	}
	if d, ok := p.device(ordinal, caps.DeviceKindHardware); ok {
		return d.identity, nil
	}
	return p.devices[0].identity, nil
}

func (p *Provider) AdapterDesktopMode(ordinal int) (caps.DisplayMode, error) {
	m, err := p.monitor(ordinal)
	if err != nil {
		return caps.DisplayMode{}, err
	}
	if m.desktop.Format == caps.FormatUnknown {
		return caps.DisplayMode{}, fmt.Errorf("adapter %d: unsupported desktop channel depth", ordinal)
	}
	return m.desktop, nil
}

func (p *Provider) EnumerateDisplayModes(ordinal int, format caps.SurfaceFormat) ([]caps.DisplayMode, error) {
	m, err := p.monitor(ordinal)
	if err != nil {
		return nil, err
	}
	var modes []caps.DisplayMode
	for _, mode := range m.modes {
		if mode.Format == format {
			modes = append(modes, mode)
		}
	}
	return modes, nil
}

// DeviceCapabilities reports hardware vertex processing for GPU adapters. Both device kinds
// present with FIFO, so interval one is always available; the others have no WebGPU equivalent.
func (p *Provider) DeviceCapabilities(ordinal int, kind caps.DeviceKind) (caps.CapabilityBits, error) {
	if _, ok := p.device(ordinal, kind); !ok {
		return 0, fmt.Errorf("adapter %d: %w: %s", ordinal, caps.ErrDeviceKindUnavailable, kind)
	}
	bits := caps.CapPresentIntervalOne
	if kind == caps.DeviceKindHardware {
		bits |= caps.CapHardwareTransformLighting | caps.CapPureDevice
	}
	return bits, nil
}

// IsTypeSupported accepts any presentable back buffer windowed, since the compositor converts to
// the desktop format. Fullscreen requires the back buffer's color channels to match the display's.
func (p *Provider) IsTypeSupported(ordinal int, kind caps.DeviceKind, adapterFormat, backBufferFormat caps.SurfaceFormat, windowed bool) bool {
	if _, ok := p.device(ordinal, kind); !ok {
		return false
	}
	if !slices.Contains(presentableFormats, backBufferFormat) {
		return false
	}
	return windowed || backBufferFormat.ColorChannelBits() == adapterFormat.ColorChannelBits()
}

func (p *Provider) IsFormatUsable(ordinal int, kind caps.DeviceKind, adapterFormat caps.SurfaceFormat, usage caps.Usage, resource caps.ResourceKind, format caps.SurfaceFormat) bool {
	d, ok := p.device(ordinal, kind)
	if !ok {
		return false
	}
	switch usage {
	case caps.UsageDepthStencil:
		return resource == caps.ResourceSurface && d.supportsDepthStencil(format)
	case caps.UsageRenderTarget:
		return slices.Contains(presentableFormats, format)
	}
	return false
}

// IsDepthStencilCompatible accepts every supported depth/stencil format; WebGPU does not tie
// depth attachments to the color format.
func (p *Provider) IsDepthStencilCompatible(ordinal int, kind caps.DeviceKind, adapterFormat, backBufferFormat, depthStencilFormat caps.SurfaceFormat) bool {
	d, ok := p.device(ordinal, kind)
	return ok && d.supportsDepthStencil(depthStencilFormat)
}

// MultisampleQualityLevels reports single sampling and 4x, the only counts WebGPU guarantees for
// renderable formats. Neither has selectable quality levels.
func (p *Provider) MultisampleQualityLevels(ordinal int, kind caps.DeviceKind, format caps.SurfaceFormat, windowed bool, multisample caps.MultisampleType) (int, bool) {
	d, ok := p.device(ordinal, kind)
	if !ok {
		return 0, false
	}
	if multisample != caps.MultisampleNone && multisample != caps.Multisample4x {
		return 0, false
	}
	if format.IsDepthStencil() {
		return 1, d.supportsDepthStencil(format)
	}
	return 1, slices.Contains(presentableFormats, format)
}

func (g *gpuSnapshot) supportsDepthStencil(format caps.SurfaceFormat) bool {
	if format == caps.FormatD32FS8 {
		return g.depth32Stencil8
	}
	return slices.Contains(depthStencilFormats, format)
}
