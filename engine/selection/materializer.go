package selection

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-caps/common"
	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
)

// PresentMode is the caller's frame pacing preference applied on top of the resolved present interval.
type PresentMode int

const (
	// PresentModeResolved keeps the present interval chosen during selection.
	PresentModeResolved PresentMode = iota

	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode resolves "resolved", "vsync" or "uncapped" (case-insensitive). Empty means resolved.
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "resolved", "default":
		return PresentModeResolved, nil
	case "vsync":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	}
	return PresentModeResolved, fmt.Errorf("unknown present mode %q", s)
}

// Intent is what the caller wants on top of the resolved configuration.
type Intent struct {
	// ClientWidth and ClientHeight are the window client area size used for windowed back buffers.
	// Zero falls back to the primary desktop size.
	ClientWidth  int
	ClientHeight int

	// PresentMode picks vsync or uncapped presentation when the combo supports it.
	PresentMode PresentMode

	// Multisample, when set, is used instead of the resolved default if the combo supports it and it
	// does not conflict with the depth/stencil format. MultisampleQuality is clamped to the supported range.
	Multisample        *caps.MultisampleType
	MultisampleQuality int

	// DepthStencilFormat, when not caps.FormatUnknown, is used if the combo lists it.
	DepthStencilFormat caps.SurfaceFormat
}

// DeviceParameters is the plain record handed to device creation.
type DeviceParameters struct {
	AdapterOrdinal   int                `yaml:"adapter_ordinal"`
	DeviceKind       caps.DeviceKind    `yaml:"device_kind"`
	Windowed         bool               `yaml:"windowed"`
	AdapterFormat    caps.SurfaceFormat `yaml:"adapter_format"`
	BackBufferWidth  int                `yaml:"back_buffer_width"`
	BackBufferHeight int                `yaml:"back_buffer_height"`
	BackBufferFormat caps.SurfaceFormat `yaml:"back_buffer_format"`
	BackBufferCount  int                `yaml:"back_buffer_count"`

	EnableAutoDepthStencil bool               `yaml:"enable_auto_depth_stencil"`
	DepthStencilFormat     caps.SurfaceFormat `yaml:"depth_stencil_format"`

	Multisample        caps.MultisampleType `yaml:"multisample"`
	MultisampleQuality int                  `yaml:"multisample_quality"`

	VertexProcessing caps.VertexProcessing `yaml:"vertex_processing"`
	PresentInterval  caps.PresentInterval  `yaml:"present_interval"`

	// FullscreenRefreshRate is 0 for windowed parameters.
	FullscreenRefreshRate int `yaml:"fullscreen_refresh_rate"`
}

// Materialize merges a resolved configuration with the caller's intent into device parameters.
// It performs no hardware queries; preferences the combo cannot honour are ignored.
//
// Parameters:
//   - resolved: a *WindowedConfiguration or *FullscreenConfiguration
//   - intent: the caller's size and presentation preferences
//
// Returns:
//   - DeviceParameters: the parameters for device creation
//   - error: caps.ErrNilConfiguration if resolved is nil
func Materialize(resolved ResolvedConfiguration, intent Intent) (DeviceParameters, error) {
	var (
		choices       Choices
		width, height int
		refresh       int
		windowed      bool
	)

	switch cfg := resolved.(type) {
	case *WindowedConfiguration:
		if cfg == nil {
			return DeviceParameters{}, caps.ErrNilConfiguration
		}
		choices = cfg.Choices
		windowed = true
		width = common.Coalesce(intent.ClientWidth, choices.DisplayMode.Width)
		height = common.Coalesce(intent.ClientHeight, choices.DisplayMode.Height)
	case *FullscreenConfiguration:
		if cfg == nil {
			return DeviceParameters{}, caps.ErrNilConfiguration
		}
		choices = cfg.Choices
		width, height = choices.DisplayMode.Width, choices.DisplayMode.Height
		refresh = choices.DisplayMode.RefreshRate
	default:
		return DeviceParameters{}, caps.ErrNilConfiguration
	}
	if choices.Combo == nil {
		return DeviceParameters{}, caps.ErrNilConfiguration
	}
	combo := choices.Combo

	ds := choices.DepthStencilFormat
	if intent.DepthStencilFormat != caps.FormatUnknown &&
		slices.Contains(combo.DepthStencilFormats, intent.DepthStencilFormat) &&
		!combo.HasConflict(intent.DepthStencilFormat, choices.Multisample) {
		ds = intent.DepthStencilFormat
	}

	ms, quality := choices.Multisample, choices.MultisampleQuality
	if intent.Multisample != nil {
		if levels, ok := combo.QualityLevels(*intent.Multisample); ok && !combo.HasConflict(ds, *intent.Multisample) {
			ms = *intent.Multisample
			quality = min(max(intent.MultisampleQuality, 0), max(levels-1, 0))
		}
	}

	return DeviceParameters{
		AdapterOrdinal:         combo.AdapterOrdinal,
		DeviceKind:             combo.DeviceKind,
		Windowed:               windowed,
		AdapterFormat:          combo.AdapterFormat,
		BackBufferWidth:        width,
		BackBufferHeight:       height,
		BackBufferFormat:       combo.BackBufferFormat,
		BackBufferCount:        1,
		EnableAutoDepthStencil: ds != caps.FormatUnknown,
		DepthStencilFormat:     ds,
		Multisample:            ms,
		MultisampleQuality:     quality,
		VertexProcessing:       choices.VertexProcessing,
		PresentInterval:        presentIntervalFor(intent.PresentMode, choices.PresentInterval, combo.PresentIntervals),
		FullscreenRefreshRate:  refresh,
	}, nil
}

// presentIntervalFor maps the caller's present mode onto an interval the combo offers.
func presentIntervalFor(mode PresentMode, resolved caps.PresentInterval, offered []caps.PresentInterval) caps.PresentInterval {
	switch mode {
	case PresentModeVSync:
		if slices.Contains(offered, caps.PresentIntervalOne) {
			return caps.PresentIntervalOne
		}
		if slices.Contains(offered, caps.PresentIntervalDefault) {
			return caps.PresentIntervalDefault
		}
	case PresentModeUncapped:
		if slices.Contains(offered, caps.PresentIntervalImmediate) {
			return caps.PresentIntervalImmediate
		}
	}
	return resolved
}
