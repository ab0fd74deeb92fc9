package selection

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/enumeration"
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"go.uber.org/zap"
)

// Selector picks the best combo of a catalog for windowed and fullscreen rendering.
// Both searches are independent, read-only and deterministic for a given catalog.
type Selector interface {
	// SelectWindowed picks the best windowed combo whose adapter format matches the primary desktop.
	//
	// Parameters:
	//   - catalog: the catalog to search
	//   - req: requirements restricting the device kinds considered
	//
	// Returns:
	//   - *WindowedConfiguration: the resolved configuration, possibly carrying warnings
	//   - error: an error wrapping caps.ErrNoWindowableDevices if nothing qualifies
	SelectWindowed(catalog *enumeration.Catalog, req enumeration.Requirements) (*WindowedConfiguration, error)

	// SelectFullscreen picks the best fullscreen combo across all adapters and a display mode for it.
	//
	// Parameters:
	//   - catalog: the catalog to search
	//   - req: requirements restricting the device kinds considered
	//
	// Returns:
	//   - *FullscreenConfiguration: the resolved configuration, possibly carrying warnings
	//   - error: an error wrapping caps.ErrNoFullscreenDevices if nothing qualifies
	SelectFullscreen(catalog *enumeration.Catalog, req enumeration.Requirements) (*FullscreenConfiguration, error)
}

// selector implements the Selector interface.
type selector struct {
	logger   *zap.Logger
	profiler *profiler.Profiler
}

var _ Selector = &selector{}

// candidate is a combo together with the adapter and device that own it.
type candidate struct {
	adapter *enumeration.Adapter
	device  *enumeration.Device
	combo   *enumeration.DeviceCombo
}

func (c *candidate) hardware() bool {
	return c.device.Kind == caps.DeviceKindHardware
}

// NewSelector creates a new Selector.
//
// Parameters:
//   - options: functional options to configure the selector
//
// Returns:
//   - Selector: the configured selector
func NewSelector(options ...SelectorBuilderOption) Selector {
	s := &selector{
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *selector) SelectWindowed(catalog *enumeration.Catalog, req enumeration.Requirements) (*WindowedConfiguration, error) {
	defer s.profiler.Stage(profiler.StageSelectWindowed)()

	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", caps.ErrNoWindowableDevices)
	}
	desktop := catalog.PrimaryDesktopMode()

	var warnings []error
	win, ok := searchWindowed(catalog, desktop, req.AllowsDeviceKind, false)
	if !ok && req.RequireHardware {
		if win, ok = searchWindowed(catalog, desktop, anyDeviceKind, false); ok {
			warnings = append(warnings, caps.ErrHardwareFallback)
		}
	}
	if !ok && req.RequireReference {
		if win, ok = searchWindowed(catalog, desktop, req.AllowsDeviceKind, true); ok {
			warnings = append(warnings, caps.ErrReferenceNotDesktopCompatible)
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: desktop format %s", caps.ErrNoWindowableDevices, desktop.Format)
	}
	warnings = appendKindWarning(warnings, win, req)

	cfg := &WindowedConfiguration{Choices: newChoices(win, desktop)}
	cfg.Warnings = warnings
	s.logSelection("windowed", cfg.Choices, win)
	return cfg, nil
}

func (s *selector) SelectFullscreen(catalog *enumeration.Catalog, req enumeration.Requirements) (*FullscreenConfiguration, error) {
	defer s.profiler.Stage(profiler.StageSelectFullscreen)()

	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", caps.ErrNoFullscreenDevices)
	}

	var warnings []error
	win, ok := searchFullscreen(catalog, req.AllowsDeviceKind)
	if !ok && req.RequireHardware {
		if win, ok = searchFullscreen(catalog, anyDeviceKind); ok {
			warnings = append(warnings, caps.ErrHardwareFallback)
		}
	}
	if !ok {
		return nil, caps.ErrNoFullscreenDevices
	}

	desktop := win.adapter.DesktopMode
	if win.device.Kind == caps.DeviceKindReference && win.combo.AdapterFormat != desktop.Format {
		warnings = append(warnings, caps.ErrReferenceNotDesktopCompatible)
	}
	warnings = appendKindWarning(warnings, win, req)

	mode, found := chooseDisplayMode(win.adapter.DisplayModes, win.combo.AdapterFormat, desktop)
	if !found {
		// Only the desktop format can lack enumerated modes; the desktop mode itself is always valid.
		mode = desktop
	}

	cfg := &FullscreenConfiguration{
		Choices:            newChoices(win, mode),
		AdapterDesktopMode: desktop,
	}
	cfg.Warnings = warnings
	s.logSelection("fullscreen", cfg.Choices, win)
	return cfg, nil
}

// searchWindowed scans windowed combos for the best match against the primary desktop format. A
// hardware, self-matching, desktop-matching combo wins outright and ends the scan.
// With allowForeignFormat set, combos whose adapter format differs from the desktop are considered too.
func searchWindowed(catalog *enumeration.Catalog, desktop caps.DisplayMode, allowKind func(caps.DeviceKind) bool, allowForeignFormat bool) (candidate, bool) {
	var best *candidate
	for _, a := range catalog.Adapters() {
		for _, d := range a.Devices {
			if !allowKind(d.Kind) {
				continue
			}
			for _, combo := range d.Combos {
				if !combo.Windowed {
					continue
				}
				if !allowForeignFormat && combo.AdapterFormat != desktop.Format {
					continue
				}

				c := &candidate{adapter: a, device: d, combo: combo}
				hw, self := c.hardware(), combo.SelfMatching()
				if hw && self && combo.AdapterFormat == desktop.Format {
					return *c, true
				}
				if best == nil ||
					(!best.hardware() && hw) ||
					(hw && self && desktop.Format != best.combo.AdapterFormat) {
					best = c
				}
			}
		}
	}
	if best == nil {
		return candidate{}, false
	}
	return *best, true
}

// searchFullscreen scans fullscreen combos on every adapter, judging each against that adapter's own
// desktop mode, and returns as soon as a hardware, self-matching, desktop-matching combo is found.
func searchFullscreen(catalog *enumeration.Catalog, allowKind func(caps.DeviceKind) bool) (candidate, bool) {
	var (
		best        *candidate
		bestDesktop caps.DisplayMode
	)
	for _, a := range catalog.Adapters() {
		desktop := a.DesktopMode
		for _, d := range a.Devices {
			if !allowKind(d.Kind) {
				continue
			}
			for _, combo := range d.Combos {
				if combo.Windowed {
					continue
				}

				c := &candidate{adapter: a, device: d, combo: combo}
				hw := c.hardware()
				self := combo.SelfMatching()
				matchesDesktop := combo.AdapterFormat == desktop.Format

				if best == nil ||
					(!best.hardware() && hw) ||
					(hw && matchesDesktop && best.combo.AdapterFormat != bestDesktop.Format) ||
					(hw && matchesDesktop && self) {
					best, bestDesktop = c, desktop
					if hw && matchesDesktop && self {
						return *best, true
					}
				}
			}
		}
	}
	if best == nil {
		return candidate{}, false
	}
	return *best, true
}

func anyDeviceKind(caps.DeviceKind) bool { return true }

// appendKindWarning reports a non-hardware winner unless the caller asked for a reference device or
// the fallback was already reported.
func appendKindWarning(warnings []error, win candidate, req enumeration.Requirements) []error {
	if win.hardware() || req.RequireReference {
		return warnings
	}
	for _, w := range warnings {
		if w == caps.ErrHardwareFallback {
			return warnings
		}
	}
	return append(warnings, caps.ErrHardwareFallback)
}

func (s *selector) logSelection(mode string, c Choices, win candidate) {
	fields := []zap.Field{
		zap.String("mode", mode),
		zap.Int("adapter", win.adapter.Ordinal),
		zap.Stringer("kind", win.device.Kind),
		zap.Stringer("adapter_format", win.combo.AdapterFormat),
		zap.Stringer("back_buffer_format", win.combo.BackBufferFormat),
		zap.Stringer("display_mode", c.DisplayMode),
		zap.Stringer("depth_stencil", c.DepthStencilFormat),
		zap.Stringer("vertex_processing", c.VertexProcessing),
	}
	if len(c.Warnings) > 0 {
		s.logger.Warn("configuration selected with degradations", append(fields, zap.Errors("warnings", c.Warnings))...)
		return
	}
	s.logger.Info("configuration selected", fields...)
}
