package enumeration

import (
	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"go.uber.org/zap"
)

// windowModes is the order the windowed flag is tried in for every format pair.
var windowModes = []bool{false, true}

// validateCombos builds every combo the device supports across the adapter formats and the
// back-buffer allow-list. Candidates failing any stage are dropped without error.
//
// Parameters:
//   - device: the device being validated; only its identity and caps are read
//   - adapterFormats: the adapter's format set, desktop format included
//   - req: the requirements to enforce
//
// Returns:
//   - []*DeviceCombo: the surviving combos, in adapter format, back-buffer format, windowed order
func (e *enumerator) validateCombos(device *Device, adapterFormats []caps.SurfaceFormat, req Requirements) []*DeviceCombo {
	var combos []*DeviceCombo
	for _, adapterFormat := range adapterFormats {
		for _, backBufferFormat := range e.backBufferFormats {
			if backBufferFormat.AlphaBits() < req.MinAlphaChannelBits {
				e.profiler.Pruned(PruneAlphaBits)
				continue
			}
			for _, windowed := range windowModes {
				if combo := e.validateCombo(device, adapterFormat, backBufferFormat, windowed, req); combo != nil {
					combos = append(combos, combo)
				}
			}
		}
	}
	return combos
}

// validateCombo runs a single candidate through every validation stage, returning nil on the first failure.
func (e *enumerator) validateCombo(device *Device, adapterFormat, backBufferFormat caps.SurfaceFormat, windowed bool, req Requirements) *DeviceCombo {
	if (windowed && req.RequireFullscreen) || (!windowed && req.RequireWindowed) {
		e.profiler.Pruned(PruneWindowMode)
		return nil
	}

	ordinal, kind := device.AdapterOrdinal, device.Kind
	if !e.provider.IsTypeSupported(ordinal, kind, adapterFormat, backBufferFormat, windowed) {
		e.profiler.Pruned(PruneTypeUnsupported)
		return nil
	}

	combo := &DeviceCombo{
		AdapterOrdinal:   ordinal,
		DeviceKind:       kind,
		AdapterFormat:    adapterFormat,
		BackBufferFormat: backBufferFormat,
		Windowed:         windowed,
	}

	combo.DepthStencilFormats = e.depthStencilFormatsFor(combo, req)
	if req.UsesDepthBuffer && len(combo.DepthStencilFormats) == 0 {
		e.logger.Debug("dropping combo: no depth/stencil format meets requirements",
			zap.Int("adapter", ordinal),
			zap.Stringer("kind", kind),
			zap.Stringer("adapter_format", adapterFormat),
			zap.Stringer("back_buffer_format", backBufferFormat),
			zap.Bool("windowed", windowed),
		)
		e.profiler.Pruned(PruneDepthStencil)
		return nil
	}

	combo.MultisampleTypes, combo.MultisampleQualities = e.multisampleTypesFor(combo)
	combo.Conflicts = e.conflictsFor(combo)

	combo.VertexProcessing = vertexProcessingFor(device.Caps, adapterFormat, backBufferFormat, req)
	if len(combo.VertexProcessing) == 0 {
		e.profiler.Pruned(PruneVertexProcessing)
		return nil
	}

	combo.PresentIntervals = presentIntervalsFor(device.Caps, windowed)
	return combo
}

// depthStencilFormatsFor lists the depth/stencil formats that meet the bit minimums, are usable as
// depth/stencil surfaces and pair with the combo's back-buffer format.
func (e *enumerator) depthStencilFormatsFor(combo *DeviceCombo, req Requirements) []caps.SurfaceFormat {
	var formats []caps.SurfaceFormat
	for _, f := range e.depthStencilFormats {
		if f.DepthBits() < req.MinDepthBits || f.StencilBits() < req.MinStencilBits {
			continue
		}
		if !e.provider.IsFormatUsable(combo.AdapterOrdinal, combo.DeviceKind, combo.AdapterFormat, caps.UsageDepthStencil, caps.ResourceSurface, f) {
			continue
		}
		if !e.provider.IsDepthStencilCompatible(combo.AdapterOrdinal, combo.DeviceKind, combo.AdapterFormat, combo.BackBufferFormat, f) {
			continue
		}
		formats = append(formats, f)
	}
	return formats
}

// multisampleTypesFor lists the multisample types supported for the back-buffer format together
// with the parallel quality level counts.
func (e *enumerator) multisampleTypesFor(combo *DeviceCombo) ([]caps.MultisampleType, []int) {
	var (
		types     []caps.MultisampleType
		qualities []int
	)
	for _, ms := range e.multisampleTypes {
		levels, ok := e.provider.MultisampleQualityLevels(combo.AdapterOrdinal, combo.DeviceKind, combo.BackBufferFormat, combo.Windowed, ms)
		if !ok {
			continue
		}
		types = append(types, ms)
		qualities = append(qualities, levels)
	}
	return types, qualities
}

// conflictsFor lists the depth/stencil and multisample pairs the device rejects.
func (e *enumerator) conflictsFor(combo *DeviceCombo) []Conflict {
	var conflicts []Conflict
	for _, ds := range combo.DepthStencilFormats {
		for _, ms := range combo.MultisampleTypes {
			if _, ok := e.provider.MultisampleQualityLevels(combo.AdapterOrdinal, combo.DeviceKind, ds, combo.Windowed, ms); !ok {
				conflicts = append(conflicts, Conflict{DepthStencilFormat: ds, Multisample: ms})
			}
		}
	}
	return conflicts
}

// vertexProcessingFor lists the vertex processing modes the device offers and the application confirms,
// most capable first.
func vertexProcessingFor(bits caps.CapabilityBits, adapterFormat, backBufferFormat caps.SurfaceFormat, req Requirements) []caps.VertexProcessing {
	var modes []caps.VertexProcessing
	offer := func(vp caps.VertexProcessing) {
		if req.confirm(bits, vp, adapterFormat, backBufferFormat) {
			modes = append(modes, vp)
		}
	}

	if bits.Has(caps.CapHardwareTransformLighting) {
		if bits.Has(caps.CapPureDevice) {
			offer(caps.VertexProcessingPureHardware)
		}
		offer(caps.VertexProcessingHardware)
		if req.UsesMixedVertexProcessing {
			offer(caps.VertexProcessingMixed)
		}
	}
	offer(caps.VertexProcessingSoftware)
	return modes
}

// presentIntervalsFor lists the present intervals available to a combo. Immediate and default are
// always offered; multi-frame intervals are never offered windowed; the rest need their capability bit.
func presentIntervalsFor(bits caps.CapabilityBits, windowed bool) []caps.PresentInterval {
	var intervals []caps.PresentInterval
	for _, p := range caps.PresentIntervals {
		if windowed && p.IsMultiFrame() {
			continue
		}
		if p == caps.PresentIntervalImmediate || p == caps.PresentIntervalDefault {
			intervals = append(intervals, p)
			continue
		}
		if bits.Has(caps.PresentIntervalBit(p)) {
			intervals = append(intervals, p)
		}
	}
	return intervals
}
