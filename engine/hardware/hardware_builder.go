package hardware

import "go.uber.org/zap"

// HardwareBuilderOption is a functional option applied to a Provider during construction via New.
type HardwareBuilderOption func(*Provider)

// WithLogger sets the logger probe results are written to at debug level.
//
// Parameters:
//   - logger: the zap logger to use; nil keeps the no-op default
//
// Returns:
//   - HardwareBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) HardwareBuilderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithForceFallbackAdapter probes only the software fallback adapter, hiding hardware devices.
// Useful to exercise the software path on machines with a GPU.
//
// Parameters:
//   - force: true to skip the hardware adapter
//
// Returns:
//   - HardwareBuilderOption: option function to apply
func WithForceFallbackAdapter(force bool) HardwareBuilderOption {
	return func(p *Provider) {
		p.forceFallback = force
	}
}

// withBackend replaces the platform probe.
func withBackend(b hardwareBackend) HardwareBuilderOption {
	return func(p *Provider) {
		p.backend = b
	}
}
