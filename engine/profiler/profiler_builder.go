package profiler

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ProfilerBuilderOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger the profiler writes stage timings and summaries to.
//
// Parameters:
//   - logger: the zap logger to use; nil keeps the no-op default
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRegisterer registers the profiler's prometheus collectors on reg.
// Registering twice on the same registry reuses the collectors already there.
//
// Parameters:
//   - reg: the prometheus registerer, e.g. prometheus.DefaultRegisterer
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithRegisterer(reg prometheus.Registerer) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.registerer = reg
	}
}
