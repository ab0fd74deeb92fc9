package selection

import (
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"go.uber.org/zap"
)

// SelectorBuilderOption is a functional option applied to a selector during construction via NewSelector.
type SelectorBuilderOption func(*selector)

// WithLogger sets the logger that receives the chosen configurations and their degradations.
//
// Parameters:
//   - logger: the zap logger to use; nil keeps the no-op default
//
// Returns:
//   - SelectorBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) SelectorBuilderOption {
	return func(s *selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProfiler records selection stage timings on p.
//
// Parameters:
//   - p: the profiler to record to
//
// Returns:
//   - SelectorBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SelectorBuilderOption {
	return func(s *selector) {
		s.profiler = p
	}
}
