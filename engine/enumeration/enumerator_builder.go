package enumeration

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"go.uber.org/zap"
)

// EnumeratorBuilderOption is a functional option applied to an enumerator during construction via NewEnumerator.
type EnumeratorBuilderOption func(*enumerator)

// WithLogger sets the logger that receives pruning decisions (debug) and build summaries (info).
//
// Parameters:
//   - logger: the zap logger to use; nil keeps the no-op default
//
// Returns:
//   - EnumeratorBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EnumeratorBuilderOption {
	return func(e *enumerator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProfiler records stage timing and prune counts on p.
//
// Parameters:
//   - p: the profiler to record to
//
// Returns:
//   - EnumeratorBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EnumeratorBuilderOption {
	return func(e *enumerator) {
		e.profiler = p
	}
}

// WithProbeWorkers probes adapters concurrently on a worker pool of the given size.
// The catalog is identical to a sequential build. The provider must be safe for concurrent reads.
// Values <= 1 probe sequentially (default).
//
// Parameters:
//   - workers: the number of probe workers
//
// Returns:
//   - EnumeratorBuilderOption: option function to apply
func WithProbeWorkers(workers int) EnumeratorBuilderOption {
	return func(e *enumerator) {
		e.probeWorkers = max(workers, 1)
	}
}

// WithAdapterFormats replaces the allow-list of adapter formats whose display modes are enumerated.
//
// Parameters:
//   - formats: the adapter formats in probe order
//
// Returns:
//   - EnumeratorBuilderOption: option function to apply
func WithAdapterFormats(formats ...caps.SurfaceFormat) EnumeratorBuilderOption {
	return func(e *enumerator) {
		e.adapterFormats = slices.Clone(formats)
	}
}

// WithBackBufferFormats replaces the allow-list of back-buffer formats. Order them richest first;
// the first valid format of a combo list wins ties during selection.
//
// Parameters:
//   - formats: the back-buffer formats in preference order
//
// Returns:
//   - EnumeratorBuilderOption: option function to apply
func WithBackBufferFormats(formats ...caps.SurfaceFormat) EnumeratorBuilderOption {
	return func(e *enumerator) {
		e.backBufferFormats = slices.Clone(formats)
	}
}

// WithDepthStencilFormats replaces the allow-list of depth/stencil formats probed for each combo.
//
// Parameters:
//   - formats: the depth/stencil formats in preference order
//
// Returns:
//   - EnumeratorBuilderOption: option function to apply
func WithDepthStencilFormats(formats ...caps.SurfaceFormat) EnumeratorBuilderOption {
	return func(e *enumerator) {
		e.depthStencilFormats = slices.Clone(formats)
	}
}
