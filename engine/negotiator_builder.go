package engine

import (
	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/enumeration"
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"go.uber.org/zap"
)

// NegotiatorBuilderOption is a functional option for configuring a Negotiator.
// Use the With* functions to create options that are applied directly to the negotiator instance.
type NegotiatorBuilderOption func(*negotiator)

// WithRequirements replaces the default requirements. A ConfirmFunc already set by WithConfirm is kept
// when req carries none.
//
// Parameters:
//   - req: the application's minimum requirements
//
// Returns:
//   - NegotiatorBuilderOption: option function to apply
func WithRequirements(req enumeration.Requirements) NegotiatorBuilderOption {
	return func(n *negotiator) {
		if req.Confirm == nil {
			req.Confirm = n.requirements.Confirm
		}
		n.requirements = req
	}
}

// WithConfirm sets the application's vertex processing veto.
//
// Parameters:
//   - confirm: the confirmation predicate
//
// Returns:
//   - NegotiatorBuilderOption: option function to apply
func WithConfirm(confirm caps.ConfirmFunc) NegotiatorBuilderOption {
	return func(n *negotiator) {
		n.requirements.Confirm = confirm
	}
}

// WithLogger sets the logger handed to the enumerator and selector.
//
// Parameters:
//   - logger: the zap logger to use; nil keeps the no-op default
//
// Returns:
//   - NegotiatorBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) NegotiatorBuilderOption {
	return func(n *negotiator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithProfiler records every stage of negotiation on p.
//
// Parameters:
//   - p: the profiler to record to
//
// Returns:
//   - NegotiatorBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) NegotiatorBuilderOption {
	return func(n *negotiator) {
		n.profiler = p
	}
}

// WithProbeWorkers probes adapters on a worker pool of the given size. Values <= 1 probe sequentially.
//
// Parameters:
//   - workers: the number of probe workers
//
// Returns:
//   - NegotiatorBuilderOption: option function to apply
func WithProbeWorkers(workers int) NegotiatorBuilderOption {
	return func(n *negotiator) {
		n.probeWorkers = max(workers, 1)
	}
}
