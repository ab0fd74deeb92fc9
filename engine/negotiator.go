package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/enumeration"
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"github.com/Carmen-Shannon/oxy-caps/engine/selection"
	"go.uber.org/zap"
)

// Outcome is the result of one negotiation: the catalog it ran against and, per window mode, the
// resolved configuration and device parameters. A mode that could not be resolved has a nil
// configuration and its error set.
type Outcome struct {
	Catalog *enumeration.Catalog

	Windowed           *selection.WindowedConfiguration
	WindowedParameters selection.DeviceParameters
	WindowedErr        error

	Fullscreen           *selection.FullscreenConfiguration
	FullscreenParameters selection.DeviceParameters
	FullscreenErr        error
}

// Warnings returns the soft degradations of both resolved configurations, windowed first.
func (o *Outcome) Warnings() []error {
	var warnings []error
	if o.Windowed != nil {
		warnings = append(warnings, o.Windowed.Warnings...)
	}
	if o.Fullscreen != nil {
		warnings = append(warnings, o.Fullscreen.Warnings...)
	}
	return warnings
}

// Negotiator runs the whole pipeline: catalog build, windowed and fullscreen selection, and
// materialization of both into device parameters.
type Negotiator interface {
	// Negotiate resolves both window modes against the current catalog, building it on first use.
	//
	// Parameters:
	//   - intent: the caller's size and presentation preferences
	//
	// Returns:
	//   - *Outcome: the resolved configurations; one mode may be missing with its error recorded
	//   - error: a catalog build error, or both selection errors joined when neither mode resolves
	Negotiate(intent selection.Intent) (*Outcome, error)

	// Renegotiate rebuilds the catalog, then negotiates as Negotiate does. Call it after an adapter,
	// monitor or driver change. The previous catalog stays current if the rebuild fails.
	//
	// Parameters:
	//   - intent: the caller's size and presentation preferences
	//
	// Returns:
	//   - *Outcome: the resolved configurations
	//   - error: as for Negotiate
	Renegotiate(intent selection.Intent) (*Outcome, error)

	// Catalog returns the current catalog, or nil before the first successful build.
	Catalog() *enumeration.Catalog
}

// negotiator implements the Negotiator interface.
// Catalogs are immutable, so swapping the pointer is enough to publish a rebuilt one.
type negotiator struct {
	provider     caps.Provider
	requirements enumeration.Requirements
	logger       *zap.Logger
	profiler     *profiler.Profiler
	probeWorkers int

	// enumerator is built once so every rebuild shares its probe pool.
	enumerator enumeration.Enumerator

	catalog atomic.Pointer[enumeration.Catalog]
	buildMu sync.Mutex
}

// NewNegotiator creates a Negotiator over provider. Nothing is queried until the first Negotiate.
//
// Parameters:
//   - provider: the capability provider to enumerate
//   - options: functional options for requirements, logging, profiling and probing
//
// Returns:
//   - Negotiator: the negotiator
func NewNegotiator(provider caps.Provider, options ...NegotiatorBuilderOption) Negotiator {
	n := &negotiator{
		provider:     provider,
		requirements: enumeration.DefaultRequirements(),
		logger:       zap.NewNop(),
		probeWorkers: 1,
	}
	for _, opt := range options {
		opt(n)
	}
	n.enumerator = enumeration.NewEnumerator(provider,
		enumeration.WithLogger(n.logger),
		enumeration.WithProfiler(n.profiler),
		enumeration.WithProbeWorkers(n.probeWorkers),
	)
	return n
}

func (n *negotiator) Catalog() *enumeration.Catalog {
	return n.catalog.Load()
}

func (n *negotiator) Negotiate(intent selection.Intent) (*Outcome, error) {
	catalog := n.catalog.Load()
	if catalog == nil {
		var err error
		if catalog, err = n.rebuild(false); err != nil {
			return nil, err
		}
	}
	return n.resolve(catalog, intent)
}

func (n *negotiator) Renegotiate(intent selection.Intent) (*Outcome, error) {
	catalog, err := n.rebuild(true)
	if err != nil {
		return nil, err
	}
	return n.resolve(catalog, intent)
}

// rebuild builds and publishes a catalog. Unless force is set, a catalog published by a
// concurrent caller while this one waited for the lock is reused.
func (n *negotiator) rebuild(force bool) (*enumeration.Catalog, error) {
	n.buildMu.Lock()
	defer n.buildMu.Unlock()

	if c := n.catalog.Load(); c != nil && !force {
		return c, nil
	}

	catalog, err := n.enumerator.BuildCatalog(n.requirements)
	if err != nil {
		return nil, err
	}
	n.catalog.Store(catalog)
	return catalog, nil
}

func (n *negotiator) resolve(catalog *enumeration.Catalog, intent selection.Intent) (*Outcome, error) {
	s := selection.NewSelector(
		selection.WithLogger(n.logger),
		selection.WithProfiler(n.profiler),
	)
	out := &Outcome{Catalog: catalog}

	out.Windowed, out.WindowedErr = s.SelectWindowed(catalog, n.requirements)
	out.Fullscreen, out.FullscreenErr = s.SelectFullscreen(catalog, n.requirements)
	if out.WindowedErr != nil && out.FullscreenErr != nil {
		return nil, errors.Join(out.WindowedErr, out.FullscreenErr)
	}

	stop := n.profiler.Stage(profiler.StageMaterialize)
	defer stop()
	if out.Windowed != nil {
		params, err := selection.Materialize(out.Windowed, intent)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize windowed configuration: %w", err)
		}
		out.WindowedParameters = params
	}
	if out.Fullscreen != nil {
		params, err := selection.Materialize(out.Fullscreen, intent)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize fullscreen configuration: %w", err)
		}
		out.FullscreenParameters = params
	}

	for _, w := range out.Warnings() {
		n.logger.Warn("negotiated with degradation", zap.Error(w))
	}
	return out, nil
}
