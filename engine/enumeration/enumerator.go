package enumeration

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// Prune reasons reported to the profiler.
const (
	PruneIdentity         = "identity"
	PruneDriverVersion    = "driver_version"
	PruneDesktopMode      = "desktop_mode"
	PruneDeviceCaps       = "device_caps"
	PruneNoCombos         = "no_combos"
	PruneNoDevices        = "no_devices"
	PruneAlphaBits        = "alpha_bits"
	PruneWindowMode       = "window_mode"
	PruneTypeUnsupported  = "type_unsupported"
	PruneDepthStencil     = "depth_stencil"
	PruneVertexProcessing = "vertex_processing"
)

// Enumerator builds capability catalogs from a caps.Provider.
type Enumerator interface {
	// BuildCatalog enumerates every adapter, display mode, device and combo the provider reports and
	// prunes everything that fails the requirements. The catalog is returned only once it is
	// complete; on error nothing is returned.
	//
	// Parameters:
	//   - req: the application's minimum requirements
	//
	// Returns:
	//   - *Catalog: the complete, immutable catalog
	//   - error: caps.ErrInvalidRequirements, caps.ErrNoGraphicsProvider or caps.ErrNoCompatibleDevices
	BuildCatalog(req Requirements) (*Catalog, error)
}

// enumerator implements the Enumerator interface.
type enumerator struct {
	provider caps.Provider
	logger   *zap.Logger
	profiler *profiler.Profiler

	adapterFormats      []caps.SurfaceFormat
	backBufferFormats   []caps.SurfaceFormat
	depthStencilFormats []caps.SurfaceFormat
	multisampleTypes    []caps.MultisampleType

	// probeWorkers > 1 probes adapters on pool, which lives as long as the enumerator.
	probeWorkers int
	pool         worker.DynamicWorkerPool
}

var _ Enumerator = &enumerator{}

// NewEnumerator creates an Enumerator reading from provider.
// Format and multisample allow-lists default to the package caps lists.
//
// Parameters:
//   - provider: the capability query provider
//   - options: functional options to configure the enumerator
//
// Returns:
//   - Enumerator: the configured enumerator
func NewEnumerator(provider caps.Provider, options ...EnumeratorBuilderOption) Enumerator {
	e := &enumerator{
		provider:            provider,
		logger:              zap.NewNop(),
		adapterFormats:      caps.AdapterFormats,
		backBufferFormats:   caps.BackBufferFormats,
		depthStencilFormats: caps.DepthStencilFormats,
		multisampleTypes:    caps.MultisampleTypes,
		probeWorkers:        1,
	}
	for _, opt := range options {
		opt(e)
	}
	// Created after options so WithProbeWorkers decides whether a pool is needed.
	if e.probeWorkers > 1 {
		e.pool = worker.NewDynamicWorkerPool(e.probeWorkers, 256, 1*time.Second)
	}
	return e
}

func (e *enumerator) BuildCatalog(req Requirements) (*Catalog, error) {
	if e.provider == nil {
		return nil, caps.ErrNoGraphicsProvider
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	constraint, _ := req.driverConstraint()

	defer e.profiler.Stage(profiler.StageEnumerate)()

	count, err := e.provider.AdapterCount()
	if err != nil {
		if errors.Is(err, caps.ErrNoGraphicsProvider) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", caps.ErrNoGraphicsProvider, err)
	}

	var primary caps.DisplayMode
	if count > 0 {
		if primary, err = e.provider.AdapterDesktopMode(0); err != nil {
			e.logger.Warn("primary adapter desktop mode unavailable", zap.Error(err))
		}
	}

	probed := make([]*Adapter, count)
	if e.pool != nil && count > 1 {
		e.probeParallel(probed, req, constraint)
	} else {
		for ordinal := range probed {
			probed[ordinal] = e.buildAdapter(ordinal, req, constraint)
		}
	}

	adapters := slices.DeleteFunc(probed, func(a *Adapter) bool { return a == nil })
	if len(adapters) == 0 {
		return nil, fmt.Errorf("%w: %d adapter(s) probed", caps.ErrNoCompatibleDevices, count)
	}

	e.logger.Info("catalog built",
		zap.Int("adapters_probed", count),
		zap.Int("adapters_kept", len(adapters)),
	)
	return NewCatalog(primary, req, adapters), nil
}

// probeParallel builds each adapter on the enumerator's worker pool. Each task writes only its own
// slot so the assembled catalog is identical to a sequential build.
func (e *enumerator) probeParallel(slots []*Adapter, req Requirements, constraint *semver.Constraints) {
	var wg sync.WaitGroup
	for ordinal := range slots {
		wg.Add(1)
		id := ordinal
		e.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				slots[id] = e.buildAdapter(id, req, constraint)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// buildAdapter probes one adapter and returns nil when it has nothing usable.
func (e *enumerator) buildAdapter(ordinal int, req Requirements, constraint *semver.Constraints) *Adapter {
	log := e.logger.With(zap.Int("adapter", ordinal))

	identity, err := e.provider.AdapterIdentity(ordinal)
	if err != nil {
		log.Debug("pruning adapter: identity unavailable", zap.Error(err))
		e.profiler.Pruned(PruneIdentity)
		return nil
	}
	log = log.With(zap.String("description", identity.Description))

	if constraint != nil && !driverSatisfies(identity.DriverVersion, constraint) {
		log.Debug("pruning adapter: driver version rejected", zap.String("driver_version", identity.DriverVersion))
		e.profiler.Pruned(PruneDriverVersion)
		return nil
	}

	desktop, err := e.provider.AdapterDesktopMode(ordinal)
	if err != nil {
		log.Debug("pruning adapter: desktop mode unavailable", zap.Error(err))
		e.profiler.Pruned(PruneDesktopMode)
		return nil
	}

	modes, formats := e.displayModes(ordinal, desktop, req, log)

	adapter := &Adapter{
		Ordinal:      ordinal,
		Identity:     identity,
		DesktopMode:  desktop,
		DisplayModes: modes,
	}

	for _, kind := range caps.DeviceKinds {
		bits, err := e.provider.DeviceCapabilities(ordinal, kind)
		if err != nil {
			log.Debug("skipping device kind: capabilities unavailable", zap.Stringer("kind", kind), zap.Error(err))
			e.profiler.Pruned(PruneDeviceCaps)
			continue
		}

		device := &Device{
			AdapterOrdinal: ordinal,
			Kind:           kind,
			Caps:           bits,
		}
		device.Combos = e.validateCombos(device, formats, req)
		if len(device.Combos) == 0 {
			log.Debug("pruning device: no valid combos", zap.Stringer("kind", kind))
			e.profiler.Pruned(PruneNoCombos)
			continue
		}
		adapter.Devices = append(adapter.Devices, device)
	}

	if len(adapter.Devices) == 0 {
		log.Debug("pruning adapter: no usable devices")
		e.profiler.Pruned(PruneNoDevices)
		return nil
	}
	return adapter
}

// modeKey is the deduplication key of a display mode. Refresh rate is deliberately not part of it.
type modeKey struct {
	width, height int
	format        caps.SurfaceFormat
}

// displayModes enumerates the adapter's modes for every allowed adapter format, drops modes below
// the requirements, collapses duplicates keeping the highest refresh rate and sorts the result by
// (format, width, height). The desktop's own resolution keeps the desktop refresh rate when it is
// listed, so the desktop mode survives for fullscreen matching. It also returns the adapter format set, which always contains the
// desktop format.
func (e *enumerator) displayModes(ordinal int, desktop caps.DisplayMode, req Requirements, log *zap.Logger) ([]caps.DisplayMode, []caps.SurfaceFormat) {
	var (
		modes   []caps.DisplayMode
		formats []caps.SurfaceFormat
		seen    = make(map[modeKey]int)

		desktopKey = modeKey{desktop.Width, desktop.Height, desktop.Format}
	)

	for _, format := range e.adapterFormats {
		listed, err := e.provider.EnumerateDisplayModes(ordinal, format)
		if err != nil {
			log.Debug("display modes unavailable", zap.Stringer("format", format), zap.Error(err))
			continue
		}
		for _, m := range listed {
			if m.Format == caps.FormatUnknown {
				m.Format = format
			}
			if m.Width < req.MinFullscreenWidth ||
				m.Height < req.MinFullscreenHeight ||
				m.Format.ColorChannelBits() < req.MinColorChannelBits {
				continue
			}

			key := modeKey{m.Width, m.Height, m.Format}
			if i, ok := seen[key]; ok {
				if replacesRefresh(key == desktopKey, modes[i].RefreshRate, m.RefreshRate, desktop.RefreshRate) {
					modes[i].RefreshRate = m.RefreshRate
				}
				continue
			}
			seen[key] = len(modes)
			modes = append(modes, m)

			if !slices.Contains(formats, m.Format) {
				formats = append(formats, m.Format)
			}
		}
	}

	if desktop.Format != caps.FormatUnknown && !slices.Contains(formats, desktop.Format) {
		formats = append(formats, desktop.Format)
	}

	slices.SortStableFunc(modes, func(a, b caps.DisplayMode) int {
		switch {
		case a.Format != b.Format:
			return int(a.Format) - int(b.Format)
		case a.Width != b.Width:
			return a.Width - b.Width
		case a.Height != b.Height:
			return a.Height - b.Height
		}
		return a.RefreshRate - b.RefreshRate
	})
	return modes, formats
}

// replacesRefresh reports whether a duplicate mode's refresh rate should replace the kept one.
func replacesRefresh(isDesktop bool, kept, candidate, desktopRate int) bool {
	if isDesktop {
		if kept == desktopRate {
			return false
		}
		if candidate == desktopRate {
			return true
		}
	}
	return candidate > kept
}

// driverVersionPattern extracts the leading dotted numeric part of a driver version string.
var driverVersionPattern = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// driverSatisfies reports whether the driver version satisfies the constraint. Vendor versions
// often carry four components or trailing build text, so only the first three numbers are compared.
func driverSatisfies(raw string, constraint *semver.Constraints) bool {
	match := driverVersionPattern.FindString(raw)
	if match == "" {
		return false
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return false
	}
	return constraint.Check(v)
}
