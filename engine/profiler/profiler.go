package profiler

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Stage names a timed phase of negotiation.
type Stage string

const (
	StageEnumerate        Stage = "enumerate"
	StageSelectWindowed   Stage = "select_windowed"
	StageSelectFullscreen Stage = "select_fullscreen"
	StageMaterialize      Stage = "materialize"
)

// Profiler tracks how long each negotiation stage takes and how many candidates were pruned, and why.
// Figures are kept in memory for Report and mirrored into prometheus collectors when a registerer is set.
// A nil *Profiler is valid and records nothing.
type Profiler struct {
	logger     *zap.Logger
	registerer prometheus.Registerer

	stageDuration *prometheus.HistogramVec
	prunedTotal   *prometheus.CounterVec

	mu          sync.Mutex
	stageTotals map[Stage]time.Duration
	stageRuns   map[Stage]int
	pruned      map[string]int
}

// NewProfiler creates a new Profiler. Without WithRegisterer the prometheus collectors are created
// but never registered, so they still count but are not exported.
//
// Parameters:
//   - options: functional options (logger, registerer)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:      zap.NewNop(),
		stageTotals: make(map[Stage]time.Duration),
		stageRuns:   make(map[Stage]int),
		pruned:      make(map[string]int),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oxycaps_stage_duration_seconds",
				Help:    "Time taken by each capability negotiation stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		prunedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oxycaps_pruned_candidates_total",
				Help: "Number of adapters, devices and combos pruned during enumeration, by reason.",
			},
			[]string{"reason"},
		),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.registerer != nil {
		p.stageDuration = register(p.registerer, p.stageDuration)
		p.prunedTotal = register(p.registerer, p.prunedTotal)
	}
	return p
}

// register registers c, reusing the existing collector when an identical one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// Stage starts timing a stage and returns the function that stops it.
//
// Parameters:
//   - stage: the stage being timed
//
// Returns:
//   - func(): call once when the stage completes
func (p *Profiler) Stage(stage Stage) func() {
	if p == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		p.stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())

		p.mu.Lock()
		p.stageTotals[stage] += elapsed
		p.stageRuns[stage]++
		p.mu.Unlock()

		p.logger.Debug("[Profiler] stage complete", zap.String("stage", string(stage)), zap.Duration("elapsed", elapsed))
	}
}

// Pruned counts one candidate discarded for reason. Safe for concurrent use.
func (p *Profiler) Pruned(reason string) {
	if p == nil {
		return
	}
	p.prunedTotal.WithLabelValues(reason).Inc()

	p.mu.Lock()
	p.pruned[reason]++
	p.mu.Unlock()
}

// PrunedCount returns how many candidates have been pruned for reason so far.
func (p *Profiler) PrunedCount(reason string) int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pruned[reason]
}

// StageRuns returns how many times stage has completed.
func (p *Profiler) StageRuns(stage Stage) int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stageRuns[stage]
}

// Report logs accumulated stage timings and prune counts in a single summary line.
//
// Returns:
//   - bool: true if anything was recorded and logged, false otherwise
func (p *Profiler) Report() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.stageRuns) == 0 && len(p.pruned) == 0 {
		return false
	}

	stages := make([]string, 0, len(p.stageRuns))
	for stage := range p.stageRuns {
		stages = append(stages, string(stage))
	}
	sort.Strings(stages)

	fields := make([]zap.Field, 0, len(stages)+1)
	for _, s := range stages {
		fields = append(fields, zap.Duration(s, p.stageTotals[Stage(s)]))
	}

	reasons := make([]string, 0, len(p.pruned))
	for reason, n := range p.pruned {
		reasons = append(reasons, reason+"="+strconv.Itoa(n))
	}
	sort.Strings(reasons)
	fields = append(fields, zap.String("pruned", strings.Join(reasons, ",")))

	p.logger.Info("[Profiler] negotiation summary", fields...)
	return true
}
