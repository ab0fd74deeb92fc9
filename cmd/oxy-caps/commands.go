package main

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-caps/engine"
	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/config"
	"github.com/Carmen-Shannon/oxy-caps/engine/hardware"
	"github.com/Carmen-Shannon/oxy-caps/engine/profiler"
	"github.com/Carmen-Shannon/oxy-caps/engine/selection"
	"github.com/Carmen-Shannon/oxy-caps/engine/simulated"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// session is everything a command needs after flags and config are merged.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	profiler *profiler.Profiler
	provider caps.Provider
}

func openSession(cmd *cobra.Command, opts *cliOptions) (*session, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = opts.profile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("workers") {
		cfg.ProbeWorkers = max(opts.workers, 1)
	}
	if flags.Changed("force-fallback") {
		cfg.ForceFallbackAdapter = opts.forceFallback
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	provider, err := openProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:      cfg,
		logger:   logger,
		profiler: profiler.NewProfiler(profiler.WithLogger(logger)),
		provider: provider,
	}, nil
}

func (s *session) negotiator() engine.Negotiator {
	return engine.NewNegotiator(s.provider,
		engine.WithRequirements(s.cfg.Requirements),
		engine.WithLogger(s.logger),
		engine.WithProfiler(s.profiler),
		engine.WithProbeWorkers(s.cfg.ProbeWorkers),
	)
}

func (s *session) close(report bool) {
	if report {
		s.profiler.Report()
	}
	_ = s.logger.Sync()
}

// newLogger builds a console logger on stderr so stdout stays a clean YAML document.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}

// openProvider resolves the configured profile: empty probes real hardware, a preset name selects
// a built-in profile, anything else is read as a YAML profile path.
func openProvider(cfg *config.Config, logger *zap.Logger) (caps.Provider, error) {
	if cfg.Profile == "" {
		return hardware.New(
			hardware.WithLogger(logger),
			hardware.WithForceFallbackAdapter(cfg.ForceFallbackAdapter),
		)
	}
	profile, err := simulated.Preset(cfg.Profile)
	if err != nil {
		if profile, err = simulated.LoadProfile(cfg.Profile); err != nil {
			return nil, fmt.Errorf("profile %q is neither a preset nor a readable profile: %w", cfg.Profile, err)
		}
	}
	return simulated.New(profile)
}

func newCatalogCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Enumerate and print the capability catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close(opts.report)

			n := s.negotiator()
			if _, err := n.Negotiate(selection.Intent{}); err != nil && n.Catalog() == nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", hostLine())
			return encodeYAML(out, n.Catalog())
		},
	}
}

// negotiationReport is the YAML document printed by the negotiate command.
type negotiationReport struct {
	Windowed   *modeReport `yaml:"windowed,omitempty"`
	Fullscreen *modeReport `yaml:"fullscreen,omitempty"`
}

type modeReport struct {
	Resolved   any                         `yaml:"resolved,omitempty"`
	Parameters *selection.DeviceParameters `yaml:"parameters,omitempty"`
	Warnings   []string                    `yaml:"warnings,omitempty"`
	Error      string                      `yaml:"error,omitempty"`
}

func newModeReport(resolved selection.ResolvedConfiguration, params selection.DeviceParameters, err error) *modeReport {
	if err != nil {
		return &modeReport{Error: err.Error()}
	}
	r := &modeReport{Resolved: resolved, Parameters: &params}
	for _, w := range resolved.Resolved().Warnings {
		r.Warnings = append(r.Warnings, w.Error())
	}
	return r
}

func newNegotiateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "negotiate",
		Short: "Resolve the best windowed and fullscreen configuration and print the device parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close(opts.report)

			intent, err := s.cfg.Intent.ToIntent()
			if err != nil {
				return err
			}
			outcome, err := s.negotiator().Negotiate(intent)
			if err != nil {
				return err
			}

			report := negotiationReport{}
			if outcome.Windowed != nil {
				report.Windowed = newModeReport(outcome.Windowed, outcome.WindowedParameters, nil)
			} else {
				report.Windowed = newModeReport(nil, selection.DeviceParameters{}, outcome.WindowedErr)
			}
			if outcome.Fullscreen != nil {
				report.Fullscreen = newModeReport(outcome.Fullscreen, outcome.FullscreenParameters, nil)
			} else {
				report.Fullscreen = newModeReport(nil, selection.DeviceParameters{}, outcome.FullscreenErr)
			}
			return encodeYAML(cmd.OutOrStdout(), report)
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in simulated hardware profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range simulated.PresetNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			profile, err := simulated.Preset(args[0])
			if err != nil {
				return err
			}
			return encodeYAML(cmd.OutOrStdout(), profile)
		},
		Args: cobra.MaximumNArgs(1),
	}
}

func hostLine() string {
	info, err := host.Info()
	if err != nil {
		return "host: unknown"
	}
	return fmt.Sprintf("host: %s %s %s %s/%s", info.Hostname, info.Platform, info.PlatformVersion, info.OS, info.KernelArch)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
