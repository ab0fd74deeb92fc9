// Package config loads negotiation settings from a YAML file and OXYCAPS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-caps/engine/caps"
	"github.com/Carmen-Shannon/oxy-caps/engine/enumeration"
	"github.com/Carmen-Shannon/oxy-caps/engine/selection"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides. Nested keys join with underscores,
// e.g. OXYCAPS_REQUIREMENTS_MIN_DEPTH_BITS.
const EnvPrefix = "OXYCAPS"

// Config is everything a negotiation run can be configured with.
type Config struct {
	Requirements enumeration.Requirements `mapstructure:"requirements"`
	Intent       IntentConfig             `mapstructure:"intent"`

	// Profile selects a simulated profile: a preset name or a YAML file path. Empty probes real hardware.
	Profile string `mapstructure:"profile"`

	// ForceFallbackAdapter limits hardware probing to the software fallback adapter.
	ForceFallbackAdapter bool `mapstructure:"force_fallback_adapter"`

	ProbeWorkers int    `mapstructure:"probe_workers"`
	LogLevel     string `mapstructure:"log_level"`
}

// IntentConfig is the textual form of selection.Intent.
type IntentConfig struct {
	ClientWidth  int `mapstructure:"client_width"`
	ClientHeight int `mapstructure:"client_height"`

	// PresentMode is "resolved", "vsync" or "uncapped".
	PresentMode string `mapstructure:"present_mode"`

	// Multisample is a multisample type such as "4x"; empty keeps the resolved default.
	Multisample        string `mapstructure:"multisample"`
	MultisampleQuality int    `mapstructure:"multisample_quality"`

	// DepthStencilFormat is a format name such as "D24S8"; empty keeps the resolved default.
	DepthStencilFormat string `mapstructure:"depth_stencil_format"`
}

// Default returns the configuration used when no file or environment override is present.
func Default() *Config {
	return &Config{
		Requirements: enumeration.DefaultRequirements(),
		Intent:       IntentConfig{PresentMode: "resolved"},
		ProbeWorkers: 1,
		LogLevel:     "info",
	}
}

// Load reads the configuration. With an empty cfgFile, oxy-caps.yaml is looked up in the user
// config directory and the working directory, and a missing file is not an error.
//
// Parameters:
//   - cfgFile: an explicit config file path, or ""
//
// Returns:
//   - *Config: the merged configuration (defaults, then file, then environment)
//   - error: an error if the file is unreadable or the result is invalid
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("oxy-caps")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "oxy-caps"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the requirements and that the intent parses.
func (c *Config) Validate() error {
	if err := c.Requirements.Validate(); err != nil {
		return err
	}
	if c.ProbeWorkers < 1 {
		return fmt.Errorf("probe_workers must be at least 1, got %d", c.ProbeWorkers)
	}
	_, err := c.Intent.ToIntent()
	return err
}

// ToIntent parses the textual intent.
//
// Returns:
//   - selection.Intent: the parsed intent
//   - error: an error naming the first field that does not parse
func (ic IntentConfig) ToIntent() (selection.Intent, error) {
	intent := selection.Intent{
		ClientWidth:        ic.ClientWidth,
		ClientHeight:       ic.ClientHeight,
		MultisampleQuality: ic.MultisampleQuality,
	}

	mode, err := selection.ParsePresentMode(ic.PresentMode)
	if err != nil {
		return selection.Intent{}, fmt.Errorf("intent.present_mode: %w", err)
	}
	intent.PresentMode = mode

	if ic.Multisample != "" {
		var ms caps.MultisampleType
		if err := ms.UnmarshalText([]byte(ic.Multisample)); err != nil {
			return selection.Intent{}, fmt.Errorf("intent.multisample: %w", err)
		}
		intent.Multisample = &ms
	}

	if ic.DepthStencilFormat != "" {
		f, err := caps.ParseSurfaceFormat(ic.DepthStencilFormat)
		if err != nil {
			return selection.Intent{}, fmt.Errorf("intent.depth_stencil_format: %w", err)
		}
		if !f.IsDepthStencil() {
			return selection.Intent{}, fmt.Errorf("intent.depth_stencil_format: %s is not a depth/stencil format", f)
		}
		intent.DepthStencilFormat = f
	}
	return intent, nil
}

// setDefaults registers every key so environment variables can override keys absent from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	r := cfg.Requirements
	v.SetDefault("requirements.min_fullscreen_width", r.MinFullscreenWidth)
	v.SetDefault("requirements.min_fullscreen_height", r.MinFullscreenHeight)
	v.SetDefault("requirements.min_color_channel_bits", r.MinColorChannelBits)
	v.SetDefault("requirements.min_alpha_channel_bits", r.MinAlphaChannelBits)
	v.SetDefault("requirements.min_depth_bits", r.MinDepthBits)
	v.SetDefault("requirements.min_stencil_bits", r.MinStencilBits)
	v.SetDefault("requirements.uses_depth_buffer", r.UsesDepthBuffer)
	v.SetDefault("requirements.uses_mixed_vertex_processing", r.UsesMixedVertexProcessing)
	v.SetDefault("requirements.require_windowed", r.RequireWindowed)
	v.SetDefault("requirements.require_fullscreen", r.RequireFullscreen)
	v.SetDefault("requirements.require_hardware", r.RequireHardware)
	v.SetDefault("requirements.require_reference", r.RequireReference)
	v.SetDefault("requirements.min_driver_version", r.MinDriverVersion)

	i := cfg.Intent
	v.SetDefault("intent.client_width", i.ClientWidth)
	v.SetDefault("intent.client_height", i.ClientHeight)
	v.SetDefault("intent.present_mode", i.PresentMode)
	v.SetDefault("intent.multisample", i.Multisample)
	v.SetDefault("intent.multisample_quality", i.MultisampleQuality)
	v.SetDefault("intent.depth_stencil_format", i.DepthStencilFormat)

	v.SetDefault("profile", cfg.Profile)
	v.SetDefault("force_fallback_adapter", cfg.ForceFallbackAdapter)
	v.SetDefault("probe_workers", cfg.ProbeWorkers)
	v.SetDefault("log_level", cfg.LogLevel)
}
