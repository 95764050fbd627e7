// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/user/framepeek/pkg/orchestrator"
	"github.com/user/framepeek/pkg/pipeline"
	"github.com/user/framepeek/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for framepeek.
type Config struct {
	Window   WindowConfig  `yaml:"window"`
	Locate   LocateConfig  `yaml:"locate"`
	Display  DisplayConfig `yaml:"display"`
	LogLevel string        `yaml:"log_level"`
}

// WindowConfig holds the presentation window settings.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Accelerated bool   `yaml:"accelerated"`
}

// LocateConfig holds the frame search settings.
type LocateConfig struct {
	WarmScan bool   `yaml:"warm_scan"`
	Policy   string `yaml:"policy"` // first or exact
}

// DisplayConfig holds the display loop settings.
type DisplayConfig struct {
	IdleDelayMs int `yaml:"idle_delay_ms"` // 0 disables the sleep
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Window: WindowConfig{
			Title:       "framepeek",
			Width:       1920,
			Height:      1080,
			Accelerated: true,
		},
		Locate: LocateConfig{
			WarmScan: true,
			Policy:   string(pipeline.PolicyFirst),
		},
		Display: DisplayConfig{
			IdleDelayMs: 16,
		},
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if _, err := pipeline.ParsePolicy(c.Locate.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.Display.IdleDelayMs < 0 {
		errs = append(errs, fmt.Errorf("idle_delay_ms must not be negative, got %d", c.Display.IdleDelayMs))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// ToOrchestratorConfig converts Config to orchestrator.Config for one source
// and frame index. Validate must have succeeded.
func (c Config) ToOrchestratorConfig(source string, frameIndex int64) orchestrator.Config {
	policy, _ := pipeline.ParsePolicy(c.Locate.Policy)
	return orchestrator.Config{
		SourcePath: source,
		FrameIndex: frameIndex,
		Policy:     policy,
		WarmScan:   c.Locate.WarmScan,
		Display: ports.DisplayOptions{
			Title:       c.Window.Title,
			Width:       c.Window.Width,
			Height:      c.Window.Height,
			Accelerated: c.Window.Accelerated,
		},
		IdleDelayMs: c.Display.IdleDelayMs,
	}
}
