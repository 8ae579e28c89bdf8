// Package config handles helper configuration from flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap/zapcore"
)

// Exported constants.
const (
	// DefaultInitialWindow is the smoothing window in seconds for initial backups.
	DefaultInitialWindow = 90
	// DefaultUnits is the unit base used when none or an invalid one is configured.
	DefaultUnits = 1000
	// DefaultWindow is the smoothing window in seconds.
	DefaultWindow = 30
)

// Exported variables.
var (
	ErrInvalidPattern = errors.New("invalid thinning phase pattern")
)

// Config holds the helper configuration
type Config struct {
	Units          int64         `arg:"-u,--units,env:TM_UNITS" help:"Unit base for sizes: 1000 or 1024"`
	Window         int64         `arg:"-w,--window,env:TM_SPEED_WINDOW" help:"Smoothing window in seconds"`
	InitialWindow  int64         `arg:"--initial-window,env:TM_INITIAL_BACKUP_WINDOW" help:"Smoothing window in seconds during an initial backup"`
	ThinningPhases []string      `arg:"--thinning-phase,separate,env:TM_THINNING_PHASES" help:"Glob pattern for phases that report deletion progress (repeatable)"`
	LogLevel       zapcore.Level `arg:"--log-level,env:TM_LOG_LEVEL" help:"Diagnostic log level: debug|info|warn|error"`

	// Warnings collects the adjustments PostProcessConfig made to invalid values.
	Warnings []string `arg:"-"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Reads backup status JSON lines on stdin and writes progress rows on stdout"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "tm-monitor-helper 1.0.0"
}

// Summary renders the effective configuration for the startup diagnostics.
func (cfg *Config) Summary() string {
	return fmt.Sprintf("units=%d, window=%ds, initial_window=%ds, thinning=%s",
		cfg.Units, cfg.Window, cfg.InitialWindow, strings.Join(cfg.ThinningPhases, ","))
}

// ParseFlags parses command-line flags and environment variables and returns
// the configuration. It exits the process on usage errors.
func ParseFlags() (*Config, error) {
	cfg := defaults()

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// Parse parses args and environment variables into a configuration.
func Parse(args []string) (*Config, error) {
	cfg := defaults()

	parser, err := arg.NewParser(arg.Config{Program: "tm-monitor-helper"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	if err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig replaces invalid values with defaults, recording a warning
// for each, and validates the thinning patterns.
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.Units != 1000 && cfg.Units != 1024 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("Invalid units: %d, using %d", cfg.Units, DefaultUnits))
		cfg.Units = DefaultUnits
	}

	if cfg.Window <= 0 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("Invalid window: %ds, using %ds", cfg.Window, DefaultWindow))
		cfg.Window = DefaultWindow
	}

	if cfg.InitialWindow <= 0 {
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("Invalid initial window: %ds, using %ds", cfg.InitialWindow, DefaultInitialWindow))
		cfg.InitialWindow = DefaultInitialWindow
	}

	if len(cfg.ThinningPhases) == 0 {
		cfg.ThinningPhases = []string{"*Thinning*", "*Deleting*"}
	}

	for _, pattern := range cfg.ThinningPhases {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Units:         DefaultUnits,
		Window:        DefaultWindow,
		InitialWindow: DefaultInitialWindow,
		LogLevel:      zapcore.InfoLevel,
	}
}
