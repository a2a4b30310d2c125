package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/logger"
)

// Config holds the settings of the plugin host and its logging pipeline.
type Config struct {
	// LogsDirectory is the directory holding one archival log per run.
	LogsDirectory string `yaml:"logs_directory"`
	// LatestPath is the rolling log rewritten by every run.
	LatestPath string `yaml:"latest_path"`
	// StateFile records the last run so an unclean shutdown is noticed.
	StateFile string `yaml:"state_file"`
	// DiagnosticsLevel is the level of the host's own stderr diagnostics.
	DiagnosticsLevel string `yaml:"diagnostics_level"`
	// Plugins seed the attribution registry.
	Plugins []Plugin `yaml:"plugins,omitempty"`
	// MaxLogs caps the number of archival logs. Zero keeps every log.
	MaxLogs int `yaml:"max_logs"`
	// HideWarnings suppresses warnings. It is applied again on reload.
	HideWarnings bool `yaml:"hide_warnings"`
	// Debug disables retention.
	Debug bool `yaml:"debug"`
	// UTCTimestamps renders timestamps in UTC instead of local time.
	UTCTimestamps bool `yaml:"utc_timestamps"`
}

// Plugin describes a plugin known to the host.
type Plugin struct {
	// Name is the display name used for the tag.
	Name string `yaml:"name"`
	// Color is the tag color, a hex code or a color name.
	Color string `yaml:"color,omitempty"`
	// Author is printed in the load banner.
	Author string `yaml:"author,omitempty"`
	// Version is printed in the load banner.
	Version string `yaml:"version,omitempty"`
	// ID is an optional identifier printed next to the version.
	ID string `yaml:"id,omitempty"`
	// Package is the import path owning the plugin's code.
	Package string `yaml:"package"`
}

const (
	// DefaultConfigFilename is the default filename for host settings.
	DefaultConfigFilename = "plugin-host.yaml"

	// DefaultLogsDirectory is the default archival directory.
	DefaultLogsDirectory = "Logs"

	// DefaultLatestPath is the default rolling log.
	DefaultLatestPath = "Latest.log"

	// DefaultStateFilename is the default run journal.
	DefaultStateFilename = "plugin-host-state.yaml"

	// DefaultMaxLogs is the default retention cap.
	DefaultMaxLogs = 10

	// DefaultDiagnosticsLevel is the default diagnostics level.
	DefaultDiagnosticsLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeMaxLogs is returned for a negative retention cap.
	errNegativeMaxLogs = errors.New("max_logs must not be negative")
	// errPluginNameRequired is returned for a plugin without a name.
	errPluginNameRequired = errors.New("plugin name must be provided")
	// errPluginPackageRequired is returned for a plugin without a package.
	errPluginPackageRequired = errors.New("plugin package must be provided")
)

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		LogsDirectory:    DefaultLogsDirectory,
		LatestPath:       DefaultLatestPath,
		StateFile:        DefaultStateFilename,
		DiagnosticsLevel: DefaultDiagnosticsLevel,
		MaxLogs:          DefaultMaxLogs,
	}
}

// Load reads configuration from the provided path and validates it.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the settings for malformed values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LogsDirectory == "" {
		cfg.LogsDirectory = DefaultLogsDirectory
	}

	if cfg.LatestPath == "" {
		cfg.LatestPath = DefaultLatestPath
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.DiagnosticsLevel == "" {
		cfg.DiagnosticsLevel = DefaultDiagnosticsLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.DiagnosticsLevel); !ok {
		return fmt.Errorf("invalid diagnostics level %q", cfg.DiagnosticsLevel)
	}

	if cfg.MaxLogs < 0 {
		return errNegativeMaxLogs
	}

	for i := range cfg.Plugins {
		if err := validatePlugin(&cfg.Plugins[i]); err != nil {
			return fmt.Errorf("plugin #%d: %w", i+1, err)
		}
	}

	return nil
}

// EffectiveMaxLogs returns the retention cap to apply; debug mode keeps every log.
func (c *Config) EffectiveMaxLogs() int {
	if c.Debug {
		return 0
	}

	return c.MaxLogs
}

// TagColor returns the parsed plugin color, empty when unset.
func (p *Plugin) TagColor() logline.Color {
	c, err := logline.ParseColor(p.Color)
	if err != nil {
		return ""
	}

	return c
}

// validatePlugin checks a single plugin entry.
func validatePlugin(p *Plugin) error {
	if p.Name == "" {
		return errPluginNameRequired
	}

	if p.Package == "" {
		return errPluginPackageRequired
	}

	if p.Color == "" {
		return nil
	}

	if _, err := logline.ParseColor(p.Color); err != nil {
		return fmt.Errorf("invalid color for %s: %w", p.Name, err)
	}

	return nil
}
