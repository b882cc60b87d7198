package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/triage/internal/scorer"
	"github.com/Iron-Ham/triage/internal/strategy"
)

// Config represents the complete triage configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Output    OutputConfig    `mapstructure:"output"`
	TUI       TUIConfig       `mapstructure:"tui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Paths     PathsConfig     `mapstructure:"paths"`
}

// APIConfig locates the scoring service
type APIConfig struct {
	// BaseURL is the task API root; requests go to <BaseURL>/analyze/
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds bounds each analysis request (0 = no client timeout)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AnalysisConfig controls how tasks are submitted for analysis
type AnalysisConfig struct {
	// Strategy is the initial prioritization strategy
	// Options: "smart_balance", "fastest_wins", "high_impact", "deadline_driven"
	Strategy string `mapstructure:"strategy"`
	// TopN is the number of tasks shown by "top" and the TUI's top view (default: 3)
	TopN int `mapstructure:"top_n"`
}

// OutputConfig controls non-interactive command output
type OutputConfig struct {
	// Format is "text" or "json"
	Format string `mapstructure:"format"`
	// Color forces styled output on or off; "auto" styles only terminals
	Color string `mapstructure:"color"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// NotificationSeconds is how long feedback messages stay visible (default: 4)
	NotificationSeconds int `mapstructure:"notification_seconds"`
}

// NotificationDuration returns the notification lifetime as a duration.
func (c *TUIConfig) NotificationDuration() time.Duration {
	return time.Duration(c.NotificationSeconds) * time.Second
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated files (default: false)
	Compress bool `mapstructure:"compress"`
}

// TelemetryConfig controls OpenTelemetry export of request spans and
// analysis metrics
type TelemetryConfig struct {
	// Enabled writes spans and metrics as JSON lines (default: false)
	Enabled bool `mapstructure:"enabled"`
	// File is the export destination; empty uses <state_dir>/telemetry.jsonl
	File string `mapstructure:"file"`
}

// PathsConfig controls where local state is kept
type PathsConfig struct {
	// StateDir holds the queue, the last analysis result and the log file.
	// Empty uses $XDG_STATE_HOME/triage (or ~/.local/state/triage).
	// Supports ~ expansion; relative paths resolve against the working directory.
	StateDir string `mapstructure:"state_dir"`
}

// ResolveStateDir returns the absolute state directory.
func (p *PathsConfig) ResolveStateDir() string {
	path := p.StateDir
	if path == "" {
		return defaultStateDir()
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return path
}

func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "triage")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".triage"
	}
	return filepath.Join(home, ".local", "state", "triage")
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        scorer.DefaultBaseURL,
			TimeoutSeconds: 0,
		},
		Analysis: AnalysisConfig{
			Strategy: string(strategy.Default),
			TopN:     3,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		TUI: TUIConfig{
			NotificationSeconds: 4,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
			Compress:   false,
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
			File:    "",
		},
		Paths: PathsConfig{
			StateDir: "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)

	// Analysis defaults
	viper.SetDefault("analysis.strategy", defaults.Analysis.Strategy)
	viper.SetDefault("analysis.top_n", defaults.Analysis.TopN)

	// Output defaults
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)

	// TUI defaults
	viper.SetDefault("tui.notification_seconds", defaults.TUI.NotificationSeconds)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", defaults.Telemetry.Enabled)
	viper.SetDefault("telemetry.file", defaults.Telemetry.File)

	// Paths defaults
	viper.SetDefault("paths.state_dir", defaults.Paths.StateDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "triage")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".triage"
	}
	return filepath.Join(home, ".config", "triage")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Keys returns every configuration key in display order.
func Keys() []string {
	return []string{
		"api.base_url",
		"api.timeout_seconds",
		"analysis.strategy",
		"analysis.top_n",
		"output.format",
		"output.color",
		"tui.notification_seconds",
		"logging.enabled",
		"logging.level",
		"logging.max_size_mb",
		"logging.max_backups",
		"logging.compress",
		"telemetry.enabled",
		"telemetry.file",
		"paths.state_dir",
	}
}

// IsKnownKey reports whether key is a configuration key.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
