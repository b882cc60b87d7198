package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/triage/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify triage configuration",
	Long: `View or modify triage configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  triage config set api.base_url http://localhost:8000/api/tasks
  triage config set analysis.top_n 5
  triage config set output.color never

Valid keys:
  api.base_url              - Scoring service root; requests go to <base_url>/analyze/
  api.timeout_seconds       - Request timeout (0 waits indefinitely)
  analysis.strategy         - smart_balance, fastest_wins, high_impact, deadline_driven
  analysis.top_n            - Number of tasks shown by 'top' and 'analyze --top'
  output.format             - text or json
  output.color              - auto, always or never
  tui.notification_seconds  - How long TUI notifications stay visible
  logging.enabled           - Write a JSON log to the state directory (true/false)
  logging.level             - debug, info, warn or error
  logging.max_size_mb       - Rotate the log file at this size
  logging.max_backups       - Rotated log files to keep
  logging.compress          - Gzip rotated log files (true/false)
  telemetry.enabled         - Export spans and metrics as JSON lines (true/false)
  telemetry.file            - Export destination (default: <state_dir>/telemetry.jsonl)
  paths.state_dir           - Where the queue, last analysis and logs are kept`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/triage/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	section := ""
	for _, key := range config.Keys() {
		prefix, name, _ := strings.Cut(key, ".")
		if prefix != section {
			section = prefix
			fmt.Fprintf(out, "%s:\n", section)
		}
		fmt.Fprintf(out, "  %s: %v\n", name, viper.Get(key))
	}
	fmt.Fprintf(out, "\nState directory: %s\n", config.Get().Paths.ResolveStateDir())

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	if !config.IsKnownKey(key) {
		return fmt.Errorf("unknown configuration key: %s\nRun 'triage config set --help' to see valid keys", key)
	}

	typedValue, err := typedConfigValue(key, value)
	if err != nil {
		return err
	}

	configFile, err := writeConfigValue(key, typedValue)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// typedConfigValue converts value to the type of the key's current setting
// and checks that the resulting configuration is valid.
func typedConfigValue(key, value string) (any, error) {
	var typed any
	switch viper.Get(key).(type) {
	case bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typed = b
	case int, int64, int32:
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typed = n
	default:
		typed = value
	}

	// Validate the candidate against the effective configuration.
	candidate := viper.New()
	for _, k := range config.Keys() {
		candidate.SetDefault(k, viper.Get(k))
	}
	candidate.Set(key, typed)
	if _, err := config.LoadFrom(candidate); err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return typed, nil
}

// writeConfigValue stores key in the active config file, or the default
// one when none was read, and applies it to the running process. Only the
// keys already in the file and key itself are written.
func writeConfigValue(key string, value any) (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	file := viper.New()
	file.SetConfigFile(configFile)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
	}
	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	viper.Set(key, value)
	return configFile, nil
}

const defaultConfigContent = `# Triage Configuration

# Scoring service
api:
  # Task API root; analysis requests go to <base_url>/analyze/
  base_url: http://localhost:8000/api/tasks
  # Request timeout in seconds (0 waits indefinitely)
  timeout_seconds: 0

analysis:
  # smart_balance, fastest_wins, high_impact or deadline_driven
  strategy: smart_balance
  # Number of recommendations shown by 'top' and 'analyze --top'
  top_n: 3

output:
  # text or json
  format: text
  # auto styles terminals only; always or never override detection
  color: auto

# TUI (terminal user interface) settings
tui:
  # Seconds a notification stays visible
  notification_seconds: 4

# Debug log written to <state_dir>/triage.log
logging:
  enabled: true
  # debug, info, warn or error
  level: info
  max_size_mb: 5
  max_backups: 2
  compress: false

# OpenTelemetry spans and metrics as JSON lines
telemetry:
  enabled: false
  # Empty writes to <state_dir>/telemetry.jsonl
  file: ""

paths:
  # Empty uses $XDG_STATE_HOME/triage or ~/.local/state/triage
  state_dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'triage config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize triage's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", configFile)
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: TRIAGE_* (e.g., TRIAGE_API_BASE_URL)")

	return nil
}
