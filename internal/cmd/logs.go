package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/present"
	"github.com/Iron-Ham/triage/internal/tui/styles"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter the JSON debug log kept in the state directory.

Examples:
  # Show the last 50 entries
  triage logs

  # Show every entry of one analysis run
  triage logs --run 3f2a -n 0

  # Filter by log level
  triage logs --level warn

  # Show scoring service traffic from the last hour
  triage logs --component scorer --since 1h

  # Search messages
  triage logs --grep failed`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsComponent string
	logsRun       string
	logsSince     string
	logsGrep      string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Filter by component (analysis, scorer, tui, events)")
	logsCmd.Flags().StringVar(&logsRun, "run", "", "Filter by analysis run id prefix")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries whose message contains text (case-insensitive)")
}

// levelStyle returns the style for a log level
func levelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return lipgloss.NewStyle().Foreground(styles.MutedColor)
	case logging.LevelWarn:
		return lipgloss.NewStyle().Foreground(styles.WarningColor)
	case logging.LevelError:
		return lipgloss.NewStyle().Foreground(styles.ErrorColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.PrimaryColor)
	}
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	stateDir := cfg.Paths.ResolveStateDir()

	filter := logging.Filter{
		MinLevel:  logsLevel,
		Component: logsComponent,
		RunID:     logsRun,
		Contains:  logsGrep,
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.Since = time.Now().Add(-d)
	}

	entries, err := logging.ReadEntries(stateDir)
	if err != nil {
		return err
	}
	entries = logging.FilterEntries(entries, filter)

	// Apply tail limit
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	out := cmd.OutOrStdout()
	format, err := present.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if format == present.FormatJSON {
		if entries == nil {
			entries = []logging.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
		fmt.Fprintln(out, "Logs are stored at:", filepath.Join(stateDir, logging.FileName))
		return nil
	}

	rd, err := newRenderer(out, cfg.Output)
	if err != nil {
		return err
	}
	for _, e := range entries {
		line := e.Format()
		if !rd.Plain {
			line = levelStyle(e.Level).Render(line)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
