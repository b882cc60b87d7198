package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/strategy"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy [name]",
	Short: "Show or choose the ranking strategy",
	Long: `Without arguments, list the available strategies and mark the current
one. With a name, make it the strategy used by later analyses; the choice
is saved to the config file as analysis.strategy.

Names are case-insensitive and dashes may stand in for underscores, so
'Deadline-Driven' selects deadline_driven.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStrategy,
}

func init() {
	rootCmd.AddCommand(strategyCmd)
}

func runStrategy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	current, err := strategy.Parse(cfg.Analysis.Strategy)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, s := range strategy.All() {
			marker := " "
			if s == current {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s\t%s\n", marker, s, s.Description())
		}
		return w.Flush()
	}

	chosen, err := strategy.Parse(args[0])
	if err != nil {
		return err
	}
	path, err := writeConfigValue("analysis.strategy", chosen.String())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Strategy: %s\n", chosen)
	fmt.Fprintf(out, "Saved to %s\n", path)
	return nil
}
