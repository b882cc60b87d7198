package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/present"
	"github.com/Iron-Ham/triage/internal/task"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank the queued tasks with the scoring service",
	Long: `Send every queued task to the scoring service under the current
strategy and show the ranked recommendations with their metrics and
justification. The full ranking is stored for 'triage top'.

Examples:
  triage analyze
  triage analyze --top
  triage --strategy deadline_driven analyze --format json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var topCmd = &cobra.Command{
	Use:   "top [n]",
	Short: "Show the first n tasks of the last analysis",
	Long: `Show the highest ranked tasks of the last successful analysis
without contacting the scoring service. n defaults to analysis.top_n.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTop,
}

var analyzeTopOnly bool

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(topCmd)

	analyzeCmd.Flags().BoolVar(&analyzeTopOnly, "top", false, "show only the top recommendations (analysis.top_n)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ranked, err := e.orch.Analyze(ctx, analyzeTopOnly)
	if err != nil {
		if errors.Is(err, errors.ErrEmptyQueue) {
			return fmt.Errorf("add at least one task before analyzing")
		}
		return err
	}
	if err := e.save(); err != nil {
		return err
	}

	total := e.queue.Len()
	if res, ok := e.orch.Result(); ok {
		total = len(res.Tasks)
	}
	if analyzeTopOnly {
		fmt.Fprintf(cmd.ErrOrStderr(), "Analysis complete. Showing top %d recommendations.\n", len(ranked))
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Analysis complete. Showing all %d tasks.\n", total)
	}

	return showRanked(cmd, e, ranked, e.selector.Current().String())
}

func runTop(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	n := e.orch.TopNDefault()
	if len(args) == 1 {
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("n must be a positive number, got %q", args[0])
		}
	}

	ranked, err := e.orch.TopN(n)
	if err != nil {
		if errors.Is(err, errors.ErrNoAnalysis) {
			return fmt.Errorf("please run analysis first to see top %d recommendations", n)
		}
		return err
	}

	strat := ""
	if res, ok := e.orch.Result(); ok {
		strat = res.Strategy.String()
	}
	return showRanked(cmd, e, ranked, strat)
}

// showRanked renders ranked tasks as recommendation cards.
func showRanked(cmd *cobra.Command, e *env, ranked []task.ScoredTask, strategyName string) error {
	rd, err := newRenderer(cmd.OutOrStdout(), e.cfg.Output)
	if err != nil {
		return err
	}
	recs := present.BuildRecommendations(ranked, task.Today())
	recs.Strategy = strategyName
	return rd.Recommendations(cmd.OutOrStdout(), recs)
}
