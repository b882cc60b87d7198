package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/task"
	"github.com/Iron-Ham/triage/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Long: `Open a full-screen interface showing the task queue next to the
recommendations. Tasks can be added, removed and analyzed without leaving
it; the help bar lists the keys. The queue and last analysis are
saved on exit.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	app := tui.New(tui.Deps{
		Queue:           e.queue,
		Analysis:        e.orch,
		Selector:        e.selector,
		Logger:          e.logger.WithComponent("tui"),
		NotificationTTL: e.cfg.TUI.NotificationDuration(),
		Today:           task.Today,
	}, e.save)
	return app.Run()
}
