package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/present"
	"github.com/Iron-Ham/triage/internal/task"
	"github.com/Iron-Ham/triage/internal/taskqueue"
	"github.com/Iron-Ham/triage/internal/util"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the queue",
	Long: `Add a task to the end of the queue. The task is given the next
sequential id (t1, t2, ...).

Examples:
  triage add "Write quarterly report" --due 2026-11-02 --hours 3 --importance 8
  triage add "Deploy release" --deps t1,t2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove <position|id>",
	Aliases: []string{"rm"},
	Short:   "Remove a task by queue position or id",
	Long: `Remove a task from the queue. A number selects the task at that
1-based position as shown by 'triage list'; anything else is taken as a
task id.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the task queue",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every task and discard the last analysis",
	Long: `Remove every task from the queue. The stored analysis result is
discarded as well. Without --yes the command asks for confirmation on
standard input.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Append tasks from a JSON or YAML list",
	Long: `Append tasks from a file holding a list of task objects. Use - to
read standard input. Entries without a title are skipped; ids that clash
with queued tasks are replaced.

Each entry may carry: id, title, due_date (YYYY-MM-DD), estimated_hours,
importance (1-10) and dependencies (list of ids).`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	addDue        string
	addHours      string
	addImportance string
	addDeps       string

	clearYes bool

	importFormat string
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(importCmd)

	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addHours, "hours", "", "estimated hours (default 1)")
	addCmd.Flags().StringVar(&addImportance, "importance", "", "importance from 1 to 10 (default 5)")
	addCmd.Flags().StringVar(&addDeps, "deps", "", "comma separated ids of tasks this one depends on")

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")

	importCmd.Flags().StringVar(&importFormat, "input-format", "", "payload format: json, yaml or auto (default: from file extension)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	t, err := taskqueue.ParseForm(taskqueue.FormInput{
		Title:        strings.Join(args, " "),
		DueDate:      addDue,
		Hours:        addHours,
		Importance:   addImportance,
		Dependencies: addDeps,
	})
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	added, err := e.queue.Add(t)
	if err != nil {
		return err
	}
	if err := e.save(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Task %q added successfully as %s.\n", added.Title, added.ID)
	if missing := unknownDependencies(added, e.queue.Tasks()); len(missing) > 0 {
		fmt.Fprintf(out, "Warning: depends on tasks not in the queue: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

// unknownDependencies lists the dependencies of t that name no queued task.
func unknownDependencies(t task.Task, queued []task.Task) []string {
	ids := make(map[string]bool, len(queued))
	for _, q := range queued {
		ids[q.ID] = true
	}
	var missing []string
	for _, dep := range t.Dependencies {
		if !ids[dep] {
			missing = append(missing, dep)
		}
	}
	return missing
}

func runRemove(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	var removed task.Task
	if pos, convErr := strconv.Atoi(args[0]); convErr == nil {
		removed, err = e.queue.Remove(pos - 1)
		if errors.Is(err, errors.ErrIndexOutOfRange) {
			return fmt.Errorf("no task at position %d (queue has %s)", pos, util.Plural(e.queue.Len(), "task"))
		}
	} else {
		_, removed, err = e.queue.RemoveByID(args[0])
		if errors.Is(err, errors.ErrTaskNotFound) {
			return fmt.Errorf("no task with id %q", args[0])
		}
	}
	if err != nil {
		return err
	}
	if err := e.save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Task removed: %s (%s)\n", removed.Title, removed.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	rd, err := newRenderer(cmd.OutOrStdout(), e.cfg.Output)
	if err != nil {
		return err
	}
	view := present.BuildQueue(e.queue.Tasks(), present.DepsOf(e.queue.Queue()), task.Today())
	return rd.Queue(cmd.OutOrStdout(), view)
}

func runClear(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	out := cmd.OutOrStdout()
	n := e.queue.Len()
	if n == 0 {
		fmt.Fprintln(out, "No tasks to clear.")
		return nil
	}

	if !clearYes {
		fmt.Fprintf(out, "Clear all %s? [y/N] ", util.Plural(n, "task"))
		if !confirmed(cmd.InOrStdin()) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if _, err := e.queue.Clear(); err != nil {
		return err
	}
	if err := e.save(); err != nil {
		return err
	}
	fmt.Fprintln(out, "All tasks cleared.")
	return nil
}

// confirmed reads one line from r and reports whether it is a yes.
func confirmed(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]
	var (
		data []byte
		err  error
	)
	if source == "-" {
		source = "stdin"
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	format := taskqueue.FormatForPath(source)
	if importFormat != "" {
		format = taskqueue.Format(strings.ToLower(importFormat))
		switch format {
		case taskqueue.FormatAuto, taskqueue.FormatJSON, taskqueue.FormatYAML:
		default:
			return fmt.Errorf("unknown input format %q (want json, yaml or auto)", importFormat)
		}
	}

	records, err := taskqueue.ParseBulk(data, format, source)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	res := e.queue.BulkLoad(records)
	if err := e.save(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d of %s", res.Accepted, util.Plural(res.Received, "task"))
	if res.Skipped > 0 {
		fmt.Fprintf(out, " (%d skipped)", res.Skipped)
	}
	fmt.Fprintln(out, ".")

	if len(res.Reassigned) > 0 {
		old := make([]string, 0, len(res.Reassigned))
		for id := range res.Reassigned {
			old = append(old, id)
		}
		sort.Strings(old)
		for _, id := range old {
			fmt.Fprintf(out, "  id %s was taken; assigned %s\n", id, res.Reassigned[id])
		}
	}
	return nil
}
