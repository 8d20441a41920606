package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/usecase"
)

// newAddCommand creates the add command.
func newAddCommand(s *session) *cobra.Command {
	var opts struct {
		Date string
		Time string
	}

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Long: `Add a task to a day (today unless --date is given).

Examples:
  daybook add Buy milk
  daybook add "Call mom" --time 18:30
  daybook add Dentist --date 2026-10-20 --time 9:00`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			date, err := parseDateFlag(opts.Date)
			if err != nil {
				return err
			}

			out, err := c.AddTaskUseCase().Execute(cmd.Context(), usecase.AddTaskInput{
				Text: strings.Join(args, " "),
				Time: opts.Time,
				Date: date,
			})
			if err != nil {
				return err
			}
			if out.Task == nil {
				// Blank text adds nothing
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d on %s: %s\n", out.Task.ID, out.Task.Date, out.Task.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Day of the task (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "Time of day (HH:MM)")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(s *session) *cobra.Command {
	var opts struct {
		Date   string
		Filter string
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks of a day",
		Long: `List the tasks of a day sorted by time; untimed tasks come last.

The filter defaults to [list] default_filter from the config (active).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			date, err := parseDateFlag(opts.Date)
			if err != nil {
				return err
			}
			filter := c.AppConfig.List.DefaultFilter
			if cmd.Flags().Changed("filter") {
				if filter, err = domain.ParseFilter(opts.Filter); err != nil {
					return err
				}
			}

			out, err := c.ListDayUseCase().Execute(cmd.Context(), usecase.ListDayInput{Date: date, Filter: filter})
			if err != nil {
				return err
			}

			if opts.JSON {
				tasks := out.Tasks
				if tasks == nil {
					tasks = []domain.Task{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}
			printDayList(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Day to list (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "active, completed or all")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output tasks as JSON")

	return cmd
}

func printDayList(w io.Writer, out *usecase.ListDayOutput) {
	_, _ = fmt.Fprintf(w, "%s %s | %s | %d active, %d completed\n",
		out.Date.Weekday(), out.Date, out.Filter.Display(), out.Active, out.Completed)
	if len(out.Tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDONE\tTIME\tTEXT")
	for _, t := range out.Tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		clock := t.Time
		if clock == "" {
			clock = "-"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, done, clock, t.Text)
	}
	_ = tw.Flush()
}

// newDoneCommand creates the done command.
func newDoneCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			out, err := c.ToggleTaskUseCase().Execute(cmd.Context(), usecase.ToggleTaskInput{ID: id})
			if err != nil {
				return err
			}

			verb := "Reopened"
			if out.Task.Completed {
				verb = "Completed"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s task #%d: %s\n", verb, out.Task.ID, out.Task.Label())
			return nil
		},
	}
}

// newEditCommand creates the edit command.
func newEditCommand(s *session) *cobra.Command {
	var opts struct {
		Text      string
		Time      string
		ClearTime bool
	}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the text or time of a task",
		Long: `Change the text or time of a task. The date and completion state are kept.

Examples:
  daybook edit 1760601000000 --text "Call dad"
  daybook edit 1760601000000 --time 19:00
  daybook edit 1760601000000 --clear-time`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			in := usecase.EditTaskInput{ID: id}
			if cmd.Flags().Changed("text") {
				in.Text = &opts.Text
			}
			switch {
			case opts.ClearTime && cmd.Flags().Changed("time"):
				return errors.New("--time and --clear-time cannot be used together")
			case opts.ClearTime:
				empty := ""
				in.Time = &empty
			case cmd.Flags().Changed("time"):
				in.Time = &opts.Time
			}
			if in.Text == nil && in.Time == nil {
				return errors.New("nothing to edit: use --text, --time or --clear-time")
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if out.Task == nil {
				return domain.ErrEmptyText
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d: %s\n", out.Task.ID, out.Task.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "New task text")
	cmd.Flags().StringVar(&opts.Time, "time", "", "New time of day (HH:MM)")
	cmd.Flags().BoolVar(&opts.ClearTime, "clear-time", false, "Remove the time of day")

	return cmd
}

// newRmCommand creates the rm command.
func newRmCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{ID: id}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}
}

// newClearCommand creates the clear command.
func newClearCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			out, err := c.ClearCompletedUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed tasks\n", out.Removed)
			return nil
		},
	}
}

// newImportCommand creates the import command.
func newImportCommand(s *session) *cobra.Command {
	var opts struct {
		Date   string
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add tasks from a YAML file",
		Long: `Add tasks from a YAML file. Use - to read from stdin.

Entries without a date go to --date (default today). Entries with empty
text are skipped. Nothing is added if any date or time is invalid.

File format:
  tasks:
    - text: Buy milk
      date: 2026-10-16
      time: "08:30"
    - text: Read a chapter
      completed: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			date, err := parseDateFlag(opts.Date)
			if err != nil {
				return err
			}
			content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			out, err := c.CreateTasksFromFileUseCase().Execute(cmd.Context(), usecase.CreateTasksFromFileInput{
				Content:     content,
				DefaultDate: date,
				DryRun:      opts.DryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			verb := "Imported"
			if opts.DryRun {
				verb = "Would import"
			}
			for _, t := range out.Tasks {
				mark := " "
				if t.Completed {
					mark = "x"
				}
				_, _ = fmt.Fprintf(w, "[%s] %s %s\n", mark, t.Date, t.Label())
			}
			_, _ = fmt.Fprintf(w, "%s %d tasks", verb, len(out.Tasks))
			if out.Skipped > 0 {
				_, _ = fmt.Fprintf(w, " (skipped %d without text)", out.Skipped)
			}
			_, _ = fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Day for entries without a date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate and print without adding")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID: %q", s)
	}
	return id, nil
}

func parseDateFlag(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}
