package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/usecase"
)

const (
	calCellWidth = 14
	briefWidth   = 72
)

// newCalCommand creates the cal command.
func newCalCommand(s *session) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "cal",
		Short: "Print a month calendar with task previews",
		Long: `Print a month calendar. Each day shows the first tasks of the day
sorted by time and a "+N more" marker when more are hidden.
Today is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			var in usecase.ShowMonthInput
			if month != "" {
				if in.Month, err = domain.ParseMonth(month); err != nil {
					return err
				}
			}

			out, err := c.ShowMonthUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			printMonthGrid(cmd.OutOrStdout(), out.Grid, c.AppConfig.Calendar.MaxPreview)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show (YYYY-MM, default current)")

	return cmd
}

func printMonthGrid(w io.Writer, grid domain.MonthGrid, maxPreview int) {
	if maxPreview <= 0 {
		maxPreview = domain.DefaultMaxPreview
	}
	rowWidth := 7*calCellWidth + 6
	title := grid.Month.Title()
	pad := max((rowWidth-runewidth.StringWidth(title))/2, 0)
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", pad)+title)

	headers := make([]string, 7)
	for i, h := range domain.WeekdayHeaders() {
		headers[i] = calCell(h)
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(headers, " "), " "))

	for _, week := range grid.Weeks() {
		_, _ = fmt.Fprintln(w, strings.Repeat("-", rowWidth))
		printWeekLine(w, week, func(cell *domain.DayCell) string {
			label := fmt.Sprintf("%d", cell.Date.Day)
			if cell.IsToday {
				label += "*"
			}
			return label
		})
		for i := range maxPreview {
			printWeekLine(w, week, func(cell *domain.DayCell) string {
				if i >= len(cell.Preview) {
					return ""
				}
				t := cell.Preview[i]
				mark := "•"
				if t.Completed {
					mark = "✓"
				}
				if t.HasTime() {
					return mark + " " + t.Time + " " + t.Text
				}
				return mark + " " + t.Text
			})
		}
		printWeekLine(w, week, func(cell *domain.DayCell) string {
			return cell.OverflowLabel()
		})
	}
}

// printWeekLine prints one text line across a week row. Blank lines are skipped.
func printWeekLine(w io.Writer, week []*domain.DayCell, text func(*domain.DayCell) string) {
	cells := make([]string, len(week))
	blank := true
	for i, cell := range week {
		if cell == nil {
			cells[i] = calCell("")
			continue
		}
		s := text(cell)
		if s != "" {
			blank = false
		}
		cells[i] = calCell(s)
	}
	if blank {
		return
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
}

func calCell(s string) string {
	return runewidth.FillRight(runewidth.Truncate(s, calCellWidth, "…"), calCellWidth)
}

// newBriefCommand creates the brief command.
func newBriefCommand(s *session) *cobra.Command {
	var opts struct {
		Date string
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Print the assistant's reminder and weekly summary",
		Long: `Print the reminder for a day and the completion summary of the seven days
ending on it. Without a reachable narration service (or an API key) a
built-in summary is printed instead.`,
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

			out, err := c.NarrateUseCase().Execute(cmd.Context(), usecase.NarrateInput{Date: date})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.JSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"date":     out.Date,
					"reminder": out.Reminder,
					"summary":  out.Summary,
				})
			}
			_, _ = fmt.Fprintf(w, "Reminder for %s (%s)\n", out.Date, out.Reminder.Source)
			_, _ = fmt.Fprintln(w, wordwrap.String(out.Reminder.Text, briefWidth))
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintf(w, "Last 7 days (%s)\n", out.Summary.Source)
			_, _ = fmt.Fprintln(w, wordwrap.String(out.Summary.Text, briefWidth))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Reference day (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(s *session) *cobra.Command {
	var opts struct {
		From   string
		To     string
		Output string
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as an iCalendar file",
		Long: `Export tasks as iCalendar events. Untimed tasks become all-day events;
timed tasks last 30 minutes.

Examples:
  daybook export -o tasks.ics
  daybook export --from 2026-10-01 --to 2026-10-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			from, err := parseDateFlag(opts.From)
			if err != nil {
				return err
			}
			to, err := parseDateFlag(opts.To)
			if err != nil {
				return err
			}

			out, err := c.ExportCalendarUseCase().Execute(cmd.Context(), usecase.ExportCalendarInput{From: from, To: to})
			if err != nil {
				return err
			}

			if opts.Output == "" || opts.Output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), out.ICS)
				return err
			}
			if err := os.WriteFile(opts.Output, []byte(out.ICS), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", opts.Output, err)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", out.Count, opts.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "First day to export (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Last day to export (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
