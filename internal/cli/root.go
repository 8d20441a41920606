// Package cli provides the command-line interface for daybook.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/app"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupView  = "view"
	groupSetup = "setup"
)

// annotationNoContainer marks commands that must work without loading
// config or opening the task store.
const annotationNoContainer = "daybook/no-container"

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// Opener builds the container once the global flags are parsed.
type Opener func(opts app.Options) (*app.Container, error)

// session lazily opens the container for the command being run.
type session struct {
	open Opener
	c    *app.Container
	opts app.Options
}

func (s *session) container() (*app.Container, error) {
	if s.c != nil {
		return s.c, nil
	}
	c, err := s.open(s.opts)
	if err != nil {
		return nil, err
	}
	s.c = c
	return c, nil
}

func (s *session) close() error {
	if s.c == nil {
		return nil
	}
	err := s.c.Close()
	s.c = nil
	return err
}

// Run builds the root command, executes it and releases the container.
func Run(ctx context.Context, open Opener, version string, args []string) error {
	s := &session{open: open}
	root := newRootCommand(s, version)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if closeErr := s.close(); err == nil {
		err = closeErr
	}
	return err
}

// NewRootCommand creates the root command for daybook.
// open is called at most once, after flag parsing.
func NewRootCommand(open Opener, version string) *cobra.Command {
	return newRootCommand(&session{open: open}, version)
}

func newRootCommand(s *session, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "daybook",
		Short: "Calendar-based personal task planner",
		Long: `daybook keeps a personal to-do list pinned to calendar days.

Run without arguments to open the terminal UI: a day list next to a month
calendar, with an assistant panel that narrates today's tasks and the
completion rate of the last seven days.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipContainer(cmd) {
				return nil
			}
			c, err := s.container()
			if err != nil {
				return err
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			return launchTUIFunc(c)
		},
	}

	root.PersistentFlags().StringVar(&s.opts.ConfigPath, "config", "", "Config file to load on top of global and local config")
	root.PersistentFlags().StringVar(&s.opts.DataDir, "data-dir", "", "Directory holding tasks and logs")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupView, Title: "View Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		newAddCommand(s),
		newDoneCommand(s),
		newEditCommand(s),
		newRmCommand(s),
		newClearCommand(s),
		newImportCommand(s),
	} {
		cmd.GroupID = groupTask
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newTUICommand(s),
		newListCommand(s),
		newCalCommand(s),
		newBriefCommand(s),
		newExportCommand(s),
		newServeCommand(s),
	} {
		cmd.GroupID = groupView
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newConfigCommand(s),
		newMigrateCommand(s),
		newLogsCommand(s),
	} {
		cmd.GroupID = groupSetup
		root.AddCommand(cmd)
	}

	return root
}

func skipContainer(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationNoContainer]; ok {
			return true
		}
	}
	// Bare group commands only print help
	return !cmd.Runnable()
}
