package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/domain"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(s *session) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "migrate --to BACKEND",
		Short: "Copy tasks into another storage backend",
		Long: `Copy every task from the configured backend into another one.

Both stores live in the data directory. Tasks already present in the
destination are skipped when identical; a task with the same id but
different content aborts the migration. Set [storage] backend afterwards
to switch over.

Examples:
  # Move from the JSON file to SQLite
  daybook migrate --to sqlite

  # Copy SQLite tasks back into the JSON file
  daybook --config sqlite.toml migrate --to json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}

			dest := strings.ToLower(strings.TrimSpace(to))
			from := c.Backend()
			if dest == from {
				return fmt.Errorf("%w: %s", domain.ErrSameBackend, dest)
			}

			repo, closer, err := c.OpenBackend(dest)
			if err != nil {
				return err
			}
			if closer != nil {
				defer func() { _ = closer.Close() }()
			}

			out, err := c.MigrateStoreUseCase(c.Repo, repo).Execute(cmd.Context())
			if err != nil {
				return err
			}

			if out.Total == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No tasks found in %s store\n", from)
				return nil
			}
			summary := fmt.Sprintf("Migrated %d task(s) from %s to %s", out.Migrated, from, dest)
			if out.Skipped > 0 {
				summary += fmt.Sprintf(" (skipped %d existing)", out.Skipped)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination backend: json or sqlite")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
