package cli

import (
	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/server"
)

// newServeCommand creates the serve command.
func newServeCommand(s *session) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the task store over HTTP until interrupted.

Routes:
  GET    /api/tasks?date=&filter=
  POST   /api/tasks
  POST   /api/tasks/{id}/toggle
  PATCH  /api/tasks/{id}
  DELETE /api/tasks/{id}
  POST   /api/tasks/clear-completed
  GET    /api/calendar/{YYYY-MM}
  GET    /api/brief?date=
  GET    /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.AppConfig.Server.Addr
			}
			return server.Run(cmd.Context(), addr, server.NewRouter(c), c.SlogLogger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default [server] addr)")

	return cmd
}
