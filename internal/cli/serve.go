package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/rest"
)

// newServeCommand creates the serve command for running the HTTP API.
func newServeCommand(c *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the JSON HTTP API until interrupted.

Requests under /api must carry "Authorization: Bearer <token>" where the
token is signed with [server] jwt_secret (see 'taskdeck token').

Routes:
  GET    /api/tasks                      list tasks (?status=)
  POST   /api/tasks                      create a task
  GET    /api/tasks/dashboard-data       global statistics
  GET    /api/tasks/user-dashboard-data  statistics for the caller
  GET    /api/tasks/{id}                 show a task
  PUT    /api/tasks/{id}                 update a task
  DELETE /api/tasks/{id}                 delete a task
  PUT    /api/tasks/{id}/status          set status
  PUT    /api/tasks/{id}/todo            replace checklist
  GET    /api/users/workload             per-member workload
  GET    /healthz                        liveness

Examples:
  TASKDECK_JWT_SECRET=change-me taskdeck serve --addr :8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.AppConfig.Server.Addr
			}

			srv, err := rest.NewServer(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from [server] addr)")

	return cmd
}
