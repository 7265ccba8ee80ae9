package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/infra/userdir"
	"github.com/runoshun/taskdeck/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Admin      string
		AdminName  string
		AdminEmail string
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the taskdeck data directory",
		Long: `Initialize the taskdeck data directory ($TASKDECK_HOME, default ~/.taskdeck).

This command creates:
- config.toml: default configuration (kept if it already exists)
- the task store selected by [store] (json file, sqlite database or mongo indexes)
- users.yaml: user directory with one admin (only with --admin, and only
  if the file does not exist yet)

Examples:
  # Initialize with the default JSON store
  taskdeck init

  # Initialize and create the first admin user
  taskdeck init --admin admin-1 --admin-name "Root" --admin-email root@example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitDeckUseCase().Execute(cmd.Context(), usecase.InitDeckInput{
				Config: c.AppConfig,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.ConfigCreated {
				_, _ = fmt.Fprintf(w, "Created config file: %s\n", out.ConfigPath)
			}

			if opts.Admin != "" {
				path, created, err := seedUsers(c, domain.UserSummary{
					ID:    opts.Admin,
					Name:  opts.AdminName,
					Email: opts.AdminEmail,
					Role:  domain.RoleAdmin,
				})
				if err != nil {
					return err
				}
				if created {
					_, _ = fmt.Fprintf(w, "Created user directory: %s\n", path)
				} else {
					_, _ = fmt.Fprintf(w, "User directory already exists: %s\n", path)
				}
			}

			_, _ = fmt.Fprintf(w, "Initialized taskdeck in %s\n", c.Config.DataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Admin, "admin", "", "Create users.yaml with this admin user ID")
	cmd.Flags().StringVar(&opts.AdminName, "admin-name", "Administrator", "Admin display name")
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "", "Admin email")

	return cmd
}

// seedUsers writes a user directory file holding the admin unless one exists.
func seedUsers(c *app.Container, admin domain.UserSummary) (string, bool, error) {
	path := domain.ResolvePath(c.Config.DataDir, c.AppConfig.Users.File)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("check users file: %w", err)
	}

	if err := userdir.WriteFile(path, []domain.UserSummary{admin}); err != nil {
		return "", false, err
	}
	return path, true, nil
}
