package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/rest"
)

// newTokenCommand creates the token command for minting API tokens.
func newTokenCommand(c *app.Container) *cobra.Command {
	var opts struct {
		User string
		TTL  time.Duration
	}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token for a user",
		Long: `Print a bearer token for the HTTP API.

The user is looked up in the user directory and the token carries the
user's ID and role. It is signed with [server] jwt_secret.

Examples:
  # Token for a member, valid for a day
  taskdeck token --user u1 --ttl 24h

  # Use it with curl
  curl -H "Authorization: Bearer $(taskdeck token --user u1)" localhost:8080/api/tasks`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.User == "" {
				return fmt.Errorf("required flag(s) \"user\" not set")
			}

			actor, err := c.ResolveActor(cmd.Context(), opts.User)
			if err != nil {
				return err
			}

			token, err := rest.IssueToken([]byte(c.AppConfig.Server.JWTSecret), actor, c.Clock.Now(), opts.TTL)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "User ID (required)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", rest.DefaultTokenTTL, "Token lifetime")

	return cmd
}
