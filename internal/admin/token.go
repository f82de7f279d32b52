package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ark/internal/server/auth"
	"github.com/spf13/cobra"
)

func (a *admin) tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}

	var (
		client string
		ttl    time.Duration
	)

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for the mutating API routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.SecretKey == "" {
				return errors.New("secret key is not configured")
			}
			token, err := auth.GenerateToken(client, []byte(a.cfg.SecretKey), ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&client, "client", "", "name of the client the token is issued to")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token validity")
	_ = issue.MarkFlagRequired("client")

	cmd.AddCommand(issue)
	return cmd
}
