package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	hauth "blog-admin/internal/handler/http/auth"
)

func newTokenCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue JWT tokens for the admin API",
	}

	var (
		subject string
		role    string
		ttl     time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Print a signed HS256 token",
		Long: `Print a signed HS256 token for the given subject and role.

The secret is JWT_SECRET (or auth.jwt_secret in the config file). When --ttl is
not given the configured auth.token_ttl applies.

Roles:
  admin   full access to the admin API
  viewer  read-only access to the admin API`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if err := hauth.ValidateSecret(cfg.Auth.JWTSecret); err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.Auth.TokenTTL
			}
			token, err := hauth.IssueToken([]byte(cfg.Auth.JWTSecret), subject, role, ttl, time.Now())
			if err != nil {
				return err
			}
			c.logger.Debug("token issued", "subject", subject, "role", role, "ttl", ttl)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "token subject, usually a username (required)")
	issue.Flags().StringVar(&role, "role", hauth.RoleAdmin, "admin or viewer")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime")
	_ = issue.MarkFlagRequired("subject")

	cmd.AddCommand(issue)
	return cmd
}
