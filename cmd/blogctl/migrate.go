package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blog-admin/internal/infra/db"
)

var errMemoryMigrate = errors.New("migrations apply only to a PostgreSQL DATABASE_URL")

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Create the users and articles tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.openPostgres(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := db.MigrateUp(cmd.Context(), s.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}

	var force bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Drop the articles and users tables",
		Long:  "Drop the articles and users tables. Every row is lost; --force is required.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errors.New("refusing to drop tables without --force")
			}
			s, err := c.openPostgres(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := db.MigrateDown(cmd.Context(), s.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tables dropped.")
			return nil
		},
	}
	down.Flags().BoolVar(&force, "force", false, "confirm dropping every table")

	cmd.AddCommand(up, down)
	return cmd
}

func (c *cli) openPostgres(cmd *cobra.Command) (*stores, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if db.IsMemoryDSN(cfg.Database.URL) {
		return nil, errMemoryMigrate
	}
	s, err := c.openStores(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	if s.DB == nil {
		return nil, errMemoryMigrate
	}
	c.logger.Debug("connected", "database", db.RedactDSN(cfg.Database.URL))
	return s, nil
}
