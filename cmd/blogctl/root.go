package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"blog-admin/internal/config"
	"blog-admin/internal/infra/adapter/persistence/memory"
	pgRepo "blog-admin/internal/infra/adapter/persistence/postgres"
	"blog-admin/internal/infra/db"
	"blog-admin/internal/observability/logging"
	"blog-admin/internal/repository"
	"blog-admin/internal/resilience/circuitbreaker"
)

// stores is an opened storage backend.
type stores struct {
	Articles repository.ArticleRepository
	Users    repository.UserRepository
	DB       *sql.DB // nil for the in-memory store
}

func (s *stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// cli carries state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger

	// openStores is replaced in tests.
	openStores func(ctx context.Context, cfg *config.Config) (*stores, error)
}

// config loads the configuration on first use. Commands that never touch
// storage or secrets do not require a valid configuration.
func (c *cli) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

func defaultOpenStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if db.IsMemoryDSN(cfg.Database.URL) {
		s := memory.NewStore()
		return &stores{Articles: s.Articles(), Users: s.Users()}, nil
	}
	database, err := db.Open(ctx, cfg.Database.URL, cfg.Database.Pool)
	if err != nil {
		return nil, err
	}
	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	return &stores{
		Articles: pgRepo.NewArticleRepo(breaker),
		Users:    pgRepo.NewUserRepo(breaker),
		DB:       database,
	}, nil
}

func newRootCmd() *cobra.Command {
	return (&cli{openStores: defaultOpenStores}).command()
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "blogctl",
		Short: "Blog administration CLI",
		Long: `blogctl manages the blog's PostgreSQL schema, its users and the
JWT tokens used to reach the admin API.

Configuration is read from the YAML file given by --config (or CONFIG_FILE)
and overlaid with environment variables such as DATABASE_URL and JWT_SECRET.

Example usage:
  blogctl migrate up                         # Create tables and indexes
  blogctl user create --username alice       # Register an author
  blogctl token issue --subject alice        # Print an admin token
  blogctl admin describe article             # Show the article admin configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.logger = logging.New(logging.Options{Level: level, Format: "text", Writer: cmd.ErrOrStderr()})
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newMigrateCmd(c),
		newUserCmd(c),
		newTokenCmd(c),
		newAdminCmd(c),
	)
	return root
}
