package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Lelo88/product-catalog-api/internal/config"
	"github.com/Lelo88/product-catalog-api/internal/db"
	"github.com/Lelo88/product-catalog-api/internal/logger"
)

// migrator agrupa las operaciones de db sobre migraciones; en tests se reemplaza.
type migrator struct {
	up      func(databaseURL string) error
	down    func(databaseURL string, steps int) error
	version func(databaseURL string) (uint, bool, error)
}

var defaultMigrator = migrator{
	up:      db.MigrateUp,
	down:    db.MigrateDown,
	version: db.MigrationVersion,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err := newRootCommand(cfg, appLogger, defaultMigrator).Execute(); err != nil {
		appLogger.Error("migrate command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCommand(cfg config.Config, appLogger *zap.Logger, m migrator) *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the product catalog database schema",
		Long: `Apply or revert the embedded SQL migrations against DATABASE_URL.

Examples:
  migrate up                 # apply every pending migration
  migrate down --steps 1     # revert the last migration (seed data)
  migrate version            # print the applied version`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newUpCommand(cfg, appLogger, m),
		newDownCommand(cfg, appLogger, m),
		newVersionCommand(cfg, m),
	)
	return root
}

func newUpCommand(cfg config.Config, appLogger *zap.Logger, m migrator) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := m.up(cfg.DatabaseURL); err != nil {
				return err
			}
			appLogger.Info("migrations applied")
			return nil
		},
	}
}

func newDownCommand(cfg config.Config, appLogger *zap.Logger, m migrator) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must be >= 0, got %d", steps)
			}
			if err := m.down(cfg.DatabaseURL, steps); err != nil {
				return err
			}
			appLogger.Info("migrations reverted", zap.Int("steps", steps))
			return nil
		},
	}
	// 0 revierte todo; por eso el default es 1.
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert (0 reverts all)")
	return cmd
}

func newVersionCommand(cfg config.Config, m migrator) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, err := m.version(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	}
}
