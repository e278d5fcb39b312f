package main

import (
	"fmt"
	"os"
	"strconv"

	"kohi-api/config"
	"kohi-api/migrations"
	"kohi-api/pkg/database"
	"kohi-api/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the kohi database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *database.Migrator, _ []string) error {
		return m.Up()
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *database.Migrator, _ []string) error {
		return m.Down()
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(*database.Migrator, []string) error {
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force [version]",
	Short: "Set the version without running migrations (clears a dirty state)",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *database.Migrator, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return m.Force(v)
	}),
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)
}

// withMigrator opens the migrator, runs fn and reports the resulting version.
func withMigrator(fn func(m *database.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.IsProduction())

		if !cfg.PersistenceEnabled() {
			return fmt.Errorf("DATABASE_URL is required")
		}

		m, err := database.NewMigrator(cfg.DBUrl, migrations.FS, migrations.Dir)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := fn(m, args); err != nil {
			return err
		}

		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		logger.Log.Info("Schema version", "command", cmd.Name(), "version", v, "dirty", dirty)
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
