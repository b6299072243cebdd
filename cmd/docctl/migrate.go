package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/database"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(db *sql.DB, driver string) error {
					if err := database.RunMigrations(db, driver); err != nil {
						return err
					}
					return printVersion(cmd, db, driver)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(db *sql.DB, driver string) error {
					if err := database.MigrateDown(db, driver); err != nil {
						return err
					}
					return printVersion(cmd, db, driver)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), database.MigrationStatus)
			},
		},
	)

	return cmd
}

func printVersion(cmd *cobra.Command, db *sql.DB, driver string) error {
	v, err := database.MigrationVersion(db, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d (%s)\n", v, driver)
	return nil
}

// withDB はマイグレーション用にDBだけを開きます（ストレージやRedisには接続しない）
func withDB(ctx context.Context, fn func(db *sql.DB, driver string) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		client, err := database.NewSQLiteClient(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		return fn(client.DB().DB, cfg.Database.Driver)

	default:
		client, err := database.NewPostgresClient(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer client.Close()
		db := client.SQLDB()
		defer db.Close()
		return fn(db, cfg.Database.Driver)
	}
}
