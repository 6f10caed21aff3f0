package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/config"
	_ "github.com/shashiranjanraj/storefront/database/migrations" // registers schema
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

var errSQLOnly = errors.New("command requires a SQL DB_DRIVER")

// bootStore loads config and opens the configured backend.
func bootStore(ctx context.Context) (*repositories.Store, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return kernel.OpenStore(ctx)
}

// bootSQL opens the GORM connection for the migration runner.
func bootSQL() (*migration.Runner, func(), error) {
	if err := config.Load(); err != nil {
		return nil, nil, err
	}
	driver := config.DatabaseDriver()
	if !slices.Contains(database.SQLDrivers, driver) {
		return nil, nil, errSQLOnly
	}
	db, err := database.OpenSQL(driver, config.DatabaseDSN())
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return migration.New(db), closeDB, nil
}

// storefront migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending migrations (creates indexes on MongoDB)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := bootStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close(context.Background()) //nolint:errcheck

		fmt.Println("Running migrations...")
		return store.Migrate(cmd.Context())
	},
}

// storefront migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, closeDB, err := bootSQL()
		if err != nil {
			return err
		}
		defer closeDB()

		fmt.Println("Rolling back last batch...")
		n, err := runner.Rollback(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Rolled back %d migration(s)\n", n)
		return nil
	},
}

// storefront migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, closeDB, err := bootSQL()
		if err != nil {
			return err
		}
		defer closeDB()
		return runner.Status(cmd.Context(), os.Stdout)
	},
}

// storefront seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the admin account and starter categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := bootStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close(context.Background()) //nolint:errcheck

		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Running seeders...")
		return seeders.RunAll(cmd.Context(), store, os.Stdout)
	},
}
