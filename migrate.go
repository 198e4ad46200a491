package main

import (
	"database/sql"
	"fmt"
	"log"

	intconfig "orderdesk/internal/config"
	intdb "orderdesk/internal/db"

	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(d intdb.Dialect, db *sql.DB) error {
			return migrateUp(d, db)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(d intdb.Dialect, db *sql.DB) error {
			mg, err := intdb.NewMigrator(d, db)
			if err != nil {
				return err
			}
			if err := mg.Down(migrateSteps); err != nil {
				return err
			}
			return logVersion(mg)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(d intdb.Dialect, db *sql.DB) error {
			mg, err := intdb.NewMigrator(d, db)
			if err != nil {
				return err
			}
			return logVersion(mg)
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(fn func(intdb.Dialect, *sql.DB) error) error {
	env := intconfig.LoadEnv()
	d := intdb.DialectFor(env.DBDriver)
	db, err := intconfig.ConnectDB(d.DriverName, env.DBDSN)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()
	return fn(d, db)
}

func migrateUp(d intdb.Dialect, db *sql.DB) error {
	mg, err := intdb.NewMigrator(d, db)
	if err != nil {
		return err
	}
	if err := mg.Up(); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return logVersion(mg)
}

func logVersion(mg *intdb.Migrator) error {
	v, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	log.Printf("[MIGRATE] schema version=%d dirty=%v", v, dirty)
	return nil
}
