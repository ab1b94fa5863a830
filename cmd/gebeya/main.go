// Command gebeya is the application CLI: HTTP server, migrations,
// seeders and route inspection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ephremw/gebeya/config"
	_ "github.com/ephremw/gebeya/database/migrations"
	"github.com/ephremw/gebeya/database/seeders"
	"github.com/ephremw/gebeya/internal/kernel"
	"github.com/ephremw/gebeya/internal/server"
	"github.com/ephremw/gebeya/pkg/database"
	"github.com/ephremw/gebeya/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

var rootCmd = &cobra.Command{
	Use:   "gebeya",
	Short: "Gebeya e-commerce backend",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations...")
		return migration.New(database.DB).Run()
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch...")
		return migration.New(database.DB).Rollback()
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders...")
		return seeders.RunAll(database.DB)
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		for _, line := range kernel.New(database.DB).Routes() {
			fmt.Println(line)
		}
		return nil
	},
}

func main() {
	rootCmd.AddCommand(
		serveCmd,
		migrateCmd,
		migrateRollbackCmd,
		migrateStatusCmd,
		seedCmd,
		routeListCmd,
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
