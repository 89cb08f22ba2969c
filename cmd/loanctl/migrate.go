package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/database"
	"github.com/segyhp/loan-manager/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables if they don't exist",
	Example: `  # Apply the schema to the configured database
  loanctl migrate

  # Print the DDL for sqlite without touching any database
  loanctl migrate --print --driver sqlite3`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Bool("print", false, "Print the DDL instead of applying it")
	migrateCmd.Flags().String("driver", config.DriverPostgres, "Driver to render the DDL for with --print")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("migrate")

	printOnly, _ := cmd.Flags().GetBool("print")
	if printOnly {
		driver, _ := cmd.Flags().GetString("driver")
		schema, err := database.Schema(driver)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), schema)
		return nil
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	log.Info().Str("driver", db.DriverName()).Msg("Schema is up to date")
	return nil
}
