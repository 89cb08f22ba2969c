package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/database"
	"github.com/segyhp/loan-manager/internal/logger"
)

var version = "1.0.0"

// cfg is nil when the configuration failed to load; commands that need the
// database report that error through openDB.
var (
	cfg     *config.Config
	cfgErr  error
	rootCmd = &cobra.Command{
		Use:   "loanctl",
		Short: "Operational commands for the loan manager",
		Long: `loanctl manages the loan manager database outside the HTTP server:
creating the schema, loading demo data and running the status sweep by hand.

It reads the same environment variables and .env file as the server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func execute(loaded *config.Config) {
	cfg = loaded
	if cfg == nil {
		cfgErr = fmt.Errorf("configuration could not be loaded")
	}

	log := logger.WithComponent("cmd")
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func openDB() (*sqlx.DB, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	return database.Open(cfg.Database)
}
