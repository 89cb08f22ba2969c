package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/logger"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/internal/service"
	"github.com/segyhp/loan-manager/pkg/utils"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the loan status sweep once",
	Example: `  # Flag loans that were overdue at the end of June
  loanctl sweep --as-of 2025-06-30`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().String("as-of", "", "Reference date (format: YYYY-MM-DD, default: today)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sweep")

	asOfStr, _ := cmd.Flags().GetString("as-of")
	asOf := domain.NewDate(utils.Today())
	if asOfStr != "" {
		parsed, err := domain.ParseDate(asOfStr)
		if err != nil {
			return fmt.Errorf("invalid as-of date format. Use YYYY-MM-DD: %w", err)
		}
		asOf = parsed
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ledger := service.NewLedgerService(service.RatesFromConfig(cfg))
	ctx := cmd.Context()

	var changed int
	err = repository.NewTransactor(db).WithinTx(ctx, func(uow repository.UnitOfWork) (err error) {
		changed, err = ledger.RefreshLoanStatuses(ctx, uow, asOf)
		return err
	})
	if err != nil {
		return err
	}

	log.Info().Str("as_of", asOf.String()).Int("changed", changed).Msg("Sweep finished")
	return nil
}
