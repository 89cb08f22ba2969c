package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/logger"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo clients and loans",
	Long: `Seed registers demo clients, each with one loan originated through the
regular origination rules, so due dates follow calendar months.`,
	Example: `  loanctl seed --clients 5 --installments 12 --first-due 2025-01-31`,
	RunE:    runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int("clients", 3, "Number of demo clients")
	seedCmd.Flags().Int("installments", 6, "Installments per loan")
	seedCmd.Flags().String("principal", "1200.00", "Principal of each loan")
	seedCmd.Flags().String("first-due", "", "First due date (format: YYYY-MM-DD, default: one month from today)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("seed")

	clients, _ := cmd.Flags().GetInt("clients")
	installments, _ := cmd.Flags().GetInt("installments")
	principalStr, _ := cmd.Flags().GetString("principal")
	firstDue, _ := cmd.Flags().GetString("first-due")

	if clients <= 0 {
		return fmt.Errorf("clients must be positive")
	}
	principal, err := decimal.NewFromString(principalStr)
	if err != nil {
		return fmt.Errorf("invalid principal: %w", err)
	}
	if firstDue == "" {
		firstDue = time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ledger := service.NewLedgerService(service.RatesFromConfig(cfg))
	ctx := cmd.Context()

	err = repository.NewTransactor(db).WithinTx(ctx, func(uow repository.UnitOfWork) error {
		for i := 1; i <= clients; i++ {
			client, err := ledger.CreateClient(ctx, uow, &domain.CreateClientRequest{
				Name:  fmt.Sprintf("Demo Client %d", i),
				TaxID: fmt.Sprintf("DEMO-%06d", i),
			})
			if err != nil {
				return err
			}

			loan, err := ledger.OriginateLoan(ctx, uow, &domain.CreateLoanRequest{
				ClientID:         client.ID.String(),
				Principal:        principal,
				InstallmentCount: installments,
				FirstDueDate:     firstDue,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s x %d\n",
				client.TaxID, loan.ID, loan.InstallmentAmount.StringFixed(2), loan.InstallmentCount)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("clients", clients).Int("installments", installments).Msg("Demo data loaded")
	return nil
}
