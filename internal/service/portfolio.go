package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

// Summary returns the portfolio dashboard. A cached copy is served when
// present; cache failures fall through to the database.
func (s *LedgerService) Summary(ctx context.Context, uow repository.UnitOfWork) (*domain.PortfolioSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to read cached portfolio summary")
		}
		if cached != nil {
			return cached, nil
		}
	}

	summary, err := s.computeSummary(ctx, uow)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache portfolio summary")
		}
	}
	return summary, nil
}

func (s *LedgerService) computeSummary(ctx context.Context, uow repository.UnitOfWork) (*domain.PortfolioSummary, error) {
	clients, err := uow.Clients().Count(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	loans, err := uow.Loans().CountByStatus(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	installments, err := uow.Installments().CountByStatus(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	invoices, err := uow.Invoices().CountByStatus(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	pending, err := uow.Installments().ListByStatus(ctx, domain.InstallmentStatusPending)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	outstanding := decimal.Zero
	for _, installment := range pending {
		outstanding = outstanding.Add(installment.OriginalAmount)
	}

	return &domain.PortfolioSummary{
		Clients:              clients,
		LoansByStatus:        loans,
		InstallmentsByStatus: installments,
		InvoicesByStatus:     invoices,
		OutstandingAmount:    outstanding,
		GeneratedAt:          s.now().UTC(),
	}, nil
}
