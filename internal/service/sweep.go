package service

import (
	"context"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

// RefreshLoanStatuses flags open loans with an overdue pending installment as
// late and returns loans that caught up to active. Settled loans and the
// installments themselves are left alone. It returns how many loans changed.
func (s *LedgerService) RefreshLoanStatuses(ctx context.Context, uow repository.UnitOfWork, asOf domain.Date) (int, error) {
	loans, err := uow.Loans().ListByStatus(ctx, domain.LoanStatusActive, domain.LoanStatusLate)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	changed := 0
	for _, loan := range loans {
		installments, err := uow.Installments().ListByLoan(ctx, loan.ID)
		if err != nil {
			return changed, customError.WrapDatabaseError(err)
		}

		status := domain.LoanStatusActive
		for _, installment := range installments {
			if installment.IsOverdue(asOf) {
				status = domain.LoanStatusLate
				break
			}
		}

		if status == loan.Status {
			continue
		}
		if err := uow.Loans().UpdateStatus(ctx, loan.ID, status); err != nil {
			return changed, customError.WrapDatabaseError(err)
		}
		changed++

		s.log.Info().
			Str("loan_id", loan.ID.String()).
			Str("from", loan.Status).
			Str("to", status).
			Msg("loan status refreshed")
	}

	if changed > 0 {
		s.invalidateSummary(ctx, uow)
	}
	return changed, nil
}

// UpcomingInstallments lists pending installments due within days of from,
// both ends inclusive.
func (s *LedgerService) UpcomingInstallments(ctx context.Context, uow repository.UnitOfWork, from domain.Date, days int) ([]*domain.Installment, error) {
	if days < 0 {
		return nil, customError.WrapInvalidRequest("days must not be negative")
	}

	to := domain.NewDate(from.AddDate(0, 0, days))
	installments, err := uow.Installments().ListPendingDueBetween(ctx, from, to)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return installments, nil
}
