package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
	"github.com/segyhp/loan-manager/pkg/utils"
)

// Paid-equivalent statuses used by the loan rollup.
var (
	paymentSettledStatuses = []string{domain.InstallmentStatusPaid, domain.InstallmentStatusLate}
	advanceSettledStatuses = []string{domain.InstallmentStatusPaid, domain.InstallmentStatusLate, domain.InstallmentStatusAdvanced}
)

func (s *LedgerService) GetInstallment(ctx context.Context, uow repository.UnitOfWork, installmentID string) (*domain.Installment, error) {
	id, err := parseID(installmentID, "installment_id")
	if err != nil {
		return nil, err
	}
	return s.getInstallment(ctx, uow, id)
}

func (s *LedgerService) getInstallment(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*domain.Installment, error) {
	installment, err := uow.Installments().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapInstallmentNotFound(id.String()))
	}
	return installment, nil
}

func (s *LedgerService) ListLoanInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string) ([]*domain.Installment, error) {
	id, err := parseID(loanID, "loan_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.getLoan(ctx, uow, id); err != nil {
		return nil, err
	}

	installments, err := uow.Installments().ListByLoan(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return installments, nil
}

// RecordPayment settles a pending installment. A payment after the due date
// marks it late and accrues the late penalty.
func (s *LedgerService) RecordPayment(ctx context.Context, uow repository.UnitOfWork, installmentID string, request *domain.RecordPaymentRequest) (*domain.Installment, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	installment, err := s.GetInstallment(ctx, uow, installmentID)
	if err != nil {
		return nil, err
	}
	if !installment.IsPending() {
		return nil, customError.WrapInstallmentAlreadySettled(installment.ID.String(), installment.Status)
	}

	paymentDate, err := s.dateOrToday(request.PaymentDate, "payment_date")
	if err != nil {
		return nil, err
	}

	amountPaid := installment.OriginalAmount
	if request.AmountPaid != nil {
		amountPaid = *request.AmountPaid
	}

	installment.AmountPaid = amountPaid
	installment.PaymentDate = &paymentDate
	installment.Status = domain.InstallmentStatusPaid
	installment.LatePenalty = decimal.Zero

	if paymentDate.After(installment.DueDate) {
		daysLate := paymentDate.DaysSince(installment.DueDate)
		installment.Status = domain.InstallmentStatusLate
		installment.LatePenalty = utils.CalculateLatePenalty(installment.OriginalAmount, daysLate, s.rates.LateFee, s.rates.LateDaily)
	}

	if err := uow.Installments().UpdatePayment(ctx, installment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info().
		Str("installment_id", installment.ID.String()).
		Str("status", installment.Status).
		Str("amount_paid", installment.AmountPaid.String()).
		Str("late_penalty", installment.LatePenalty.String()).
		Msg("payment recorded")

	if _, err := s.recomputeLoanStatus(ctx, uow, installment.LoanID, paymentSettledStatuses...); err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, uow)
	return installment, nil
}

// AdvanceInstallments settles up to count pending installments ahead of time,
// lowest number first. A positive total amount is split evenly over the
// selected installments; otherwise each is paid at par.
func (s *LedgerService) AdvanceInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.AdvanceInstallmentsRequest) ([]*domain.Installment, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	id, err := parseID(loanID, "loan_id")
	if err != nil {
		return nil, err
	}
	loan, err := s.getLoan(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	count := request.Count
	if count <= 0 {
		count = 1
	}

	paymentDate, err := s.dateOrToday(request.PaymentDate, "payment_date")
	if err != nil {
		return nil, err
	}

	selected, err := uow.Installments().ListPendingByLoan(ctx, loan.ID, count)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(selected) == 0 {
		return nil, customError.WrapNoPendingInstallments(loan.ID.String())
	}

	var share *decimal.Decimal
	if request.TotalAmount != nil && request.TotalAmount.IsPositive() {
		split := request.TotalAmount.Div(decimal.NewFromInt(int64(len(selected))))
		share = &split
	}

	for _, installment := range selected {
		installment.AmountPaid = installment.OriginalAmount
		if share != nil {
			installment.AmountPaid = *share
		}
		date := paymentDate
		installment.PaymentDate = &date
		installment.Status = domain.InstallmentStatusAdvanced

		if err := uow.Installments().UpdatePayment(ctx, installment); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	s.log.Info().
		Str("loan_id", loan.ID.String()).
		Int("advanced", len(selected)).
		Msg("installments advanced")

	if _, err := s.recomputeLoanStatus(ctx, uow, loan.ID, advanceSettledStatuses...); err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, uow)
	return selected, nil
}

// recomputeLoanStatus folds over every installment of the loan and marks it
// settled when all of them are paid in full under one of the given statuses.
func (s *LedgerService) recomputeLoanStatus(ctx context.Context, uow repository.UnitOfWork, loanID uuid.UUID, statuses ...string) (string, error) {
	loan, err := s.getLoan(ctx, uow, loanID)
	if err != nil {
		return "", err
	}

	installments, err := uow.Installments().ListByLoan(ctx, loanID)
	if err != nil {
		return "", customError.WrapDatabaseError(err)
	}

	if !allSettled(installments, statuses) || loan.Status == domain.LoanStatusSettled {
		return loan.Status, nil
	}

	if err := uow.Loans().UpdateStatus(ctx, loanID, domain.LoanStatusSettled); err != nil {
		return "", customError.WrapDatabaseError(err)
	}

	s.log.Info().Str("loan_id", loanID.String()).Msg("loan settled")
	return domain.LoanStatusSettled, nil
}

func allSettled(installments []*domain.Installment, statuses []string) bool {
	if len(installments) == 0 {
		return false
	}
	for _, installment := range installments {
		if !installment.IsSettledUnder(statuses...) {
			return false
		}
	}
	return true
}
