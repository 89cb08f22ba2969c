package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
	"github.com/segyhp/loan-manager/pkg/utils"
)

// OriginateLoan creates a loan and its full installment schedule.
// The caller commits both together or neither.
func (s *LedgerService) OriginateLoan(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	clientID, err := parseID(request.ClientID, "client_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.getClient(ctx, uow, clientID); err != nil {
		return nil, err
	}

	rate := s.rates.DefaultInterest
	if request.InterestRate != nil {
		rate = *request.InterestRate
	}
	if rate.IsNegative() {
		return nil, customError.WrapInvalidRequest("interest_rate must not be negative")
	}
	if !request.Principal.IsPositive() {
		return nil, customError.WrapInvalidRequest("principal must be greater than zero")
	}

	originationDate, err := s.dateOrToday(request.OriginationDate, "origination_date")
	if err != nil {
		return nil, err
	}
	firstDueDate, err := domain.ParseDate(request.FirstDueDate)
	if err != nil {
		return nil, customError.WrapInvalidRequest("first_due_date must be a YYYY-MM-DD date")
	}

	installmentAmount := utils.CalculateInstallmentAmount(request.Principal, rate, request.InstallmentCount)

	now := s.now().UTC().Truncate(time.Second)
	loan := &domain.Loan{
		ID:                uuid.New(),
		ClientID:          clientID,
		Principal:         request.Principal,
		InterestRate:      rate,
		InstallmentCount:  request.InstallmentCount,
		InstallmentAmount: installmentAmount,
		OriginationDate:   originationDate,
		FirstDueDate:      firstDueDate,
		Status:            domain.LoanStatusActive,
		Notes:             request.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	loan.Installments = BuildSchedule(loan)

	if err := uow.Loans().Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if err := uow.Installments().CreateBatch(ctx, loan.Installments); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info().
		Str("loan_id", loan.ID.String()).
		Str("client_id", clientID.String()).
		Str("principal", loan.Principal.String()).
		Int("installments", loan.InstallmentCount).
		Msg("loan originated")

	s.invalidateSummary(ctx, uow)
	return loan, nil
}

// BuildSchedule generates the pending installments of a loan. Due dates move
// one calendar month at a time from the first due date, clamped to month end.
func BuildSchedule(loan *domain.Loan) []*domain.Installment {
	installments := make([]*domain.Installment, 0, loan.InstallmentCount)
	for number := 1; number <= loan.InstallmentCount; number++ {
		installments = append(installments, &domain.Installment{
			ID:             uuid.New(),
			LoanID:         loan.ID,
			Number:         number,
			OriginalAmount: loan.InstallmentAmount,
			DueDate:        domain.NewDate(utils.CalculateDueDate(loan.FirstDueDate.Time, number)),
			Status:         domain.InstallmentStatusPending,
		})
	}
	return installments
}

// GetLoan returns the loan with its installments ordered by number.
func (s *LedgerService) GetLoan(ctx context.Context, uow repository.UnitOfWork, loanID string) (*domain.Loan, error) {
	id, err := parseID(loanID, "loan_id")
	if err != nil {
		return nil, err
	}

	loan, err := s.getLoan(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	loan.Installments, err = uow.Installments().ListByLoan(ctx, loan.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

func (s *LedgerService) getLoan(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*domain.Loan, error) {
	loan, err := uow.Loans().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(id.String()))
	}
	return loan, nil
}

func (s *LedgerService) ListLoans(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Loan, error) {
	loans, err := uow.Loans().List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

func (s *LedgerService) ListClientLoans(ctx context.Context, uow repository.UnitOfWork, clientID string) ([]*domain.Loan, error) {
	client, err := s.GetClient(ctx, uow, clientID)
	if err != nil {
		return nil, err
	}

	loans, err := uow.Loans().ListByClient(ctx, client.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// UpdateLoan applies an explicit status override and/or new notes.
func (s *LedgerService) UpdateLoan(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	if request.Status != nil && !domain.IsValidLoanStatus(*request.Status) {
		return nil, customError.WrapInvalidRequest("status must be one of active, settled, late")
	}

	loan, err := s.GetLoan(ctx, uow, loanID)
	if err != nil {
		return nil, err
	}

	if request.Status != nil {
		loan.Status = *request.Status
	}
	if request.Notes != nil {
		loan.Notes = request.Notes
	}

	if err := uow.Loans().Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateSummary(ctx, uow)
	return loan, nil
}

// DeleteLoan removes a loan and its installments. It is refused while an
// invoice that is not cancelled still bills one of the installments.
func (s *LedgerService) DeleteLoan(ctx context.Context, uow repository.UnitOfWork, loanID string) error {
	id, err := parseID(loanID, "loan_id")
	if err != nil {
		return err
	}

	loan, err := s.getLoan(ctx, uow, id)
	if err != nil {
		return err
	}

	if err := s.deleteLoan(ctx, uow, loan); err != nil {
		return err
	}

	s.invalidateSummary(ctx, uow)
	return nil
}

func (s *LedgerService) deleteLoan(ctx context.Context, uow repository.UnitOfWork, loan *domain.Loan) error {
	invoices, err := uow.Invoices().ListReferencingLoan(ctx, loan.ID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	for _, invoice := range invoices {
		if invoice.Status != domain.InvoiceStatusCancelled {
			return customError.WrapLoanHasOpenInvoices(loan.ID.String())
		}
	}

	if err := uow.Invoices().DetachLoan(ctx, loan.ID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := uow.Installments().DeleteByLoan(ctx, loan.ID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := uow.Loans().Delete(ctx, loan.ID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.log.Info().Str("loan_id", loan.ID.String()).Int("detached_invoices", len(invoices)).Msg("loan deleted")
	return nil
}
