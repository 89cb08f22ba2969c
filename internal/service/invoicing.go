package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

// IssueForInstallment bills a single installment, penalty included. An
// installment is the primary installment of at most one invoice.
func (s *LedgerService) IssueForInstallment(ctx context.Context, uow repository.UnitOfWork, installmentID string, request *domain.IssueInstallmentInvoiceRequest) (*domain.Invoice, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	installment, err := s.GetInstallment(ctx, uow, installmentID)
	if err != nil {
		return nil, err
	}

	var dueDate *domain.Date
	if request.DueDate != "" {
		parsed, err := domain.ParseDate(request.DueDate)
		if err != nil {
			return nil, customError.WrapInvalidRequest("due_date must be a YYYY-MM-DD date")
		}
		dueDate = &parsed
	}

	invoice, err := s.issueForInstallment(ctx, uow, installment, nil, dueDate)
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, uow)
	return invoice, nil
}

// issueForInstallment loads the owning loan unless it is given.
func (s *LedgerService) issueForInstallment(ctx context.Context, uow repository.UnitOfWork, installment *domain.Installment, loan *domain.Loan, dueDate *domain.Date) (*domain.Invoice, error) {
	if loan == nil {
		var err error
		loan, err = s.getLoan(ctx, uow, installment.LoanID)
		if err != nil {
			return nil, err
		}
	}

	exists, err := uow.Invoices().ExistsForInstallment(ctx, installment.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if exists {
		return nil, customError.WrapInvoiceAlreadyExists(installment.ID.String())
	}

	due := installment.DueDate
	if dueDate != nil {
		due = *dueDate
	}

	invoice := s.newInvoice(loan.ClientID, &loan.ID, due)
	invoice.InstallmentID = &installment.ID
	invoice.Items = []*domain.InvoiceItem{installmentItem(invoice.ID, 1, installment, loan, installment.LatePenalty)}
	invoice.Total = invoice.ItemsTotal()

	if err := uow.Invoices().Create(ctx, invoice); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("installment_id", installment.ID.String()).
		Str("total", invoice.Total.String()).
		Msg("invoice issued")

	return invoice, nil
}

// IssueBatchForInstallments issues one invoice per installment of the loan.
// Missing installments, installments of another loan and already invoiced
// installments become error entries; everything else is created.
func (s *LedgerService) IssueBatchForInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.BatchInvoiceRequest) (*domain.BatchInvoiceResult, error) {
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

	result := &domain.BatchInvoiceResult{
		Created: []*domain.Invoice{},
		Errors:  []domain.BatchInvoiceError{},
	}
	reject := func(installmentID string, err error) {
		result.Errors = append(result.Errors, domain.BatchInvoiceError{
			InstallmentID: installmentID,
			Reason:        customError.MessageOf(err),
		})
	}

	for _, rawID := range request.InstallmentIDs {
		installment, err := s.GetInstallment(ctx, uow, rawID)
		if err != nil {
			if customError.KindOf(err) == customError.KindInternal {
				return nil, err
			}
			reject(rawID, err)
			continue
		}

		if installment.LoanID != loan.ID {
			reject(rawID, customError.WrapInvalidRequest(
				fmt.Sprintf("Installment %s does not belong to loan %s", installment.ID, loan.ID)))
			continue
		}

		invoice, err := s.issueForInstallment(ctx, uow, installment, loan, nil)
		if err != nil {
			if customError.KindOf(err) == customError.KindInternal {
				return nil, err
			}
			reject(rawID, err)
			continue
		}

		result.Created = append(result.Created, invoice)
	}

	result.TotalCreated = len(result.Created)

	s.log.Info().
		Str("loan_id", loan.ID.String()).
		Int("created", result.TotalCreated).
		Int("rejected", len(result.Errors)).
		Msg("batch invoicing finished")

	if result.TotalCreated > 0 {
		s.invalidateSummary(ctx, uow)
	}
	return result, nil
}

// IssueFromInstallmentSet bundles the listed installments into one invoice.
// Every installment must come from a loan of the client. The total is the sum of the original amounts; penalties are not billed on
// this path. Items follow the order of the request.
func (s *LedgerService) IssueFromInstallmentSet(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, uow, request.ClientID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(request.InstallmentIDs))
	for _, rawID := range request.InstallmentIDs {
		id, err := parseID(rawID, "installment_ids")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	found, err := uow.Installments().ListByIDs(ctx, ids)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(found) != len(ids) {
		return nil, missingInstallment(ids, found)
	}

	byID := make(map[uuid.UUID]*domain.Installment, len(found))
	for _, installment := range found {
		byID[installment.ID] = installment
	}

	first := byID[ids[0]]
	loanID := first.LoanID
	invoice := s.newInvoice(client.ID, &loanID, first.DueDate)

	loans := map[uuid.UUID]*domain.Loan{}
	for position, id := range ids {
		installment := byID[id]
		loan, ok := loans[installment.LoanID]
		if !ok {
			loan, err = s.getLoan(ctx, uow, installment.LoanID)
			if err != nil {
				return nil, err
			}
			loans[loan.ID] = loan
		}
		if loan.ClientID != client.ID {
			return nil, customError.WrapInvalidRequest(
				fmt.Sprintf("Installment %s does not belong to client %s", installment.ID, client.ID))
		}
		invoice.Items = append(invoice.Items, installmentItem(invoice.ID, position+1, installment, loan, decimal.Zero))
	}
	invoice.Total = invoice.ItemsTotal()

	if err := uow.Invoices().Create(ctx, invoice); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Int("installments", len(ids)).
		Str("total", invoice.Total.String()).
		Msg("bundle invoice issued")

	s.invalidateSummary(ctx, uow)
	return invoice, nil
}

// missingInstallment names the first requested id that did not resolve.
// Ids that all resolve but still mismatch in count were repeated.
func missingInstallment(ids []uuid.UUID, found []*domain.Installment) error {
	resolved := make(map[uuid.UUID]bool, len(found))
	for _, installment := range found {
		resolved[installment.ID] = true
	}
	for _, id := range ids {
		if !resolved[id] {
			return customError.WrapInstallmentNotFound(id.String())
		}
	}
	return customError.NewBusinessError(
		customError.ErrCodeInstallmentNotFound,
		"installment_ids must not repeat an installment",
		customError.KindNotFound,
		customError.ErrNotFound,
	)
}

// IssueAdHoc creates an invoice from free-form amounts unrelated to any
// installment.
func (s *LedgerService) IssueAdHoc(ctx context.Context, uow repository.UnitOfWork, request *domain.AdHocInvoiceRequest) (*domain.Invoice, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, uow, request.ClientID)
	if err != nil {
		return nil, err
	}

	var loanID *uuid.UUID
	if request.LoanID != nil {
		id, err := parseID(*request.LoanID, "loan_id")
		if err != nil {
			return nil, err
		}
		loan, err := s.getLoan(ctx, uow, id)
		if err != nil {
			return nil, err
		}
		if loan.ClientID != client.ID {
			return nil, customError.WrapInvalidRequest(
				fmt.Sprintf("Loan %s does not belong to client %s", loan.ID, client.ID))
		}
		loanID = &loan.ID
	}

	dueDate, err := domain.ParseDate(request.DueDate)
	if err != nil {
		return nil, customError.WrapInvalidRequest("due_date must be a YYYY-MM-DD date")
	}

	invoice := s.newInvoice(client.ID, loanID, dueDate)
	for position, line := range request.Items {
		invoice.Items = append(invoice.Items, &domain.InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   invoice.ID,
			Position:    position + 1,
			Description: line.Description,
			Amount:      line.Amount,
			Penalty:     decimal.Zero,
		})
	}
	invoice.Total = invoice.ItemsTotal()

	if err := uow.Invoices().Create(ctx, invoice); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info().Str("invoice_id", invoice.ID.String()).Str("total", invoice.Total.String()).Msg("ad-hoc invoice issued")
	s.invalidateSummary(ctx, uow)
	return invoice, nil
}

// PayInvoiceInstallment pays an installment through one of the invoices that
// bill it. Invoice payments are always on time. A paid installment is
// returned untouched; a late or advanced one becomes paid at par and keeps
// any accrued penalty.
func (s *LedgerService) PayInvoiceInstallment(ctx context.Context, uow repository.UnitOfWork, invoiceID, installmentID string) (*domain.Installment, error) {
	invoice, err := s.getInvoice(ctx, uow, invoiceID)
	if err != nil {
		return nil, err
	}

	installment, err := s.GetInstallment(ctx, uow, installmentID)
	if err != nil {
		return nil, err
	}
	if !invoice.Bundles(installment.ID) {
		return nil, customError.WrapInstallmentNotInInvoice(invoice.ID.String(), installment.ID.String())
	}

	if installment.Status == domain.InstallmentStatusPaid {
		return installment, nil
	}

	paymentDate := s.today()
	installment.Status = domain.InstallmentStatusPaid
	installment.PaymentDate = &paymentDate
	installment.AmountPaid = installment.OriginalAmount

	if err := uow.Installments().UpdatePayment(ctx, installment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.recomputeInvoiceStatus(ctx, uow, invoice); err != nil {
		return nil, err
	}
	if _, err := s.recomputeLoanStatus(ctx, uow, installment.LoanID, paymentSettledStatuses...); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("installment_id", installment.ID.String()).
		Msg("installment paid through invoice")

	s.invalidateSummary(ctx, uow)
	return installment, nil
}

// recomputeInvoiceStatus marks the invoice paid once every installment it
// bundles is paid.
func (s *LedgerService) recomputeInvoiceStatus(ctx context.Context, uow repository.UnitOfWork, invoice *domain.Invoice) error {
	ids := invoice.BundledInstallmentIDs()
	if len(ids) == 0 || invoice.Status == domain.InvoiceStatusPaid {
		return nil
	}

	bundled, err := uow.Installments().ListByIDs(ctx, ids)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	for _, installment := range bundled {
		if installment.Status != domain.InstallmentStatusPaid {
			return nil
		}
	}

	if err := uow.Invoices().UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusPaid); err != nil {
		return customError.WrapDatabaseError(err)
	}
	invoice.Status = domain.InvoiceStatusPaid
	return nil
}

// SetInvoiceStatus overrides the status without touching installments.
func (s *LedgerService) SetInvoiceStatus(ctx context.Context, uow repository.UnitOfWork, invoiceID string, request *domain.UpdateInvoiceStatusRequest) (*domain.Invoice, error) {
	if !domain.IsValidInvoiceStatus(request.Status) {
		return nil, customError.WrapInvalidRequest("status must be one of issued, paid, cancelled")
	}

	invoice, err := s.getInvoice(ctx, uow, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status != request.Status {
		if err := uow.Invoices().UpdateStatus(ctx, invoice.ID, request.Status); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		invoice.Status = request.Status
		s.invalidateSummary(ctx, uow)
	}
	return invoice, nil
}

// GetInvoice returns the invoice with its items and client.
func (s *LedgerService) GetInvoice(ctx context.Context, uow repository.UnitOfWork, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.getInvoice(ctx, uow, invoiceID)
	if err != nil {
		return nil, err
	}

	client, err := s.getClient(ctx, uow, invoice.ClientID)
	if err != nil {
		return nil, err
	}
	invoice.Client = client
	return invoice, nil
}

func (s *LedgerService) getInvoice(ctx context.Context, uow repository.UnitOfWork, invoiceID string) (*domain.Invoice, error) {
	id, err := parseID(invoiceID, "invoice_id")
	if err != nil {
		return nil, err
	}

	invoice, err := uow.Invoices().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapInvoiceNotFound(id.String()))
	}
	return invoice, nil
}

func (s *LedgerService) ListInvoices(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Invoice, error) {
	invoices, err := uow.Invoices().List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return invoices, nil
}

func (s *LedgerService) ListClientInvoices(ctx context.Context, uow repository.UnitOfWork, clientID string) ([]*domain.Invoice, error) {
	client, err := s.GetClient(ctx, uow, clientID)
	if err != nil {
		return nil, err
	}

	invoices, err := uow.Invoices().ListByClient(ctx, client.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return invoices, nil
}

// ListInstallmentInvoices returns the invoices issued for the installment on
// the single-installment path.
func (s *LedgerService) ListInstallmentInvoices(ctx context.Context, uow repository.UnitOfWork, installmentID string) ([]*domain.Invoice, error) {
	installment, err := s.GetInstallment(ctx, uow, installmentID)
	if err != nil {
		return nil, err
	}

	invoices, err := uow.Invoices().ListByPrimaryInstallment(ctx, installment.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return invoices, nil
}

func (s *LedgerService) newInvoice(clientID uuid.UUID, loanID *uuid.UUID, dueDate domain.Date) *domain.Invoice {
	return &domain.Invoice{
		ID:        uuid.New(),
		ClientID:  clientID,
		LoanID:    loanID,
		IssueDate: s.today(),
		DueDate:   dueDate,
		Status:    domain.InvoiceStatusIssued,
		CreatedAt: s.now().UTC().Truncate(time.Second),
		Items:     []*domain.InvoiceItem{},
	}
}

// installmentItem snapshots an installment as an invoice line.
func installmentItem(invoiceID uuid.UUID, position int, installment *domain.Installment, loan *domain.Loan, penalty decimal.Decimal) *domain.InvoiceItem {
	installmentID := installment.ID
	number := installment.Number
	dueDate := installment.DueDate

	return &domain.InvoiceItem{
		ID:                uuid.New(),
		InvoiceID:         invoiceID,
		Position:          position,
		Description:       fmt.Sprintf("Installment %d/%d", installment.Number, loan.InstallmentCount),
		InstallmentID:     &installmentID,
		InstallmentNumber: &number,
		Amount:            installment.OriginalAmount,
		Penalty:           penalty,
		DueDate:           &dueDate,
	}
}
