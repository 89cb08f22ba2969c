package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

// CreateClient registers a client; the tax id must be unique.
func (s *LedgerService) CreateClient(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateClientRequest) (*domain.Client, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	taxID := strings.TrimSpace(request.TaxID)
	existing, err := uow.Clients().GetByTaxID(ctx, taxID)
	if err == nil && existing != nil {
		return nil, customError.WrapTaxIDAlreadyExists(taxID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	client := &domain.Client{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(request.Name),
		TaxID:        taxID,
		Email:        request.Email,
		Phone:        request.Phone,
		Address:      request.Address,
		RegisteredAt: s.now().UTC().Truncate(time.Second),
	}

	if err := uow.Clients().Create(ctx, client); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateSummary(ctx, uow)
	return client, nil
}

func (s *LedgerService) GetClient(ctx context.Context, uow repository.UnitOfWork, clientID string) (*domain.Client, error) {
	id, err := parseID(clientID, "client_id")
	if err != nil {
		return nil, err
	}
	return s.getClient(ctx, uow, id)
}

func (s *LedgerService) getClient(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*domain.Client, error) {
	client, err := uow.Clients().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapClientNotFound(id.String()))
	}
	return client, nil
}

func (s *LedgerService) ListClients(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Client, error) {
	clients, err := uow.Clients().List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return clients, nil
}

// UpdateClient applies the fields present in the request.
func (s *LedgerService) UpdateClient(ctx context.Context, uow repository.UnitOfWork, clientID string, request *domain.UpdateClientRequest) (*domain.Client, error) {
	if err := domain.Validate(request); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, uow, clientID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		client.Name = strings.TrimSpace(*request.Name)
	}
	if request.Email != nil {
		client.Email = request.Email
	}
	if request.Phone != nil {
		client.Phone = request.Phone
	}
	if request.Address != nil {
		client.Address = request.Address
	}

	if err := uow.Clients().Update(ctx, client); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return client, nil
}

// DeleteClient removes the client together with its invoices, loans and
// installments. Invoices of other clients that still bill one of those
// installments are cancelled and detached.
func (s *LedgerService) DeleteClient(ctx context.Context, uow repository.UnitOfWork, clientID string) error {
	client, err := s.GetClient(ctx, uow, clientID)
	if err != nil {
		return err
	}

	if err := uow.Invoices().DeleteByClient(ctx, client.ID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	loans, err := uow.Loans().ListByClient(ctx, client.ID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	for _, loan := range loans {
		if err := s.cancelForeignInvoices(ctx, uow, client.ID, loan.ID); err != nil {
			return err
		}
		if err := s.deleteLoan(ctx, uow, loan); err != nil {
			return err
		}
	}

	if err := uow.Clients().Delete(ctx, client.ID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.log.Info().Str("client_id", client.ID.String()).Int("loans", len(loans)).Msg("client deleted")
	s.invalidateSummary(ctx, uow)
	return nil
}

func (s *LedgerService) cancelForeignInvoices(ctx context.Context, uow repository.UnitOfWork, clientID, loanID uuid.UUID) error {
	invoices, err := uow.Invoices().ListReferencingLoan(ctx, loanID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, invoice := range invoices {
		if invoice.ClientID == clientID || invoice.Status == domain.InvoiceStatusCancelled {
			continue
		}
		if err := uow.Invoices().UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusCancelled); err != nil {
			return customError.WrapDatabaseError(err)
		}
		s.log.Warn().
			Str("invoice_id", invoice.ID.String()).
			Str("loan_id", loanID.String()).
			Msg("invoice cancelled with the deleted client's loan")
	}
	return nil
}
