package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
)

// MockLedgerService stands in for the service behind the HTTP handlers.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateClient(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, uow, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockLedgerService) GetClient(ctx context.Context, uow repository.UnitOfWork, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, uow, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockLedgerService) ListClients(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Client, error) {
	args := m.Called(ctx, uow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockLedgerService) UpdateClient(ctx context.Context, uow repository.UnitOfWork, clientID string, request *domain.UpdateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, uow, clientID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockLedgerService) DeleteClient(ctx context.Context, uow repository.UnitOfWork, clientID string) error {
	args := m.Called(ctx, uow, clientID)
	return args.Error(0)
}

func (m *MockLedgerService) OriginateLoan(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, uow, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) GetLoan(ctx context.Context, uow repository.UnitOfWork, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, uow, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) ListLoans(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Loan, error) {
	args := m.Called(ctx, uow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) ListClientLoans(ctx context.Context, uow repository.UnitOfWork, clientID string) ([]*domain.Loan, error) {
	args := m.Called(ctx, uow, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) UpdateLoan(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, uow, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) DeleteLoan(ctx context.Context, uow repository.UnitOfWork, loanID string) error {
	args := m.Called(ctx, uow, loanID)
	return args.Error(0)
}

func (m *MockLedgerService) GetInstallment(ctx context.Context, uow repository.UnitOfWork, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, uow, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockLedgerService) ListLoanInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string) ([]*domain.Installment, error) {
	args := m.Called(ctx, uow, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, uow repository.UnitOfWork, installmentID string, request *domain.RecordPaymentRequest) (*domain.Installment, error) {
	args := m.Called(ctx, uow, installmentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockLedgerService) AdvanceInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.AdvanceInstallmentsRequest) ([]*domain.Installment, error) {
	args := m.Called(ctx, uow, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockLedgerService) IssueForInstallment(ctx context.Context, uow repository.UnitOfWork, installmentID string, request *domain.IssueInstallmentInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, uow, installmentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) IssueBatchForInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.BatchInvoiceRequest) (*domain.BatchInvoiceResult, error) {
	args := m.Called(ctx, uow, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchInvoiceResult), args.Error(1)
}

func (m *MockLedgerService) IssueFromInstallmentSet(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, uow, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) IssueAdHoc(ctx context.Context, uow repository.UnitOfWork, request *domain.AdHocInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, uow, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) PayInvoiceInstallment(ctx context.Context, uow repository.UnitOfWork, invoiceID, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, uow, invoiceID, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockLedgerService) SetInvoiceStatus(ctx context.Context, uow repository.UnitOfWork, invoiceID string, request *domain.UpdateInvoiceStatusRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, uow, invoiceID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) GetInvoice(ctx context.Context, uow repository.UnitOfWork, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, uow, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) ListInvoices(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Invoice, error) {
	args := m.Called(ctx, uow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) ListClientInvoices(ctx context.Context, uow repository.UnitOfWork, clientID string) ([]*domain.Invoice, error) {
	args := m.Called(ctx, uow, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) ListInstallmentInvoices(ctx context.Context, uow repository.UnitOfWork, installmentID string) ([]*domain.Invoice, error) {
	args := m.Called(ctx, uow, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockLedgerService) Summary(ctx context.Context, uow repository.UnitOfWork) (*domain.PortfolioSummary, error) {
	args := m.Called(ctx, uow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSummary), args.Error(1)
}
