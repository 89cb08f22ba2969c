package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-manager/internal/domain"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Lookups of a single row return sql.ErrNoRows when nothing matches.

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// Create creates a new client
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)

	// GetByTaxID retrieves a client by tax identifier
	GetByTaxID(ctx context.Context, taxID string) (*domain.Client, error)

	// List retrieves every client ordered by name
	List(ctx context.Context) ([]*domain.Client, error)

	// Update updates the mutable contact fields
	Update(ctx context.Context, client *domain.Client) error

	// Delete removes the client row only
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of registered clients
	Count(ctx context.Context) (int, error)
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by id, without installments
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// List retrieves every loan
	List(ctx context.Context) ([]*domain.Loan, error)

	// ListByClient retrieves the loans of a client
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Loan, error)

	// ListByStatus retrieves loans in any of the given statuses
	ListByStatus(ctx context.Context, statuses ...string) ([]*domain.Loan, error)

	// Update updates status and notes
	Update(ctx context.Context, loan *domain.Loan) error

	// UpdateStatus sets the status of a loan
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Delete removes the loan row only
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus groups loans by status
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	// CreateBatch inserts installments
	CreateBatch(ctx context.Context, installments []*domain.Installment) error

	// GetByID retrieves an installment by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// ListByIDs retrieves the installments with the given ids, in no particular order
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Installment, error)

	// ListByLoan retrieves the installments of a loan ordered by number
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// ListPendingByLoan retrieves up to limit pending installments ordered by number
	ListPendingByLoan(ctx context.Context, loanID uuid.UUID, limit int) ([]*domain.Installment, error)

	// ListPendingDueBetween retrieves pending installments due in [from, to]
	ListPendingDueBetween(ctx context.Context, from, to domain.Date) ([]*domain.Installment, error)

	// ListByStatus retrieves installments in the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.Installment, error)

	// UpdatePayment persists amount paid, payment date, status and penalty
	UpdatePayment(ctx context.Context, installment *domain.Installment) error

	// DeleteByLoan removes the installments of a loan
	DeleteByLoan(ctx context.Context, loanID uuid.UUID) error

	// CountByStatus groups installments by status
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create inserts the invoice and its items
	Create(ctx context.Context, invoice *domain.Invoice) error

	// GetByID retrieves an invoice with its items
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)

	// List retrieves every invoice with items
	List(ctx context.Context) ([]*domain.Invoice, error)

	// ListByClient retrieves the invoices of a client
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Invoice, error)

	// ListByPrimaryInstallment retrieves invoices issued for one installment
	ListByPrimaryInstallment(ctx context.Context, installmentID uuid.UUID) ([]*domain.Invoice, error)

	// ListReferencingLoan retrieves invoices with an item billing an installment of the loan
	ListReferencingLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Invoice, error)

	// ExistsForInstallment reports whether an invoice has the installment as primary
	ExistsForInstallment(ctx context.Context, installmentID uuid.UUID) (bool, error)

	// UpdateStatus sets the status of an invoice
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// DetachLoan clears every reference to the loan and its installments
	DetachLoan(ctx context.Context, loanID uuid.UUID) error

	// DeleteByClient removes the invoices of a client and their items
	DeleteByClient(ctx context.Context, clientID uuid.UUID) error

	// CountByStatus groups invoices by status
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// UnitOfWork exposes repositories bound to a single transaction.
type UnitOfWork interface {
	Clients() ClientRepository
	Loans() LoanRepository
	Installments() InstallmentRepository
	Invoices() InvoiceRepository

	// AfterCommit registers fn to run once the transaction has committed.
	// Nothing runs on rollback.
	AfterCommit(fn func())
}

// Transactor runs fn inside a transaction, committing when fn returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
