package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type unitOfWork struct {
	clients      ClientRepository
	loans        LoanRepository
	installments InstallmentRepository
	invoices     InvoiceRepository
	afterCommit  []func()
}

// NewUnitOfWork binds every repository to q. Hooks registered with
// AfterCommit only run when the unit comes from a Transactor.
func NewUnitOfWork(q Querier) UnitOfWork {
	return newUnitOfWork(q)
}

func newUnitOfWork(q Querier) *unitOfWork {
	return &unitOfWork{
		clients:      NewClientRepository(q),
		loans:        NewLoanRepository(q),
		installments: NewInstallmentRepository(q),
		invoices:     NewInvoiceRepository(q),
	}
}

func (u *unitOfWork) Clients() ClientRepository           { return u.clients }
func (u *unitOfWork) Loans() LoanRepository               { return u.loans }
func (u *unitOfWork) Installments() InstallmentRepository { return u.installments }
func (u *unitOfWork) Invoices() InvoiceRepository         { return u.invoices }

func (u *unitOfWork) AfterCommit(fn func()) {
	u.afterCommit = append(u.afterCommit, fn)
}

type sqlTransactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	uow := newUnitOfWork(tx)
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("transaction commit failed: %w", commitErr)
			return
		}
		for _, hook := range uow.afterCommit {
			hook()
		}
	}()

	return fn(uow)
}
