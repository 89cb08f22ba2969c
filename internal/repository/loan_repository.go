package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/loan-manager/internal/domain"
)

const loanColumns = `id, client_id, principal, interest_rate, installment_count, installment_amount,
	origination_date, first_due_date, status, notes, created_at, updated_at`

type loanRepository struct {
	db Querier
}

func NewLoanRepository(db Querier) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := r.db.Rebind(`
		INSERT INTO loans (id, client_id, principal, interest_rate, installment_count, installment_amount,
			origination_date, first_due_date, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.ClientID,
		loan.Principal,
		loan.InterestRate,
		loan.InstallmentCount,
		loan.InstallmentAmount,
		loan.OriginationDate,
		loan.FirstDueDate,
		loan.Status,
		loan.Notes,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := r.db.Rebind(`SELECT ` + loanColumns + ` FROM loans WHERE id = ?`)

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at, id`

	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Loan, error) {
	query := r.db.Rebind(`SELECT ` + loanColumns + ` FROM loans WHERE client_id = ? ORDER BY created_at, id`)

	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, clientID); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListByStatus(ctx context.Context, statuses ...string) ([]*domain.Loan, error) {
	loans := []*domain.Loan{}
	if len(statuses) == 0 {
		return loans, nil
	}

	query := `SELECT ` + loanColumns + ` FROM loans WHERE status IN (?) ORDER BY created_at, id`
	if err := selectIn(ctx, r.db, &loans, query, statuses); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	loan.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE loans
		SET status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		loan.Status,
		loan.Notes,
		loan.UpdatedAt,
		loan.ID,
	)

	return err
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := r.db.Rebind(`
		UPDATE loans
		SET status = ?, updated_at = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	return err
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM loans WHERE id = ?`), id)
	return err
}

func (r *loanRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, r.db, "loans")
}
