package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/loan-manager/internal/domain"
)

const installmentColumns = `id, loan_id, installment_number, original_amount, amount_paid,
	due_date, payment_date, status, late_penalty`

type installmentRepository struct {
	db Querier
}

func NewInstallmentRepository(db Querier) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []*domain.Installment) error {
	query := r.db.Rebind(`
		INSERT INTO installments (id, loan_id, installment_number, original_amount, amount_paid,
			due_date, payment_date, status, late_penalty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	for _, installment := range installments {
		_, err := r.db.ExecContext(ctx, query,
			installment.ID,
			installment.LoanID,
			installment.Number,
			installment.OriginalAmount,
			installment.AmountPaid,
			installment.DueDate,
			installment.PaymentDate,
			installment.Status,
			installment.LatePenalty,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := r.db.Rebind(`SELECT ` + installmentColumns + ` FROM installments WHERE id = ?`)

	var installment domain.Installment
	if err := r.db.GetContext(ctx, &installment, query, id); err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *installmentRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Installment, error) {
	installments := []*domain.Installment{}
	if len(ids) == 0 {
		return installments, nil
	}

	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id IN (?)`
	if err := selectIn(ctx, r.db, &installments, query, ids); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := r.db.Rebind(`
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE loan_id = ?
		ORDER BY installment_number
	`)

	installments := []*domain.Installment{}
	if err := r.db.SelectContext(ctx, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) ListPendingByLoan(ctx context.Context, loanID uuid.UUID, limit int) ([]*domain.Installment, error) {
	query := r.db.Rebind(`
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE loan_id = ? AND status = ?
		ORDER BY installment_number
		LIMIT ?
	`)

	installments := []*domain.Installment{}
	err := r.db.SelectContext(ctx, &installments, query, loanID, domain.InstallmentStatusPending, limit)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) ListPendingDueBetween(ctx context.Context, from, to domain.Date) ([]*domain.Installment, error) {
	query := r.db.Rebind(`
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE status = ? AND due_date >= ? AND due_date <= ?
		ORDER BY due_date, installment_number
	`)

	installments := []*domain.Installment{}
	err := r.db.SelectContext(ctx, &installments, query, domain.InstallmentStatusPending, from, to)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Installment, error) {
	query := r.db.Rebind(`SELECT ` + installmentColumns + ` FROM installments WHERE status = ?`)

	installments := []*domain.Installment{}
	if err := r.db.SelectContext(ctx, &installments, query, status); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) UpdatePayment(ctx context.Context, installment *domain.Installment) error {
	query := r.db.Rebind(`
		UPDATE installments
		SET amount_paid = ?, payment_date = ?, status = ?, late_penalty = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		installment.AmountPaid,
		installment.PaymentDate,
		installment.Status,
		installment.LatePenalty,
		installment.ID,
	)

	return err
}

func (r *installmentRepository) DeleteByLoan(ctx context.Context, loanID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM installments WHERE loan_id = ?`), loanID)
	return err
}

func (r *installmentRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, r.db, "installments")
}
