package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/segyhp/loan-manager/internal/domain"
)

var invoiceColumnNames = []string{
	"id", "client_id", "loan_id", "installment_id", "issue_date", "due_date", "total", "status", "created_at",
}

const itemColumns = `id, invoice_id, position, description, installment_id, installment_number, amount, penalty, due_date`

func invoiceColumns(alias string) string {
	if alias == "" {
		return strings.Join(invoiceColumnNames, ", ")
	}
	prefixed := make([]string, len(invoiceColumnNames))
	for i, name := range invoiceColumnNames {
		prefixed[i] = alias + "." + name
	}
	return strings.Join(prefixed, ", ")
}

type invoiceRepository struct {
	db Querier
}

func NewInvoiceRepository(db Querier) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := r.db.Rebind(`
		INSERT INTO invoices (` + invoiceColumns("") + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.ClientID,
		invoice.LoanID,
		invoice.InstallmentID,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.Total,
		invoice.Status,
		invoice.CreatedAt,
	)
	if err != nil {
		return err
	}

	itemQuery := r.db.Rebind(`
		INSERT INTO invoice_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	for _, item := range invoice.Items {
		_, err = r.db.ExecContext(ctx, itemQuery,
			item.ID,
			item.InvoiceID,
			item.Position,
			item.Description,
			item.InstallmentID,
			item.InstallmentNumber,
			item.Amount,
			item.Penalty,
			item.DueDate,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	query := r.db.Rebind(`SELECT ` + invoiceColumns("") + ` FROM invoices WHERE id = ?`)

	var invoice domain.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*domain.Invoice{&invoice}); err != nil {
		return nil, err
	}

	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns("") + ` FROM invoices ORDER BY created_at, id`
	return r.selectWithItems(ctx, query)
}

func (r *invoiceRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Invoice, error) {
	query := r.db.Rebind(`SELECT ` + invoiceColumns("") + ` FROM invoices WHERE client_id = ? ORDER BY created_at, id`)
	return r.selectWithItems(ctx, query, clientID)
}

func (r *invoiceRepository) ListByPrimaryInstallment(ctx context.Context, installmentID uuid.UUID) ([]*domain.Invoice, error) {
	query := r.db.Rebind(`SELECT ` + invoiceColumns("") + ` FROM invoices WHERE installment_id = ? ORDER BY created_at, id`)
	return r.selectWithItems(ctx, query, installmentID)
}

func (r *invoiceRepository) ListReferencingLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Invoice, error) {
	query := r.db.Rebind(`
		SELECT DISTINCT ` + invoiceColumns("inv") + `
		FROM invoices inv
		JOIN invoice_items it ON it.invoice_id = inv.id
		JOIN installments p ON p.id = it.installment_id
		WHERE p.loan_id = ?
	`)
	return r.selectWithItems(ctx, query, loanID)
}

func (r *invoiceRepository) ExistsForInstallment(ctx context.Context, installmentID uuid.UUID) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM invoices WHERE installment_id = ?`)
	if err := r.db.GetContext(ctx, &count, query, installmentID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE invoices SET status = ? WHERE id = ?`), status, id)
	return err
}

func (r *invoiceRepository) DetachLoan(ctx context.Context, loanID uuid.UUID) error {
	statements := []string{
		`UPDATE invoice_items SET installment_id = NULL
			WHERE installment_id IN (SELECT id FROM installments WHERE loan_id = ?)`,
		`UPDATE invoices SET installment_id = NULL
			WHERE installment_id IN (SELECT id FROM installments WHERE loan_id = ?)`,
		`UPDATE invoices SET loan_id = NULL WHERE loan_id = ?`,
	}

	for _, statement := range statements {
		if _, err := r.db.ExecContext(ctx, r.db.Rebind(statement), loanID); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepository) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	statements := []string{
		`DELETE FROM invoice_items WHERE invoice_id IN (SELECT id FROM invoices WHERE client_id = ?)`,
		`DELETE FROM invoices WHERE client_id = ?`,
	}

	for _, statement := range statements {
		if _, err := r.db.ExecContext(ctx, r.db.Rebind(statement), clientID); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, r.db, "invoices")
}

func (r *invoiceRepository) selectWithItems(ctx context.Context, query string, args ...interface{}) ([]*domain.Invoice, error) {
	invoices := []*domain.Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, invoices); err != nil {
		return nil, err
	}

	return invoices, nil
}

// loadItems fills Items on every invoice with one query.
func (r *invoiceRepository) loadItems(ctx context.Context, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(invoices))
	byID := make(map[uuid.UUID]*domain.Invoice, len(invoices))
	for i, invoice := range invoices {
		ids[i] = invoice.ID
		byID[invoice.ID] = invoice
		invoice.Items = []*domain.InvoiceItem{}
	}

	var items []*domain.InvoiceItem
	query := `SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id IN (?) ORDER BY invoice_id, position`
	if err := selectIn(ctx, r.db, &items, query, ids); err != nil {
		return err
	}

	for _, item := range items {
		if invoice, ok := byID[item.InvoiceID]; ok {
			invoice.Items = append(invoice.Items, item)
		}
	}
	return nil
}
