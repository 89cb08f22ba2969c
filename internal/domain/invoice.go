package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusIssued    = "issued"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// IsValidInvoiceStatus reports whether status can be set on an invoice.
func IsValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a billable document. Its items are the single representation of
// what it bills; the installments it bundles are the items carrying an
// installment reference.
type Invoice struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ClientID      uuid.UUID       `json:"client_id" db:"client_id"`
	LoanID        *uuid.UUID      `json:"loan_id" db:"loan_id"`
	InstallmentID *uuid.UUID      `json:"installment_id" db:"installment_id"` // primary installment, unique
	IssueDate     Date            `json:"issue_date" db:"issue_date"`
	DueDate       Date            `json:"due_date" db:"due_date"`
	Total         decimal.Decimal `json:"total" db:"total"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`

	Items  []*InvoiceItem `json:"items" db:"-"`
	Client *Client        `json:"client,omitempty" db:"-"`
}

// InvoiceItem is one line of an invoice, optionally pointing back at the
// installment it bills.
type InvoiceItem struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	InvoiceID         uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	Position          int             `json:"position" db:"position"`
	Description       string          `json:"description" db:"description"`
	InstallmentID     *uuid.UUID      `json:"installment_id" db:"installment_id"`
	InstallmentNumber *int            `json:"installment_number" db:"installment_number"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	Penalty           decimal.Decimal `json:"penalty" db:"penalty"`
	DueDate           *Date           `json:"due_date" db:"due_date"`
}

// BundledInstallmentIDs derives the bundling relation from the items.
func (inv *Invoice) BundledInstallmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(inv.Items))
	for _, item := range inv.Items {
		if item.InstallmentID != nil {
			ids = append(ids, *item.InstallmentID)
		}
	}
	return ids
}

// Bundles reports whether installmentID is billed by one of the items.
func (inv *Invoice) Bundles(installmentID uuid.UUID) bool {
	for _, item := range inv.Items {
		if item.InstallmentID != nil && *item.InstallmentID == installmentID {
			return true
		}
	}
	return false
}

// ItemsTotal sums amount plus penalty over the items.
func (inv *Invoice) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount).Add(item.Penalty)
	}
	return total
}

type IssueInstallmentInvoiceRequest struct {
	DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type BatchInvoiceRequest struct {
	InstallmentIDs []string `json:"installment_ids" validate:"required,min=1"`
}

type BatchInvoiceError struct {
	InstallmentID string `json:"installment_id"`
	Reason        string `json:"reason"`
}

type BatchInvoiceResult struct {
	Created      []*Invoice          `json:"created"`
	TotalCreated int                 `json:"total_created"`
	Errors       []BatchInvoiceError `json:"errors"`
}

// CreateInvoiceRequest bundles existing installments into one invoice.
type CreateInvoiceRequest struct {
	ClientID       string   `json:"client_id" validate:"required"`
	InstallmentIDs []string `json:"installment_ids" validate:"required,min=1"`
}

type AdHocItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
}

type AdHocInvoiceRequest struct {
	ClientID string             `json:"client_id" validate:"required,uuid"`
	LoanID   *string            `json:"loan_id" validate:"omitempty,uuid"`
	DueDate  string             `json:"due_date" validate:"required,datetime=2006-01-02"`
	Items    []AdHocItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}
