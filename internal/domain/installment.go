package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InstallmentStatusPending  = "pending"
	InstallmentStatusPaid     = "paid"
	InstallmentStatusLate     = "late"
	InstallmentStatusAdvanced = "advanced"
)

// Installment represents one scheduled repayment of a loan
type Installment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         uuid.UUID       `json:"loan_id" db:"loan_id"`
	Number         int             `json:"installment_number" db:"installment_number"`
	OriginalAmount decimal.Decimal `json:"original_amount" db:"original_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	DueDate        Date            `json:"due_date" db:"due_date"`
	PaymentDate    *Date           `json:"payment_date" db:"payment_date"`
	Status         string          `json:"status" db:"status"`
	LatePenalty    decimal.Decimal `json:"late_penalty" db:"late_penalty"`
}

// IsPending reports whether the installment can still take a payment.
func (i *Installment) IsPending() bool {
	return i.Status == InstallmentStatusPending
}

// IsSettledUnder reports whether the installment is in one of the given
// paid-equivalent statuses and was paid in full.
func (i *Installment) IsSettledUnder(statuses ...string) bool {
	if i.AmountPaid.LessThan(i.OriginalAmount) {
		return false
	}
	for _, s := range statuses {
		if i.Status == s {
			return true
		}
	}
	return false
}

// IsOverdue reports whether a pending installment passed its due date.
func (i *Installment) IsOverdue(asOf Date) bool {
	return i.IsPending() && i.DueDate.Before(asOf)
}

type RecordPaymentRequest struct {
	AmountPaid  *decimal.Decimal `json:"amount_paid" validate:"omitempty,gt=0"`
	PaymentDate string           `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

type AdvanceInstallmentsRequest struct {
	Count       int              `json:"count" validate:"omitempty,gte=1"`
	TotalAmount *decimal.Decimal `json:"total_amount" validate:"omitempty,gte=0"`
	PaymentDate string           `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

type AdvanceInstallmentsResponse struct {
	Message      string         `json:"message"`
	Installments []*Installment `json:"installments"`
}
