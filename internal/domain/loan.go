package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "active"
	LoanStatusSettled = "settled"
	LoanStatusLate    = "late"
)

// IsValidLoanStatus reports whether status can be set on a loan.
func IsValidLoanStatus(status string) bool {
	switch status {
	case LoanStatusActive, LoanStatusSettled, LoanStatusLate:
		return true
	}
	return false
}

// Loan represents a lending agreement repaid in monthly installments
type Loan struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	ClientID          uuid.UUID       `json:"client_id" db:"client_id"`
	Principal         decimal.Decimal `json:"principal" db:"principal"`
	InterestRate      decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	InstallmentCount  int             `json:"installment_count" db:"installment_count"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	OriginationDate   Date            `json:"origination_date" db:"origination_date"`
	FirstDueDate      Date            `json:"first_due_date" db:"first_due_date"`
	Status            string          `json:"status" db:"status"`
	Notes             *string         `json:"notes" db:"notes"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	Installments []*Installment `json:"installments,omitempty" db:"-"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	ClientID         string           `json:"client_id" validate:"required,uuid"`
	Principal        decimal.Decimal  `json:"principal" validate:"gt=0"`
	InterestRate     *decimal.Decimal `json:"interest_rate" validate:"omitempty,gte=0"`
	InstallmentCount int              `json:"installment_count" validate:"required,gte=1"`
	OriginationDate  string           `json:"origination_date" validate:"omitempty,datetime=2006-01-02"`
	FirstDueDate     string           `json:"first_due_date" validate:"required,datetime=2006-01-02"`
	Notes            *string          `json:"notes"`
}

// UpdateLoanRequest is the explicit override of the derived status and the notes.
type UpdateLoanRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=active settled late"`
	Notes  *string `json:"notes"`
}
