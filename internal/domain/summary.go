package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSummary is the dashboard view over every client and loan.
type PortfolioSummary struct {
	Clients              int             `json:"clients"`
	LoansByStatus        map[string]int  `json:"loans_by_status"`
	InstallmentsByStatus map[string]int  `json:"installments_by_status"`
	InvoicesByStatus     map[string]int  `json:"invoices_by_status"`
	OutstandingAmount    decimal.Decimal `json:"outstanding_amount"`
	GeneratedAt          time.Time       `json:"generated_at"`
}
