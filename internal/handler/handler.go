package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/logger"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/pkg/response"
)

// LedgerService is the set of operations exposed over HTTP.
type LedgerService interface {
	CreateClient(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateClientRequest) (*domain.Client, error)
	GetClient(ctx context.Context, uow repository.UnitOfWork, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Client, error)
	UpdateClient(ctx context.Context, uow repository.UnitOfWork, clientID string, request *domain.UpdateClientRequest) (*domain.Client, error)
	DeleteClient(ctx context.Context, uow repository.UnitOfWork, clientID string) error

	OriginateLoan(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateLoanRequest) (*domain.Loan, error)
	GetLoan(ctx context.Context, uow repository.UnitOfWork, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Loan, error)
	ListClientLoans(ctx context.Context, uow repository.UnitOfWork, clientID string) ([]*domain.Loan, error)
	UpdateLoan(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.UpdateLoanRequest) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, uow repository.UnitOfWork, loanID string) error

	GetInstallment(ctx context.Context, uow repository.UnitOfWork, installmentID string) (*domain.Installment, error)
	ListLoanInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string) ([]*domain.Installment, error)
	RecordPayment(ctx context.Context, uow repository.UnitOfWork, installmentID string, request *domain.RecordPaymentRequest) (*domain.Installment, error)
	AdvanceInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.AdvanceInstallmentsRequest) ([]*domain.Installment, error)

	IssueForInstallment(ctx context.Context, uow repository.UnitOfWork, installmentID string, request *domain.IssueInstallmentInvoiceRequest) (*domain.Invoice, error)
	IssueBatchForInstallments(ctx context.Context, uow repository.UnitOfWork, loanID string, request *domain.BatchInvoiceRequest) (*domain.BatchInvoiceResult, error)
	IssueFromInstallmentSet(ctx context.Context, uow repository.UnitOfWork, request *domain.CreateInvoiceRequest) (*domain.Invoice, error)
	IssueAdHoc(ctx context.Context, uow repository.UnitOfWork, request *domain.AdHocInvoiceRequest) (*domain.Invoice, error)
	PayInvoiceInstallment(ctx context.Context, uow repository.UnitOfWork, invoiceID, installmentID string) (*domain.Installment, error)
	SetInvoiceStatus(ctx context.Context, uow repository.UnitOfWork, invoiceID string, request *domain.UpdateInvoiceStatusRequest) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, uow repository.UnitOfWork, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, uow repository.UnitOfWork) ([]*domain.Invoice, error)
	ListClientInvoices(ctx context.Context, uow repository.UnitOfWork, clientID string) ([]*domain.Invoice, error)
	ListInstallmentInvoices(ctx context.Context, uow repository.UnitOfWork, installmentID string) ([]*domain.Invoice, error)

	Summary(ctx context.Context, uow repository.UnitOfWork) (*domain.PortfolioSummary, error)
}

// LedgerHandler runs every request in its own transaction.
type LedgerHandler struct {
	service LedgerService
	tx      repository.Transactor
	log     zerolog.Logger
}

func NewLedgerHandler(service LedgerService, tx repository.Transactor) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		tx:      tx,
		log:     logger.WithComponent("http"),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (h *LedgerHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/clients", h.CreateClient).Methods(http.MethodPost)
	api.HandleFunc("/clients", h.ListClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", h.GetClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", h.UpdateClient).Methods(http.MethodPut)
	api.HandleFunc("/clients/{id}", h.DeleteClient).Methods(http.MethodDelete)
	api.HandleFunc("/clients/{id}/loans", h.ListClientLoans).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}/invoices", h.ListClientInvoices).Methods(http.MethodGet)

	api.HandleFunc("/loans", h.CreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", h.ListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", h.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", h.UpdateLoan).Methods(http.MethodPut)
	api.HandleFunc("/loans/{id}", h.DeleteLoan).Methods(http.MethodDelete)
	api.HandleFunc("/loans/{id}/installments", h.ListLoanInstallments).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/advance", h.AdvanceInstallments).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/invoices", h.IssueBatch).Methods(http.MethodPost)

	api.HandleFunc("/installments/{id}", h.GetInstallment).Methods(http.MethodGet)
	api.HandleFunc("/installments/{id}/pay", h.RecordPayment).Methods(http.MethodPost)
	api.HandleFunc("/installments/{id}/invoices", h.IssueForInstallment).Methods(http.MethodPost)
	api.HandleFunc("/installments/{id}/invoices", h.ListInstallmentInvoices).Methods(http.MethodGet)

	api.HandleFunc("/invoices", h.CreateInvoice).Methods(http.MethodPost)
	api.HandleFunc("/invoices", h.ListInvoices).Methods(http.MethodGet)
	api.HandleFunc("/invoices/ad-hoc", h.CreateAdHocInvoice).Methods(http.MethodPost)
	api.HandleFunc("/invoices/{id}", h.GetInvoice).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id}/status", h.SetInvoiceStatus).Methods(http.MethodPut)
	api.HandleFunc("/invoices/{invoiceId}/installments/{installmentId}/pay", h.PayInvoiceInstallment).Methods(http.MethodPost)

	api.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
}

func (h *LedgerHandler) withinTx(r *http.Request, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	ctx := r.Context()
	return h.tx.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		return fn(ctx, uow)
	})
}

// decode reads a JSON body into dest. An empty body leaves dest untouched.
func decode(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dest)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *LedgerHandler) badBody(w http.ResponseWriter, err error) {
	h.log.Debug().Err(err).Msg("invalid request body")
	response.BadRequest(w, "Invalid request body")
}

func pathID(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
