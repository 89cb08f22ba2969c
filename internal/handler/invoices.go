package handler

import (
	"context"
	"net/http"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/pkg/response"
)

// CreateInvoice bundles existing installments into one invoice.
func (h *LedgerHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateInvoiceRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var invoice *domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoice, err = h.service.IssueFromInstallmentSet(ctx, uow, &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, invoice)
}

func (h *LedgerHandler) CreateAdHocInvoice(w http.ResponseWriter, r *http.Request) {
	var request domain.AdHocInvoiceRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var invoice *domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoice, err = h.service.IssueAdHoc(ctx, uow, &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, invoice)
}

func (h *LedgerHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	var invoices []*domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoices, err = h.service.ListInvoices(ctx, uow)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, invoices)
}

func (h *LedgerHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	var invoice *domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoice, err = h.service.GetInvoice(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, invoice)
}

func (h *LedgerHandler) SetInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdateInvoiceStatusRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var invoice *domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoice, err = h.service.SetInvoiceStatus(ctx, uow, pathID(r, "id"), &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, invoice)
}

func (h *LedgerHandler) PayInvoiceInstallment(w http.ResponseWriter, r *http.Request) {
	var installment *domain.Installment
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		installment, err = h.service.PayInvoiceInstallment(ctx, uow, pathID(r, "invoiceId"), pathID(r, "installmentId"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, installment)
}

func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var summary *domain.PortfolioSummary
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		summary, err = h.service.Summary(ctx, uow)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, summary)
}
