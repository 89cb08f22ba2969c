package handler

import (
	"context"
	"net/http"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/pkg/response"
)

func (h *LedgerHandler) GetInstallment(w http.ResponseWriter, r *http.Request) {
	var installment *domain.Installment
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		installment, err = h.service.GetInstallment(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, installment)
}

func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordPaymentRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var installment *domain.Installment
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		installment, err = h.service.RecordPayment(ctx, uow, pathID(r, "id"), &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, installment)
}

func (h *LedgerHandler) IssueForInstallment(w http.ResponseWriter, r *http.Request) {
	var request domain.IssueInstallmentInvoiceRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var invoice *domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoice, err = h.service.IssueForInstallment(ctx, uow, pathID(r, "id"), &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, invoice)
}

func (h *LedgerHandler) ListInstallmentInvoices(w http.ResponseWriter, r *http.Request) {
	var invoices []*domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoices, err = h.service.ListInstallmentInvoices(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, invoices)
}
