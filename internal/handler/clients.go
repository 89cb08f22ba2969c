package handler

import (
	"context"
	"net/http"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/pkg/response"
)

func (h *LedgerHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateClientRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var client *domain.Client
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		client, err = h.service.CreateClient(ctx, uow, &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, client)
}

func (h *LedgerHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	var clients []*domain.Client
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		clients, err = h.service.ListClients(ctx, uow)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, clients)
}

func (h *LedgerHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	var client *domain.Client
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		client, err = h.service.GetClient(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, client)
}

func (h *LedgerHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdateClientRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var client *domain.Client
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		client, err = h.service.UpdateClient(ctx, uow, pathID(r, "id"), &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, client)
}

func (h *LedgerHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) error {
		return h.service.DeleteClient(ctx, uow, pathID(r, "id"))
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *LedgerHandler) ListClientLoans(w http.ResponseWriter, r *http.Request) {
	var loans []*domain.Loan
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		loans, err = h.service.ListClientLoans(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LedgerHandler) ListClientInvoices(w http.ResponseWriter, r *http.Request) {
	var invoices []*domain.Invoice
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		invoices, err = h.service.ListClientInvoices(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, invoices)
}
