package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/pkg/response"
)

// CreateLoan originates a loan and returns it with its schedule.
func (h *LedgerHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var loan *domain.Loan
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		loan, err = h.service.OriginateLoan(ctx, uow, &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, loan)
}

func (h *LedgerHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	var loans []*domain.Loan
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		loans, err = h.service.ListLoans(ctx, uow)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LedgerHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	var loan *domain.Loan
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		loan, err = h.service.GetLoan(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LedgerHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdateLoanRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var loan *domain.Loan
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		loan, err = h.service.UpdateLoan(ctx, uow, pathID(r, "id"), &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LedgerHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) error {
		return h.service.DeleteLoan(ctx, uow, pathID(r, "id"))
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *LedgerHandler) ListLoanInstallments(w http.ResponseWriter, r *http.Request) {
	var installments []*domain.Installment
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		installments, err = h.service.ListLoanInstallments(ctx, uow, pathID(r, "id"))
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, installments)
}

func (h *LedgerHandler) AdvanceInstallments(w http.ResponseWriter, r *http.Request) {
	var request domain.AdvanceInstallmentsRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var installments []*domain.Installment
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		installments, err = h.service.AdvanceInstallments(ctx, uow, pathID(r, "id"), &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.AdvanceInstallmentsResponse{
		Message:      fmt.Sprintf("%d installment(s) advanced", len(installments)),
		Installments: installments,
	})
}

// IssueBatch issues one invoice per listed installment. Rejected ids are
// reported in the body; the request still succeeds.
func (h *LedgerHandler) IssueBatch(w http.ResponseWriter, r *http.Request) {
	var request domain.BatchInvoiceRequest
	if err := decode(r, &request); err != nil {
		h.badBody(w, err)
		return
	}

	var result *domain.BatchInvoiceResult
	err := h.withinTx(r, func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		result, err = h.service.IssueBatchForInstallments(ctx, uow, pathID(r, "id"), &request)
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, result)
}
