package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/mocks"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

// passThrough runs fn without a transaction and records the outcome.
type passThrough struct {
	calls int
	err   error
}

func (p *passThrough) WithinTx(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	p.calls++
	p.err = fn(nil)
	return p.err
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func setupRouter(service *mocks.MockLedgerService) (*mux.Router, *passThrough) {
	tx := &passThrough{}
	router := mux.NewRouter()
	NewLedgerHandler(service, tx).RegisterRoutes(router)
	return router, tx
}

func serve(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestLedgerHandler_CreateLoan(t *testing.T) {
	clientID := uuid.New()

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*mocks.MockLedgerService)
		expectedStatus int
		checkResponse  func(*testing.T, apiResponse)
	}{
		{
			name: "originates the loan",
			body: map[string]interface{}{
				"client_id":         clientID.String(),
				"principal":         "5000.00",
				"installment_count": 5,
				"first_due_date":    "2025-01-31",
			},
			setupMock: func(service *mocks.MockLedgerService) {
				service.On("OriginateLoan", mock.Anything, mock.Anything, mock.MatchedBy(func(req *domain.CreateLoanRequest) bool {
					return req.ClientID == clientID.String() &&
						req.Principal.Equal(decimal.NewFromInt(5000)) &&
						req.InstallmentCount == 5 &&
						req.FirstDueDate == "2025-01-31"
				})).Return(&domain.Loan{
					ID:                uuid.New(),
					ClientID:          clientID,
					Principal:         decimal.NewFromInt(5000),
					InstallmentCount:  5,
					InstallmentAmount: decimal.NewFromInt(1000),
					Status:            domain.LoanStatusActive,
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp apiResponse) {
				var loan domain.Loan
				require.NoError(t, json.Unmarshal(resp.Data, &loan))
				assert.True(t, resp.Success)
				assert.Equal(t, clientID, loan.ClientID)
				assert.True(t, loan.InstallmentAmount.Equal(decimal.NewFromInt(1000)))
			},
		},
		{
			name: "unknown client",
			body: map[string]interface{}{
				"client_id":         clientID.String(),
				"principal":         "100",
				"installment_count": 1,
				"first_due_date":    "2025-01-31",
			},
			setupMock: func(service *mocks.MockLedgerService) {
				service.On("OriginateLoan", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, customError.WrapClientNotFound(clientID.String())).Once()
			},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, resp apiResponse) {
				assert.False(t, resp.Success)
				assert.Equal(t, customError.ErrCodeClientNotFound, resp.Code)
				assert.Contains(t, resp.Error, clientID.String())
			},
		},
		{
			name:           "malformed body",
			body:           "not an object",
			setupMock:      func(service *mocks.MockLedgerService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp apiResponse) {
				assert.Equal(t, "Invalid request body", resp.Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mocks.MockLedgerService{}
			tt.setupMock(service)
			router, _ := setupRouter(service)

			w, resp := serve(t, router, http.MethodPost, "/api/v1/loans", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, resp)
			service.AssertExpectations(t)
		})
	}
}

func TestLedgerHandler_ErrorKinds(t *testing.T) {
	installmentID := uuid.New().String()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"conflict", customError.WrapInvoiceAlreadyExists(installmentID), http.StatusConflict},
		{"not found", customError.WrapInstallmentNotFound(installmentID), http.StatusNotFound},
		{"invalid", customError.WrapInvalidRequest("due_date must be a YYYY-MM-DD date"), http.StatusBadRequest},
		{"internal", customError.WrapDatabaseError(assert.AnError), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mocks.MockLedgerService{}
			service.On("IssueForInstallment", mock.Anything, mock.Anything, installmentID, mock.Anything).
				Return(nil, tt.err).Once()
			router, tx := setupRouter(service)

			w, resp := serve(t, router, http.MethodPost, "/api/v1/installments/"+installmentID+"/invoices", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, customError.MessageOf(tt.err), resp.Error)
			assert.Error(t, tx.err)
			assert.NotContains(t, resp.Error, assert.AnError.Error())
		})
	}
}

func TestLedgerHandler_AdvanceInstallments(t *testing.T) {
	loanID := uuid.New().String()
	service := &mocks.MockLedgerService{}
	service.On("AdvanceInstallments", mock.Anything, mock.Anything, loanID, mock.MatchedBy(func(req *domain.AdvanceInstallmentsRequest) bool {
		return req.Count == 2 && req.TotalAmount.Equal(decimal.NewFromInt(1800))
	})).Return([]*domain.Installment{
		{ID: uuid.New(), Number: 1, Status: domain.InstallmentStatusAdvanced, AmountPaid: decimal.NewFromInt(900)},
		{ID: uuid.New(), Number: 2, Status: domain.InstallmentStatusAdvanced, AmountPaid: decimal.NewFromInt(900)},
	}, nil).Once()
	router, _ := setupRouter(service)

	w, resp := serve(t, router, http.MethodPost, "/api/v1/loans/"+loanID+"/advance", map[string]interface{}{
		"count":        2,
		"total_amount": 1800,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var body domain.AdvanceInstallmentsResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "2 installment(s) advanced", body.Message)
	assert.Len(t, body.Installments, 2)
	service.AssertExpectations(t)
}

func TestLedgerHandler_IssueBatchKeepsPartialSuccess(t *testing.T) {
	loanID := uuid.New().String()
	missing := uuid.New().String()
	service := &mocks.MockLedgerService{}
	service.On("IssueBatchForInstallments", mock.Anything, mock.Anything, loanID, mock.Anything).Return(&domain.BatchInvoiceResult{
		Created:      []*domain.Invoice{{ID: uuid.New(), Status: domain.InvoiceStatusIssued}},
		TotalCreated: 1,
		Errors:       []domain.BatchInvoiceError{{InstallmentID: missing, Reason: "not found"}},
	}, nil).Once()
	router, tx := setupRouter(service)

	w, resp := serve(t, router, http.MethodPost, "/api/v1/loans/"+loanID+"/invoices", map[string]interface{}{
		"installment_ids": []string{uuid.New().String(), missing},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, tx.err)

	var result domain.BatchInvoiceResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 1, result.TotalCreated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, missing, result.Errors[0].InstallmentID)
}

func TestLedgerHandler_PayInvoiceInstallment(t *testing.T) {
	invoiceID := uuid.New().String()
	installmentID := uuid.New().String()
	service := &mocks.MockLedgerService{}
	service.On("PayInvoiceInstallment", mock.Anything, mock.Anything, invoiceID, installmentID).
		Return(&domain.Installment{Status: domain.InstallmentStatusPaid}, nil).Once()
	router, _ := setupRouter(service)

	w, _ := serve(t, router, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/installments/"+installmentID+"/pay", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestLedgerHandler_DeleteClient(t *testing.T) {
	clientID := uuid.New().String()
	service := &mocks.MockLedgerService{}
	service.On("DeleteClient", mock.Anything, mock.Anything, clientID).Return(nil).Once()
	router, tx := setupRouter(service)

	w, _ := serve(t, router, http.MethodDelete, "/api/v1/clients/"+clientID, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, tx.calls)
	service.AssertExpectations(t)
}

func TestLedgerHandler_AdHocRouteIsNotAnInvoiceID(t *testing.T) {
	service := &mocks.MockLedgerService{}
	service.On("IssueAdHoc", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Invoice{ID: uuid.New(), Status: domain.InvoiceStatusIssued}, nil).Once()
	router, _ := setupRouter(service)

	w, _ := serve(t, router, http.MethodPost, "/api/v1/invoices/ad-hoc", map[string]interface{}{
		"client_id": uuid.New().String(),
		"due_date":  "2025-04-15",
		"items":     []map[string]interface{}{{"description": "Fee", "amount": "10"}},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	service.AssertExpectations(t)
}
