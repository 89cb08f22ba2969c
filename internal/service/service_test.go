package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-manager/internal/database"
	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/repository"
)

var testToday = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	ctx     context.Context
	service *LedgerService
	uow     repository.UnitOfWork
}

// newTestEnv runs every test against a fresh in-memory database inside one
// transaction that is rolled back at the end.
func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)

	tx, err := db.Beginx()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = tx.Rollback()
		_ = db.Close()
	})

	opts = append([]Option{WithClock(func() time.Time { return testToday })}, opts...)

	return &testEnv{
		ctx:     context.Background(),
		service: NewLedgerService(DefaultRates(), opts...),
		uow:     repository.NewUnitOfWork(tx),
	}
}

func (e *testEnv) createClient(t *testing.T, taxID string) *domain.Client {
	t.Helper()

	client, err := e.service.CreateClient(e.ctx, e.uow, &domain.CreateClientRequest{
		Name:  "Client " + taxID,
		TaxID: taxID,
	})
	require.NoError(t, err)
	return client
}

func (e *testEnv) originate(t *testing.T, clientID string, principal string, count int, firstDue string) *domain.Loan {
	t.Helper()

	loan, err := e.service.OriginateLoan(e.ctx, e.uow, &domain.CreateLoanRequest{
		ClientID:         clientID,
		Principal:        decimal.RequireFromString(principal),
		InstallmentCount: count,
		FirstDueDate:     firstDue,
	})
	require.NoError(t, err)
	return loan
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func stringPtr(value string) *string {
	return &value
}
