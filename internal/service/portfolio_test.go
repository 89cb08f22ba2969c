package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-manager/internal/database"
	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/mocks"
	"github.com/segyhp/loan-manager/internal/repository"
)

func TestSummary_ComputesAndCaches(t *testing.T) {
	cache := &mocks.MockSummaryCache{}
	env := newTestEnv(t, WithSummaryCache(cache))

	cache.On("Get", mock.Anything).Return(nil, nil).Once()
	cache.On("Set", mock.Anything, mock.MatchedBy(func(summary *domain.PortfolioSummary) bool {
		return summary.Clients == 1
	})).Return(nil).Once()

	client := env.createClient(t, "111")
	loan := env.originate(t, client.ID.String(), "3000", 3, "2025-04-01")
	_, err := env.service.RecordPayment(env.ctx, env.uow, loan.Installments[0].ID.String(), &domain.RecordPaymentRequest{})
	require.NoError(t, err)

	summary, err := env.service.Summary(env.ctx, env.uow)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Clients)
	assert.Equal(t, map[string]int{domain.LoanStatusActive: 1}, summary.LoansByStatus)
	assert.Equal(t, 2, summary.InstallmentsByStatus[domain.InstallmentStatusPending])
	assert.Equal(t, 1, summary.InstallmentsByStatus[domain.InstallmentStatusPaid])
	assert.Empty(t, summary.InvoicesByStatus)
	assert.True(t, summary.OutstandingAmount.Equal(decimal.NewFromInt(2000)), summary.OutstandingAmount.String())

	cache.AssertExpectations(t)
}

func TestSummary_ServesCachedCopy(t *testing.T) {
	cache := &mocks.MockSummaryCache{}
	env := newTestEnv(t, WithSummaryCache(cache))

	cached := &domain.PortfolioSummary{Clients: 42}
	cache.On("Get", mock.Anything).Return(cached, nil).Once()

	summary, err := env.service.Summary(env.ctx, env.uow)
	require.NoError(t, err)
	assert.Same(t, cached, summary)

	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestSummary_CacheFailureFallsThrough(t *testing.T) {
	cache := &mocks.MockSummaryCache{}
	env := newTestEnv(t, WithSummaryCache(cache))

	cache.On("Get", mock.Anything).Return(nil, errors.New("connection refused"))
	cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	summary, err := env.service.Summary(env.ctx, env.uow)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Clients)
	assert.True(t, summary.OutstandingAmount.IsZero())
}

func TestSummary_InvalidatedOnlyAfterCommit(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	cache := &mocks.MockSummaryCache{}
	ledger := NewLedgerService(DefaultRates(),
		WithClock(func() time.Time { return testToday }),
		WithSummaryCache(cache))
	transactor := repository.NewTransactor(db)
	ctx := context.Background()

	var invalidatedInside bool
	cache.On("Invalidate", mock.Anything).Return(nil).Once()

	err = transactor.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		_, err := ledger.CreateClient(ctx, uow, &domain.CreateClientRequest{Name: "Ana", TaxID: "111"})
		invalidatedInside = len(cache.Calls) > 0
		return err
	})
	require.NoError(t, err)
	assert.False(t, invalidatedInside)
	cache.AssertNumberOfCalls(t, "Invalidate", 1)

	// a rolled back write leaves the cached summary alone
	err = transactor.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		if _, err := ledger.CreateClient(ctx, uow, &domain.CreateClientRequest{Name: "Bia", TaxID: "222"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)
	cache.AssertNumberOfCalls(t, "Invalidate", 1)

	var clients int
	require.NoError(t, db.Get(&clients, "SELECT COUNT(*) FROM clients"))
	assert.Equal(t, 1, clients)
}
