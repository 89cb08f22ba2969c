package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-manager/internal/domain"
)

func TestInstallmentRepository_ListByLoan(t *testing.T) {
	ctx := context.Background()
	uow := beginTx(t)

	client := createClient(t, uow, "111")
	loan, created := createLoan(t, uow, client.ID, 3, "2025-01-10")

	installments, err := uow.Installments().ListByLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, installments, 3)
	for i, installment := range installments {
		assert.Equal(t, i+1, installment.Number)
		assert.Equal(t, created[i].DueDate.String(), installment.DueDate.String())
		assert.Nil(t, installment.PaymentDate)
		assert.True(t, installment.AmountPaid.IsZero())
	}

	byIDs, err := uow.Installments().ListByIDs(ctx, []uuid.UUID{created[2].ID, created[0].ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	empty, err := uow.Installments().ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = uow.Installments().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInstallmentRepository_NumbersAreUniquePerLoan(t *testing.T) {
	uow := beginTx(t)

	client := createClient(t, uow, "111")
	_, created := createLoan(t, uow, client.ID, 1, "2025-01-10")

	duplicate := *created[0]
	duplicate.ID = uuid.New()
	err := uow.Installments().CreateBatch(context.Background(), []*domain.Installment{&duplicate})
	assert.Error(t, err)
}

func TestInstallmentRepository_UpdatePayment(t *testing.T) {
	ctx := context.Background()
	uow := beginTx(t)

	client := createClient(t, uow, "111")
	loan, created := createLoan(t, uow, client.ID, 3, "2025-01-10")

	paidOn := mustDate(t, "2025-01-20")
	installment := created[0]
	installment.AmountPaid = decimal.RequireFromString("100.00")
	installment.PaymentDate = &paidOn
	installment.Status = domain.InstallmentStatusLate
	installment.LatePenalty = decimal.RequireFromString("5.3")
	require.NoError(t, uow.Installments().UpdatePayment(ctx, installment))

	stored, err := uow.Installments().GetByID(ctx, installment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusLate, stored.Status)
	require.NotNil(t, stored.PaymentDate)
	assert.Equal(t, "2025-01-20", stored.PaymentDate.String())
	assert.True(t, stored.LatePenalty.Equal(decimal.RequireFromString("5.3")))

	pending, err := uow.Installments().ListPendingByLoan(ctx, loan.ID, 5)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 2, pending[0].Number)

	limited, err := uow.Installments().ListPendingByLoan(ctx, loan.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	due, err := uow.Installments().ListPendingDueBetween(ctx, mustDate(t, "2025-02-10"), mustDate(t, "2025-03-10"))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "2025-02-10", due[0].DueDate.String())

	late, err := uow.Installments().ListByStatus(ctx, domain.InstallmentStatusLate)
	require.NoError(t, err)
	assert.Len(t, late, 1)

	counts, err := uow.Installments().CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{domain.InstallmentStatusPending: 2, domain.InstallmentStatusLate: 1}, counts)
}
