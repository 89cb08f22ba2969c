package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-manager/internal/domain"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

func TestRefreshLoanStatuses(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "111")

	overdue := env.originate(t, client.ID.String(), "2000", 2, "2025-03-01")
	current := env.originate(t, client.ID.String(), "2000", 2, "2025-04-01")
	settled := env.originate(t, client.ID.String(), "1000", 1, "2025-02-01")

	_, err := env.service.RecordPayment(env.ctx, env.uow, settled.Installments[0].ID.String(), &domain.RecordPaymentRequest{
		PaymentDate: "2025-02-01",
	})
	require.NoError(t, err)

	asOf, err := domain.ParseDate("2025-03-15")
	require.NoError(t, err)

	changed, err := env.service.RefreshLoanStatuses(env.ctx, env.uow, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	statusOf := func(id string) string {
		loan, err := env.service.GetLoan(env.ctx, env.uow, id)
		require.NoError(t, err)
		return loan.Status
	}
	assert.Equal(t, domain.LoanStatusLate, statusOf(overdue.ID.String()))
	assert.Equal(t, domain.LoanStatusActive, statusOf(current.ID.String()))
	assert.Equal(t, domain.LoanStatusSettled, statusOf(settled.ID.String()))

	installment, err := env.service.GetInstallment(env.ctx, env.uow, overdue.Installments[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPending, installment.Status)

	// paying the overdue installment brings the loan back on the next sweep
	_, err = env.service.RecordPayment(env.ctx, env.uow, overdue.Installments[0].ID.String(), &domain.RecordPaymentRequest{})
	require.NoError(t, err)

	changed, err = env.service.RefreshLoanStatuses(env.ctx, env.uow, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, domain.LoanStatusActive, statusOf(overdue.ID.String()))
}

func TestUpcomingInstallments(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "111")
	loan := env.originate(t, client.ID.String(), "3000", 3, "2025-03-18")

	from, err := domain.ParseDate("2025-03-15")
	require.NoError(t, err)

	upcoming, err := env.service.UpcomingInstallments(env.ctx, env.uow, from, 3)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, loan.Installments[0].ID, upcoming[0].ID)

	none, err := env.service.UpcomingInstallments(env.ctx, env.uow, from, 2)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = env.service.UpcomingInstallments(env.ctx, env.uow, from, -1)
	assert.Equal(t, customError.KindInvalidRequest, customError.KindOf(err))
}
