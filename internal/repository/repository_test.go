package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/database"
	"github.com/segyhp/loan-manager/internal/domain"
)

var testDB *sqlx.DB

// TestMain uses postgres when TEST_DATABASE_URL is set and an in-memory
// sqlite database otherwise.
func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	var err error
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		testDB, err = database.Open(config.DatabaseConfig{Driver: config.DriverPostgres, URL: url})
		if err == nil {
			err = database.Migrate(testDB)
		}
	} else {
		testDB, err = database.OpenInMemory()
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize test database: %v", err))
	}
}

func teardown() {
	if testDB != nil {
		testDB.Close()
	}
}

// beginTx returns a unit of work whose changes are rolled back after the test.
func beginTx(t *testing.T) UnitOfWork {
	t.Helper()

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })

	return NewUnitOfWork(tx)
}

func mustDate(t *testing.T, value string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return d
}

func createClient(t *testing.T, uow UnitOfWork, taxID string) *domain.Client {
	t.Helper()

	client := &domain.Client{
		ID:           uuid.New(),
		Name:         "Client " + taxID,
		TaxID:        taxID,
		RegisteredAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, uow.Clients().Create(context.Background(), client))
	return client
}

// createLoan stores a loan with count monthly installments of 100 starting on firstDue.
func createLoan(t *testing.T, uow UnitOfWork, clientID uuid.UUID, count int, firstDue string) (*domain.Loan, []*domain.Installment) {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	loan := &domain.Loan{
		ID:                uuid.New(),
		ClientID:          clientID,
		Principal:         decimal.NewFromInt(int64(100 * count)),
		InterestRate:      decimal.Zero,
		InstallmentCount:  count,
		InstallmentAmount: decimal.NewFromInt(100),
		OriginationDate:   mustDate(t, firstDue),
		FirstDueDate:      mustDate(t, firstDue),
		Status:            domain.LoanStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, uow.Loans().Create(ctx, loan))

	installments := make([]*domain.Installment, count)
	for i := range installments {
		installments[i] = &domain.Installment{
			ID:             uuid.New(),
			LoanID:         loan.ID,
			Number:         i + 1,
			OriginalAmount: decimal.NewFromInt(100),
			DueDate:        domain.NewDate(loan.FirstDueDate.AddDate(0, i, 0)),
			Status:         domain.InstallmentStatusPending,
		}
	}
	require.NoError(t, uow.Installments().CreateBatch(ctx, installments))

	return loan, installments
}
