package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	uow := beginTx(t)

	client := createClient(t, uow, "123.456.789-00")

	byID, err := uow.Clients().GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.Name, byID.Name)
	assert.Nil(t, byID.Email)
	assert.True(t, client.RegisteredAt.Equal(byID.RegisteredAt))

	byTaxID, err := uow.Clients().GetByTaxID(ctx, "123.456.789-00")
	require.NoError(t, err)
	assert.Equal(t, client.ID, byTaxID.ID)

	email := "ana@example.com"
	client.Name = "Ana"
	client.Email = &email
	require.NoError(t, uow.Clients().Update(ctx, client))

	updated, err := uow.Clients().GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.Name)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)

	count, err := uow.Clients().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, uow.Clients().Delete(ctx, client.ID))
	_, err = uow.Clients().GetByID(ctx, client.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClientRepository_TaxIDIsUnique(t *testing.T) {
	uow := beginTx(t)

	first := createClient(t, uow, "999")
	duplicate := *first
	duplicate.ID = uuid.New()

	err := uow.Clients().Create(context.Background(), &duplicate)
	assert.Error(t, err)
}
