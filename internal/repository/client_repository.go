package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/loan-manager/internal/domain"
)

const clientColumns = `id, name, tax_id, email, phone, address, registered_at`

type clientRepository struct {
	db Querier
}

func NewClientRepository(db Querier) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := r.db.Rebind(`
		INSERT INTO clients (id, name, tax_id, email, phone, address, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.TaxID,
		client.Email,
		client.Phone,
		client.Address,
		client.RegisteredAt,
	)

	return err
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := r.db.Rebind(`SELECT ` + clientColumns + ` FROM clients WHERE id = ?`)

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Client, error) {
	query := r.db.Rebind(`SELECT ` + clientColumns + ` FROM clients WHERE tax_id = ?`)

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, taxID); err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name, id`

	clients := []*domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := r.db.Rebind(`
		UPDATE clients
		SET name = ?, email = ?, phone = ?, address = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.ID,
	)

	return err
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM clients WHERE id = ?`), id)
	return err
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clients`)
	return count, err
}
