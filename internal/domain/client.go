package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is the identity anchor that owns loans and invoices.
type Client struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	TaxID        string    `json:"tax_id" db:"tax_id"`
	Email        *string   `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	Address      *string   `json:"address" db:"address"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

type CreateClientRequest struct {
	Name    string  `json:"name" validate:"required"`
	TaxID   string  `json:"tax_id" validate:"required,max=20"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address"`
}

// UpdateClientRequest only touches the fields that are present. The tax id is immutable.
type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address"`
}
