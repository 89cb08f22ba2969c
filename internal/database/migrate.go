package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-manager/internal/config"
)

// Decimals are TEXT on sqlite so no precision is lost to REAL affinity.
var columnTypes = map[string]map[string]string{
	config.DriverPostgres: {
		"id":        "UUID",
		"money":     "NUMERIC",
		"date":      "DATE",
		"timestamp": "TIMESTAMPTZ",
	},
	config.DriverSQLite: {
		"id":        "TEXT",
		"money":     "TEXT",
		"date":      "DATE",
		"timestamp": "TIMESTAMP",
	},
}

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS clients (
	id {id} PRIMARY KEY,
	name TEXT NOT NULL,
	tax_id VARCHAR(20) NOT NULL UNIQUE,
	email TEXT,
	phone VARCHAR(20),
	address TEXT,
	registered_at {timestamp} NOT NULL
);

CREATE TABLE IF NOT EXISTS loans (
	id {id} PRIMARY KEY,
	client_id {id} NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
	principal {money} NOT NULL,
	interest_rate {money} NOT NULL DEFAULT '0',
	installment_count INTEGER NOT NULL CHECK (installment_count > 0),
	installment_amount {money} NOT NULL,
	origination_date {date} NOT NULL,
	first_due_date {date} NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	notes TEXT,
	created_at {timestamp} NOT NULL,
	updated_at {timestamp} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_loans_client_id ON loans(client_id);

CREATE TABLE IF NOT EXISTS installments (
	id {id} PRIMARY KEY,
	loan_id {id} NOT NULL REFERENCES loans(id) ON DELETE CASCADE,
	installment_number INTEGER NOT NULL,
	original_amount {money} NOT NULL,
	amount_paid {money} NOT NULL DEFAULT '0',
	due_date {date} NOT NULL,
	payment_date {date},
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	late_penalty {money} NOT NULL DEFAULT '0',
	UNIQUE (loan_id, installment_number)
);

CREATE INDEX IF NOT EXISTS idx_installments_status_due ON installments(status, due_date);

CREATE TABLE IF NOT EXISTS invoices (
	id {id} PRIMARY KEY,
	client_id {id} NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
	loan_id {id} REFERENCES loans(id) ON DELETE SET NULL,
	installment_id {id} UNIQUE REFERENCES installments(id) ON DELETE SET NULL,
	issue_date {date} NOT NULL,
	due_date {date} NOT NULL,
	total {money} NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'issued',
	created_at {timestamp} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invoices_client_id ON invoices(client_id);

CREATE TABLE IF NOT EXISTS invoice_items (
	id {id} PRIMARY KEY,
	invoice_id {id} NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	description TEXT NOT NULL,
	installment_id {id} REFERENCES installments(id) ON DELETE SET NULL,
	installment_number INTEGER,
	amount {money} NOT NULL,
	penalty {money} NOT NULL DEFAULT '0',
	due_date {date},
	UNIQUE (invoice_id, position)
);

CREATE INDEX IF NOT EXISTS idx_invoice_items_installment_id ON invoice_items(installment_id);
`

// Schema renders the DDL for a driver.
func Schema(driver string) (string, error) {
	types, ok := columnTypes[driver]
	if !ok {
		return "", fmt.Errorf("unsupported driver %q", driver)
	}

	schema := schemaTemplate
	for placeholder, columnType := range types {
		schema = strings.ReplaceAll(schema, "{"+placeholder+"}", columnType)
	}
	return schema, nil
}

// Migrate creates the tables if they don't already exist.
func Migrate(db *sqlx.DB) error {
	schema, err := Schema(db.DriverName())
	if err != nil {
		return err
	}

	for _, statement := range strings.Split(schema, ";") {
		if strings.TrimSpace(statement) == "" {
			continue
		}
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
