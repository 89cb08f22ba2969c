package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name:     "sqlite file",
			config:   DatabaseConfig{Driver: DriverSQLite, URL: "loans.db"},
			expected: "loans.db?_foreign_keys=on",
		},
		{
			name:     "sqlite with options",
			config:   DatabaseConfig{Driver: DriverSQLite, URL: "file:loans.db?cache=shared"},
			expected: "file:loans.db?cache=shared&_foreign_keys=on",
		},
		{
			name:     "sqlite keeps explicit setting",
			config:   DatabaseConfig{Driver: DriverSQLite, URL: "loans.db?_foreign_keys=off"},
			expected: "loans.db?_foreign_keys=off",
		},
		{
			name:     "postgres url",
			config:   DatabaseConfig{Driver: DriverPostgres, URL: "postgres://localhost/loans"},
			expected: "postgres://localhost/loans",
		},
		{
			name: "postgres fields",
			config: DatabaseConfig{
				Driver:   DriverPostgres,
				Host:     "db",
				Port:     "5432",
				User:     "loans",
				Password: "secret",
				Name:     "ledger",
			},
			expected: "host=db port=5432 user=loans password=secret dbname=ledger sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}
