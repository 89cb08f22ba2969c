package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type statusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

// countByStatus groups the rows of table by its status column.
func countByStatus(ctx context.Context, db Querier, table string) (map[string]int, error) {
	var rows []statusCount
	query := `SELECT status, COUNT(*) AS total FROM ` + table + ` GROUP BY status`
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// selectIn expands an IN (?) clause before running the query.
func selectIn(ctx context.Context, db Querier, dest interface{}, query string, args ...interface{}) error {
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, db.Rebind(expanded), expandedArgs...)
}
