package test_seeder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SelectEmployeeIDs returns every mirrored employee id, ascending
func (ts TestSeeder) SelectEmployeeIDs(ctx context.Context) ([]int64, error) {
	rows, err := ts.pool.Query(ctx, `SELECT id FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (ts TestSeeder) CountRows(ctx context.Context, table string) (int, error) {
	var count int
	err := ts.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	return count, err
}
