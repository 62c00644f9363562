package test_seeder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestSeeder manipula as tabelas do espelho Postgres por fora do
// repositório, para os testes de integração.
type TestSeeder struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) TestSeeder {
	return TestSeeder{pool: pool}
}

func (ts TestSeeder) TruncateTables(ctx context.Context) {
	tables := []string{
		"company_employs",
		"employees",
		"departments",
	}

	for _, table := range tables {
		_, err := ts.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			panic(fmt.Sprintf("Failed to truncate %s: %v", table, err))
		}
	}
}
