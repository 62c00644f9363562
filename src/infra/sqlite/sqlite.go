package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

func pragmas() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY",
		"PRAGMA synchronous = OFF",
		"PRAGMA temp_store = MEMORY",
	}
}

// NewSQLiteClient abre o banco em dbPath. Um banco em memória existe só
// dentro da conexão que o criou, então o pool fica limitado a uma conexão.
func NewSQLiteClient(ctx context.Context, dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if strings.Contains(dbPath, MemoryPath) || strings.Contains(dbPath, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect sqlite: %w", err)
	}

	for _, pragma := range pragmas() {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	return db, nil
}
