package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPostgresClient(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	config.MaxConns = int32(cfg.MaxConnections) //nolint:all
	config.MinConns = 1

	// Idle timeout - economiza recursos
	config.MaxConnIdleTime = 5 * time.Minute

	// Lifetime das conexões - evita problemas de timeout do PostgreSQL
	config.MaxConnLifetime = 30 * time.Minute

	// Health check interval
	config.HealthCheckPeriod = 1 * time.Minute

	// Configurações de sessão
	config.ConnConfig.RuntimeParams = map[string]string{
		"timezone":                            "UTC", // Define o fuso horário para UTC
		"statement_timeout":                   "30s", // Tempo máximo para execução de uma query
		"lock_timeout":                        "10s", // Tempo máximo para aguardar um lock
		"idle_in_transaction_session_timeout": "60s", // Tempo máximo que uma transação pode ficar ociosa
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return pool, nil
}

// Config agrupa o que NewPostgresClient precisa; vem do ambiente.
type Config struct {
	Host           string
	Port           string
	DBName         string
	Username       string
	Password       string
	MaxConnections int
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.Username, c.Password, c.Host, c.Port, c.DBName)
}

// IsIntegrityViolation cobre a classe 23 do SQLSTATE (FK, unique, not null).
func IsIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "23"
	}

	return false
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
