package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReadWriteClient separa o pool de escrita (seed do espelho) do pool de
// leitura (consultas recursivas), que pode apontar para uma réplica.
type ReadWriteClient struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
}

func NewReadWriteClient(ctx context.Context, read Config, write Config) (*ReadWriteClient, error) {
	writePool, err := NewPostgresClient(ctx, write)
	if err != nil {
		return nil, err
	}

	if read == write {
		return &ReadWriteClient{readPool: writePool, writePool: writePool}, nil
	}

	readPool, err := NewPostgresClient(ctx, read)
	if err != nil {
		writePool.Close()
		return nil, err
	}

	return &ReadWriteClient{
		readPool:  readPool,
		writePool: writePool,
	}, nil
}

func (rwc *ReadWriteClient) GetReadPool() *pgxpool.Pool {
	return rwc.readPool
}

func (rwc *ReadWriteClient) GetWritePool() *pgxpool.Pool {
	return rwc.writePool
}

func (rwc *ReadWriteClient) Close() {
	if rwc.readPool != rwc.writePool {
		rwc.readPool.Close()
	}
	rwc.writePool.Close()
}
