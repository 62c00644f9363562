package main

import (
	"context"
	"log/slog"

	"orghierarchy/src/domain"
	"orghierarchy/src/helper/env"
	neo4jinfra "orghierarchy/src/infra/neo4j"
	"orghierarchy/src/infra/postgres"
	"orghierarchy/src/infra/sqlite"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/engines"

	"go.uber.org/fx"
)

// newMirrorEngines copia o snapshot para cada backend configurado e devolve
// um motor por espelho. SQLite em memória vem ligado por padrão; Postgres
// e Neo4j só com as variáveis de conexão.
func newMirrorEngines(lc fx.Lifecycle, logger *slog.Logger, store *repositories.EntityStore) ([]engines.TraversalEngine, error) {
	ctx := context.Background()
	mirrors := make([]engines.TraversalEngine, 0, 3)

	if env.GetBool("SQLITE_ENABLED", true) {
		engine, err := newSQLiteMirror(ctx, lc, store)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, engine)
		logger.Info("Mirror synced", "backend", domain.BackendSQLite)
	}

	if env.GetString("DB_HOST", "") != "" {
		engine, err := newPostgresMirror(ctx, lc, store)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, engine)
		logger.Info("Mirror synced", "backend", domain.BackendPostgres)
	}

	if env.GetString("NEO4J_URI", "") != "" {
		engine, err := newNeo4jMirror(ctx, lc, store)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, engine)
		logger.Info("Mirror synced", "backend", domain.BackendNeo4j)
	}

	return mirrors, nil
}

func newSQLiteMirror(ctx context.Context, lc fx.Lifecycle, store *repositories.EntityStore) (engines.TraversalEngine, error) {
	db, err := sqlite.NewSQLiteClient(ctx, env.GetString("SQLITE_PATH", sqlite.MemoryPath))
	if err != nil {
		return nil, err
	}

	repository, err := repositories.NewSQLiteHierarchyRepository(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := repository.Sync(ctx, store); err != nil {
		db.Close()
		return nil, err
	}

	lc.Append(fx.StopHook(repository.Close))
	return engines.NewMirrorEngine(domain.BackendSQLite, repository), nil
}

// newPostgresMirror: DB_READ_HOST aponta para uma réplica; sem ele, leitura
// e escrita usam o mesmo pool.
func newPostgresMirror(ctx context.Context, lc fx.Lifecycle, store *repositories.EntityStore) (engines.TraversalEngine, error) {
	write := postgres.Config{
		Host:           env.MustGetString("DB_HOST"),
		Port:           env.GetString("DB_PORT", "5432"),
		DBName:         env.MustGetString("DB_NAME"),
		Username:       env.MustGetString("DB_USER"),
		Password:       env.MustGetString("DB_PASSWORD"),
		MaxConnections: env.GetInt("DB_MAX_POOL_CONNECTIONS", 25),
	}
	read := write
	read.Host = env.GetString("DB_READ_HOST", write.Host)

	client, err := postgres.NewReadWriteClient(ctx, read, write)
	if err != nil {
		return nil, err
	}

	repository, err := repositories.NewPostgresHierarchyRepository(ctx, client)
	if err != nil {
		client.Close()
		return nil, err
	}
	if err := repository.Sync(ctx, store); err != nil {
		client.Close()
		return nil, err
	}

	lc.Append(fx.StopHook(client.Close))
	return engines.NewMirrorEngine(domain.BackendPostgres, repository), nil
}

func newNeo4jMirror(ctx context.Context, lc fx.Lifecycle, store *repositories.EntityStore) (engines.TraversalEngine, error) {
	client, err := neo4jinfra.NewNeo4jClient(ctx, neo4jinfra.Config{
		URI:      env.MustGetString("NEO4J_URI"),
		Username: env.GetString("NEO4J_USER", "neo4j"),
		Password: env.MustGetString("NEO4J_PASSWORD"),
		Database: env.GetString("NEO4J_DATABASE", "neo4j"),
	})
	if err != nil {
		return nil, err
	}

	repository, err := repositories.NewNeo4jHierarchyRepository(ctx, client)
	if err != nil {
		client.Close(ctx)
		return nil, err
	}
	if err := repository.Sync(ctx, store); err != nil {
		client.Close(ctx)
		return nil, err
	}

	lc.Append(fx.StopHook(client.Close))
	return engines.NewMirrorEngine(domain.BackendNeo4j, repository), nil
}
