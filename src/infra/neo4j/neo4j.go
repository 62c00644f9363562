package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jClient guarda o driver e o banco alvo; sessões são abertas por operação.
type Neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewNeo4jClient(ctx context.Context, cfg Config) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}

	return &Neo4jClient{driver: driver, database: database}, nil
}

func (c *Neo4jClient) ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, work)
}

func (c *Neo4jClient) ExecuteRead(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	return session.ExecuteRead(ctx, work)
}

// Run executa fora de transação gerenciada; necessário para DDL de índices.
func (c *Neo4jClient) Run(ctx context.Context, query string, params map[string]any) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}
