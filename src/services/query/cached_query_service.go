package query

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"orghierarchy/src/domain"
	"time"
)

type Querier interface {
	SnapshotID() string
	Query(ctx context.Context, request domain.QueryRequest, backend domain.Backend) (*domain.QueryResult, error)
}

type Cache interface {
	GetKey(ctx context.Context, key string) (string, bool, error)
	SetWithRegistry(ctx context.Context, cacheKey string, cacheValue string, registryKeys []string) error
	GetSetMembers(ctx context.Context, key string) ([]string, error)
	DeleteKeys(ctx context.Context, keys []string) error
}

// CachedQueryService é um read-through na frente da fachada. As chaves
// levam o snapshot id e ficam registradas num conjunto por snapshot, então
// recarregar o dataset nunca serve resultado antigo.
type CachedQueryService struct {
	logger  *slog.Logger
	querier Querier
	cache   Cache
}

func NewCachedQueryService(logger *slog.Logger, querier Querier, cache Cache) *CachedQueryService {
	return &CachedQueryService{
		logger:  logger,
		querier: querier,
		cache:   cache,
	}
}

func (c *CachedQueryService) SnapshotID() string {
	return c.querier.SnapshotID()
}

func (c *CachedQueryService) Query(ctx context.Context, request domain.QueryRequest, backend domain.Backend) (*domain.QueryResult, error) {
	snapshotID := c.querier.SnapshotID()
	cacheKey := c.generateCacheKey(snapshotID, request, backend)

	cached, found, err := c.getFromCache(ctx, cacheKey)
	if found && err == nil {
		c.logger.Debug("Cache HIT", "key", cacheKey)
		cached.Cached = true
		return cached, nil
	}

	if err != nil {
		// Erro de cache não derruba a consulta
		c.logger.Warn("Cache error", "key", cacheKey, "error", err)
	}

	c.logger.Debug("Cache MISS", "key", cacheKey)

	result, err := c.querier.Query(ctx, request, backend)
	if err != nil {
		return nil, err
	}

	go func() {
		// Timeout de 30 segundos para operação de cache
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		c.setInCache(ctxWithTimeout, cacheKey, snapshotID, result)
	}()

	return result, nil
}

func (c *CachedQueryService) generateCacheKey(snapshotID string, request domain.QueryRequest, backend domain.Backend) string {
	// json.Marshal de struct é determinístico (ordem dos campos)
	requestJSON, _ := json.Marshal(request)

	hash := md5.Sum([]byte(fmt.Sprintf("%s:%s", backend, requestJSON)))
	return fmt.Sprintf("orghierarchy:query:%s:%x", snapshotID, hash)
}

func registryKey(snapshotID string) string {
	return fmt.Sprintf("orghierarchy:registry:snapshot:%s", snapshotID)
}

func (c *CachedQueryService) getFromCache(ctx context.Context, cacheKey string) (*domain.QueryResult, bool, error) {
	cachedJSON, found, err := c.cache.GetKey(ctx, cacheKey)
	if !found || err != nil {
		return nil, found, err
	}

	var result domain.QueryResult
	if err := json.Unmarshal([]byte(cachedJSON), &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	return &result, true, nil
}

func (c *CachedQueryService) setInCache(ctx context.Context, cacheKey string, snapshotID string, result *domain.QueryResult) {
	dataJSON, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("Failed to marshal cache data", "key", cacheKey, "error", err)
		return
	}

	if err := c.cache.SetWithRegistry(ctx, cacheKey, string(dataJSON), []string{registryKey(snapshotID)}); err != nil {
		c.logger.Error("Failed to set cache with registry", "key", cacheKey, "error", err)
		return
	}

	c.logger.Debug("Cache SET with registry", "key", cacheKey, "rows", len(result.Rows))
}

// InvalidateSnapshot apaga todo resultado em cache do snapshot, inclusive o
// próprio registro.
func (c *CachedQueryService) InvalidateSnapshot(ctx context.Context, snapshotID string) error {
	registry := registryKey(snapshotID)

	keys, err := c.cache.GetSetMembers(ctx, registry)
	if err != nil {
		return fmt.Errorf("CachedQueryService.InvalidateSnapshot - failed to get registry data: %w", err)
	}

	keysToDelete := append(keys, registry)
	c.logger.Info("Invalidating cached queries", "snapshot_id", snapshotID, "keys", len(keysToDelete))

	if err := c.cache.DeleteKeys(ctx, keysToDelete); err != nil {
		return fmt.Errorf("CachedQueryService.InvalidateSnapshot - %w", err)
	}
	return nil
}
