package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client            redis.UniversalClient
	defaultTTLSeconds time.Duration
}

// NewRedisClient devolve um cliente de cluster quando addrs lista mais de um
// nó e um cliente simples caso contrário.
func NewRedisClient(addrs []string, poolSize int, defaultTTLSeconds time.Duration) *RedisClient {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: addrs,

		// Pool settings para alta concorrência
		PoolSize:     poolSize,
		MinIdleConns: 10,

		// Cluster específico
		MaxRedirects: 3,

		// Timeouts otimizados para cache
		DialTimeout:  5 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	return NewRedisClientWith(client, defaultTTLSeconds)
}

func NewRedisClientWith(client redis.UniversalClient, defaultTTLSeconds time.Duration) *RedisClient {
	return &RedisClient{
		client:            client,
		defaultTTLSeconds: defaultTTLSeconds,
	}
}

func (rc *RedisClient) SetWithRegistry(ctx context.Context, cacheKey string, cacheValue string, registryKeys []string) error {
	pipe := rc.client.Pipeline()

	// 1. Set do cache principal
	fields := map[string]interface{}{
		"data":      cacheValue,
		"cached_at": time.Now().Unix(),
	}
	pipe.HSet(ctx, cacheKey, fields)
	pipe.Expire(ctx, cacheKey, rc.defaultTTLSeconds)

	// 2. Registra a chave nos conjuntos usados na invalidação
	for _, registryKey := range registryKeys {
		pipe.SAdd(ctx, registryKey, cacheKey)
		pipe.Expire(ctx, registryKey, rc.defaultTTLSeconds)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (rc *RedisClient) GetKey(ctx context.Context, key string) (string, bool, error) {
	result := rc.client.HGet(ctx, key, "data")

	// Cache miss
	if errors.Is(result.Err(), redis.Nil) {
		return "", false, nil
	}
	if result.Err() != nil {
		return "", false, result.Err()
	}

	return result.Val(), true, nil
}

func (rc *RedisClient) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := rc.client.SMembers(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return members, err
}

// DeleteKeys apaga chave por chave: em cluster as chaves podem estar em
// slots diferentes.
func (rc *RedisClient) DeleteKeys(ctx context.Context, keys []string) error {
	var errs []string

	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			errs = append(errs, fmt.Sprintf("key %s: %v", key, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalidation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (rc *RedisClient) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}
