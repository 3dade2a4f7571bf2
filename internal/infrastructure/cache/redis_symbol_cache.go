package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSymbolCache implements SymbolCache using Redis
// This is suitable for distributed deployments where multiple instances
// share one symbol cache
type RedisSymbolCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSymbolCache creates a new Redis-based symbol cache
func NewRedisSymbolCache(cfg RedisConfig) (*RedisSymbolCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSymbolCache{
		client:    client,
		keyPrefix: "render:symbol:",
	}, nil
}

// NewRedisSymbolCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisSymbolCacheWithClient(client *redis.Client, keyPrefix string) *RedisSymbolCache {
	if keyPrefix == "" {
		keyPrefix = "render:symbol:"
	}
	return &RedisSymbolCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached PNG for the key, or found=false on a miss
func (c *RedisSymbolCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read symbol cache: %w", err)
	}
	return data, true, nil
}

// Set stores a PNG with a TTL
func (c *RedisSymbolCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write symbol cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSymbolCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisSymbolCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisSymbolCache implements SymbolCache
var _ SymbolCache = (*RedisSymbolCache)(nil)
