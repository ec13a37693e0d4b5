package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// ErrCacheMiss is returned when no entry exists for a key
var ErrCacheMiss = fmt.Errorf("suggestions not found in cache")

// RedisCache caches computed suggestion lists in Redis. Suggestions are
// recomputed from snapshots on a miss, so entries carry a short TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// RedisCacheConfig holds Redis cache configuration
type RedisCacheConfig struct {
	Addr     string // e.g., "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration // e.g., 2 * time.Minute
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(config RedisCacheConfig, logger zerolog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisCache{
		client: client,
		ttl:    config.TTL,
		logger: logger.With().Str("component", "redis_cache").Logger(),
	}
}

// SuggestionsKey builds the cache key for one suggestion query shape
func SuggestionsKey(sportKey, marketKey string, hoursAhead, limit int) string {
	return fmt.Sprintf("suggestions:%s:%s:%d:%d", sportKey, marketKey, hoursAhead, limit)
}

// SetSuggestions caches a computed suggestion list under a query key
func (c *RedisCache) SetSuggestions(ctx context.Context, key string, suggestions []models.Suggestion) error {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in Redis: %w", err)
	}

	c.logger.Debug().
		Str("key", key).
		Int("count", len(suggestions)).
		Dur("ttl", c.ttl).
		Msg("cached suggestions")

	return nil
}

// GetSuggestions retrieves a cached suggestion list.
// Returns ErrCacheMiss when the key is absent or expired.
func (c *RedisCache) GetSuggestions(ctx context.Context, key string) ([]models.Suggestion, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}

	var suggestions []models.Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}

	return suggestions, nil
}

// InvalidateSuggestions drops all cached suggestion lists. Called after
// admin ingest so fresh snapshots surface immediately.
func (c *RedisCache) InvalidateSuggestions(ctx context.Context) error {
	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error
		scanKeys, cursor, err = c.client.Scan(ctx, cursor, "suggestions:*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, scanKeys...)

		if cursor == 0 {
			break
		}
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
	}

	c.logger.Debug().Int("count", len(keys)).Msg("invalidated cached suggestions")
	return nil
}

// Ping checks Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
