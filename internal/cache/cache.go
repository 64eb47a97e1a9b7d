// Package cache кэширует производные выборки (популярные фильмы, рекомендации) в Redis.
//
// Ключи имеют вид <namespace>:<generation>:<key>. Invalidate увеличивает поколение
// пространства имён, и старые ключи просто истекают по TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"filmorate/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	NamespacePopular         = "films:popular"
	NamespaceRecommendations = "rec"
)

// Cache обёртка над Redis. Нулевой клиент (или nil *Cache) превращает все операции в no-op.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// Connect подключается к Redis. Если Ping не проходит, возвращает nil клиент и ошибку,
// сервис продолжает работу без кэша.
func Connect(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Cache) generation(ctx context.Context, namespace string) (int64, error) {
	gen, err := c.rdb.Get(ctx, "gen:"+namespace).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Cache) fullKey(ctx context.Context, namespace, key string) (string, error) {
	gen, err := c.generation(ctx, namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", namespace, gen, key), nil
}

// Get декодирует закэшированное значение в dst. false означает промах или ошибку Redis.
func (c *Cache) Get(ctx context.Context, namespace, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	fullKey, err := c.fullKey(ctx, namespace, key)
	if err != nil {
		c.logger.WarnContext(ctx, "Cache generation lookup failed", slog.String("namespace", namespace), slog.String("error", err.Error()))
		return false
	}
	data, err := c.rdb.Get(ctx, fullKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "Cache read failed", slog.String("key", fullKey), slog.String("error", err.Error()))
		}
		metrics.RecordCacheLookup(namespace, false)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.WarnContext(ctx, "Cache entry is corrupted", slog.String("key", fullKey), slog.String("error", err.Error()))
		metrics.RecordCacheLookup(namespace, false)
		return false
	}
	metrics.RecordCacheLookup(namespace, true)
	c.logger.DebugContext(ctx, "Cache hit", slog.String("key", fullKey))
	return true
}

func (c *Cache) Set(ctx context.Context, namespace, key string, value any) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to encode cache entry", slog.String("namespace", namespace), slog.String("error", err.Error()))
		return
	}
	fullKey, err := c.fullKey(ctx, namespace, key)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache write failed", slog.String("key", fullKey), slog.String("error", err.Error()))
	}
}

// Invalidate сбрасывает все ключи перечисленных пространств имён.
func (c *Cache) Invalidate(ctx context.Context, namespaces ...string) {
	if !c.enabled() {
		return
	}
	for _, ns := range namespaces {
		if err := c.rdb.Incr(ctx, "gen:"+ns).Err(); err != nil {
			c.logger.WarnContext(ctx, "Cache invalidation failed", slog.String("namespace", ns), slog.String("error", err.Error()))
		}
	}
}
