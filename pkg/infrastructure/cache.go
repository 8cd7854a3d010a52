package infrastructure

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// PreviewCache stores printed preview PDFs in Redis. When Redis cannot be
// reached at startup every call is a miss and writes are dropped.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func NewPreviewCache(addr, password string, ttl time.Duration, logger *log.Logger) *PreviewCache {
	if ttl <= 0 {
		ttl = 600 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] Redis unavailable, bypassing cache: %v", err)
		}
		_ = client.Close()
		return &PreviewCache{ttl: ttl, logger: logger}
	}

	return &PreviewCache{client: client, ttl: ttl, logger: logger}
}

// NewPreviewCacheWithClient wraps an existing client. A nil client disables the cache.
func NewPreviewCacheWithClient(client *redis.Client, ttl time.Duration, logger *log.Logger) *PreviewCache {
	if ttl <= 0 {
		ttl = 600 * time.Second
	}
	return &PreviewCache{client: client, ttl: ttl, logger: logger}
}

func (c *PreviewCache) isUnavailable() bool {
	return c == nil || c.client == nil
}

func (c *PreviewCache) warnUnavailableOnce(err error) {
	if c == nil || c.logger == nil {
		return
	}
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Printf("[Cache] Redis unavailable, bypassing cache: %v", err)
	}
}

func (c *PreviewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.isUnavailable() {
		return nil, false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnUnavailableOnce(err)
		}
		return nil, false
	}
	if len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (c *PreviewCache) Set(ctx context.Context, key string, value []byte) error {
	if c.isUnavailable() {
		return nil
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (c *PreviewCache) Close() error {
	if c.isUnavailable() {
		return nil
	}
	return c.client.Close()
}
