package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wonny/ohaasa/backend/pkg/jsonfile"
	"github.com/wonny/ohaasa/backend/pkg/logger"
	"github.com/wonny/ohaasa/backend/pkg/redis"
)

// Cache stores enrichment results per request
type Cache interface {
	Get(ctx context.Context, req Request) (*Bundle, bool, error)
	Set(ctx context.Context, req Request, b *Bundle) error
}

// FileCache is a JSON map on disk keyed by CacheKey. Every Set rewrites the
// file atomically, so an interrupted run keeps what it already paid for.
type FileCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]*Bundle
}

// NewFileCache loads path; a missing or unreadable file starts empty
func NewFileCache(path string, log *logger.Logger) *FileCache {
	entries := make(map[string]*Bundle)
	if err := jsonfile.Read(path, &entries); err != nil {
		if !errors.Is(err, jsonfile.ErrNotExist) {
			log.WithError(err).Warn("AI cache unreadable, starting empty")
		}
		entries = make(map[string]*Bundle)
	}
	return &FileCache{path: path, entries: entries}
}

// Get implements Cache
func (c *FileCache) Get(_ context.Context, req Request) (*Bundle, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.entries[CacheKey(req)]
	return b, ok && b != nil, nil
}

// Set implements Cache
func (c *FileCache) Set(_ context.Context, req Request, b *Bundle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[CacheKey(req)] = b
	if err := jsonfile.Write(c.path, c.entries); err != nil {
		return fmt.Errorf("save AI cache: %w", err)
	}
	return nil
}

// Len returns the number of cached bundles
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisCache keeps bundles in Redis for redis.TTLAI
type RedisCache struct {
	cache *redis.Cache
}

// NewRedisCache wraps a (possibly disabled) Redis client
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{cache: redis.NewCache(client, "ohaasa")}
}

func redisKey(req Request) string {
	return redis.AIBundleKey(req.DateKST, req.SignKey, MessageHash(req.MessageJP))
}

// Get implements Cache
func (c *RedisCache) Get(ctx context.Context, req Request) (*Bundle, bool, error) {
	var b Bundle
	found, err := c.cache.Get(ctx, redisKey(req), &b)
	if err != nil || !found {
		return nil, false, err
	}
	return &b, true, nil
}

// Set implements Cache
func (c *RedisCache) Set(ctx context.Context, req Request, b *Bundle) error {
	return c.cache.Set(ctx, redisKey(req), b, redis.TTLAI)
}

// CachedEnricher serves repeated requests from a cache before calling the provider
type CachedEnricher struct {
	inner  Enricher
	cache  Cache
	logger *logger.Logger
}

// NewCachedEnricher wraps inner with cache
func NewCachedEnricher(inner Enricher, cache Cache, log *logger.Logger) *CachedEnricher {
	return &CachedEnricher{
		inner:  inner,
		cache:  cache,
		logger: log.WithComponent("enrich.cache"),
	}
}

// Name implements Enricher
func (e *CachedEnricher) Name() string {
	return e.inner.Name()
}

// Enrich implements Enricher. Cache errors are logged, never fatal.
func (e *CachedEnricher) Enrich(ctx context.Context, req Request) (*Bundle, error) {
	b, found, err := e.cache.Get(ctx, req)
	if err != nil {
		e.logger.WithError(err).Warn("AI cache read failed")
	}
	if found {
		e.logger.WithField("sign_key", req.SignKey).Debug("AI cache hit")
		return b, nil
	}

	b, err = e.inner.Enrich(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s enrich %s: %w", e.inner.Name(), req.SignKey, err)
	}

	if err := e.cache.Set(ctx, req, b); err != nil {
		e.logger.WithError(err).Warn("AI cache write failed")
	}
	return b, nil
}
