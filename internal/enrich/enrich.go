// Package enrich produces Korean AI content for scraped ranking lines.
package enrich

import (
	"context"
	"fmt"

	"github.com/wonny/ohaasa/backend/pkg/config"
	"github.com/wonny/ohaasa/backend/pkg/logger"
	"github.com/wonny/ohaasa/backend/pkg/redis"
)

// New builds the configured provider behind a cache.
// Redis is used when enabled, the JSON file cache otherwise.
// Returns ErrNoProvider when AI_PROVIDER=none.
func New(ctx context.Context, cfg *config.Config, rdb *redis.Client, log *logger.Logger) (Enricher, error) {
	var inner Enricher
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		inner = NewOpenAIEnricher(cfg, log)
	case config.ProviderGemini:
		g, err := NewGeminiEnricher(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		inner = g
	case config.ProviderNone, "":
		return nil, ErrNoProvider
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}

	var cache Cache
	if rdb != nil && rdb.Enabled() {
		cache = NewRedisCache(rdb)
	} else {
		cache = NewFileCache(cfg.Artifact.CachePath, log)
	}

	log.WithFields(map[string]interface{}{
		"provider": inner.Name(),
		"cache":    fmt.Sprintf("%T", cache),
	}).Info("AI enrichment enabled")

	return NewCachedEnricher(inner, cache, log), nil
}
