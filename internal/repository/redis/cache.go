package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luxehomes/property-assistant/internal/domain"
)

const (
	searchCachePrefix = "search:"
	searchCacheTTL    = time.Minute
)

// SearchCache caches catalog search results keyed by the canonical form
// of the compiled query spec. The TTL is short: the cache only absorbs
// repeated identical questions, it is not a source of truth.
type SearchCache struct {
	client *Client
}

// NewSearchCache creates a new search cache
func NewSearchCache(client *Client) *SearchCache {
	return &SearchCache{client: client}
}

func cacheKey(spec domain.QuerySpec) (string, error) {
	canonical, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal spec: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return searchCachePrefix + hex.EncodeToString(sum[:]), nil
}

// Get retrieves cached results for a spec; a miss returns (nil, nil)
func (c *SearchCache) Get(ctx context.Context, spec domain.QuerySpec) ([]domain.Property, error) {
	key, err := cacheKey(spec)
	if err != nil {
		return nil, err
	}

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var properties []domain.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal properties: %w", err)
	}

	return properties, nil
}

// Set caches results for a spec
func (c *SearchCache) Set(ctx context.Context, spec domain.QuerySpec, properties []domain.Property) error {
	key, err := cacheKey(spec)
	if err != nil {
		return err
	}

	data, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("failed to marshal properties: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, searchCacheTTL).Err()
}

// FlushAll removes all cached search results
func (c *SearchCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := searchCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
