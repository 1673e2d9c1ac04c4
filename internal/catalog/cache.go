package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	titleKeyPrefix = "catalog:artwork:" // Cached lookup result: catalog:artwork:{external_id}
	titleTTL       = 24 * time.Hour
)

// CachedLookup wraps a Lookup with a redis cache-aside layer. Cache failures
// degrade to a direct catalog call; only successful lookups are cached, so a
// "not found" id is re-checked against the catalog every time.
type CachedLookup struct {
	inner  Lookup
	client *redis.Client
}

func NewCachedLookup(inner Lookup, client *redis.Client) *CachedLookup {
	return &CachedLookup{inner: inner, client: client}
}

func (c *CachedLookup) Lookup(ctx context.Context, externalID int64) (*Artwork, error) {
	key := c.titleKey(externalID)

	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var art Artwork
		if jerr := json.Unmarshal([]byte(data), &art); jerr == nil {
			return &art, nil
		}
		// corrupt entry, fall through to the catalog
	} else if err != redis.Nil {
		log.Printf("[warn] operation=catalog_cache_get external_id=%d error=%v", externalID, err)
	}

	art, err := c.inner.Lookup(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if payload, jerr := json.Marshal(art); jerr == nil {
		if serr := c.client.Set(ctx, key, payload, titleTTL).Err(); serr != nil {
			log.Printf("[warn] operation=catalog_cache_set external_id=%d error=%v", externalID, serr)
		}
	}

	return art, nil
}

func (c *CachedLookup) titleKey(externalID int64) string {
	return fmt.Sprintf("%s%d", titleKeyPrefix, externalID)
}
