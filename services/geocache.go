package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Geocoded places don't move: cache entries can live a long time.
const geocodeCacheTTL = 30 * 24 * time.Hour

const geocodeCachePrefix = "cache:geocode:"

// CachedGeocoder wraps a Geocoder with a Redis read-through cache. Cache
// errors are logged and ignored — a broken cache degrades to the inner
// geocoder, never to a failed lookup.
type CachedGeocoder struct {
	inner  Geocoder
	client *redis.Client
}

// NewCachedGeocoder wraps inner with a Redis cache. A nil client disables
// caching and passes every call through.
func NewCachedGeocoder(inner Geocoder, client *redis.Client) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, client: client}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	if g.client == nil {
		return g.inner.Geocode(ctx, address)
	}

	key := geocodeCachePrefix + strings.ToLower(strings.TrimSpace(address))

	if data, err := g.client.Get(ctx, key).Bytes(); err == nil {
		var loc Location
		if err := json.Unmarshal(data, &loc); err == nil {
			return &loc, nil
		}
	} else if err != redis.Nil {
		log.Printf("⚠️  geocode cache read failed: %v", err)
	}

	loc, err := g.inner.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(loc); err == nil {
		if err := g.client.Set(ctx, key, data, geocodeCacheTTL).Err(); err != nil {
			log.Printf("⚠️  geocode cache write failed: %v", err)
		}
	}

	return loc, nil
}
