package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/fortuna/cdlstats/internal/scraper/breakingpoint"
)

// SnapshotKey holds the latest scraped advanced stats table
const SnapshotKey = "bp:advanced:snapshot"

// ErrNoSnapshot is returned when no snapshot is cached or it has expired
var ErrNoSnapshot = errors.New("no cached stats snapshot")

// SnapshotCache stores scraped extractions so a sync can be replayed
// without launching a browser
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a snapshot cache; a non-positive ttl never expires
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl < 0 {
		ttl = 0
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Save stores extraction under SnapshotKey
func (c *SnapshotCache) Save(ctx context.Context, extraction *breakingpoint.Extraction) error {
	data, err := json.Marshal(extraction)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := c.client.Set(ctx, SnapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}
	return nil
}

// Load returns the cached extraction
func (c *SnapshotCache) Load(ctx context.Context) (*breakingpoint.Extraction, error) {
	data, err := c.client.Get(ctx, SnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var extraction breakingpoint.Extraction
	if err := json.Unmarshal(data, &extraction); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &extraction, nil
}

// Extract serves the cached snapshot, so the cache can stand in for a live scrape
func (c *SnapshotCache) Extract(ctx context.Context) (*breakingpoint.Extraction, error) {
	return c.Load(ctx)
}

// Extractor is a live source of stats tables
type Extractor interface {
	Extract(ctx context.Context) (*breakingpoint.Extraction, error)
}

// WriteThrough saves every successful live extraction to the cache
type WriteThrough struct {
	source Extractor
	cache  *SnapshotCache
	logger *log.Logger
}

// NewWriteThrough wraps source so its results are cached
func NewWriteThrough(source Extractor, cache *SnapshotCache, logger *log.Logger) *WriteThrough {
	if logger == nil {
		logger = log.Default()
	}
	return &WriteThrough{source: source, cache: cache, logger: logger}
}

// Extract runs the live source and caches the result. A cache failure is
// logged and the extraction is still returned.
func (w *WriteThrough) Extract(ctx context.Context) (*breakingpoint.Extraction, error) {
	extraction, err := w.source.Extract(ctx)
	if err != nil {
		return nil, err
	}

	if err := w.cache.Save(ctx, extraction); err != nil {
		w.logger.Warn("Failed to cache stats snapshot", "err", err)
	} else {
		w.logger.Debugf("Cached stats snapshot under %s", SnapshotKey)
	}

	return extraction, nil
}
