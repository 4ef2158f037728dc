package cache

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jovemegidio/Zyntra-sub004/internal/models"
	"github.com/jovemegidio/Zyntra-sub004/internal/report"
)

// Fetcher is the slice of the report fetcher the cache depends on.
type Fetcher interface {
	Fetch(ctx context.Context, q report.Query) ([]models.CallRecord, error)
}

// Config holds result cache configuration
type Config struct {
	TTL             time.Duration // freshness window of a cached report
	MaxEntries      int           // distinct query keys kept
	CleanupInterval time.Duration // how often to sweep expired entries
}

// ResultCache short-circuits repeated identical report queries within
// the freshness window. At most one physical scrape runs per distinct
// key at a time; concurrent callers for the same key await that one
// result instead of starting a second scrape.
type ResultCache struct {
	store           *Store
	fetcher         Fetcher
	ttl             time.Duration
	cleanupInterval time.Duration
	group           singleflight.Group
	started         atomic.Bool
	done            chan struct{}
}

// New creates a result cache wrapping the given fetcher.
func New(fetcher Fetcher, cfg *Config) *ResultCache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = 60 * time.Second
	}

	return &ResultCache{
		store:           NewStore(cfg.MaxEntries),
		fetcher:         fetcher,
		ttl:             ttl,
		cleanupInterval: cleanup,
		done:            make(chan struct{}),
	}
}

// GetOrFetch returns the cached records for the query while fresh,
// otherwise performs one fetch and stores the result. Fetch failures
// are propagated and never cached.
func (c *ResultCache) GetOrFetch(ctx context.Context, q report.Query) ([]models.CallRecord, error) {
	key := q.Key()

	if records, ok := c.store.Get(key); ok {
		return records, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the single-flight barrier: a concurrent
		// caller may have just populated the entry.
		if records, ok := c.store.Get(key); ok {
			return records, nil
		}

		records, err := c.fetcher.Fetch(ctx, q)
		if err != nil {
			return nil, err
		}

		c.store.Set(key, records, c.ttl)
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.CallRecord), nil
}

// Stats returns the underlying store's counters.
func (c *ResultCache) Stats() Stats {
	return c.store.Stats()
}

// Start begins the periodic cleanup of expired entries.
func (c *ResultCache) Start(ctx context.Context) {
	c.started.Store(true)
	log.Printf("[ResultCache] starting, ttl=%v cleanup_interval=%v", c.ttl, c.cleanupInterval)

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[ResultCache] shutting down")
			close(c.done)
			return

		case <-ticker.C:
			if removed := c.store.Cleanup(); removed > 0 {
				log.Printf("[ResultCache] cleaned up %d expired entries", removed)
			}
		}
	}
}

// Stop waits for the cleanup worker to exit. A no-op when Start was
// never called, so teardown is safe regardless of lifecycle order.
func (c *ResultCache) Stop() {
	if !c.started.Load() {
		return
	}
	<-c.done
}
