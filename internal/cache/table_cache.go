package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/rshade/confirmvotes/internal/logging"
	"github.com/rshade/confirmvotes/internal/record"
)

// Fetcher is the upstream the cache sits in front of.
type Fetcher interface {
	ListRecords(ctx context.Context, table string) ([]record.Record, error)
	FindRecord(ctx context.Context, table, id string) (record.Record, bool, error)
}

// TableCache caches whole-table listings keyed by base and table name.
// With a nil Store it is a transparent pass-through.
type TableCache struct {
	fetcher Fetcher
	store   Store
	baseID  string
	group   singleflight.Group
}

// NewTableCache wraps fetcher. store may be nil to disable caching.
func NewTableCache(fetcher Fetcher, store Store, baseID string) *TableCache {
	return &TableCache{fetcher: fetcher, store: store, baseID: baseID}
}

// Enabled reports whether listings are cached.
func (c *TableCache) Enabled() bool {
	return c.store != nil
}

// Store returns the backing store, or nil when disabled.
func (c *TableCache) Store() Store {
	return c.store
}

// ListRecords serves a fresh cached listing or fetches one. Concurrent misses
// for the same table share a single upstream request. Fetch errors are
// returned unchanged and never cached.
func (c *TableCache) ListRecords(ctx context.Context, table string) ([]record.Record, error) {
	if c.store == nil {
		return c.fetcher.ListRecords(ctx, table)
	}

	log := logging.FromContext(ctx)
	key := c.key(table)

	if recs, ok := c.lookup(ctx, key); ok {
		log.Debug().Ctx(ctx).Str("component", "cache").Str("table", table).Msg("cache hit")
		return recs, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		recs, fetchErr := c.fetcher.ListRecords(ctx, table)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if data, marshalErr := json.Marshal(recs); marshalErr == nil {
			if setErr := c.store.Set(key, data); setErr != nil {
				log.Warn().Ctx(ctx).Err(setErr).Str("component", "cache").Str("table", table).
					Msg("could not write cache entry")
			}
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "cache").
		Str("table", table).
		Bool("shared", shared).
		Msg("cache miss")

	recs, _ := v.([]record.Record)
	return recs, nil
}

// FindRecord answers from a fresh cached listing when one exists and holds
// the id. Otherwise it asks the upstream.
func (c *TableCache) FindRecord(ctx context.Context, table, id string) (record.Record, bool, error) {
	if c.store != nil {
		if recs, ok := c.lookup(ctx, c.key(table)); ok {
			for _, rec := range recs {
				if rec.ID == id {
					return rec, true, nil
				}
			}
		}
	}
	return c.fetcher.FindRecord(ctx, table, id)
}

// Invalidate drops the cached listing for table.
func (c *TableCache) Invalidate(table string) error {
	if c.store == nil {
		return nil
	}
	return c.store.Delete(c.key(table))
}

func (c *TableCache) lookup(ctx context.Context, key string) ([]record.Record, bool) {
	entry, err := c.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheExpired) {
			logging.FromContext(ctx).Warn().Ctx(ctx).Err(err).Str("component", "cache").
				Str("key", key).Msg("unreadable cache entry")
		}
		return nil, false
	}

	var recs []record.Record
	if err := json.Unmarshal(entry.Data, &recs); err != nil {
		return nil, false
	}
	return recs, true
}

func (c *TableCache) key(table string) string {
	return fmt.Sprintf("%s/%s", c.baseID, table)
}
