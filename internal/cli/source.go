package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rshade/confirmvotes/internal/airtable"
	"github.com/rshade/confirmvotes/internal/cache"
	"github.com/rshade/confirmvotes/internal/config"
	"github.com/rshade/confirmvotes/internal/logging"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/views"
)

// source is the data path shared by every data command: the optional table
// cache in front of the Airtable client, and the view service on top.
type source struct {
	tables  *cache.TableCache
	service *views.Service
	cfg     *config.Config
}

// openSource checks credentials and wires the data path from the global
// config. Missing credentials fail here, before any request is made.
func openSource(ctx context.Context) (*source, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	cfg := config.FromContext(ctx)

	client := airtable.NewClient(airtable.Options{
		APIKey:            creds.APIKey,
		BaseID:            creds.BaseID,
		BaseURL:           cfg.Airtable.BaseURL,
		View:              cfg.Airtable.View,
		MaxRecords:        cfg.Airtable.MaxRecords,
		RequestsPerSecond: cfg.Airtable.RequestsPerSecond,
		Timeout:           time.Duration(cfg.Airtable.TimeoutSeconds) * time.Second,
	})

	var store cache.Store
	if cfg.Cache.Enabled {
		store, err = openCacheStore(cfg)
		if err != nil {
			return nil, err
		}
	}
	tables := cache.NewTableCache(client, store, creds.BaseID)

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "cli").
		Str("base_id", creds.BaseID).
		Str("api_key", creds.Redacted()).
		Bool("cache", tables.Enabled()).
		Str("locale", cfg.Locale().String()).
		Msg("data source ready")

	return &source{
		tables:  tables,
		service: views.NewService(tables, resolver.WithLocale(cfg.Locale())),
		cfg:     cfg,
	}, nil
}

// openCacheStore opens the configured cache backend.
func openCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case cache.BackendFile:
		store, err := openFileCache(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case cache.BackendMemory, "":
		return cache.NewMemoryStore(cfg.Cache.MaxEntries, cfg.CacheTTL()), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
