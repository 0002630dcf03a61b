package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/confirmvotes/internal/cache"
	"github.com/rshade/confirmvotes/internal/config"
)

// cacheInfo is the cache info report.
type cacheInfo struct {
	Enabled   bool   `json:"enabled"             yaml:"enabled"`
	Backend   string `json:"backend"             yaml:"backend"`
	TTL       string `json:"ttl"                 yaml:"ttl"`
	Directory string `json:"directory,omitempty" yaml:"directory,omitempty"`
	Entries   int    `json:"entries"             yaml:"entries"`
	Bytes     int64  `json:"bytes"               yaml:"bytes"`
}

// NewCacheInfoCmd creates the cache info command.
func NewCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache configuration and what the file cache holds",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	cfg := commandConfig(cmd)
	info := cacheInfo{
		Enabled: cfg.Cache.Enabled,
		Backend: cfg.Cache.Backend,
		TTL:     cache.FormatDuration(cfg.CacheTTL()),
	}

	if cfg.Cache.Backend == cache.BackendFile {
		store, err := openFileCache(cfg)
		if err != nil {
			return err
		}
		stats, err := store.Stats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		info.Directory = stats.Directory
		info.Entries = stats.Entries
		info.Bytes = stats.Bytes
	}

	out := cmd.OutOrStdout()
	switch cfg.Output.DefaultFormat {
	case config.FormatJSON:
		return renderJSON(out, info)
	case config.FormatNDJSON:
		return renderNDJSONValue(out, info)
	case config.FormatYAML:
		return renderYAML(out, info)
	}

	cmd.Printf("Enabled: %t\n", info.Enabled)
	cmd.Printf("Backend: %s\n", info.Backend)
	cmd.Printf("TTL: %s\n", info.TTL)
	if info.Backend == cache.BackendFile {
		cmd.Printf("Directory: %s\n", info.Directory)
		cmd.Printf("Entries: %d (%d bytes)\n", info.Entries, info.Bytes)
	} else {
		cmd.Printf("Entries: held in memory for one process only\n")
	}
	return nil
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached table listings",
		Example: `  # Drop everything
  confirmvotes cache clear

  # Drop only entries older than the TTL
  confirmvotes cache clear --expired`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheClear(cmd, expiredOnly)
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only delete expired entries")

	return cmd
}

func runCacheClear(cmd *cobra.Command, expiredOnly bool) error {
	cfg := commandConfig(cmd)
	if cfg.Cache.Backend != cache.BackendFile {
		cmd.Printf("The %s cache is not persisted; nothing to clear\n", cfg.Cache.Backend)
		return nil
	}

	store, err := openFileCache(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	if expiredOnly {
		removed, cleanupErr := store.CleanupExpired()
		if cleanupErr != nil {
			return fmt.Errorf("removing expired cache entries: %w", cleanupErr)
		}
		cmd.Printf("Removed %d expired cache entries from %s\n", removed, store.Directory())
	} else {
		if clearErr := store.Clear(); clearErr != nil {
			return fmt.Errorf("clearing cache: %w", clearErr)
		}
		cmd.Printf("Cleared cache at %s\n", store.Directory())
	}

	logger.Debug().Ctx(cmd.Context()).
		Bool("expired_only", expiredOnly).
		Dur("duration", time.Since(start)).
		Msg("cache cleared")
	return nil
}

func openFileCache(cfg *config.Config) (*cache.FileStore, error) {
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	return cache.NewFileStore(dir, cfg.CacheTTL())
}
