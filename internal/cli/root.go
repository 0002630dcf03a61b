package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/cache"
	"github.com/rshade/confirmvotes/internal/config"
	"github.com/rshade/confirmvotes/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the confirmvotes CLI.
// It loads configuration, applies global flag overrides, sets up logging and
// tracing, and registers the data, browse, config, and cache subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "confirmvotes",
		Short:   "Browse confirmation votes stored in Airtable",
		Long:    "confirmvotes: list, search, and cross-reference senators, nominees, slates, and votes",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyGlobalFlags(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $CONFIRMVOTES_HOME/config.yaml)")
	cmd.PersistentFlags().StringP("output", "o", "",
		fmt.Sprintf("output format: %s (default from config)", strings.Join(config.OutputFormats(), ", ")))
	cmd.PersistentFlags().String("locale", "", "collation locale for sorting, e.g. en or sv")
	cmd.PersistentFlags().Bool("cache", false, "cache whole-table listings (overrides config and env)")
	cmd.PersistentFlags().String("cache-ttl", "", "cache TTL as seconds or a duration such as 10m")

	cmd.AddCommand(
		newListCmd(), newShowCmd(), newViewCmd(), newRecordCmd(), newTablesCmd(),
		newBrowseCmd(), newConfigCmd(), newCacheCmd(),
	)

	return cmd
}

const rootCmdExample = `  # List senators sorted by their Aye percentage
  confirmvotes list senators --sort "% Aye:desc"

  # Search nominees and print JSON
  confirmvotes list nominees --search water -o json

  # Show a slate with its nominees and votes
  confirmvotes show slates recXXXXXXXXXXXXXX

  # Follow a link printed by another command
  confirmvotes browse "#/senators/recXXXXXXXXXXXXXX"

  # Cache table listings for ten minutes
  confirmvotes list slates --cache --cache-ttl 10m`

// applyGlobalFlags loads the config named by --config and layers the global
// flags over a copy of it. Flags beat environment variables, which beat the
// file. The copy rides on the command context, so one invocation never
// changes the next.
func applyGlobalFlags(cmd *cobra.Command) error {
	cfg := config.GetGlobalConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	cfg = cfg.Clone()

	if cmd.Flags().Changed("output") {
		format, _ := cmd.Flags().GetString("output")
		format = strings.ToLower(format)
		if !slices.Contains(config.OutputFormats(), format) {
			return fmt.Errorf("invalid output format %q: must be one of %s",
				format, strings.Join(config.OutputFormats(), ", "))
		}
		cfg.Output.DefaultFormat = format
	}
	if cmd.Flags().Changed("locale") {
		locale, _ := cmd.Flags().GetString("locale")
		if _, err := language.Parse(locale); err != nil {
			return fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		cfg.Output.Locale = locale
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled, _ = cmd.Flags().GetBool("cache")
	}
	if cmd.Flags().Changed("cache-ttl") {
		raw, _ := cmd.Flags().GetString("cache-ttl")
		ttl, err := cache.ParseTTL(raw)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl: %w", err)
		}
		cfg.Cache.TTL = ttl.String()
	}

	cmd.SetContext(config.ContextWithConfig(cmd.Context(), cfg))
	return nil
}

// commandConfig returns the configuration of the running invocation.
func commandConfig(cmd *cobra.Command) *config.Config {
	return config.FromContext(cmd.Context())
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigGetCmd(), NewConfigPathCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Table cache commands"}
	cmd.AddCommand(NewCacheInfoCmd(), NewCacheClearCmd())
	return cmd
}
