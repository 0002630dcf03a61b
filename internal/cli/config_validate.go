package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/confirmvotes/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file for syntax and semantic correctness.

This includes:
- YAML syntax of every section
- The file version against the supported range
- Output format, locale, and page size
- Log level and format
- Cache backend and TTL`,
		Example: `  # Validate current configuration
  confirmvotes config validate

  # Validate and show detailed information
  confirmvotes config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate re-reads the file strictly, so a broken file fails here
// instead of falling back to defaults.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg, err := config.Load(commandConfig(cmd).ConfigPath())
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Locale: %s\n", cfg.Locale())
	cmd.Printf("  Airtable view: %s\n", cfg.Airtable.View)
	cmd.Printf("  Cache: enabled=%t backend=%s ttl=%s\n", cfg.Cache.Enabled, cfg.Cache.Backend, cfg.Cache.TTL)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	creds, err := config.LoadCredentials()
	switch {
	case errors.Is(err, config.ErrMissingCredentials):
		cmd.Printf("  Credentials: %v\n", err)
	case err == nil:
		cmd.Printf("  Credentials: base %s, key %s\n", creds.BaseID, creds.Redacted())
	}
}

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Example: `  confirmvotes config get cache.ttl
  confirmvotes config get output.default_format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := commandConfig(cmd).Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
}

// NewConfigPathCmd creates the config path command.
func NewConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), commandConfig(cmd).ConfigPath())
			return err
		},
	}
}
