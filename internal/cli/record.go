package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/confirmvotes/internal/record"
)

// newRecordCmd creates the record command, which prints any record with its
// link fields resolved.
func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <table> <id>",
		Short: "Show any record with its linked records resolved",
		Example: `  # An individual vote with its senator and slate
  confirmvotes record "Individual Votes" recXXXXXXXXXXXXXX`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, args[0], args[1])
		},
	}
}

func runRecord(cmd *cobra.Command, table, id string) error {
	src, err := openSource(cmd.Context())
	if err != nil {
		return err
	}

	page, err := src.service.Record(cmd.Context(), table, id)
	if err != nil {
		return fmt.Errorf("loading record %s in %s: %w", id, table, err)
	}
	if !page.Found {
		return fmt.Errorf("%w: %s in %s", ErrRecordNotFound, id, table)
	}
	return renderRecordPage(cmd.OutOrStdout(), commandConfig(cmd).Output.DefaultFormat, page)
}

// newTablesCmd creates the tables command.
func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the Airtable tables this tool reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(record.KnownTables(), "\n"))
			return err
		},
	}
}
