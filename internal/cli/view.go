package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/confirmvotes/internal/views"
)

// newViewCmd creates the view command, which resolves any catalog view by name.
func newViewCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "view [name] [id]",
		Short: "Resolve a named view; without arguments, list the view names",
		Long: `Resolves a view from the catalog. List views take no id; entity views
such as senator-votes or slate-nominees take the id of the record they
are scoped to.`,
		Example: `  # Available views
  confirmvotes view

  # Every vote cast on a slate, by senator
  confirmvotes view slate-votes recXXXXXXXXXXXXXX

  # A nominee's votes as YAML
  confirmvotes view nominee-votes recXXXXXXXXXXXXXX -o yaml`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runViewNames(cmd)
			}
			var id string
			if len(args) == 2 {
				id = args[1]
			}
			return runView(cmd, args[0], id, flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runViewNames(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for _, name := range views.Names() {
		if views.NeedsID(name) {
			name += " <id>"
		}
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}

func runView(cmd *cobra.Command, name, id string, flags listFlags) error {
	cfg := commandConfig(cmd)
	params := withDefaultPageSize(flags.params, cfg)
	if err := params.Validate(); err != nil {
		return err
	}

	src, err := openSource(cmd.Context())
	if err != nil {
		return err
	}

	res, err := src.service.View(cmd.Context(), name, id)
	if errors.Is(err, views.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("resolving view %s: %w", name, err)
	}

	shaped, meta, err := shapeResult(res, flags.search, params, cfg.Locale())
	if err != nil {
		return err
	}
	return renderResult(cmd.OutOrStdout(), cfg.Output.DefaultFormat, shaped, meta)
}
