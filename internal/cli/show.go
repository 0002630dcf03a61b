package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/confirmvotes/internal/router"
)

// newShowCmd creates the show command, which prints an entity detail page.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind> <id> | show <link>",
		Short: "Show a senator, nominee, slate, or position with its related records",
		Long: `Shows one entity with its resolved links, vote tally, and related lists.

The target is either a kind and a record id, or a link such as
"#/slates/recXXXXXXXXXXXXXX" as printed by other commands.`,
		Example: `  # A senator's votes, newest first
  confirmvotes show senators recXXXXXXXXXXXXXX

  # Follow a link
  confirmvotes show "#/nominees/recXXXXXXXXXXXXXX"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := showRoute(args)
			if err != nil {
				return err
			}
			if route.Kind == router.KindRecord {
				return runRecord(cmd, route.Table, route.ID)
			}
			return runShow(cmd, route)
		},
	}
}

// showRoute reads either "<kind> <id>" or a single detail link.
func showRoute(args []string) (router.Route, error) {
	if len(args) == 2 {
		kind, err := router.ParseKind(args[0])
		if err != nil {
			return router.Route{}, err
		}
		return router.Route{Kind: kind, ID: args[1]}, nil
	}

	route, err := router.Parse(args[0])
	if err != nil {
		return router.Route{}, err
	}
	if !route.IsDetail() {
		return router.Route{}, fmt.Errorf("%w: %q does not name a record", router.ErrUnknownRoute, args[0])
	}
	return route, nil
}

func runShow(cmd *cobra.Command, route router.Route) error {
	src, err := openSource(cmd.Context())
	if err != nil {
		return err
	}

	d, err := src.service.Detail(cmd.Context(), route.Kind, route.ID)
	if err != nil {
		return fmt.Errorf("loading %s: %w", route.Path(), err)
	}
	if !d.Found {
		return fmt.Errorf("%w: %s %s", ErrRecordNotFound, route.Kind, route.ID)
	}

	logger.Debug().Ctx(cmd.Context()).
		Str("route", route.Path()).
		Int("sections", len(d.Sections)).
		Msg("detail loaded")

	return renderDetail(cmd.OutOrStdout(), commandConfig(cmd).Output.DefaultFormat, d)
}
