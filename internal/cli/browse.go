package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/confirmvotes/internal/router"
	"github.com/rshade/confirmvotes/internal/tui"
)

// newBrowseCmd creates the browse command, which starts the interactive browser.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [link]",
		Short: "Browse the votes interactively",
		Long: `Starts the terminal browser at the home menu or at the given link.

Keys: enter follows the selected row, 1-9 follow a detail page's links,
/ filters, s cycles the sort column, r reverses it, pgup/pgdn page,
tab switches sections, esc goes back, and q quits.`,
		Example: `  confirmvotes browse
  confirmvotes browse /slates
  confirmvotes browse "#/senators/recXXXXXXXXXXXXXX"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := router.Route{Kind: router.KindHome}
			if len(args) == 1 {
				route, err := router.Parse(args[0])
				if err != nil {
					return err
				}
				start = route
			}
			return runBrowse(cmd, start)
		},
	}
}

func runBrowse(cmd *cobra.Command, start router.Route) error {
	src, err := openSource(cmd.Context())
	if err != nil {
		return err
	}
	if tui.DetectOutputMode(cmd.OutOrStdout()) != tui.OutputModeInteractive {
		return tui.ErrNotInteractive
	}

	logger.Debug().Ctx(cmd.Context()).Str("start", start.Path()).Msg("starting browser")
	return tui.Run(cmd.Context(), src.service, start, tui.WithLocale(src.cfg.Locale()))
}
