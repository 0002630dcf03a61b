package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/config"
	"github.com/rshade/confirmvotes/internal/pagination"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/router"
)

// listFlags holds the shaping flags shared by list and view.
type listFlags struct {
	search string
	params pagination.Params
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "keep rows where any column contains this text (case-insensitive)")
	cmd.Flags().StringVar(&f.params.Sort, "sort", "",
		`sort by a column, optionally with an order: "Name" or "Date:desc"`)
	cmd.Flags().IntVar(&f.params.Limit, "limit", 0, "maximum number of rows to print (0 = all)")
	cmd.Flags().IntVar(&f.params.Offset, "offset", 0, "number of rows to skip")
	cmd.Flags().IntVar(&f.params.Page, "page", 0, "page number to print, starting at 1")
	cmd.Flags().IntVar(&f.params.PageSize, "page-size", 0, "rows per page (default from output.page_size)")
}

// newListCmd creates the list command, which prints an entity list view.
func newListCmd() *cobra.Command {
	var flags listFlags

	kinds := make([]string, 0, len(router.EntityKinds()))
	for _, k := range router.EntityKinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:       "list <" + strings.Join(kinds, "|") + ">",
		Short:     "List senators, nominees, slates, or positions",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		Example: `  # Senators by district
  confirmvotes list senators --sort District

  # The second page of nominees, 20 per page
  confirmvotes list nominees --page 2 --page-size 20

  # Slates mentioning a position, as NDJSON
  confirmvotes list slates --search commissioner -o ndjson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runList(cmd *cobra.Command, kindArg string, flags listFlags) error {
	kind, err := router.ParseKind(kindArg)
	if err != nil {
		return err
	}

	cfg := commandConfig(cmd)
	params := withDefaultPageSize(flags.params, cfg)
	if err := params.Validate(); err != nil {
		return err
	}

	src, err := openSource(cmd.Context())
	if err != nil {
		return err
	}

	res, err := src.service.List(cmd.Context(), kind)
	if err != nil {
		return fmt.Errorf("listing %s: %w", kind, err)
	}

	shaped, meta, err := shapeResult(res, flags.search, params, cfg.Locale())
	if err != nil {
		return err
	}

	logger.Debug().Ctx(cmd.Context()).
		Str("kind", string(kind)).
		Int("rows", res.Len()).
		Int("shown", shaped.Len()).
		Msg("list resolved")

	return renderResult(cmd.OutOrStdout(), cfg.Output.DefaultFormat, shaped, meta)
}

// withDefaultPageSize fills PageSize from config when --page is given alone.
func withDefaultPageSize(p pagination.Params, cfg *config.Config) pagination.Params {
	if p.Page > 0 && p.PageSize == 0 && cfg.Output.PageSize > 0 {
		p.PageSize = cfg.Output.PageSize
	}
	return p
}

// shapeResult applies search, then sort, then the window. meta is nil when
// no window was requested.
func shapeResult(
	res *resolver.Result,
	search string,
	params pagination.Params,
	locale language.Tag,
) (*resolver.Result, *pagination.Meta, error) {
	out := res
	if search != "" {
		out = out.Search(search)
	}

	keys, err := pagination.SortKeys(out, params.Sort)
	if err != nil {
		return nil, nil, err
	}
	if len(keys) > 0 {
		out = out.Sorted(keys, locale)
	}

	if !params.IsEnabled() {
		return out, nil, nil
	}
	meta := pagination.NewMeta(params, out.Len())
	windowed := &resolver.Result{View: out.View, Columns: out.Columns, Rows: pagination.Apply(params, out.Rows)}
	return windowed, &meta, nil
}
