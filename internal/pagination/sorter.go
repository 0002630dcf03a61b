package pagination

import (
	"fmt"
	"strings"

	"github.com/rshade/confirmvotes/internal/resolver"
)

// SortKeys turns a "column[:order]" expression into resolver sort keys for
// res. An empty expression returns nil so the view keeps its own order.
// Columns whose non-empty cells are all numeric compare numerically; others
// use collation.
func SortKeys(res *resolver.Result, expr string) ([]resolver.SortKey, error) {
	field, order, err := ParseSort(expr)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return nil, nil
	}

	idx := -1
	for _, i := range res.VisibleColumns() {
		if strings.EqualFold(res.Columns[i].Name, field) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(ValidFields(res), ", "))
	}

	return []resolver.SortKey{{
		Column:     res.Columns[idx].Name,
		Descending: order == SortOrderDesc,
		Compare:    InferCompare(res, idx),
	}}, nil
}

// ValidFields lists the visible column names of res.
func ValidFields(res *resolver.Result) []string {
	visible := res.VisibleColumns()
	out := make([]string, 0, len(visible))
	for _, i := range visible {
		out = append(out, res.Columns[i].Name)
	}
	return out
}

// InferCompare picks Numeric for columns of numbers and Collated otherwise.
func InferCompare(res *resolver.Result, col int) resolver.Compare {
	seen := false
	for _, row := range res.Rows {
		v := row.Cells[col].Value
		if v.IsEmpty() {
			continue
		}
		if _, ok := v.Float(); !ok {
			return resolver.Collated
		}
		seen = true
	}
	if seen {
		return resolver.Numeric
	}
	return resolver.Collated
}
