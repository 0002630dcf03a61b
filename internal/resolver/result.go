package resolver

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result is the output of ResolveView. Each row carries the id of its
// originating primary record.
type Result struct {
	View    string
	Columns []Column
	Rows    []Row
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnIndex returns the index of the named column, or -1.
func (r *Result) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// VisibleColumns returns the indexes of non-hidden columns in order.
func (r *Result) VisibleColumns() []int {
	out := make([]int, 0, len(r.Columns))
	for i, c := range r.Columns {
		if !c.Hidden {
			out = append(out, i)
		}
	}
	return out
}

// CellText renders a cell using its column's format.
func (r *Result) CellText(row Row, col int) string {
	if col < 0 || col >= len(row.Cells) || col >= len(r.Columns) {
		return ""
	}
	return r.Columns[col].Format.Apply(row.Cells[col].Value)
}

// Search returns a copy of r holding rows where any visible cell contains
// query, ignoring case. An empty query returns every row.
func (r *Result) Search(query string) *Result {
	out := &Result{View: r.View, Columns: r.Columns}
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		out.Rows = append([]Row(nil), r.Rows...)
		return out
	}

	visible := r.VisibleColumns()
	for _, row := range r.Rows {
		for _, col := range visible {
			if strings.Contains(strings.ToLower(r.CellText(row, col)), query) {
				out.Rows = append(out.Rows, row)
				break
			}
		}
	}
	return out
}

// Sorted returns a copy of r stable-sorted by keys. Unknown columns are ignored.
func (r *Result) Sorted(keys []SortKey, locale language.Tag) *Result {
	out := &Result{View: r.View, Columns: r.Columns, Rows: append([]Row(nil), r.Rows...)}
	out.sortRows(keys, locale)
	return out
}

type boundKey struct {
	idx int
	key SortKey
}

// sortRows stable-sorts rows in place. Empty values sort last in either direction.
func (r *Result) sortRows(keys []SortKey, locale language.Tag) {
	bound := make([]boundKey, 0, len(keys))
	var collator *collate.Collator
	for _, k := range keys {
		idx := r.ColumnIndex(k.Column)
		if idx < 0 {
			continue
		}
		if k.Compare == Collated && collator == nil {
			collator = collate.New(locale)
		}
		bound = append(bound, boundKey{idx: idx, key: k})
	}
	if len(bound) == 0 {
		return
	}

	slices.SortStableFunc(r.Rows, func(a, b Row) int {
		for _, bk := range bound {
			if c := compareCells(a.Cells[bk.idx], b.Cells[bk.idx], bk.key, collator); c != 0 {
				return c
			}
		}
		return 0
	})
}

func compareCells(a, b Cell, key SortKey, collator *collate.Collator) int {
	switch key.Compare {
	case Numeric:
		fa, okA := a.Value.Float()
		fb, okB := b.Value.Float()
		if c, done := emptiesLast(!okA, !okB); done {
			return c
		}
		return directed(cmp.Compare(fa, fb), key.Descending)
	default:
		ta, tb := a.Value.Text(), b.Value.Text()
		if c, done := emptiesLast(ta == "", tb == ""); done {
			return c
		}
		if key.Compare == Collated && collator != nil {
			return directed(collator.CompareString(ta, tb), key.Descending)
		}
		return directed(strings.Compare(ta, tb), key.Descending)
	}
}

// emptiesLast orders empty values after non-empty ones. done is false when
// both values are non-empty and need a real comparison.
func emptiesLast(emptyA, emptyB bool) (int, bool) {
	switch {
	case emptyA && emptyB:
		return 0, true
	case emptyA:
		return 1, true
	case emptyB:
		return -1, true
	default:
		return 0, false
	}
}

func directed(c int, descending bool) int {
	if descending {
		return -c
	}
	return c
}

// compareText orders join targets: case-insensitive, empties last.
func compareText(a, b string) int {
	if c, done := emptiesLast(a == "", b == ""); done {
		return c
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
