package resolver

import (
	"errors"
	"fmt"
	"math"

	"github.com/rshade/confirmvotes/internal/record"
)

// Cardinality selects how many linked targets a join resolves.
type Cardinality int

const (
	// First resolves only the first id in the link field.
	First Cardinality = iota
	// All resolves every id in the link field.
	All
)

// Join pulls a display field from the records a link field points at.
type Join struct {
	LinkField          string
	TargetTable        string
	TargetDisplayField string
	Cardinality        Cardinality
	// Distinct drops repeated ids before resolving (All only).
	Distinct bool
	// OrderBy sorts resolved targets by one of their fields (All only).
	OrderBy string
}

// LinkTarget says which record a column's cells navigate to.
type LinkTarget int

const (
	// LinkNone cells are not navigable.
	LinkNone LinkTarget = iota
	// LinkSelf cells navigate to the row's own record.
	LinkSelf
	// LinkJoined cells navigate to the first resolved join target.
	LinkJoined
)

// Format controls how a cell renders as text.
type Format int

const (
	// FormatText renders the value as-is.
	FormatText Format = iota
	// FormatPercent renders a 0..1 ratio as a rounded percentage ("37%").
	FormatPercent
	// FormatCount renders an absent number as 0.
	FormatCount
)

// Apply renders v according to f.
func (f Format) Apply(v record.Value) string {
	switch f {
	case FormatPercent:
		n, ok := v.Float()
		if !ok || n == 0 {
			return ""
		}
		return fmt.Sprintf("%d%%", int(math.Round(n*100))) //nolint:mnd // ratio to percent
	case FormatCount:
		if v.IsEmpty() {
			return "0"
		}
		return v.Text()
	default:
		return v.Text()
	}
}

// Column is one output column: a primary field or a join.
type Column struct {
	Name   string
	Field  string
	Join   *Join
	Hidden bool
	// Kind is the router entity kind cells link to ("senators", "slates", ...).
	Kind   string
	LinkTo LinkTarget
	Format Format
}

// Compare selects the ordering used by a sort key.
type Compare int

const (
	// Lexical compares display text byte-wise.
	Lexical Compare = iota
	// Numeric compares parsed numbers. Non-numeric values sort as empty.
	Numeric
	// Collated compares with the resolver's locale collation.
	Collated
)

// SortKey orders rows by one column.
type SortKey struct {
	Column     string
	Descending bool
	Compare    Compare
}

// ViewSpec declares one view: where rows come from, which survive, what
// columns they carry, and how they are ordered.
type ViewSpec struct {
	Name    string
	Primary string
	Filter  Filter
	Columns []Column
	Sort    []SortKey
}

// Spec errors.
var (
	ErrNoPrimary     = errors.New("view has no primary table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrBadJoin       = errors.New("join needs a link field and a target table")
)

// Validate reports structural mistakes in the view definition.
func (s ViewSpec) Validate() error {
	if s.Primary == "" {
		return fmt.Errorf("view %q: %w", s.Name, ErrNoPrimary)
	}
	names := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if c.Join != nil && (c.Join.LinkField == "" || c.Join.TargetTable == "") {
			return fmt.Errorf("view %q column %q: %w", s.Name, c.Name, ErrBadJoin)
		}
		names[c.Name] = struct{}{}
	}
	for _, k := range s.Sort {
		if _, ok := names[k.Column]; !ok {
			return fmt.Errorf("view %q sort key %q: %w", s.Name, k.Column, ErrUnknownColumn)
		}
	}
	return nil
}

// WithFilter returns a copy of s restricted by f in addition to its own filter.
func (s ViewSpec) WithFilter(f Filter) ViewSpec {
	s.Filter = And(s.Filter, f)
	return s
}

// WithSort returns a copy of s ordered by keys instead of its defaults.
func (s ViewSpec) WithSort(keys ...SortKey) ViewSpec {
	s.Sort = append([]SortKey(nil), keys...)
	return s
}
