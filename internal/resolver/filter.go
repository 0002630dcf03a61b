package resolver

import (
	"strings"

	"github.com/hashicorp/go-set/v2"

	"github.com/rshade/confirmvotes/internal/record"
)

// Filter decides whether a primary record survives. A nil Filter keeps everything.
type Filter func(record.Record) bool

// Keep applies f, treating nil as keep-all.
func (f Filter) Keep(r record.Record) bool {
	return f == nil || f(r)
}

// LinkContains keeps records whose link field holds id.
func LinkContains(field, id string) Filter {
	return func(r record.Record) bool {
		for _, linked := range r.LinkIDs(field) {
			if linked == id {
				return true
			}
		}
		return false
	}
}

// LinkContainsAny keeps records whose link field shares at least one id with ids.
func LinkContainsAny(field string, ids ...string) Filter {
	want := set.From(ids)
	return func(r record.Record) bool {
		for _, linked := range r.LinkIDs(field) {
			if want.Contains(linked) {
				return true
			}
		}
		return false
	}
}

// IDIn keeps records whose id is one of ids.
func IDIn(ids ...string) Filter {
	want := set.From(ids)
	return func(r record.Record) bool {
		return want.Contains(r.ID)
	}
}

// FieldEquals keeps records whose field renders exactly as value, ignoring case.
func FieldEquals(field, value string) Filter {
	return func(r record.Record) bool {
		return strings.EqualFold(r.Text(field), value)
	}
}

// And keeps records every non-nil filter keeps.
func And(filters ...Filter) Filter {
	active := compact(filters)
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(r record.Record) bool {
		for _, f := range active {
			if !f(r) {
				return false
			}
		}
		return true
	}
}

// Or keeps records any non-nil filter keeps. Or() with no filters keeps everything.
func Or(filters ...Filter) Filter {
	active := compact(filters)
	if len(active) == 0 {
		return nil
	}
	return func(r record.Record) bool {
		for _, f := range active {
			if f(r) {
				return true
			}
		}
		return false
	}
}

func compact(filters []Filter) []Filter {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}
