// Package resolver turns declarative views into denormalized rows. It fetches
// the primary table and every join target once, filters the primary records,
// follows link fields into id lookups, and stable-sorts the result.
//
// An unresolved link is an empty cell, never an error. Fetch errors from the
// source are returned exactly as the source produced them.
package resolver

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/go-set/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/logging"
	"github.com/rshade/confirmvotes/internal/record"
)

// DefaultConcurrency bounds parallel table fetches per load.
const DefaultConcurrency = 4

// Source lists whole tables.
type Source interface {
	ListRecords(ctx context.Context, table string) ([]record.Record, error)
}

// Resolver evaluates ViewSpecs against a Source.
type Resolver struct {
	source      Source
	locale      language.Tag
	concurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocale sets the collation locale for Collated sort keys.
func WithLocale(tag language.Tag) Option {
	return func(r *Resolver) { r.locale = tag }
}

// WithConcurrency bounds how many tables load in parallel.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New returns a Resolver reading from source.
func New(source Source, opts ...Option) *Resolver {
	r := &Resolver{source: source, locale: language.Und, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cell is one resolved value. LinkID names the record the cell navigates to.
type Cell struct {
	Value  record.Value
	LinkID string
}

// Row is one surviving primary record, projected onto the view's columns.
type Row struct {
	RecordID string
	Cells    []Cell
}

// ResolveView loads, joins, filters, and sorts the rows of spec.
func (r *Resolver) ResolveView(ctx context.Context, spec ViewSpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	tables := set.New[string](len(spec.Columns) + 1)
	tables.Insert(spec.Primary)
	for _, c := range spec.Columns {
		if c.Join != nil {
			tables.Insert(c.Join.TargetTable)
		}
	}

	loaded, err := r.fetchAll(ctx, tables.Slice())
	if err != nil {
		return nil, err
	}

	lookups := make(map[string]map[string]record.Record, len(loaded))
	for name, recs := range loaded {
		if name == spec.Primary && !spec.joinsTo(name) {
			continue
		}
		lookups[name] = indexByID(recs)
	}

	var rows []Row
	for _, rec := range loaded[spec.Primary] {
		if !spec.Filter.Keep(rec) {
			continue
		}
		rows = append(rows, buildRow(rec, spec.Columns, lookups))
	}

	res := &Result{View: spec.Name, Columns: append([]Column(nil), spec.Columns...), Rows: rows}
	res.sortRows(spec.Sort, r.locale)

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "resolver").
		Str("view", spec.Name).
		Int("tables", tables.Size()).
		Int("primary_records", len(loaded[spec.Primary])).
		Int("rows", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("view resolved")

	return res, nil
}

func (s ViewSpec) joinsTo(table string) bool {
	for _, c := range s.Columns {
		if c.Join != nil && c.Join.TargetTable == table {
			return true
		}
	}
	return false
}

// fetchAll loads each named table exactly once, in parallel.
func (r *Resolver) fetchAll(ctx context.Context, tables []string) (map[string][]record.Record, error) {
	var (
		mu  sync.Mutex
		out = make(map[string][]record.Record, len(tables))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, table := range tables {
		g.Go(func() error {
			recs, err := r.source.ListRecords(gctx, table)
			if err != nil {
				return err
			}
			mu.Lock()
			out[table] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func indexByID(recs []record.Record) map[string]record.Record {
	idx := make(map[string]record.Record, len(recs))
	for _, rec := range recs {
		idx[rec.ID] = rec
	}
	return idx
}

func buildRow(rec record.Record, columns []Column, lookups map[string]map[string]record.Record) Row {
	row := Row{RecordID: rec.ID, Cells: make([]Cell, len(columns))}
	for i, col := range columns {
		if col.Join == nil {
			cell := Cell{Value: rec.Field(col.Field)}
			if col.LinkTo == LinkSelf {
				cell.LinkID = rec.ID
			}
			row.Cells[i] = cell
			continue
		}
		cell := resolveJoin(rec, col.Join, lookups[col.Join.TargetTable])
		switch col.LinkTo {
		case LinkSelf:
			cell.LinkID = rec.ID
		case LinkNone:
			cell.LinkID = ""
		}
		row.Cells[i] = cell
	}
	return row
}

// resolveJoin follows j from rec. Missing fields and unknown ids yield an empty cell.
func resolveJoin(rec record.Record, j *Join, targets map[string]record.Record) Cell {
	ids := rec.LinkIDs(j.LinkField)
	if len(ids) == 0 {
		return Cell{}
	}

	if j.Cardinality == First {
		target, ok := targets[ids[0]]
		if !ok {
			return Cell{}
		}
		return Cell{Value: displayValue(target, j.TargetDisplayField), LinkID: target.ID}
	}

	if j.Distinct {
		ids = distinct(ids)
	}
	resolved := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		if target, ok := targets[id]; ok {
			resolved = append(resolved, target)
		}
	}
	if j.OrderBy != "" {
		slices.SortStableFunc(resolved, func(a, b record.Record) int {
			return compareText(a.Text(j.OrderBy), b.Text(j.OrderBy))
		})
	}
	if len(resolved) == 0 {
		return Cell{}
	}

	texts := make([]string, 0, len(resolved))
	for _, target := range resolved {
		if text := displayValue(target, j.TargetDisplayField).Text(); text != "" {
			texts = append(texts, text)
		}
	}
	return Cell{Value: record.Texts(texts...), LinkID: resolved[0].ID}
}

func displayValue(target record.Record, field string) record.Value {
	if field == "" {
		return record.Text(target.DisplayName())
	}
	return target.Field(field)
}

func distinct(ids []string) []string {
	seen := set.New[string](len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen.Insert(id) {
			out = append(out, id)
		}
	}
	return out
}
