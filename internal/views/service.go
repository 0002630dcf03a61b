package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/confirmvotes/internal/logging"
	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/router"
)

// View errors.
var (
	ErrUnknownView  = errors.New("unknown view")
	ErrMissingID    = errors.New("missing id")
	ErrUnexpectedID = errors.New("unexpected id")
	// ErrNotFound is returned when an entity that scopes a view does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store lists tables and finds single records.
type Store interface {
	resolver.Source
	FindRecord(ctx context.Context, table, id string) (record.Record, bool, error)
}

// Service loads list views, entity views, and detail pages.
type Service struct {
	store    Store
	resolver *resolver.Resolver
}

// NewService builds a Service over store.
func NewService(store Store, opts ...resolver.Option) *Service {
	return &Service{store: store, resolver: resolver.New(store, opts...)}
}

// Resolver exposes the underlying resolver.
func (s *Service) Resolver() *resolver.Resolver {
	return s.resolver
}

// Resolve evaluates an arbitrary view spec.
func (s *Service) Resolve(ctx context.Context, spec resolver.ViewSpec) (*resolver.Result, error) {
	return s.resolver.ResolveView(ctx, spec)
}

// List resolves the list view of an entity kind.
func (s *Service) List(ctx context.Context, kind router.Kind) (*resolver.Result, error) {
	spec, err := ListView(kind)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveView(ctx, spec)
}

// View resolves a named view. Entity views take the scoping id.
func (s *Service) View(ctx context.Context, name, id string) (*resolver.Result, error) {
	if name != ViewNomineeVotes {
		spec, err := Lookup(name, id)
		if err != nil {
			return nil, err
		}
		return s.resolver.ResolveView(ctx, spec)
	}

	if id == "" {
		return nil, fmt.Errorf("%w: view %q needs an id", ErrMissingID, name)
	}
	nominee, found, err := s.store.FindRecord(ctx, record.TableNominees, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: nominee %s", ErrNotFound, id)
	}
	return s.nomineeVotes(ctx, nominee)
}

func (s *Service) nomineeVotes(ctx context.Context, nominee record.Record) (*resolver.Result, error) {
	slates := nominee.LinkIDs("Slate")
	spec := NomineeVotes(slates...)
	if len(slates) == 0 {
		// Nothing can match; skip the fetch.
		return &resolver.Result{View: spec.Name, Columns: spec.Columns}, nil
	}
	return s.resolver.ResolveView(ctx, spec)
}

// LinkSummary is a resolved reference to another record.
type LinkSummary struct {
	Label string      `json:"label"           yaml:"label"`
	Kind  router.Kind `json:"kind"            yaml:"kind"`
	Table string      `json:"table,omitempty" yaml:"table,omitempty"`
	ID    string      `json:"id"              yaml:"id"`
	Text  string      `json:"text"            yaml:"text"`
}

// Path returns the router path of the linked record.
func (l LinkSummary) Path() string {
	if l.Kind == router.KindRecord {
		return router.Route{Kind: router.KindRecord, Table: l.Table, ID: l.ID}.Path()
	}
	return router.Route{Kind: l.Kind, ID: l.ID}.Path()
}

// Section is a titled related list on a detail page.
type Section struct {
	Title  string
	Result *resolver.Result
}

// Detail is a loaded entity page. Found=false is the not-found state.
type Detail struct {
	Kind     router.Kind
	Record   record.Record
	Found    bool
	Title    string
	PhotoURL string
	Tally    *record.Tally
	Links    []LinkSummary
	Sections []Section
}

// Detail dispatches to the loader for kind.
func (s *Service) Detail(ctx context.Context, kind router.Kind, id string) (*Detail, error) {
	switch kind {
	case router.KindSenators:
		return s.Senator(ctx, id)
	case router.KindNominees:
		return s.Nominee(ctx, id)
	case router.KindSlates:
		return s.Slate(ctx, id)
	case router.KindPositions:
		return s.Position(ctx, id)
	default:
		return nil, fmt.Errorf("%w: no detail view for %q", ErrUnknownView, kind)
	}
}

// find loads the entity or returns a not-found Detail.
func (s *Service) find(ctx context.Context, kind router.Kind, table, id string) (*Detail, error) {
	rec, found, err := s.store.FindRecord(ctx, table, id)
	if err != nil {
		return nil, err
	}
	if !found {
		logging.FromContext(ctx).Debug().Ctx(ctx).Str("component", "views").
			Str("kind", string(kind)).Str("id", id).Msg("entity not found")
		return &Detail{Kind: kind, Found: false}, nil
	}
	return &Detail{Kind: kind, Record: rec, Found: true}, nil
}

// loadSections resolves every section concurrently and keeps their order.
func (s *Service) loadSections(ctx context.Context, d *Detail, titles []string, specs []resolver.ViewSpec) error {
	d.Sections = make([]Section, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			res, err := s.resolver.ResolveView(gctx, spec)
			if err != nil {
				return err
			}
			d.Sections[i] = Section{Title: titles[i], Result: res}
			return nil
		})
	}
	return g.Wait()
}

func withTally(d *Detail, fields record.TallyFields) {
	if t, ok := record.TallyOf(d.Record, fields); ok {
		d.Tally = &t
	}
}

// Senator loads a senator with their tally, photo, and votes.
func (s *Service) Senator(ctx context.Context, id string) (*Detail, error) {
	d, err := s.find(ctx, router.KindSenators, record.TableSenators, id)
	if err != nil || !d.Found {
		return d, err
	}
	d.Title = d.Record.Text("Full Name")
	if photos := d.Record.Attachments("Photo"); len(photos) > 0 {
		d.PhotoURL = photos[0].URL
	}
	withTally(d, record.SenatorTallyFields)

	if err := s.loadSections(ctx, d, []string{"Votes"}, []resolver.ViewSpec{SenatorVotes(id)}); err != nil {
		return nil, err
	}
	return d, nil
}

// Nominee loads a nominee with their position, slate, and the votes on their slates.
func (s *Service) Nominee(ctx context.Context, id string) (*Detail, error) {
	d, err := s.find(ctx, router.KindNominees, record.TableNominees, id)
	if err != nil || !d.Found {
		return d, err
	}
	d.Title = d.Record.Text("Full Name")
	withTally(d, record.ResultTallyFields)

	var (
		mu    sync.Mutex
		links = make([]*LinkSummary, 2)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := s.firstLink(gctx, d.Record, "Position", record.TablePositions, router.KindPositions, positionLabel)
		mu.Lock()
		links[0] = l
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		l, err := s.firstLink(gctx, d.Record, "Slate", record.TableSlates, router.KindSlates, slateLabel)
		mu.Lock()
		links[1] = l
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		res, err := s.nomineeVotes(gctx, d.Record)
		if err != nil {
			return err
		}
		d.Sections = []Section{{Title: "Votes", Result: res}}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, l := range links {
		if l != nil {
			d.Links = append(d.Links, *l)
		}
	}
	return d, nil
}

// firstLink resolves the first id of a link field. An unresolvable link yields nil.
func (s *Service) firstLink(
	ctx context.Context,
	rec record.Record,
	field, table string,
	kind router.Kind,
	label func(record.Record) string,
) (*LinkSummary, error) {
	id, ok := rec.FirstLink(field)
	if !ok {
		return nil, nil
	}
	target, found, err := s.store.FindRecord(ctx, table, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &LinkSummary{Label: field, Kind: kind, Table: table, ID: id, Text: label(target)}, nil
}

func positionLabel(r record.Record) string {
	if name := r.Text("Name"); name != "" {
		return name
	}
	return joinNonEmpty(" - ", r.Text("Role"), r.Text("Organization"))
}

func slateLabel(r record.Record) string {
	return r.Text("Date")
}

// Slate loads a slate with its tally, nominees, and votes.
func (s *Service) Slate(ctx context.Context, id string) (*Detail, error) {
	d, err := s.find(ctx, router.KindSlates, record.TableSlates, id)
	if err != nil || !d.Found {
		return d, err
	}
	d.Title = d.Record.Text("Date")
	if n := d.Record.Text("Slate of Day"); n != "" {
		d.Title += " (Slate " + n + ")"
	}
	withTally(d, record.ResultTallyFields)

	err = s.loadSections(ctx, d,
		[]string{"Nominees", "Votes"},
		[]resolver.ViewSpec{SlateNominees(id, d.Record.LinkIDs("Nominees")...), SlateVotes(id)},
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Position loads a position with everyone nominated to it.
func (s *Service) Position(ctx context.Context, id string) (*Detail, error) {
	d, err := s.find(ctx, router.KindPositions, record.TablePositions, id)
	if err != nil || !d.Found {
		return d, err
	}
	d.Title = joinNonEmpty(" - ", d.Record.Text("Role"), d.Record.Text("Organization"))

	if err := s.loadSections(ctx, d, []string{"Nominees"}, []resolver.ViewSpec{PositionNominees(id)}); err != nil {
		return nil, err
	}
	return d, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
