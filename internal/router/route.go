// Package router maps navigation paths to views. Paths look like
// "/senators", "/slates/{id}", or "/table/{table}/record/{id}", with an
// optional leading "#" so links copied from the web app parse too.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind names an entity collection, or one of the special pages.
type Kind string

// Routable kinds.
const (
	KindHome      Kind = "home"
	KindSenators  Kind = "senators"
	KindNominees  Kind = "nominees"
	KindSlates    Kind = "slates"
	KindPositions Kind = "positions"
	KindRecord    Kind = "table"
)

// EntityKinds lists the kinds with list and detail views, in menu order.
func EntityKinds() []Kind {
	return []Kind{KindSenators, KindNominees, KindSlates, KindPositions}
}

// ParseKind accepts an entity kind name, singular or plural, any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range EntityKinds() {
		if k == known || string(k)+"s" == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Routing errors.
var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrUnknownKind  = errors.New("unknown kind")
)

// Route is a parsed location.
type Route struct {
	Kind Kind
	// ID is the entity id for detail routes, empty for lists.
	ID string
	// Table is set for generic record routes.
	Table string
}

// IsDetail reports whether the route names a single record.
func (r Route) IsDetail() bool {
	return r.ID != ""
}

// Path rebuilds the canonical path for r.
func (r Route) Path() string {
	switch {
	case r.Kind == KindHome || r.Kind == "":
		return "/"
	case r.Kind == KindRecord:
		return "/table/" + url.PathEscape(r.Table) + "/record/" + url.PathEscape(r.ID)
	case r.ID != "":
		return "/" + string(r.Kind) + "/" + url.PathEscape(r.ID)
	default:
		return "/" + string(r.Kind)
	}
}

func (r Route) String() string {
	return r.Path()
}

// Parse reads a path into a Route.
func Parse(path string) (Route, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(path), "#")
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return Route{Kind: KindHome}, nil
	}

	raw := strings.Split(trimmed, "/")
	parts := make([]string, len(raw))
	for i, p := range raw {
		unescaped, err := url.PathUnescape(p)
		if err != nil {
			return Route{}, fmt.Errorf("%w: %q: %w", ErrUnknownRoute, path, err)
		}
		if unescaped == "" {
			return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
		}
		parts[i] = unescaped
	}

	if parts[0] == string(KindRecord) {
		if len(parts) != 4 || parts[2] != "record" {
			return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
		}
		return Route{Kind: KindRecord, Table: parts[1], ID: parts[3]}, nil
	}

	kind, err := ParseKind(parts[0])
	if err != nil || kind != Kind(parts[0]) {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
	}
	switch len(parts) {
	case 1:
		return Route{Kind: kind}, nil
	case 2:
		return Route{Kind: kind, ID: parts[1]}, nil
	default:
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
	}
}

// Link returns the hash link for an entity, matching the web app's "#/{kind}/{id}".
func Link(kind Kind, id string) string {
	return "#" + Route{Kind: kind, ID: id}.Path()
}

// RecordLink returns the hash link for a record in an arbitrary table.
func RecordLink(table, id string) string {
	return "#" + Route{Kind: KindRecord, Table: table, ID: id}.Path()
}
