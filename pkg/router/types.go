package router

import (
	"context"

	"github.com/apillot/portfolio/pkg/vdom"
)

// ViewID identifies a renderable page unit. The router never looks inside a
// view beyond its ID.
type ViewID string

// PageFunc renders a view's body for one request.
type PageFunc func(ctx context.Context) *vdom.VNode

// View is a resolved page.
type View struct {
	ID    ViewID
	Title string
	Page  PageFunc
}

// LoaderFunc produces a view on first navigation to a lazy route.
type LoaderFunc func(ctx context.Context) (View, error)

// ResolverKind discriminates the two resolver variants.
type ResolverKind uint8

const (
	KindEager ResolverKind = iota
	KindLazy
)

// String returns the string representation of the ResolverKind.
func (k ResolverKind) String() string {
	switch k {
	case KindEager:
		return "eager"
	case KindLazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// Resolver describes how a route obtains its view. It is either Eager or
// Lazy; the interface is sealed.
type Resolver interface {
	Kind() ResolverKind

	// Chunk is the bundling hint of a lazy resolver, "" otherwise.
	Chunk() string

	isResolver()
}

type eagerResolver struct {
	view View
}

func (eagerResolver) Kind() ResolverKind { return KindEager }
func (eagerResolver) Chunk() string      { return "" }
func (eagerResolver) isResolver()        {}

type lazyResolver struct {
	load  LoaderFunc
	chunk string
}

func (*lazyResolver) Kind() ResolverKind { return KindLazy }
func (l *lazyResolver) Chunk() string    { return l.chunk }
func (*lazyResolver) isResolver()        {}

// Eager returns a resolver for a view that is available immediately.
func Eager(view View) Resolver {
	return eagerResolver{view: view}
}

// LazyOption configures a lazy resolver.
type LazyOption func(*lazyResolver)

// WithChunk tags a lazy resolver with a bundling hint. The hint groups
// content for packaging and appears in metrics and traces; it does not
// change resolution.
func WithChunk(name string) LazyOption {
	return func(l *lazyResolver) {
		l.chunk = name
	}
}

// Lazy returns a resolver whose view is produced by load on first
// navigation.
func Lazy(load LoaderFunc, opts ...LazyOption) Resolver {
	l := &lazyResolver{load: load}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Route is one navigable destination.
type Route struct {
	// Path is the exact static path, relative to the table's base.
	Path string

	// Name identifies the route for named navigation.
	Name string

	// Resolver produces the route's view.
	Resolver Resolver
}

// Lazy reports whether the route resolves through a loader.
func (r Route) Lazy() bool {
	return r.Resolver != nil && r.Resolver.Kind() == KindLazy
}

// Chunk returns the route's bundling hint, if any.
func (r Route) Chunk() string {
	if r.Resolver == nil {
		return ""
	}
	return r.Resolver.Chunk()
}

// Match is the result of resolving a navigation path.
type Match struct {
	// Route is the matched route.
	Route Route

	// View is the resolved view.
	View View

	// Loaded is true when this resolution waited on the route's loader,
	// i.e. the navigation suspended. Eager routes and cached lazy routes
	// never set it.
	Loaded bool
}
