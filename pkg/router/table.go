package router

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	perrors "github.com/apillot/portfolio/internal/errors"
	"github.com/apillot/portfolio/pkg/routepath"
)

const tracerName = "github.com/apillot/portfolio/pkg/router"

// DefaultLoadTimeout bounds a lazy load when WithLoadTimeout is not given.
const DefaultLoadTimeout = 30 * time.Second

// Table is an immutable route table. It is safe for concurrent use.
type Table struct {
	base   string
	routes []Route
	byPath map[string]int
	byName map[string]int

	// slots[i] caches the view of lazy route i once loaded.
	slots []atomic.Pointer[View]
	group singleflight.Group

	loadTimeout time.Duration
	observer    Observer
	tracer      trace.Tracer
	logger      *slog.Logger
}

// Option configures a Table.
type Option func(*tableOptions)

type tableOptions struct {
	base           string
	observer       Observer
	tracerProvider trace.TracerProvider
	logger         *slog.Logger
	loadTimeout    time.Duration
}

// WithBase mounts every route under base (for example "/portfolio/").
func WithBase(base string) Option {
	return func(o *tableOptions) {
		o.base = base
	}
}

// WithObserver registers an observer for resolution events.
func WithObserver(obs Observer) Option {
	return func(o *tableOptions) {
		o.observer = obs
	}
}

// WithTracerProvider sets the provider for lazy-load spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *tableOptions) {
		o.tracerProvider = tp
	}
}

// WithLoadTimeout bounds each shared lazy load. The load outlives the
// requests waiting on it, so without a bound a hung loader would hold the
// route until every caller gave up. Zero or less disables the bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *tableOptions) {
		o.loadTimeout = d
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *tableOptions) {
		o.logger = l
	}
}

// New builds a table from routes. All validation problems are reported
// together; each is an *errors.Error wrapping one of the construction
// sentinels.
func New(routes []Route, opts ...Option) (*Table, error) {
	o := tableOptions{base: "/", loadTimeout: DefaultLoadTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	var problems []error

	base, err := routepath.NormalizeBase(o.base)
	if err != nil {
		problems = append(problems, perrors.New("R004").
			WithDetailf("base %q: %v", o.base, err).
			Wrap(ErrInvalidBase))
	}

	t := &Table{
		base:        base,
		routes:      make([]Route, len(routes)),
		byPath:      make(map[string]int, len(routes)),
		byName:      make(map[string]int, len(routes)),
		slots:       make([]atomic.Pointer[View], len(routes)),
		observer:    o.observer,
		tracer:      o.tracerProvider.Tracer(tracerName),
		logger:      o.logger,
		loadTimeout: o.loadTimeout,
	}
	copy(t.routes, routes)

	for i, r := range t.routes {
		if err := validateRoute(r); err != nil {
			problems = append(problems, err)
			continue
		}
		if prev, dup := t.byPath[r.Path]; dup {
			problems = append(problems, perrors.New("R001").
				WithDetailf("path %q is used by %q and %q", r.Path, t.routes[prev].Name, r.Name).
				Wrap(ErrDuplicatePath))
		} else {
			t.byPath[r.Path] = i
		}
		if _, dup := t.byName[r.Name]; dup {
			problems = append(problems, perrors.New("R002").
				WithDetailf("name %q is registered twice", r.Name).
				Wrap(ErrDuplicateName))
		} else {
			t.byName[r.Name] = i
		}
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return t, nil
}

// MustNew is like New but panics on error. Use it for tables defined in
// code whose validity is covered by tests.
func MustNew(routes []Route, opts ...Option) *Table {
	t, err := New(routes, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func validateRoute(r Route) error {
	invalid := func(format string, args ...any) error {
		return perrors.New("R003").WithDetailf(format, args...).Wrap(ErrInvalidRoute)
	}

	switch {
	case r.Name == "":
		return invalid("route with path %q has no name", r.Path)
	case !strings.HasPrefix(r.Path, "/"):
		return invalid("route %q: path %q must start with \"/\"", r.Name, r.Path)
	case r.Resolver == nil:
		return invalid("route %q has no resolver", r.Name)
	}

	res, err := routepath.CanonicalizePath(r.Path)
	if err != nil || res.Changed || res.Query != "" {
		return invalid("route %q: path %q is not canonical", r.Name, r.Path)
	}

	switch v := r.Resolver.(type) {
	case eagerResolver:
		if v.view.ID == "" {
			return invalid("route %q: eager view has no ID", r.Name)
		}
	case *lazyResolver:
		if v.load == nil {
			return invalid("route %q: lazy resolver has no loader", r.Name)
		}
	}
	return nil
}

// Base returns the normalized base path ("/" or "/prefix/").
func (t *Table) Base() string {
	return t.base
}

// Routes returns the routes in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup matches a navigation path without loading anything.
func (t *Table) Lookup(path string) (Route, bool) {
	i, err := t.index(path)
	if err != nil {
		return Route{}, false
	}
	return t.routes[i], true
}

// ByName returns the route registered under name.
func (t *Table) ByName(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// URL returns the absolute path of a named route, base included.
func (t *Table) URL(name string) (string, error) {
	r, ok := t.ByName(name)
	if !ok {
		return "", fmt.Errorf("%w: route name %q", ErrNotFound, name)
	}
	return routepath.JoinBase(t.base, r.Path), nil
}

// Resolved reports whether the named route's view is available without a
// load. Eager routes are always resolved.
func (t *Table) Resolved(name string) bool {
	i, ok := t.byName[name]
	if !ok {
		return false
	}
	if !t.routes[i].Lazy() {
		return true
	}
	return t.slots[i].Load() != nil
}

// index maps a navigation path to a route index.
func (t *Table) index(path string) (int, error) {
	res, err := routepath.CanonicalizePath(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidPath, path, err)
	}
	rel, ok := routepath.StripBase(res.Path, t.base)
	if !ok {
		return 0, fmt.Errorf("%w: %q is outside base %q", ErrNotFound, res.Path, t.base)
	}
	i, ok := t.byPath[rel]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, res.Path)
	}
	return i, nil
}
