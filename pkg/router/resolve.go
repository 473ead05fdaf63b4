package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Resolve returns the view for a navigation path.
//
// Eager routes resolve at once. A lazy route runs its loader on the first
// navigation; concurrent first navigations share one load and every later
// navigation gets the cached view. A failed load is not cached.
//
// A caller whose ctx ends while waiting gets ctx.Err(). The load itself is
// detached from ctx and still fills the cache for later navigations. It is
// bounded by the table's load timeout instead; a load that runs out of time
// fails like any other.
func (t *Table) Resolve(ctx context.Context, path string) (*Match, error) {
	start := time.Now()

	i, err := t.index(path)
	if err != nil {
		t.observer.ObserveResolve("", false, time.Since(start), err)
		return nil, err
	}

	route := t.routes[i]
	view, loaded, err := t.resolve(ctx, i)
	t.observer.ObserveResolve(route.Name, loaded, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Match{Route: route, View: view, Loaded: loaded}, nil
}

// Preload resolves every lazy route once and reports all load failures.
func (t *Table) Preload(ctx context.Context) error {
	var errs []error
	for i, r := range t.routes {
		if !r.Lazy() {
			continue
		}
		if _, _, err := t.resolve(ctx, i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type loadResult struct {
	view  *View
	fresh bool
}

func (t *Table) resolve(ctx context.Context, i int) (View, bool, error) {
	route := t.routes[i]

	switch r := route.Resolver.(type) {
	case eagerResolver:
		return r.view, false, nil

	case *lazyResolver:
		if v := t.slots[i].Load(); v != nil {
			return *v, false, nil
		}

		ch := t.group.DoChan(route.Name, func() (any, error) {
			// A flight that finished between the Load above and DoChan
			// has already filled the slot.
			if v := t.slots[i].Load(); v != nil {
				return loadResult{view: v}, nil
			}
			lctx := context.WithoutCancel(ctx)
			if t.loadTimeout > 0 {
				var cancel context.CancelFunc
				lctx, cancel = context.WithTimeout(lctx, t.loadTimeout)
				defer cancel()
			}
			v, err := t.load(lctx, route, r)
			if err != nil {
				return nil, err
			}
			t.slots[i].Store(&v)
			return loadResult{view: &v, fresh: true}, nil
		})

		select {
		case <-ctx.Done():
			return View{}, false, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return View{}, false, res.Err
			}
			lr := res.Val.(loadResult)
			return *lr.view, lr.fresh, nil
		}

	default:
		return View{}, false, fmt.Errorf("%w: route %q has unknown resolver %T", ErrInvalidRoute, route.Name, route.Resolver)
	}
}

// load runs a lazy route's loader inside a span and converts failures,
// panics included, into a *LoadError.
func (t *Table) load(ctx context.Context, route Route, r *lazyResolver) (view View, err error) {
	ctx, span := t.tracer.Start(ctx, "router.load",
		trace.WithAttributes(
			attribute.String("route.name", route.Name),
			attribute.String("route.path", route.Path),
			attribute.String("route.chunk", r.chunk),
		),
	)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("loader panicked: %v", p)
		}
		if err == nil && view.ID == "" {
			err = errors.New("loader returned a view without an ID")
		}
		if err != nil {
			err = &LoadError{Route: route.Name, Chunk: r.chunk, Err: err}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			t.logger.Warn("view load failed", "route", route.Name, "chunk", r.chunk, "error", err)
		} else {
			t.logger.Debug("view loaded", "route", route.Name, "chunk", r.chunk, "view", view.ID)
		}
		t.observer.ObserveLoad(route.Name, r.chunk, time.Since(start), err)
		span.End()
	}()

	return r.load(ctx)
}
