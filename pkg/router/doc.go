// Package router implements the portfolio's route table.
//
// A Table maps clean, history-style URL paths to page views. Each Route has
// a unique path, a unique name used for named navigation, and a Resolver:
//
//   - Eager(view) holds a view that is available immediately.
//   - Lazy(loader, WithChunk(hint)) defers to a loader that runs on the first
//     navigation to the route. The result is cached for the lifetime of the
//     table, so later navigations never load again.
//
// The table is built once and is immutable afterwards:
//
//	t, err := router.New([]router.Route{
//	    {Path: "/", Name: "Home", Resolver: router.Eager(home)},
//	    {Path: "/about", Name: "About", Resolver: router.Lazy(loadAbout, router.WithChunk("about"))},
//	}, router.WithBase("/portfolio/"))
//
//	m, err := t.Resolve(ctx, "/portfolio/about")
//	switch {
//	case errors.Is(err, router.ErrNotFound):
//	    // no route for the path
//	case errors.Is(err, router.ErrLoadFailed):
//	    // the loader failed; the next navigation tries again
//	}
//
// Paths are matched exactly after canonicalization (see routepath). There
// are no parameterised segments and no catch-all route; unknown paths are
// reported as ErrNotFound and the caller decides what to render.
package router
