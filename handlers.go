package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/apillot/portfolio/internal/dev"
	"github.com/apillot/portfolio/internal/i18n"
	"github.com/apillot/portfolio/pkg/assets"
	"github.com/apillot/portfolio/pkg/middleware"
	"github.com/apillot/portfolio/pkg/render"
	"github.com/apillot/portfolio/pkg/routepath"
	"github.com/apillot/portfolio/pkg/router"
	"github.com/apillot/portfolio/pkg/views"
)

// Endpoints below the base path.
const (
	healthPath = "healthz"
	routesPath = "api/routes"
	staticPath = "static/"
	reloadPath = "_dev/reload"
	metricsURL = "/metrics"
)

// routes builds the chi router. Everything not matched by an endpoint is a
// history-mode navigation.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(a.logger))
	r.Use(chimw.Recoverer)
	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
	}
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerProvider(a.config.TracerProvider),
		middleware.WithRequestFilter(func(req *http.Request) bool {
			return req.URL.Path != metricsURL
		}),
	))

	if a.metrics != nil {
		r.Method(http.MethodGet, metricsURL, a.metrics.Handler())
	}
	r.Get(a.base+healthPath, a.handleHealth)
	r.Get(a.base+routesPath, a.handleRoutes)
	if a.staticFS != nil {
		r.Get(a.base+staticPath+"*", a.serveStatic)
		r.Head(a.base+staticPath+"*", a.serveStatic)
	}
	if a.reload != nil {
		r.Get(a.base+reloadPath, a.reload.HandleWebSocket)
	}

	r.NotFound(a.navigate)
	r.MethodNotAllowed(a.navigate)

	return r
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte("ok\n"))
}

// RouteInfo describes one route in the api/routes listing.
type RouteInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Lazy     bool   `json:"lazy"`
	Chunk    string `json:"chunk,omitempty"`
	Resolved bool   `json:"resolved"`
}

// RouteInfos lists the live table's routes in registration order.
func (a *App) RouteInfos() []RouteInfo {
	table := a.Table()
	routes := table.Routes()
	infos := make([]RouteInfo, len(routes))
	for i, rt := range routes {
		infos[i] = RouteInfo{
			Name:     rt.Name,
			Path:     rt.Path,
			URL:      routepath.JoinBase(table.Base(), rt.Path),
			Lazy:     rt.Lazy(),
			Chunk:    rt.Chunk(),
			Resolved: table.Resolved(rt.Name),
		}
	}
	return infos
}

func (a *App) handleRoutes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(a.RouteInfos()); err != nil {
		a.logger.Error("encoding routes", "error", err)
	}
}

// navigate serves a page for a history-mode path.
func (a *App) navigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	res, err := routepath.CanonicalizeDecoded(r.URL.Path)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	// Resolve takes escaped paths; re-escaping keeps a literal "%" literal.
	escaped := (&url.URL{Path: res.Path}).EscapedPath()
	if res.Changed {
		target := escaped
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	table := a.Table()
	loc := a.bundle.Localizer(r.Header.Get("Accept-Language"))
	ctx := i18n.WithLocalizer(r.Context(), loc)
	ctx = views.WithNavigator(ctx, table)

	status := http.StatusOK
	var view router.View

	match, err := table.Resolve(ctx, escaped)
	switch {
	case err == nil:
		view = match.View
		if match.Loaded {
			a.logger.DebugContext(ctx, "view loaded on navigation", "route", match.Route.Name, "chunk", match.Route.Chunk())
		}
	case errors.Is(err, router.ErrNotFound):
		status = http.StatusNotFound
		view = views.NotFound(res.Path)
	case errors.Is(err, router.ErrLoadFailed):
		status = http.StatusServiceUnavailable
		view = views.Failure()
		w.Header().Set("Retry-After", "5")
	case errors.Is(err, router.ErrInvalidPath):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The client went away; the load keeps filling the cache.
		return
	default:
		a.logger.ErrorContext(ctx, "resolve failed", "path", res.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	a.renderView(ctx, w, r, status, res.Path, view)
}

// renderView renders a full page into a buffer first so a render failure
// can still produce a clean 500.
func (a *App) renderView(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, current string, view router.View) {
	loc := i18n.FromContext(ctx)
	site := a.site()

	title := loc.T(view.Title)
	if site.Author != "" {
		title += " · " + site.Author
	}

	page := render.PageData{
		Title:       title,
		Lang:        loc.Lang(),
		Body:        views.Layout(ctx, site, current, view.Page(ctx)),
		StyleSheets: a.styleSheets(),
	}
	if site.Tagline != "" {
		page.Meta = append(page.Meta, render.MetaTag{Name: "description", Content: site.Tagline})
	}
	if site.Author != "" {
		page.Meta = append(page.Meta, render.MetaTag{Name: "author", Content: site.Author})
	}
	if a.reload != nil {
		page.Scripts = append(page.Scripts, render.ScriptTag{Inline: dev.ClientScript(a.base + reloadPath)})
	}

	var buf bytes.Buffer
	if err := render.NewRenderer(render.RendererConfig{}).RenderPage(&buf, page); err != nil {
		a.logger.ErrorContext(ctx, "render failed", "view", view.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Language", loc.Lang())
	h.Add("Vary", "Accept-Language")
	h.Set("X-View", string(view.ID))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(buf.Bytes())
	}
}

func (a *App) styleSheets() []string {
	if a.staticFS == nil {
		return nil
	}
	var resolver assets.Resolver
	if a.config.DevMode {
		resolver = assets.NewPassthroughResolver(a.base + staticPath)
	} else {
		resolver = assets.NewResolver(a.manifest.Load(), a.base+staticPath)
	}
	out := make([]string, 0, len(a.config.Static.StyleSheets))
	for _, name := range a.config.Static.StyleSheets {
		out = append(out, resolver.Asset(name))
	}
	return out
}
