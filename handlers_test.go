package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/apillot/portfolio/pkg/content"
)

func get(t *testing.T, app *App, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestNavigation(t *testing.T) {
	app := newTestApp(t, Config{})

	tests := []struct {
		path     string
		status   int
		view     string
		contains string
	}{
		{path: "/", status: http.StatusOK, view: "home", contains: "Hi, I&#39;m Anthony PILLOT"},
		{path: "/experience", status: http.StatusOK, view: "experience"},
		{path: "/projects", status: http.StatusOK, view: "projects"},
		{path: "/contact", status: http.StatusOK, view: "contact"},
		{path: "/under-construction", status: http.StatusOK, view: "under-construction"},
		{path: "/about", status: http.StatusOK, view: "about"},
		{path: "/does-not-exist", status: http.StatusNotFound, view: "not-found", contains: "There is nothing at /does-not-exist."},
		{path: "/About", status: http.StatusNotFound, view: "not-found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, app, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("X-View"); got != tt.view {
				t.Errorf("X-View = %q, want %q", got, tt.view)
			}
			body := rec.Body.String()
			if !strings.HasPrefix(body, "<!DOCTYPE html>") {
				t.Errorf("not a full document:\n%s", body)
			}
			if tt.contains != "" && !strings.Contains(body, tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, body)
			}
			if !strings.Contains(body, "Anthony PILLOT") {
				t.Error("author missing from the page")
			}
		})
	}
}

func TestNavigationCanonicalRedirect(t *testing.T) {
	app := newTestApp(t, Config{})

	for in, want := range map[string]string{
		"/about/":                 "/about",
		"//about":                 "/about",
		"/projects/../contact":    "/contact",
		"/about/?lang=fr":         "/about?lang=fr",
		"/experience/./":          "/experience",
		"/under-construction//":   "/under-construction",
		"/does-not-exist/":        "/does-not-exist",
		"/x/..//./projects?a=b&c": "/projects?a=b&c",
	} {
		rec := get(t, app, in, nil)
		if rec.Code != http.StatusPermanentRedirect {
			t.Errorf("%s: status = %d, want 308", in, rec.Code)
			continue
		}
		if got := rec.Header().Get("Location"); got != want {
			t.Errorf("%s: Location = %q, want %q", in, got, want)
		}
	}
}

func TestNavigationInvalidPath(t *testing.T) {
	app := newTestApp(t, Config{})

	for _, target := range []string{"/a%5Cb", "/..", "/%00"} {
		rec := get(t, app, target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestNavigationEscapedPercent(t *testing.T) {
	app := newTestApp(t, Config{})

	// An escaped "%" is a literal character in the path, never an escape.
	for _, target := range []string{"/x%2525zz", "/x%25zz", "/100%25", "/about%3Fq"} {
		rec := get(t, app, target, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, rec.Code)
		}
	}

	rec := get(t, app, "/x%25zz/", nil)
	if rec.Code != http.StatusPermanentRedirect || rec.Header().Get("Location") != "/x%25zz" {
		t.Errorf("redirect = %d %q, want 308 to /x%%25zz", rec.Code, rec.Header().Get("Location"))
	}
}

func TestNavigationMethodNotAllowed(t *testing.T) {
	app := newTestApp(t, Config{})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/about", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != "GET, HEAD" {
		t.Errorf("Allow = %q", rec.Header().Get("Allow"))
	}
}

func TestNavigationHead(t *testing.T) {
	app := newTestApp(t, Config{})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/about", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD: status %d, %d body bytes", rec.Code, rec.Body.Len())
	}
}

func TestNavigationLoadFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	src := content.SourceFunc(func(ctx context.Context, key string) ([]byte, error) {
		if fail.Load() {
			return nil, errors.New("bucket unreachable")
		}
		return content.Defaults().Open(ctx, key)
	})
	app := newTestApp(t, Config{Content: src})

	rec := get(t, app, "/about", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("X-View") != "failure" || rec.Header().Get("Retry-After") == "" {
		t.Errorf("headers = %v", rec.Header())
	}
	if !strings.Contains(rec.Body.String(), "Something went wrong") {
		t.Errorf("failure page:\n%s", rec.Body.String())
	}

	// Failures are not cached: the next navigation loads again.
	fail.Store(false)
	rec = get(t, app, "/about", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("retry status = %d, want 200", rec.Code)
	}
}

func TestNavigationBasePath(t *testing.T) {
	app := newTestApp(t, Config{BasePath: "/portfolio/"})

	if rec := get(t, app, "/portfolio/about", nil); rec.Code != http.StatusOK {
		t.Errorf("/portfolio/about: status = %d", rec.Code)
	}
	if rec := get(t, app, "/portfolio", nil); rec.Code != http.StatusOK || rec.Header().Get("X-View") != "home" {
		t.Errorf("/portfolio: status = %d view = %q", rec.Code, rec.Header().Get("X-View"))
	}
	if rec := get(t, app, "/about", nil); rec.Code != http.StatusNotFound {
		t.Errorf("/about outside the base: status = %d, want 404", rec.Code)
	}

	body := get(t, app, "/portfolio/about", nil).Body.String()
	if !strings.Contains(body, `href="/portfolio/projects"`) {
		t.Errorf("navigation links should include the base:\n%s", body)
	}
	if !strings.Contains(body, `<a data-route="Home" href="/portfolio">`) {
		t.Errorf("home link should be canonical and inactive on /portfolio/about:\n%s", body)
	}
	if strings.Contains(body, `class="active" data-route="Home"`) {
		t.Errorf("home link marked active below the base root:\n%s", body)
	}

	// The links a page emits are served directly, without a redirect.
	for _, info := range app.RouteInfos() {
		if rec := get(t, app, info.URL, nil); rec.Code != http.StatusOK {
			t.Errorf("%s link %s: status = %d, want 200", info.Name, info.URL, rec.Code)
		}
	}

	home := get(t, app, "/portfolio", nil).Body.String()
	if !strings.Contains(home, `<a aria-current="page" class="active exact-active" data-route="Home" href="/portfolio">`) {
		t.Errorf("home link should be active on the base root:\n%s", home)
	}
}

func TestNavigationLocalised(t *testing.T) {
	app := newTestApp(t, Config{})

	rec := get(t, app, "/about", http.Header{"Accept-Language": {"fr-FR,fr;q=0.9"}})
	if rec.Header().Get("Content-Language") != "fr" {
		t.Errorf("Content-Language = %q", rec.Header().Get("Content-Language"))
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<html lang="fr">`) || !strings.Contains(body, "À propos") {
		t.Errorf("french page:\n%s", body)
	}
	if !strings.Contains(rec.Header().Get("Vary"), "Accept-Language") {
		t.Error("Vary must include Accept-Language")
	}

	app = newTestApp(t, Config{Lang: "fr"})
	if got := get(t, app, "/", nil).Header().Get("Content-Language"); got != "fr" {
		t.Errorf("configured fallback: Content-Language = %q", got)
	}
}

func TestAPIRoutes(t *testing.T) {
	app := newTestApp(t, Config{BasePath: "/portfolio/"})

	get(t, app, "/portfolio/about", nil)

	rec := get(t, app, "/portfolio/api/routes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []RouteInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []RouteInfo{
		{Name: "Home", Path: "/", URL: "/portfolio", Resolved: true},
		{Name: "Experience", Path: "/experience", URL: "/portfolio/experience", Lazy: true, Chunk: "experience"},
		{Name: "Projects", Path: "/projects", URL: "/portfolio/projects", Lazy: true, Chunk: "projects"},
		{Name: "Contact", Path: "/contact", URL: "/portfolio/contact", Lazy: true, Chunk: "contact"},
		{Name: "UnderConstruction", Path: "/under-construction", URL: "/portfolio/under-construction", Lazy: true, Chunk: "under-construction"},
		{Name: "About", Path: "/about", URL: "/portfolio/about", Lazy: true, Chunk: "about", Resolved: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("routes (-want +got):\n%s", diff)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, Config{})
	rec := get(t, app, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, Config{Metrics: MetricsConfig{Enabled: true}})

	get(t, app, "/about", nil)
	get(t, app, "/nope", nil)

	rec := get(t, app, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`portfolio_navigations_total{route="About",status="loaded"} 1`,
		`portfolio_navigations_total{route="none",status="not_found"} 1`,
		`portfolio_lazy_loads_total{chunk="about",result="success"} 1`,
		`portfolio_http_requests_total{code="200",method="get"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}

	disabled := newTestApp(t, Config{})
	if rec := get(t, disabled, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rec.Code)
	}
}

func TestDevModeInjectsReloadScript(t *testing.T) {
	app := newTestApp(t, Config{DevMode: true, BasePath: "/portfolio/"})
	body := get(t, app, "/portfolio", nil).Body.String()
	if !strings.Contains(body, `"/portfolio/_dev/reload"`) {
		t.Errorf("reload script missing:\n%s", body)
	}
	if app.Reload() == nil {
		t.Error("Reload() = nil in dev mode")
	}

	prod := newTestApp(t, Config{})
	if strings.Contains(get(t, prod, "/", nil).Body.String(), "_dev/reload") {
		t.Error("reload script outside dev mode")
	}
}
