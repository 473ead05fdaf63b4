package router

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	perrors "github.com/apillot/portfolio/internal/errors"
	"github.com/apillot/portfolio/pkg/vdom"
)

// countingLoader returns a loader producing a view with the given ID and
// counts its invocations.
type countingLoader struct {
	mu    sync.Mutex
	calls int
	id    ViewID
	err   error
	gate  chan struct{}
}

func (c *countingLoader) load(ctx context.Context) (View, error) {
	c.mu.Lock()
	c.calls++
	err := c.err
	c.mu.Unlock()
	if c.gate != nil {
		<-c.gate
	}
	if err != nil {
		return View{}, err
	}
	return View{ID: c.id, Title: string(c.id), Page: func(context.Context) *vdom.VNode {
		return vdom.H1(string(c.id))
	}}, nil
}

func (c *countingLoader) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type portfolioFixture struct {
	loaders map[string]*countingLoader
	routes  []Route
}

func newPortfolioFixture() *portfolioFixture {
	f := &portfolioFixture{loaders: map[string]*countingLoader{}}
	lazy := func(name, chunk string) Resolver {
		l := &countingLoader{id: ViewID(name)}
		f.loaders[name] = l
		return Lazy(l.load, WithChunk(chunk))
	}
	f.routes = []Route{
		{Path: "/", Name: "Home", Resolver: Eager(View{ID: "Home", Title: "Home"})},
		{Path: "/experience", Name: "Experience", Resolver: lazy("Experience", "experience")},
		{Path: "/projects", Name: "Projects", Resolver: lazy("Projects", "projects")},
		{Path: "/contact", Name: "Contact", Resolver: lazy("Contact", "contact")},
		{Path: "/under-construction", Name: "UnderConstruction", Resolver: lazy("UnderConstruction", "under-construction")},
		{Path: "/about", Name: "About", Resolver: lazy("About", "about")},
	}
	return f
}

func TestResolveAllRegisteredPaths(t *testing.T) {
	f := newPortfolioFixture()
	table := MustNew(f.routes)

	want := map[string]ViewID{
		"/":                   "Home",
		"/experience":         "Experience",
		"/projects":           "Projects",
		"/contact":            "Contact",
		"/about":              "About",
		"/under-construction": "UnderConstruction",
	}
	for path, id := range want {
		m, err := table.Resolve(context.Background(), path)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", path, err)
			continue
		}
		if m.View.ID != id {
			t.Errorf("Resolve(%q) view = %q, want %q", path, m.View.ID, id)
		}
	}
}

func TestResolveHomeIsEager(t *testing.T) {
	table := MustNew(newPortfolioFixture().routes)

	m, err := table.Resolve(context.Background(), "/")
	if err != nil {
		t.Fatal(err)
	}
	if m.View.ID != "Home" {
		t.Errorf("view = %q, want Home", m.View.ID)
	}
	if m.Loaded {
		t.Error("eager route should not suspend")
	}
	if m.Route.Lazy() || m.Route.Resolver.Kind() != KindEager {
		t.Error("Home should be an eager route")
	}
}

func TestResolveAboutIsLazyWithChunk(t *testing.T) {
	f := newPortfolioFixture()
	table := MustNew(f.routes)

	if table.Resolved("About") {
		t.Fatal("About should not be resolved before first navigation")
	}

	m, err := table.Resolve(context.Background(), "/about")
	if err != nil {
		t.Fatal(err)
	}
	if !m.Loaded {
		t.Error("first navigation to a lazy route should suspend")
	}
	if m.View.ID != "About" {
		t.Errorf("view = %q, want About", m.View.ID)
	}
	if m.Route.Chunk() != "about" {
		t.Errorf("chunk = %q, want about", m.Route.Chunk())
	}
	if !table.Resolved("About") {
		t.Error("About should be resolved after first navigation")
	}
}

func TestResolveLazyIsIdempotent(t *testing.T) {
	f := newPortfolioFixture()
	table := MustNew(f.routes)

	first, err := table.Resolve(context.Background(), "/projects")
	if err != nil {
		t.Fatal(err)
	}
	second, err := table.Resolve(context.Background(), "/projects")
	if err != nil {
		t.Fatal(err)
	}

	if first.View.ID != second.View.ID {
		t.Errorf("views differ: %q vs %q", first.View.ID, second.View.ID)
	}
	if second.Loaded {
		t.Error("second navigation should hit the cache")
	}
	if got := f.loaders["Projects"].Calls(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestResolveConcurrentFirstNavigationLoadsOnce(t *testing.T) {
	f := newPortfolioFixture()
	gate := make(chan struct{})
	f.loaders["Contact"].gate = gate
	table := MustNew(f.routes)

	const n = 16
	var wg sync.WaitGroup
	results := make([]*Match, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = table.Resolve(context.Background(), "/contact")
		}(i)
	}

	// Let the goroutines pile up on the in-flight load.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if results[i].View.ID != "Contact" {
			t.Errorf("goroutine %d: view = %q", i, results[i].View.ID)
		}
	}
	if got := f.loaders["Contact"].Calls(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestResolveNotFound(t *testing.T) {
	table := MustNew(newPortfolioFixture().routes)

	for _, path := range []string{"/does-not-exist", "/about/team", "/About"} {
		_, err := table.Resolve(context.Background(), path)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", path, err)
		}
	}
}

func TestResolveCanonicalizes(t *testing.T) {
	table := MustNew(newPortfolioFixture().routes)

	for _, path := range []string{"/about/", "//about", "/contact/../about", "/about?ref=home"} {
		m, err := table.Resolve(context.Background(), path)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", path, err)
			continue
		}
		if m.View.ID != "About" {
			t.Errorf("Resolve(%q) = %q, want About", path, m.View.ID)
		}
	}
}

func TestResolveInvalidPath(t *testing.T) {
	table := MustNew(newPortfolioFixture().routes)

	_, err := table.Resolve(context.Background(), "/../secret")
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("error = %v, want ErrInvalidPath", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("invalid path should not be reported as not found")
	}
}

func TestResolveWithBase(t *testing.T) {
	table := MustNew(newPortfolioFixture().routes, WithBase("/portfolio"))

	if table.Base() != "/portfolio/" {
		t.Errorf("Base() = %q", table.Base())
	}

	m, err := table.Resolve(context.Background(), "/portfolio/about")
	if err != nil || m.View.ID != "About" {
		t.Errorf("Resolve under base = %v, %v", m, err)
	}

	m, err = table.Resolve(context.Background(), "/portfolio/")
	if err != nil || m.View.ID != "Home" {
		t.Errorf("Resolve base root = %v, %v", m, err)
	}

	if _, err := table.Resolve(context.Background(), "/about"); !errors.Is(err, ErrNotFound) {
		t.Errorf("path outside base: error = %v, want ErrNotFound", err)
	}

	url, err := table.URL("Contact")
	if err != nil || url != "/portfolio/contact" {
		t.Errorf("URL(Contact) = %q, %v", url, err)
	}
	url, _ = table.URL("Home")
	if url != "/portfolio" {
		t.Errorf("URL(Home) = %q", url)
	}
}

func TestLoadFailureIsNotCached(t *testing.T) {
	f := newPortfolioFixture()
	loader := f.loaders["Experience"]
	loader.err = errors.New("content unavailable")
	table := MustNew(f.routes)

	_, err := table.Resolve(context.Background(), "/experience")
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("error = %v, want ErrLoadFailed", err)
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("error %T is not a *LoadError", err)
	}
	if le.Route != "Experience" || le.Chunk != "experience" {
		t.Errorf("LoadError = %+v", le)
	}
	if le.Unwrap().Error() != "content unavailable" {
		t.Errorf("cause = %v", le.Unwrap())
	}
	if table.Resolved("Experience") {
		t.Error("failed load must not fill the cache")
	}

	loader.mu.Lock()
	loader.err = nil
	loader.mu.Unlock()

	m, err := table.Resolve(context.Background(), "/experience")
	if err != nil {
		t.Fatalf("second navigation error = %v", err)
	}
	if !m.Loaded || m.View.ID != "Experience" {
		t.Errorf("second navigation = %+v", m)
	}
	if got := loader.Calls(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
}

func TestLoaderPanicBecomesLoadError(t *testing.T) {
	table := MustNew([]Route{
		{Path: "/boom", Name: "Boom", Resolver: Lazy(func(context.Context) (View, error) {
			panic("template missing")
		})},
	})

	_, err := table.Resolve(context.Background(), "/boom")
	if !errors.Is(err, ErrLoadFailed) {
		t.Errorf("error = %v, want ErrLoadFailed", err)
	}
}

func TestLoaderWithoutViewID(t *testing.T) {
	table := MustNew([]Route{
		{Path: "/blank", Name: "Blank", Resolver: Lazy(func(context.Context) (View, error) {
			return View{}, nil
		})},
	})

	if _, err := table.Resolve(context.Background(), "/blank"); !errors.Is(err, ErrLoadFailed) {
		t.Errorf("error = %v, want ErrLoadFailed", err)
	}
}

func TestResolveContextCanceledWhileWaiting(t *testing.T) {
	f := newPortfolioFixture()
	gate := make(chan struct{})
	f.loaders["About"].gate = gate
	table := MustNew(f.routes)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := table.Resolve(ctx, "/about")
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	// The detached load finishes and fills the cache.
	close(gate)
	deadline := time.Now().Add(2 * time.Second)
	for !table.Resolved("About") {
		if time.Now().After(deadline) {
			t.Fatal("load did not complete after cancellation")
		}
		time.Sleep(time.Millisecond)
	}

	m, err := table.Resolve(context.Background(), "/about")
	if err != nil || m.Loaded {
		t.Errorf("after detached load: %+v, %v", m, err)
	}
	if got := f.loaders["About"].Calls(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	home := Eager(View{ID: "Home"})
	about := Eager(View{ID: "About"})

	_, err := New([]Route{
		{Path: "/", Name: "Home", Resolver: home},
		{Path: "/", Name: "Index", Resolver: home},
	})
	if !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("duplicate path: error = %v", err)
	}
	if perrors.CodeOf(err) != "R001" {
		t.Errorf("duplicate path code = %q, want R001", perrors.CodeOf(err))
	}

	_, err = New([]Route{
		{Path: "/about", Name: "About", Resolver: about},
		{Path: "/about-me", Name: "About", Resolver: about},
	})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate name: error = %v", err)
	}
}

func TestNewReportsAllProblems(t *testing.T) {
	_, err := New([]Route{
		{Path: "/", Name: "Home", Resolver: Eager(View{ID: "Home"})},
		{Path: "/", Name: "Home", Resolver: Eager(View{ID: "Home"})},
		{Path: "about", Name: "About", Resolver: Eager(View{ID: "About"})},
	}, WithBase("relative/"))

	for _, want := range []error{ErrDuplicatePath, ErrDuplicateName, ErrInvalidRoute, ErrInvalidBase} {
		if !errors.Is(err, want) {
			t.Errorf("error does not include %v: %v", want, err)
		}
	}
}

func TestNewRejectsInvalidRoutes(t *testing.T) {
	tests := []struct {
		name  string
		route Route
	}{
		{name: "missing name", route: Route{Path: "/x", Resolver: Eager(View{ID: "X"})}},
		{name: "relative path", route: Route{Path: "x", Name: "X", Resolver: Eager(View{ID: "X"})}},
		{name: "trailing slash", route: Route{Path: "/x/", Name: "X", Resolver: Eager(View{ID: "X"})}},
		{name: "query in path", route: Route{Path: "/x?y=1", Name: "X", Resolver: Eager(View{ID: "X"})}},
		{name: "no resolver", route: Route{Path: "/x", Name: "X"}},
		{name: "eager without id", route: Route{Path: "/x", Name: "X", Resolver: Eager(View{})}},
		{name: "lazy without loader", route: Route{Path: "/x", Name: "X", Resolver: Lazy(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]Route{tt.route})
			if !errors.Is(err, ErrInvalidRoute) {
				t.Errorf("error = %v, want ErrInvalidRoute", err)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew should panic on an invalid table")
		}
	}()
	MustNew([]Route{{Path: "/", Name: ""}})
}

func TestRoutesAndLookup(t *testing.T) {
	f := newPortfolioFixture()
	table := MustNew(f.routes)

	type row struct {
		Path, Name, Kind, Chunk string
	}
	var got []row
	for _, r := range table.Routes() {
		got = append(got, row{r.Path, r.Name, r.Resolver.Kind().String(), r.Chunk()})
	}
	want := []row{
		{"/", "Home", "eager", ""},
		{"/experience", "Experience", "lazy", "experience"},
		{"/projects", "Projects", "lazy", "projects"},
		{"/contact", "Contact", "lazy", "contact"},
		{"/under-construction", "UnderConstruction", "lazy", "under-construction"},
		{"/about", "About", "lazy", "about"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}

	r, ok := table.Lookup("/contact/")
	if !ok || r.Name != "Contact" {
		t.Errorf("Lookup(/contact/) = %+v, %v", r, ok)
	}
	if _, ok := table.Lookup("/nope"); ok {
		t.Error("Lookup(/nope) should fail")
	}
	if f.loaders["Contact"].Calls() != 0 {
		t.Error("Lookup must not trigger a load")
	}

	if _, ok := table.ByName("About"); !ok {
		t.Error("ByName(About) should succeed")
	}
	if _, err := table.URL("Missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("URL(Missing) error = %v", err)
	}
	if table.Resolved("Missing") {
		t.Error("unknown route should not report resolved")
	}
	if !table.Resolved("Home") {
		t.Error("eager route should always report resolved")
	}
}

func TestPreload(t *testing.T) {
	f := newPortfolioFixture()
	f.loaders["Projects"].err = errors.New("bucket offline")
	table := MustNew(f.routes)

	err := table.Preload(context.Background())
	var le *LoadError
	if !errors.As(err, &le) || le.Route != "Projects" {
		t.Fatalf("Preload error = %v, want LoadError for Projects", err)
	}
	for _, name := range []string{"Experience", "Contact", "About", "UnderConstruction"} {
		if !table.Resolved(name) {
			t.Errorf("%s should be resolved after Preload", name)
		}
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	resolves []string
	loads    []string
}

func (o *recordingObserver) ObserveResolve(route string, loaded bool, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "err"
	}
	if loaded {
		status += "+loaded"
	}
	o.resolves = append(o.resolves, route+":"+status)
}

func (o *recordingObserver) ObserveLoad(route, chunk string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads = append(o.loads, route+"/"+chunk)
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	table := MustNew(newPortfolioFixture().routes, WithObserver(obs))
	ctx := context.Background()

	table.Resolve(ctx, "/")
	table.Resolve(ctx, "/about")
	table.Resolve(ctx, "/about")
	table.Resolve(ctx, "/missing")

	wantResolves := []string{"Home:ok", "About:ok+loaded", "About:ok", ":err"}
	if diff := cmp.Diff(wantResolves, obs.resolves); diff != "" {
		t.Errorf("resolves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"About/about"}, obs.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverKindString(t *testing.T) {
	if KindEager.String() != "eager" || KindLazy.String() != "lazy" || ResolverKind(9).String() != "unknown" {
		t.Error("unexpected ResolverKind strings")
	}
}

func TestLoadTimeout(t *testing.T) {
	var (
		mu   sync.Mutex
		hang = true
	)
	table := MustNew([]Route{
		{Path: "/slow", Name: "Slow", Resolver: Lazy(func(ctx context.Context) (View, error) {
			mu.Lock()
			h := hang
			mu.Unlock()
			if h {
				<-ctx.Done()
				return View{}, ctx.Err()
			}
			return View{ID: "Slow"}, nil
		})},
	}, WithLoadTimeout(20*time.Millisecond))

	_, err := table.Resolve(context.Background(), "/slow")
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("error = %v, want ErrLoadFailed", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want it to wrap context.DeadlineExceeded", err)
	}
	if table.Resolved("Slow") {
		t.Error("timed out load must not fill the cache")
	}

	mu.Lock()
	hang = false
	mu.Unlock()

	m, err := table.Resolve(context.Background(), "/slow")
	if err != nil || m.View.ID != "Slow" {
		t.Errorf("retry = %+v, %v", m, err)
	}
}

func TestDefaultLoadTimeout(t *testing.T) {
	var deadline time.Time
	table := MustNew([]Route{
		{Path: "/", Name: "Home", Resolver: Lazy(func(ctx context.Context) (View, error) {
			deadline, _ = ctx.Deadline()
			return View{ID: "Home"}, nil
		})},
	})

	start := time.Now()
	if _, err := table.Resolve(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if deadline.IsZero() || deadline.Sub(start) > DefaultLoadTimeout {
		t.Errorf("load deadline = %v, want within %v of %v", deadline, DefaultLoadTimeout, start)
	}
}
