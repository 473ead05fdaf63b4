package views

import (
	"context"

	"github.com/apillot/portfolio/pkg/content"
	"github.com/apillot/portfolio/pkg/router"
)

// Route names.
const (
	RouteHome              = "Home"
	RouteExperience        = "Experience"
	RouteProjects          = "Projects"
	RouteContact           = "Contact"
	RouteUnderConstruction = "UnderConstruction"
	RouteAbout             = "About"
)

// View IDs.
const (
	HomeID              router.ViewID = "home"
	ExperienceID        router.ViewID = "experience"
	ProjectsID          router.ViewID = "projects"
	ContactID           router.ViewID = "contact"
	UnderConstructionID router.ViewID = "under-construction"
	AboutID             router.ViewID = "about"
	NotFoundID          router.ViewID = "not-found"
	FailureID           router.ViewID = "failure"
)

// NavRoutes lists the routes shown in the header navigation, in order.
var NavRoutes = []string{RouteHome, RouteExperience, RouteProjects, RouteContact, RouteAbout}

// Site holds the data shared by every page.
type Site struct {
	Author  string
	Tagline string
}

// Routes returns the route table definition. Lazy views decode their
// documents from src.
func Routes(site Site, src content.Source) []router.Route {
	return []router.Route{
		{
			Path:     "/",
			Name:     RouteHome,
			Resolver: router.Eager(Home(site)),
		},
		{
			Path:     "/experience",
			Name:     RouteExperience,
			Resolver: router.Lazy(loadDocument(src, content.KeyExperience, experienceView), router.WithChunk("experience")),
		},
		{
			Path:     "/projects",
			Name:     RouteProjects,
			Resolver: router.Lazy(loadDocument(src, content.KeyProjects, projectsView), router.WithChunk("projects")),
		},
		{
			Path:     "/contact",
			Name:     RouteContact,
			Resolver: router.Lazy(loadDocument(src, content.KeyContact, contactView), router.WithChunk("contact")),
		},
		{
			Path:     "/under-construction",
			Name:     RouteUnderConstruction,
			Resolver: router.Lazy(loadUnderConstruction, router.WithChunk("under-construction")),
		},
		{
			Path:     "/about",
			Name:     RouteAbout,
			Resolver: router.Lazy(loadDocument(src, content.KeyAbout, aboutView), router.WithChunk("about")),
		},
	}
}

func loadDocument[T any](src content.Source, key string, build func(T) router.View) router.LoaderFunc {
	return func(ctx context.Context) (router.View, error) {
		doc, err := content.Decode[T](ctx, src, key)
		if err != nil {
			return router.View{}, err
		}
		return build(doc), nil
	}
}

func loadUnderConstruction(context.Context) (router.View, error) {
	return underConstructionView(), nil
}
