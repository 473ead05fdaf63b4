package views

import (
	"context"

	"github.com/apillot/portfolio/internal/i18n"
	"github.com/apillot/portfolio/pkg/content"
	"github.com/apillot/portfolio/pkg/router"
	. "github.com/apillot/portfolio/pkg/vdom"
)

// Home returns the landing view.
func Home(site Site) router.View {
	return router.View{
		ID:    HomeID,
		Title: "NavHome",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("home"),
				H1(t.T("HomeGreeting", map[string]any{"Author": site.Author})),
				If(site.Tagline != "", P(Class("lead"), site.Tagline)),
				P(Class("actions"),
					linkTo(ctx, RouteProjects, Class("button"), t.T("HomeProjectsLink")),
					" ",
					linkTo(ctx, RouteContact, Class("button", "secondary"), t.T("HomeContactLink")),
				),
			)
		},
	}
}

func experienceView(doc content.Experience) router.View {
	return router.View{
		ID:    ExperienceID,
		Title: "ExperienceTitle",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("experience"),
				H1(t.T("ExperienceTitle")),
				Range(doc.Positions, func(p content.Position, _ int) *VNode {
					end := p.End
					if end == "" {
						end = t.T("ExperiencePresent")
					}
					return Article(Class("position"),
						H2(p.Role),
						P(Class("meta"),
							Strong(p.Company),
							If(p.Location != "", Textf(" · %s", p.Location)),
							" · ",
							Time_(DateTime(p.Start), p.Start), " – ", end,
						),
						If(p.Summary != "", P(p.Summary)),
						If(len(p.Highlights) > 0, Ul(Range(p.Highlights, func(h string, _ int) *VNode {
							return Li(h)
						}))),
					)
				}),
			)
		},
	}
}

func projectsView(doc content.Projects) router.View {
	return router.View{
		ID:    ProjectsID,
		Title: "ProjectsTitle",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("projects"),
				H1(t.T("ProjectsTitle")),
				Range(doc.Projects, func(p content.Project, _ int) *VNode {
					return Article(Class("project"), Data("status", p.Status),
						H2(p.Name),
						If(p.Description != "", P(p.Description)),
						If(len(p.Tags) > 0, Ul(Class("tags"), Range(p.Tags, func(tag string, _ int) *VNode {
							return Li(Code(tag))
						}))),
						projectLinks(ctx, t, p),
					)
				}),
			)
		},
	}
}

func projectLinks(ctx context.Context, t *i18n.Localizer, p content.Project) *VNode {
	if p.WIP() {
		return P(Class("links"),
			linkTo(ctx, RouteUnderConstruction, Class("badge"), t.T("ProjectsWIP")),
		)
	}
	return P(Class("links"),
		If(p.URL != "", A(Href(p.URL), Target("_blank"), Rel("noopener"), t.T("ProjectsVisit"))),
		If(p.URL != "" && p.Repository != "", " "),
		If(p.Repository != "", A(Href(p.Repository), Target("_blank"), Rel("noopener"), t.T("ProjectsSource"))),
	)
}

func contactView(doc content.Contact) router.View {
	return router.View{
		ID:    ContactID,
		Title: "ContactTitle",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("contact"),
				H1(t.T("ContactTitle")),
				If(doc.Message != "", P(doc.Message)),
				Address(
					If(doc.Email != "", P(
						Strong(t.T("ContactEmail")), " ",
						A(Href("mailto:"+doc.Email), doc.Email),
					)),
					If(len(doc.Links) > 0, Ul(Class("links"), Range(doc.Links, func(l content.Link, _ int) *VNode {
						return Li(A(Href(l.URL), Target("_blank"), Rel("me noopener"), l.Label))
					}))),
				),
			)
		},
	}
}

func underConstructionView() router.View {
	return router.View{
		ID:    UnderConstructionID,
		Title: "UnderConstructionTitle",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("under-construction"),
				H1(t.T("UnderConstructionTitle")),
				P(t.T("UnderConstructionBody")),
				P(linkTo(ctx, RouteHome, t.T("BackHome"))),
			)
		},
	}
}

func aboutView(doc content.About) router.View {
	return router.View{
		ID:    AboutID,
		Title: "AboutTitle",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("about"),
				H1(t.T("AboutTitle")),
				P(Class("lead"), doc.Headline),
				Range(doc.Paragraphs, func(s string, _ int) *VNode {
					return P(s)
				}),
				If(len(doc.Skills) > 0, Fragment(
					H2(t.T("AboutSkills")),
					Ul(Class("skills"), Range(doc.Skills, func(s string, _ int) *VNode {
						return Li(s)
					})),
				)),
			)
		},
	}
}

// NotFound renders the page for a path that matches no route.
func NotFound(path string) router.View {
	return router.View{
		ID:    NotFoundID,
		Title: "NotFoundTitle",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("error", "not-found"),
				H1(t.T("NotFoundTitle")),
				P(t.T("NotFoundBody", map[string]any{"Path": path})),
				P(linkTo(ctx, RouteHome, t.T("BackHome"))),
			)
		},
	}
}

// Failure renders the page shown when a view could not be loaded.
func Failure() router.View {
	return router.View{
		ID:    FailureID,
		Title: "ErrorTitle",
		Page: func(ctx context.Context) *VNode {
			t := i18n.FromContext(ctx)
			return Section(Class("error", "failure"),
				H1(t.T("ErrorTitle")),
				P(t.T("ErrorBody")),
				P(linkTo(ctx, RouteHome, t.T("BackHome"))),
			)
		},
	}
}
