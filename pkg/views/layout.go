package views

import (
	"context"
	"time"

	"github.com/apillot/portfolio/internal/i18n"
	. "github.com/apillot/portfolio/pkg/vdom"
)

// Layout wraps a page body in the site chrome: the header navigation with
// the current route highlighted, the main content and the footer.
func Layout(ctx context.Context, site Site, current string, body *VNode) *VNode {
	t := i18n.FromContext(ctx)
	nav := navigatorFrom(ctx)

	var links []*VNode
	if nav != nil {
		for _, name := range NavRoutes {
			if link := nav.NavLink(name, current, t.T("Nav"+name)); link != nil {
				links = append(links, Li(link))
			}
		}
	}

	return Fragment(
		Header(Class("site-header"),
			linkTo(ctx, RouteHome, Class("brand"), site.Author),
			If(len(links) > 0, Nav(AriaLabel("main"), Ul(links))),
		),
		Main(ID("content"), body),
		Footer(Class("site-footer"),
			Small(t.T("FooterCredit", map[string]any{
				"Year":   time.Now().Year(),
				"Author": site.Author,
			})),
		),
	)
}
