package views

import (
	"context"

	"github.com/apillot/portfolio/pkg/vdom"
)

// Navigator resolves named routes to links. *router.Table implements it.
type Navigator interface {
	URL(name string) (string, error)
	NavLink(name, current string, children ...any) *vdom.VNode
}

type navigatorKey struct{}

// WithNavigator returns a context carrying nav for page rendering.
func WithNavigator(ctx context.Context, nav Navigator) context.Context {
	return context.WithValue(ctx, navigatorKey{}, nav)
}

func navigatorFrom(ctx context.Context) Navigator {
	nav, _ := ctx.Value(navigatorKey{}).(Navigator)
	return nav
}

// linkTo renders an anchor to a named route. Without a navigator, or for an
// unknown name, the children render as plain text.
func linkTo(ctx context.Context, name string, args ...any) *vdom.VNode {
	if nav := navigatorFrom(ctx); nav != nil {
		if href, err := nav.URL(name); err == nil {
			return vdom.A(append([]any{vdom.Href(href)}, args...)...)
		}
	}
	return vdom.Span(args...)
}
