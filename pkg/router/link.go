package router

import (
	"strings"

	"github.com/apillot/portfolio/pkg/routepath"
	"github.com/apillot/portfolio/pkg/vdom"
)

// Class names applied by NavLink.
const (
	ActiveClass      = "active"
	ExactActiveClass = "exact-active"
)

// IsActive reports whether target should be highlighted while current is
// displayed. With exact set the canonical paths must be equal. Otherwise
// target also matches any path below it, segment-wise, and the root only
// matches itself.
func IsActive(current, target string, exact bool) bool {
	cur, err := routepath.CanonicalizePath(current)
	if err != nil {
		return false
	}
	tgt, err := routepath.CanonicalizePath(target)
	if err != nil {
		return false
	}
	if cur.Path == tgt.Path {
		return true
	}
	if exact || tgt.Path == "/" {
		return false
	}
	return strings.HasPrefix(cur.Path, tgt.Path+"/")
}

// NavLink renders an anchor to the named route. The link gets ActiveClass
// when current is at or below the route, ExactActiveClass and
// aria-current="page" when current is the route itself. Unknown names
// render nothing.
func (t *Table) NavLink(name, current string, children ...any) *vdom.VNode {
	route, ok := t.ByName(name)
	if !ok {
		return nil
	}

	// Compare below the base so the root route keeps its root-only rule.
	rel, under := t.relative(current)
	args := []any{
		vdom.Href(routepath.JoinBase(t.base, route.Path)),
		vdom.Data("route", name),
		vdom.If(under && IsActive(rel, route.Path, false), vdom.Class(ActiveClass)),
	}
	if under && IsActive(rel, route.Path, true) {
		args = append(args, vdom.Class(ExactActiveClass), vdom.AriaCurrent("page"))
	}
	args = append(args, children...)
	return vdom.A(args...)
}

// relative maps a request path to a route path below the table's base.
func (t *Table) relative(current string) (string, bool) {
	res, err := routepath.CanonicalizePath(current)
	if err != nil {
		return "", false
	}
	return routepath.StripBase(res.Path, t.base)
}
