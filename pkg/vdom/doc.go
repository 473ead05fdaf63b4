// Package vdom builds the virtual DOM trees that portfolio pages render
// from.
//
// Element constructors take a variadic list whose entries may be attributes
// (Attr, []Attr), children (*VNode, []*VNode, Component) or plain strings,
// which become text nodes. Nil entries are skipped so attributes and
// children can be conditional:
//
//	Nav(Class("site-nav"),
//	    A(Href("/"), If(active, Class("active")), "Home"),
//	)
package vdom
