// Package render serialises vdom trees to HTML.
//
// Renderer writes a node tree with escaping, void elements and boolean
// attributes handled. RenderPage wraps a body in a complete document:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	err := r.RenderPage(w, render.PageData{
//	    Title: "About · Anthony PILLOT",
//	    Lang:  "fr",
//	    Body:  body,
//	})
package render
