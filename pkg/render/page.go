package render

import (
	"io"

	"github.com/apillot/portfolio/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en".
	Lang string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains script tags appended to the body.
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Defer  bool
	Inline string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, vdom.Html(vdom.Lang(lang),
		r.head(page),
		vdom.Body(page.Body, scripts(page.Scripts)),
	))
}

func (r *Renderer) head(page PageData) *vdom.VNode {
	children := []*vdom.VNode{
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.NameAttr("viewport"), vdom.Content("width=device-width, initial-scale=1")),
		vdom.Title(page.Title),
	}
	for _, m := range page.Meta {
		if m.Property != "" {
			children = append(children, vdom.Meta(vdom.CustomAttr("property", m.Property), vdom.Content(m.Content)))
			continue
		}
		children = append(children, vdom.Meta(vdom.NameAttr(m.Name), vdom.Content(m.Content)))
	}
	for _, href := range page.StyleSheets {
		children = append(children, vdom.Link(vdom.Rel("stylesheet"), vdom.Href(href)))
	}
	return vdom.Head(children)
}

func scripts(tags []ScriptTag) []*vdom.VNode {
	nodes := make([]*vdom.VNode, 0, len(tags))
	for _, s := range tags {
		if s.Inline != "" {
			nodes = append(nodes, vdom.Script(vdom.Raw(s.Inline)))
			continue
		}
		nodes = append(nodes, vdom.Script(vdom.Src(s.Src), vdom.If(s.Defer, vdom.Defer())))
	}
	return nodes
}
