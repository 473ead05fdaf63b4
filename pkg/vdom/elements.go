package vdom

// createElement creates a new element node from constructor arguments.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		case Component:
			node.Children = append(node.Children, &VNode{Kind: KindComponent, Comp: v})
		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// setAttr applies an attribute. Repeated class attributes accumulate.
func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "class" {
		if prev, ok := v.Props["class"].(string); ok && prev != "" {
			if next, ok := a.Value.(string); ok && next != "" {
				v.Props["class"] = prev + " " + next
				return
			}
		}
	}
	v.Props[a.Key] = a.Value
}

// Document structure elements

func Html(args ...any) *VNode  { return createElement("html", args) }
func Head(args ...any) *VNode  { return createElement("head", args) }
func Body(args ...any) *VNode  { return createElement("body", args) }
func Title(args ...any) *VNode { return createElement("title", args) }
func Meta(args ...any) *VNode  { return createElement("meta", args) }
func Link(args ...any) *VNode  { return createElement("link", args) }
func Script(args ...any) *VNode {
	return createElement("script", args)
}

// Content sectioning elements

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func Address(args ...any) *VNode { return createElement("address", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *VNode  { return createElement("div", args) }
func P(args ...any) *VNode    { return createElement("p", args) }
func Span(args ...any) *VNode { return createElement("span", args) }
func Ul(args ...any) *VNode   { return createElement("ul", args) }
func Li(args ...any) *VNode   { return createElement("li", args) }
func Dl(args ...any) *VNode   { return createElement("dl", args) }
func Dt(args ...any) *VNode   { return createElement("dt", args) }
func Dd(args ...any) *VNode   { return createElement("dd", args) }
func Hr(args ...any) *VNode   { return createElement("hr", args) }
func Img(args ...any) *VNode  { return createElement("img", args) }

// Inline text semantics

func A(args ...any) *VNode      { return createElement("a", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func Small(args ...any) *VNode  { return createElement("small", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Time_(args ...any) *VNode  { return createElement("time", args) }

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}
