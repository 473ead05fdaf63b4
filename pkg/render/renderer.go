package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/apillot/portfolio/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Development only.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string
}

// Renderer writes VNode trees as HTML. It holds no per-render state and is
// safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	ew := &errWriter{w: w}
	r.renderNode(ew, node, 0)
	return ew.err
}

// errWriter remembers the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) WriteString(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (ew *errWriter) fail(err error) {
	if ew.err == nil {
		ew.err = err
	}
}

func (r *Renderer) renderNode(w *errWriter, node *vdom.VNode, depth int) {
	if node == nil || w.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindElement:
		r.renderElement(w, node, depth)
	case vdom.KindText:
		w.WriteString(escapeHTML(node.Text))
	case vdom.KindFragment:
		for _, child := range node.Children {
			r.renderNode(w, child, depth)
		}
	case vdom.KindComponent:
		if node.Comp != nil {
			r.renderNode(w, node.Comp.Render(), depth)
		}
	case vdom.KindRaw:
		w.WriteString(node.Text)
	default:
		w.fail(fmt.Errorf("unknown node kind: %d", node.Kind))
	}
}

func (r *Renderer) renderElement(w *errWriter, node *vdom.VNode, depth int) {
	tag := node.Tag
	if tag == "" {
		w.fail(fmt.Errorf("element without tag"))
		return
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.WriteString("<")
	w.WriteString(tag)
	r.renderAttributes(w, node)
	w.WriteString(">")

	if vdom.IsVoidElement(tag) {
		if r.config.Pretty {
			w.WriteString("\n")
		}
		return
	}

	block := r.config.Pretty && len(node.Children) > 0 && !isInlineElement(tag)
	if block {
		w.WriteString("\n")
	}
	for _, child := range node.Children {
		r.renderNode(w, child, depth+1)
	}
	if block {
		r.writeIndent(w, depth)
	}

	w.WriteString("</")
	w.WriteString(tag)
	w.WriteString(">")
	if r.config.Pretty {
		w.WriteString("\n")
	}
}

// renderAttributes writes attributes in sorted order for deterministic
// output.
func (r *Renderer) renderAttributes(w *errWriter, node *vdom.VNode) {
	if len(node.Props) == 0 {
		return
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		if isBooleanAttr(key) {
			if b, ok := value.(bool); ok {
				if b {
					w.WriteString(" ")
					w.WriteString(key)
				}
				continue
			}
		}

		s := attrToString(value)
		if s == "" && key != "alt" {
			continue
		}
		w.WriteString(" ")
		w.WriteString(key)
		w.WriteString(`="`)
		w.WriteString(escapeAttr(s))
		w.WriteString(`"`)
	}
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (r *Renderer) writeIndent(w *errWriter, depth int) {
	w.WriteString(strings.Repeat(r.config.Indent, depth))
}
