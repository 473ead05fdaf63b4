package render

// inlineElements don't get newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":      true,
	"b":      true,
	"code":   true,
	"em":     true,
	"i":      true,
	"small":  true,
	"span":   true,
	"strong": true,
	"time":   true,
	"title":  true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs render as a bare attribute name when true and are omitted
// when false.
var booleanAttrs = map[string]bool{
	"async":    true,
	"defer":    true,
	"hidden":   true,
	"nomodule": true,
	"open":     true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
