package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Global attributes

func ID(id string) Attr                 { return attr("id", id) }
func Class(classes ...string) Attr      { return attr("class", strings.Join(classes, " ")) }
func Lang(lang string) Attr             { return attr("lang", lang) }
func TitleAttr(title string) Attr       { return attr("title", title) }
func Data(key, value string) Attr       { return attr("data-"+key, value) }
func Role(role string) Attr             { return attr("role", role) }
func AriaLabel(label string) Attr       { return attr("aria-label", label) }
func AriaCurrent(value string) Attr     { return attr("aria-current", value) }
func Hidden() Attr                      { return attr("hidden", true) }
func CustomAttr(key, value string) Attr { return attr(key, value) }

// Link attributes

func Href(url string) Attr      { return attr("href", url) }
func Target(target string) Attr { return attr("target", target) }
func Rel(rel string) Attr       { return attr("rel", rel) }

// Metadata attributes

func Charset(charset string) Attr { return attr("charset", charset) }
func NameAttr(name string) Attr   { return attr("name", name) }
func Content(content string) Attr { return attr("content", content) }
func Src(src string) Attr         { return attr("src", src) }
func Alt(alt string) Attr         { return attr("alt", alt) }
func Defer() Attr                 { return attr("defer", true) }
func DateTime(dt string) Attr     { return attr("datetime", dt) }
