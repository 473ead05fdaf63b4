package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node. Only use it for trusted markup.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, child := range children {
		switch v := child.(type) {
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, &VNode{Kind: KindComponent, Comp: v})
		}
	}
	return node
}

// If returns the value when condition is true, nil otherwise. It works for
// both nodes and attributes.
func If(condition bool, value any) any {
	if condition {
		return value
	}
	return nil
}

// Range maps items to nodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	nodes := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
