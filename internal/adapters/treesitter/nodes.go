package treesitter

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

func fieldText(n *sitter.Node, field string, src []byte) string {
	if n == nil {
		return ""
	}
	return nodeText(n.ChildByFieldName(field), src)
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := range count {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// hasToken reports whether n has an anonymous child of the given type, such as "default".
func hasToken(n *sitter.Node, token string) bool {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c != nil && !c.IsNamed() && c.Type() == token {
			return true
		}
	}
	return false
}

// walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range namedChildren(n) {
		walk(c, fn)
	}
}

func unquote(s string) string {
	return strings.Trim(s, "'\"`")
}

func isExportedGoName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// appendUnique appends v to list unless present.
func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
