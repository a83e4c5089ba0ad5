package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/seek/internal/core/domain"
)

func extractPython(root *sitter.Node, src []byte) *domain.ExportMetadata {
	var (
		decls  []domain.ExportInfo
		all    []string
		hasAll bool
	)

	for _, c := range namedChildren(root) {
		if c.Type() == "decorated_definition" {
			c = c.ChildByFieldName("definition")
		}
		if c == nil {
			continue
		}
		switch c.Type() {
		case "class_definition":
			decls = append(decls, pythonClass(c, src))
		case "function_definition":
			decls = append(decls, domain.ExportInfo{Name: fieldText(c, "name", src), Kind: domain.KindFunction})
		case "expression_statement":
			assign := firstNamed(c, "assignment")
			if assign == nil {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left == nil || left.Type() != "identifier" {
				continue
			}
			name := nodeText(left, src)
			if name == "__all__" {
				hasAll = true
				all = stringList(assign.ChildByFieldName("right"), src)
				continue
			}
			decls = append(decls, pythonValue(name, assign.ChildByFieldName("right"), decls, src))
		}
	}

	meta := &domain.ExportMetadata{}
	exported := func(name string) bool {
		if hasAll {
			for _, n := range all {
				if n == name {
					return true
				}
			}
			return false
		}
		return !strings.HasPrefix(name, "_")
	}
	for _, d := range decls {
		if exported(d.Name) {
			meta.Exports = append(meta.Exports, namedEntry(d.Name, d))
		} else {
			meta.Locals = append(meta.Locals, d)
		}
	}
	return meta
}

func pythonClass(n *sitter.Node, src []byte) domain.ExportInfo {
	info := domain.ExportInfo{Name: fieldText(n, "name", src), Kind: domain.KindClass}

	for _, base := range namedChildren(n.ChildByFieldName("superclasses")) {
		if base.Type() == "identifier" || base.Type() == "attribute" {
			info.Extends = nodeText(base, src)
			break
		}
	}

	for _, member := range namedChildren(n.ChildByFieldName("body")) {
		if member.Type() == "decorated_definition" {
			member = member.ChildByFieldName("definition")
		}
		if member == nil {
			continue
		}
		switch member.Type() {
		case "function_definition":
			name := fieldText(member, "name", src)
			if name == "__init__" {
				info.Properties = selfAssignments(member.ChildByFieldName("body"), src, info.Properties)
				continue
			}
			if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
				continue
			}
			info.Methods = appendUnique(info.Methods, name)
		case "expression_statement":
			if assign := firstNamed(member, "assignment"); assign != nil {
				if left := assign.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
					info.Properties = appendUnique(info.Properties, nodeText(left, src))
				}
			}
		}
	}
	return info
}

// selfAssignments collects the attribute names of `self.x = ...` under body.
func selfAssignments(body *sitter.Node, src []byte, props []string) []string {
	walk(body, func(n *sitter.Node) bool {
		switch n.Type() {
		case "function_definition", "class_definition", "lambda":
			return false
		case "assignment":
			left := n.ChildByFieldName("left")
			if left != nil && left.Type() == "attribute" && fieldText(left, "object", src) == "self" {
				props = appendUnique(props, fieldText(left, "attribute", src))
			}
		}
		return true
	})
	return props
}

func pythonValue(name string, v *sitter.Node, decls []domain.ExportInfo, src []byte) domain.ExportInfo {
	if v != nil {
		switch v.Type() {
		case "lambda":
			return domain.ExportInfo{Name: name, Kind: domain.KindFunction}
		case "identifier":
			for _, d := range decls {
				if d.Name == nodeText(v, src) {
					d.Name = name
					return d
				}
			}
		}
	}
	return domain.ExportInfo{Name: name, Kind: domain.KindObject}
}

func stringList(v *sitter.Node, src []byte) []string {
	if v == nil || (v.Type() != "list" && v.Type() != "tuple") {
		return nil
	}
	var out []string
	for _, item := range namedChildren(v) {
		if item.Type() == "string" {
			out = append(out, unquote(nodeText(item, src)))
		}
	}
	return out
}

func firstNamed(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range namedChildren(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}
