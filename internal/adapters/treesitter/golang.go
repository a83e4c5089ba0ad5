package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/seek/internal/core/domain"
)

// extractGo records exported package-level identifiers. Types are structural
// classes: struct fields are properties, methods attach by receiver and an
// embedded type counts as extends.
func extractGo(root *sitter.Node, src []byte) *domain.ExportMetadata {
	var (
		order []string
		decls = make(map[string]*domain.ExportInfo)
	)
	declare := func(info domain.ExportInfo) {
		if info.Name == "" {
			return
		}
		if _, ok := decls[info.Name]; !ok {
			order = append(order, info.Name)
		}
		decls[info.Name] = &info
	}

	var methods []*sitter.Node
	for _, c := range namedChildren(root) {
		switch c.Type() {
		case "type_declaration":
			for _, spec := range namedChildren(c) {
				if spec.Type() == "type_spec" || spec.Type() == "type_alias" {
					declare(goType(spec, src))
				}
			}
		case "function_declaration":
			declare(domain.ExportInfo{Name: fieldText(c, "name", src), Kind: domain.KindFunction})
		case "method_declaration":
			methods = append(methods, c)
		case "var_declaration", "const_declaration":
			for _, spec := range namedChildren(c) {
				for _, id := range namedChildren(spec) {
					if id.Type() == "identifier" {
						declare(domain.ExportInfo{Name: nodeText(id, src), Kind: domain.KindObject})
					}
				}
			}
		}
	}

	for _, m := range methods {
		recv := receiverType(m.ChildByFieldName("receiver"), src)
		if info, ok := decls[recv]; ok {
			info.Methods = appendUnique(info.Methods, fieldText(m, "name", src))
		}
	}

	meta := &domain.ExportMetadata{}
	for _, name := range order {
		info := *decls[name]
		if isExportedGoName(name) {
			meta.Exports = append(meta.Exports, namedEntry(name, info))
		} else {
			meta.Locals = append(meta.Locals, info)
		}
	}
	return meta
}

func goType(spec *sitter.Node, src []byte) domain.ExportInfo {
	info := domain.ExportInfo{Name: fieldText(spec, "name", src), Kind: domain.KindObject}

	t := spec.ChildByFieldName("type")
	if t == nil {
		return info
	}
	switch t.Type() {
	case "struct_type":
		info.Kind = domain.KindClass
		for _, list := range namedChildren(t) {
			for _, field := range namedChildren(list) {
				if field.Type() != "field_declaration" {
					continue
				}
				named := false
				for _, id := range namedChildren(field) {
					if id.Type() == "field_identifier" {
						named = true
						info.Properties = appendUnique(info.Properties, nodeText(id, src))
					}
				}
				if !named && info.Extends == "" {
					info.Extends = baseTypeName(field.ChildByFieldName("type"), src)
				}
			}
		}
	case "interface_type":
		info.Kind = domain.KindClass
		for _, elem := range namedChildren(t) {
			switch elem.Type() {
			case "method_elem", "method_spec":
				info.Methods = appendUnique(info.Methods, fieldText(elem, "name", src))
			case "type_elem", "type_identifier", "qualified_type":
				if info.Extends == "" {
					info.Extends = baseTypeName(elem, src)
				}
			}
		}
	case "function_type":
		info.Kind = domain.KindFunction
	}
	return info
}

// receiverType returns the base type name of a method receiver such as (s *Store[K]).
func receiverType(params *sitter.Node, src []byte) string {
	for _, p := range namedChildren(params) {
		if p.Type() == "parameter_declaration" {
			return baseTypeName(p.ChildByFieldName("type"), src)
		}
	}
	return ""
}

func baseTypeName(t *sitter.Node, src []byte) string {
	for t != nil {
		switch t.Type() {
		case "type_identifier", "qualified_type":
			return nodeText(t, src)
		case "pointer_type", "type_elem":
			children := namedChildren(t)
			if len(children) == 0 {
				return ""
			}
			t = children[0]
		case "generic_type":
			t = t.ChildByFieldName("type")
		default:
			return strings.TrimLeft(nodeText(t, src), "*")
		}
	}
	return ""
}
