package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/seek/internal/core/domain"
)

// jsModule collects the top-level declarations of a JavaScript or
// TypeScript program so exports can refer back to them.
type jsModule struct {
	src   []byte
	decls map[string]domain.ExportInfo
	order []string
}

func extractJavaScript(root *sitter.Node, src []byte) *domain.ExportMetadata {
	m := &jsModule{src: src, decls: make(map[string]domain.ExportInfo)}

	for _, c := range namedChildren(root) {
		if c.Type() == "export_statement" {
			if d := c.ChildByFieldName("declaration"); d != nil {
				m.declare(d)
			}
			continue
		}
		m.declare(c)
	}

	var exports []domain.ExportEntry
	for _, c := range namedChildren(root) {
		switch c.Type() {
		case "export_statement":
			exports = append(exports, m.exportStatement(c)...)
		case "expression_statement":
			exports = append(exports, m.commonJS(c)...)
		}
	}

	return &domain.ExportMetadata{Exports: exports, Locals: m.locals(exports)}
}

func (m *jsModule) declare(n *sitter.Node) {
	for _, info := range m.declarationInfos(n) {
		if _, seen := m.decls[info.Name]; !seen {
			m.order = append(m.order, info.Name)
		}
		m.decls[info.Name] = info
	}
}

func (m *jsModule) locals(exports []domain.ExportEntry) []domain.ExportInfo {
	exported := make(map[string]struct{}, len(exports))
	for _, e := range exports {
		exported[e.Info.Name] = struct{}{}
	}
	var out []domain.ExportInfo
	for _, name := range m.order {
		if _, ok := exported[name]; !ok {
			out = append(out, m.decls[name])
		}
	}
	return out
}

// declarationInfos describes a declaration node; lexical declarations may declare several names.
func (m *jsModule) declarationInfos(n *sitter.Node) []domain.ExportInfo {
	switch n.Type() {
	case "class_declaration", "abstract_class_declaration", "class":
		return []domain.ExportInfo{m.classInfo(n, fieldText(n, "name", m.src))}
	case "function_declaration", "generator_function_declaration", "function_signature":
		return []domain.ExportInfo{{Name: fieldText(n, "name", m.src), Kind: domain.KindFunction}}
	case "enum_declaration":
		return []domain.ExportInfo{{Name: fieldText(n, "name", m.src), Kind: domain.KindObject}}
	case "lexical_declaration", "variable_declaration":
		var infos []domain.ExportInfo
		for _, d := range namedChildren(n) {
			if d.Type() != "variable_declarator" {
				continue
			}
			name := d.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				continue
			}
			infos = append(infos, m.valueInfo(d.ChildByFieldName("value"), nodeText(name, m.src)))
		}
		return infos
	default:
		return nil
	}
}

// valueInfo describes an expression bound to name.
func (m *jsModule) valueInfo(v *sitter.Node, name string) domain.ExportInfo {
	if v == nil {
		return domain.ExportInfo{Name: name, Kind: domain.KindObject}
	}
	switch v.Type() {
	case "class":
		own := fieldText(v, "name", m.src)
		info := m.classInfo(v, own)
		if name != "" {
			info.Name = name
		}
		return info
	case "function", "function_expression", "arrow_function", "generator_function":
		return domain.ExportInfo{Name: name, Kind: domain.KindFunction}
	case "object":
		info := m.objectInfo(v)
		info.Name = name
		return info
	case "identifier":
		if decl, ok := m.decls[nodeText(v, m.src)]; ok {
			return decl
		}
		return domain.ExportInfo{Name: nodeText(v, m.src)}
	case "parenthesized_expression", "as_expression", "satisfies_expression":
		if inner := namedChildren(v); len(inner) > 0 {
			return m.valueInfo(inner[0], name)
		}
	}
	return domain.ExportInfo{Name: name, Kind: domain.KindObject}
}

func isFunctionNode(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "function", "function_expression", "arrow_function", "generator_function":
		return true
	default:
		return false
	}
}

func (m *jsModule) classInfo(n *sitter.Node, name string) domain.ExportInfo {
	info := domain.ExportInfo{Name: name, Kind: domain.KindClass}

	for _, c := range namedChildren(n) {
		if c.Type() == "class_heritage" {
			info.Extends = m.heritage(c)
		}
	}

	body := n.ChildByFieldName("body")
	for _, member := range namedChildren(body) {
		switch member.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			methodName := fieldText(member, "name", m.src)
			if methodName == "constructor" {
				info.Properties = m.thisAssignments(member.ChildByFieldName("body"), info.Properties)
				continue
			}
			info.Methods = appendUnique(info.Methods, methodName)
		case "field_definition", "public_field_definition":
			prop := member.ChildByFieldName("property")
			if prop == nil {
				prop = member.ChildByFieldName("name")
			}
			if isFunctionNode(member.ChildByFieldName("value")) {
				info.Methods = appendUnique(info.Methods, nodeText(prop, m.src))
			} else {
				info.Properties = appendUnique(info.Properties, nodeText(prop, m.src))
			}
		}
	}
	return info
}

// heritage returns the extended class name of a class_heritage node.
// TypeScript wraps it in extends_clause; implements clauses are ignored.
func (m *jsModule) heritage(h *sitter.Node) string {
	for _, c := range namedChildren(h) {
		switch c.Type() {
		case "extends_clause":
			if v := c.ChildByFieldName("value"); v != nil {
				return nodeText(v, m.src)
			}
			if inner := namedChildren(c); len(inner) > 0 {
				return nodeText(inner[0], m.src)
			}
		case "implements_clause":
			continue
		default:
			return nodeText(c, m.src)
		}
	}
	return ""
}

// thisAssignments collects the property names of `this.x = ...` under body.
func (m *jsModule) thisAssignments(body *sitter.Node, props []string) []string {
	walk(body, func(n *sitter.Node) bool {
		if n.Type() == "function_declaration" || n.Type() == "function_expression" || n.Type() == "class" {
			return false
		}
		if n.Type() != "assignment_expression" {
			return true
		}
		left := n.ChildByFieldName("left")
		if left != nil && left.Type() == "member_expression" && fieldText(left, "object", m.src) == "this" {
			props = appendUnique(props, fieldText(left, "property", m.src))
		}
		return true
	})
	return props
}

func (m *jsModule) objectInfo(obj *sitter.Node) domain.ExportInfo {
	info := domain.ExportInfo{Kind: domain.KindObject}
	for _, member := range namedChildren(obj) {
		switch member.Type() {
		case "pair":
			key := unquote(fieldText(member, "key", m.src))
			value := member.ChildByFieldName("value")
			if isFunctionNode(value) || m.isFunctionRef(value) {
				info.Methods = appendUnique(info.Methods, key)
			} else {
				info.Properties = appendUnique(info.Properties, key)
			}
		case "method_definition":
			info.Methods = appendUnique(info.Methods, fieldText(member, "name", m.src))
		case "shorthand_property_identifier":
			name := nodeText(member, m.src)
			if m.isFunctionRef(member) {
				info.Methods = appendUnique(info.Methods, name)
			} else {
				info.Properties = appendUnique(info.Properties, name)
			}
		}
	}
	return info
}

func (m *jsModule) isFunctionRef(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	if n.Type() != "identifier" && n.Type() != "shorthand_property_identifier" {
		return false
	}
	decl, ok := m.decls[nodeText(n, m.src)]
	return ok && decl.Kind == domain.KindFunction
}

func (m *jsModule) exportStatement(n *sitter.Node) []domain.ExportEntry {
	isDefault := hasToken(n, "default")

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		infos := m.declarationInfos(decl)
		if isDefault {
			if len(infos) == 0 {
				return nil
			}
			return []domain.ExportEntry{defaultEntry(infos[0])}
		}
		entries := make([]domain.ExportEntry, 0, len(infos))
		for _, info := range infos {
			if info.Name != "" {
				entries = append(entries, namedEntry(info.Name, info))
			}
		}
		return entries
	}

	if value := n.ChildByFieldName("value"); value != nil && isDefault {
		return []domain.ExportEntry{defaultEntry(m.valueInfo(value, ""))}
	}

	reexport := n.ChildByFieldName("source") != nil
	var entries []domain.ExportEntry
	for _, c := range namedChildren(n) {
		if c.Type() != "export_clause" {
			continue
		}
		for _, spec := range namedChildren(c) {
			if spec.Type() != "export_specifier" {
				continue
			}
			local := unquote(fieldText(spec, "name", m.src))
			exported := unquote(fieldText(spec, "alias", m.src))
			if exported == "" {
				exported = local
			}

			info := domain.ExportInfo{Name: local}
			if decl, ok := m.decls[local]; ok && !reexport {
				info = decl
			}
			if exported == domain.ExportsDefault {
				entries = append(entries, defaultEntry(info))
				continue
			}
			entries = append(entries, namedEntry(exported, info))
		}
	}
	return entries
}

// commonJS handles `module.exports = X`, `module.exports.X = ...` and `exports.X = ...`.
func (m *jsModule) commonJS(stmt *sitter.Node) []domain.ExportEntry {
	children := namedChildren(stmt)
	if len(children) == 0 || children[0].Type() != "assignment_expression" {
		return nil
	}
	assign := children[0]
	left := strings.Join(strings.Fields(fieldText(assign, "left", m.src)), "")
	right := assign.ChildByFieldName("right")

	switch {
	case left == "module.exports":
		info := m.valueInfo(right, "")
		entries := []domain.ExportEntry{{
			ExportedName: exportedOrDefault(info.Name),
			Access:       domain.Access{Type: domain.AccessDirect},
			Info:         info,
		}}
		if right != nil && right.Type() == "object" {
			entries = append(entries, m.objectMembers(right)...)
		}
		return entries
	case strings.HasPrefix(left, "module.exports."), strings.HasPrefix(left, "exports."):
		name := left[strings.LastIndexByte(left, '.')+1:]
		info := m.valueInfo(right, name)
		if info.Name == "" {
			info.Name = name
		}
		return []domain.ExportEntry{namedEntry(name, info)}
	default:
		return nil
	}
}

// objectMembers exposes members of `module.exports = { A, b: B }` that
// refer to local declarations as named exports.
func (m *jsModule) objectMembers(obj *sitter.Node) []domain.ExportEntry {
	var entries []domain.ExportEntry
	for _, member := range namedChildren(obj) {
		switch member.Type() {
		case "shorthand_property_identifier":
			name := nodeText(member, m.src)
			if decl, ok := m.decls[name]; ok {
				entries = append(entries, namedEntry(name, decl))
			}
		case "pair":
			value := member.ChildByFieldName("value")
			if value == nil || value.Type() != "identifier" {
				continue
			}
			if decl, ok := m.decls[nodeText(value, m.src)]; ok {
				entries = append(entries, namedEntry(unquote(fieldText(member, "key", m.src)), decl))
			}
		}
	}
	return entries
}

func defaultEntry(info domain.ExportInfo) domain.ExportEntry {
	return domain.ExportEntry{
		ExportedName: domain.ExportsDefault,
		Access:       domain.Access{Type: domain.AccessDefault},
		Info:         info,
	}
}

func namedEntry(name string, info domain.ExportInfo) domain.ExportEntry {
	return domain.ExportEntry{
		ExportedName: name,
		Access:       domain.Access{Type: domain.AccessNamed, Name: name},
		Info:         info,
	}
}

func exportedOrDefault(name string) string {
	if name == "" {
		return domain.ExportsDefault
	}
	return name
}
