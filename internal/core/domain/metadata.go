package domain

// AccessType describes how a consumer reaches an export.
type AccessType string

// Access types.
const (
	// AccessDefault is a default export (ES `export default`, the sole module value).
	AccessDefault AccessType = "default"
	// AccessNamed is reached by its exported name.
	AccessNamed AccessType = "named"
	// AccessDirect is the module value itself (CommonJS `module.exports = X`, a module signature).
	AccessDirect AccessType = "direct"
)

// Access identifies how to reach a resolved export.
type Access struct {
	Type AccessType `json:"type"`
	Name string     `json:"name,omitempty"`
}

// ExportInfo is the structural description of one exported entity.
type ExportInfo struct {
	Name       string   `json:"name,omitempty"`
	Kind       Kind     `json:"kind,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	Properties []string `json:"properties,omitempty"`
	Extends    string   `json:"extends,omitempty"`
}

// ExportEntry is one export of a module.
type ExportEntry struct {
	ExportedName string     `json:"exportedName"`
	Access       Access     `json:"access"`
	Info         ExportInfo `json:"info"`
}

// ExportMetadata is the export list of a single module as produced by an extractor.
type ExportMetadata struct {
	Language string        `json:"language,omitempty"`
	Exports  []ExportEntry `json:"exports"`
	// Locals holds non-exported declarations, used to follow inheritance chains.
	Locals []ExportInfo `json:"locals,omitempty"`
}

// Declaration returns the exported or local declaration with the given name.
func (m *ExportMetadata) Declaration(name string) *ExportInfo {
	if m == nil || name == "" {
		return nil
	}
	for i := range m.Exports {
		if m.Exports[i].Info.Name == name {
			return &m.Exports[i].Info
		}
	}
	for i := range m.Locals {
		if m.Locals[i].Name == name {
			return &m.Locals[i]
		}
	}
	return nil
}

// Ancestors walks the extends chain of info through the declarations of m.
// The chain stops at the first name not declared in the file or at a cycle.
func (m *ExportMetadata) Ancestors(info ExportInfo) []string {
	var chain []string
	seen := map[string]struct{}{info.Name: {}}
	next := info.Extends
	for next != "" {
		if _, ok := seen[next]; ok {
			break
		}
		seen[next] = struct{}{}
		chain = append(chain, next)
		decl := m.Declaration(next)
		if decl == nil {
			break
		}
		next = decl.Extends
	}
	return chain
}

// Primary returns the entry a consumer most likely wants: the default or
// direct export when present, otherwise the first export.
func (m *ExportMetadata) Primary() *ExportEntry {
	if m == nil || len(m.Exports) == 0 {
		return nil
	}
	for i := range m.Exports {
		if t := m.Exports[i].Access.Type; t == AccessDefault || t == AccessDirect {
			return &m.Exports[i]
		}
	}
	return &m.Exports[0]
}

// ModuleHandle is a loaded module: its path, the mtime it was loaded at and its metadata.
type ModuleHandle struct {
	Path     string
	MtimeMs  int64
	Metadata *ExportMetadata
}

// Validation is the outcome of structurally checking a module against a signature.
type Validation struct {
	// Entries are the exports that satisfy the signature, in declaration order.
	Entries []ExportEntry
	// Entry is the best of Entries once a loader has ranked them.
	Entry *ExportEntry
	// Bonus is the post-load score contribution of Entry.
	Bonus ScoreBreakdown
	// Reason explains the closest mismatch when Entries is empty.
	Reason string
}
