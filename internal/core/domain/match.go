package domain

import (
	"fmt"
	"strings"
)

// match stages, ordered by how far an entry got before failing.
const (
	stageKind = iota + 1
	stageAccess
	stageName
	stageMethods
	stageProperties
	stageExtends
	stageInstanceOf
)

// ModuleEntry builds the synthetic entry used for module signatures: the
// whole file viewed as one value whose functions are methods and whose
// other exports are properties.
func ModuleEntry(meta *ExportMetadata, stem string) ExportEntry {
	info := ExportInfo{Name: stem, Kind: KindModule}
	if meta != nil {
		for _, e := range meta.Exports {
			name := e.ExportedName
			if name == "" || name == ExportsDefault {
				name = e.Info.Name
			}
			if name == "" {
				continue
			}
			if e.Info.Kind == KindFunction {
				info.Methods = append(info.Methods, name)
			} else {
				info.Properties = append(info.Properties, name)
			}
		}
	}
	return ExportEntry{
		ExportedName: stem,
		Access:       Access{Type: AccessDirect},
		Info:         info,
	}
}

// EligibleEntries returns the exports of meta that satisfy sig. stem is the
// file name without extension; it names anonymous default exports and module
// entries. When nothing matches, Reason explains the closest miss.
func EligibleEntries(meta *ExportMetadata, sig Signature, stem string) Validation {
	if meta == nil {
		return Validation{Reason: "no export metadata"}
	}

	entries := meta.Exports
	if sig.Type == KindModule {
		entries = []ExportEntry{ModuleEntry(meta, stem)}
	}
	if len(entries) == 0 {
		return Validation{Reason: "module has no exports"}
	}

	var v Validation
	bestStage := 0
	for _, entry := range entries {
		stage, reason := MatchEntry(meta, entry, sig, stem)
		if reason == "" {
			v.Entries = append(v.Entries, entry)
			continue
		}
		if stage > bestStage {
			bestStage = stage
			v.Reason = reason
		}
	}
	if len(v.Entries) > 0 {
		v.Reason = ""
	}
	return v
}

// MatchEntry checks one export against sig. It returns the empty reason on
// success, otherwise the failing stage and a human readable reason.
func MatchEntry(meta *ExportMetadata, entry ExportEntry, sig Signature, stem string) (int, string) {
	info := entry.Info

	if sig.Type != "" && info.Kind != sig.Type {
		kind := string(info.Kind)
		if kind == "" {
			kind = "unknown"
		}
		return stageKind, fmt.Sprintf("%s is a %s, expected %s", displayName(entry, stem), kind, sig.Type)
	}

	if reason := matchAccess(entry, sig.Exports); reason != "" {
		return stageAccess, reason
	}

	if !sig.Name.IsZero() && !matchName(entry, sig.Name, stem) {
		return stageName, fmt.Sprintf("name %s does not match %s", displayName(entry, stem), sig.Name.String())
	}

	if missing := missingFrom(info.Methods, sig.Methods); len(missing) > 0 {
		return stageMethods, "missing methods: " + strings.Join(missing, ", ")
	}

	if missing := missingFrom(info.Properties, sig.Properties); len(missing) > 0 {
		return stageProperties, "missing properties: " + strings.Join(missing, ", ")
	}

	ancestors := meta.Ancestors(info)

	if sig.Extends != "" && !containsName(ancestors, sig.Extends) {
		return stageExtends, fmt.Sprintf("%s does not extend %s", displayName(entry, stem), sig.Extends)
	}

	if sig.InstanceOf != "" && !sameName(info.Name, sig.InstanceOf) && !containsName(ancestors, sig.InstanceOf) {
		return stageInstanceOf, fmt.Sprintf("%s is not an instance of %s", displayName(entry, stem), sig.InstanceOf)
	}

	return 0, ""
}

func matchAccess(entry ExportEntry, exports string) string {
	switch exports {
	case "":
		return ""
	case ExportsDefault:
		if entry.Access.Type == AccessDefault || entry.Access.Type == AccessDirect {
			return ""
		}
		return fmt.Sprintf("%s is not a default export", entry.ExportedName)
	default:
		if entry.Access.Type == AccessNamed && (entry.Access.Name == exports || entry.ExportedName == exports) {
			return ""
		}
		return fmt.Sprintf("no named export %s", exports)
	}
}

// EntryNames returns the names an entry answers to.
func EntryNames(entry ExportEntry, stem string) []string {
	names := make([]string, 0, 3)
	if entry.Info.Name != "" {
		names = append(names, entry.Info.Name)
	}
	if entry.ExportedName != "" && entry.ExportedName != ExportsDefault && entry.ExportedName != entry.Info.Name {
		names = append(names, entry.ExportedName)
	}
	if entry.Info.Name == "" && (entry.Access.Type == AccessDefault || entry.Access.Type == AccessDirect) && stem != "" {
		names = append(names, stem)
	}
	return names
}

func matchName(entry ExportEntry, pattern NamePattern, stem string) bool {
	for _, name := range EntryNames(entry, stem) {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}

func displayName(entry ExportEntry, stem string) string {
	names := EntryNames(entry, stem)
	if len(names) == 0 {
		return "anonymous export"
	}
	return names[0]
}

func missingFrom(have, want []string) []string {
	var missing []string
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, w)
		}
	}
	return missing
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if sameName(n, want) {
			return true
		}
	}
	return false
}

// sameName compares identifiers, letting a qualified name ("React.Component")
// match its last segment.
func sameName(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)
}
