package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Kind is the kind of entity a signature asks for.
type Kind string

// Entity kinds.
const (
	KindClass    Kind = "class"
	KindFunction Kind = "function"
	KindObject   Kind = "object"
	KindModule   Kind = "module"
)

// Valid reports whether k is a known kind. The empty kind is valid and means "any".
func (k Kind) Valid() bool {
	switch k {
	case "", KindClass, KindFunction, KindObject, KindModule:
		return true
	default:
		return false
	}
}

// ExportsDefault is the exports constraint requiring a default export.
const ExportsDefault = "default"

// NamePattern is either a literal name or a regular expression over names.
// On the wire a pattern is written as "/source/flags".
type NamePattern struct {
	Literal string
	Pattern *regexp.Regexp
	flags   string
}

// LiteralName returns a NamePattern matching exactly name.
func LiteralName(name string) NamePattern {
	return NamePattern{Literal: name}
}

// ParseNamePattern parses s. Strings of the form "/source/flags" become
// patterns; anything else is a literal. Only the "i" flag is honoured.
func ParseNamePattern(s string) (NamePattern, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '/' {
		return NamePattern{Literal: s}, nil
	}
	end := strings.LastIndexByte(s, '/')
	if end == 0 {
		return NamePattern{Literal: s}, nil
	}
	return CompileNamePattern(s[1:end], s[end+1:])
}

// CompileNamePattern compiles source with the given flags into a NamePattern.
func CompileNamePattern(source, flags string) (NamePattern, error) {
	expr := source
	if strings.Contains(flags, "i") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return NamePattern{}, zerr.With(zerr.Wrap(err, ErrInvalidNamePattern.Error()), "pattern", source)
	}
	return NamePattern{Pattern: re, Literal: source, flags: flags}, nil
}

// IsZero reports whether the pattern is unset.
func (n NamePattern) IsZero() bool {
	return n.Pattern == nil && n.Literal == ""
}

// IsPattern reports whether n is a regular expression.
func (n NamePattern) IsPattern() bool {
	return n.Pattern != nil
}

// Match reports whether name satisfies the pattern.
func (n NamePattern) Match(name string) bool {
	if n.Pattern != nil {
		return n.Pattern.MatchString(name)
	}
	return n.Literal != "" && n.Literal == name
}

// String renders the wire form.
func (n NamePattern) String() string {
	if n.Pattern != nil {
		return "/" + n.Literal + "/" + n.flags
	}
	return n.Literal
}

// MarshalJSON writes the pattern as a JSON string.
func (n NamePattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON accepts either a string or {"pattern": "...", "flags": "..."}.
func (n *NamePattern) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := ParseNamePattern(s)
		if perr != nil {
			return perr
		}
		*n = parsed
		return nil
	}

	var obj struct {
		Pattern string `json:"pattern"`
		Flags   string `json:"flags"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return zerr.Wrap(err, ErrInvalidNamePattern.Error())
	}
	parsed, err := CompileNamePattern(obj.Pattern, obj.Flags)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Signature is a declarative description of the entity being sought.
// All fields are optional. Unknown fields are kept in Extra so custom
// scorers can read them.
type Signature struct {
	Name       NamePattern
	Type       Kind
	Exports    string
	Methods    []string
	Properties []string
	Extends    string
	InstanceOf string
	Language   string
	Extra      map[string]json.RawMessage
}

const instanceOfAlias = "instanceOf"

var knownSignatureKeys = []string{
	"name", "type", "exports", "methods", "properties", "extends", "instanceof", "language",
}

// UnmarshalJSON decodes a signature and keeps unknown keys in Extra.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return zerr.Wrap(err, "signature must be a JSON object")
	}

	var out Signature
	decode := func(key string, dst any) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		if err := json.Unmarshal(v, dst); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to decode signature field "+key), "field", key)
		}
		return nil
	}

	var kind string
	fields := []struct {
		key string
		dst any
	}{
		{"name", &out.Name},
		{"type", &kind},
		{"exports", &out.Exports},
		{"methods", &out.Methods},
		{"properties", &out.Properties},
		{"extends", &out.Extends},
		{"instanceof", &out.InstanceOf},
		{"language", &out.Language},
	}
	for _, f := range fields {
		if err := decode(f.key, f.dst); err != nil {
			return err
		}
	}
	// instanceOf is accepted as an alias; instanceof wins when both are set.
	var alias string
	if err := decode(instanceOfAlias, &alias); err != nil {
		return err
	}
	if out.InstanceOf == "" {
		out.InstanceOf = alias
	}
	out.Type = Kind(kind)

	if len(raw) > 0 {
		out.Extra = raw
	}
	*s = out
	return nil
}

// MarshalJSON encodes the signature with empty fields omitted.
func (s Signature) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(knownSignatureKeys)+len(s.Extra))
	for k, v := range s.Extra {
		m[k] = v
	}
	if !s.Name.IsZero() {
		m["name"] = s.Name
	}
	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Exports != "" {
		m["exports"] = s.Exports
	}
	if len(s.Methods) > 0 {
		m["methods"] = s.Methods
	}
	if len(s.Properties) > 0 {
		m["properties"] = s.Properties
	}
	if s.Extends != "" {
		m["extends"] = s.Extends
	}
	if s.InstanceOf != "" {
		m["instanceof"] = s.InstanceOf
	}
	if s.Language != "" {
		m["language"] = s.Language
	}
	return json.Marshal(m)
}

// String returns the compact JSON form of the signature.
func (s Signature) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%+v", s.Name.String())
	}
	return string(data)
}

// Normalize returns a trimmed copy of s with methods and properties
// deduplicated, kind and language lowercased, and the kind defaulted to
// class when only class-shaped constraints are given. It fails when the
// signature constrains nothing or names an unknown kind.
func (s Signature) Normalize() (Signature, error) {
	out := s
	if !out.Name.IsPattern() {
		out.Name.Literal = strings.TrimSpace(out.Name.Literal)
	}
	out.Type = Kind(strings.ToLower(strings.TrimSpace(string(out.Type))))
	out.Exports = strings.TrimSpace(out.Exports)
	out.Extends = strings.TrimSpace(out.Extends)
	out.InstanceOf = strings.TrimSpace(out.InstanceOf)
	out.Language = strings.ToLower(strings.TrimSpace(out.Language))
	out.Methods = dedupe(out.Methods)
	out.Properties = dedupe(out.Properties)

	if !out.Type.Valid() {
		return Signature{}, zerr.With(ErrInvalidKind, "type", string(s.Type))
	}
	if out.Language != "" && LanguageByName(out.Language) == nil {
		return Signature{}, zerr.With(zerr.Wrap(ErrUnsupportedLanguage, "signature language "+out.Language), "language", out.Language)
	}

	if out.Type == "" && (len(out.Methods) > 0 || out.Extends != "") {
		out.Type = KindClass
	}

	if out.Name.IsZero() && out.Type == "" && out.Exports == "" && len(out.Properties) == 0 &&
		out.InstanceOf == "" {
		return Signature{}, zerr.Wrap(ErrEmptySignature, "nothing to match")
	}

	return out, nil
}

// ExpectedName returns the literal name a candidate should carry, if any.
// A named exports constraint stands in for a missing literal name.
func (s Signature) ExpectedName() string {
	if !s.Name.IsPattern() && s.Name.Literal != "" {
		return s.Name.Literal
	}
	if s.Exports != "" && s.Exports != ExportsDefault {
		return s.Exports
	}
	return ""
}

// Hash returns a stable identifier for the normalized signature, used as the cache key.
func (s Signature) Hash() string {
	hasher := xxhash.New()

	write := func(v string) {
		_, _ = hasher.WriteString(v)
		_, _ = hasher.Write([]byte{0})
	}

	write(s.Name.String())
	write(string(s.Type))
	write(s.Exports)
	write(s.Extends)
	write(s.InstanceOf)
	write(s.Language)

	for _, list := range [][]string{s.Methods, s.Properties} {
		sorted := slices.Clone(list)
		sort.Strings(sorted)
		for _, v := range sorted {
			write(v)
		}
		_, _ = hasher.Write([]byte{0}) // Section separator
	}

	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k)
		var buf bytes.Buffer
		if err := json.Compact(&buf, s.Extra[k]); err != nil {
			write(string(s.Extra[k]))
			continue
		}
		write(buf.String())
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
