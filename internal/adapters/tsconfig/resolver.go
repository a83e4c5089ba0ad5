// Package tsconfig maps source files to the import specifiers declared by a
// project's tsconfig.json or jsconfig.json.
package tsconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/seek/internal/core/ports"
)

var _ ports.AliasResolver = (*Resolver)(nil)

// ConfigFiles are looked up at the project root, in order.
var ConfigFiles = []string{"tsconfig.json", "jsconfig.json"}

type compilerOptions struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

type pathAlias struct {
	pattern string
	targets []string
}

// Resolver implements ports.AliasResolver. A project without a readable
// config yields no aliases.
type Resolver struct {
	baseURL string
	aliases []pathAlias
}

// New reads the first config file found under root. Errors leave the
// resolver empty.
func New(root string) *Resolver {
	r := &Resolver{}
	for _, name := range ConfigFiles {
		//nolint:gosec // Config file inside the searched root
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		var opts compilerOptions
		if err := json.Unmarshal(StripJSONC(data), &opts); err != nil {
			return r
		}
		r.configure(root, opts)
		return r
	}
	return r
}

func (r *Resolver) configure(root string, opts compilerOptions) {
	co := opts.CompilerOptions
	base := root
	if co.BaseURL != "" {
		base = filepath.Join(root, filepath.FromSlash(co.BaseURL))
		r.baseURL = base
	}

	patterns := make([]string, 0, len(co.Paths))
	for p := range co.Paths {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	for _, p := range patterns {
		a := pathAlias{pattern: p}
		for _, t := range co.Paths[p] {
			a.targets = append(a.targets, filepath.Join(base, filepath.FromSlash(t)))
		}
		r.aliases = append(r.aliases, a)
	}
}

// Aliases returns every paths-mapped specifier that reaches path.
func (r *Resolver) Aliases(path string) ([]string, error) {
	file := trimExt(path)
	var out []string
	for _, a := range r.aliases {
		for _, target := range a.targets {
			if spec, ok := applyAlias(a.pattern, target, path, file); ok {
				out = appendUnique(out, spec)
			}
		}
	}
	return out, nil
}

// BaseImport returns the specifier of path relative to baseUrl, or "".
func (r *Resolver) BaseImport(path string) (string, error) {
	if r.baseURL == "" {
		return "", nil
	}
	rel, err := filepath.Rel(r.baseURL, trimExt(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// applyAlias matches path against one target of a paths entry. A `*` in the
// target captures the part substituted into the pattern.
func applyAlias(pattern, target, path, file string) (string, bool) {
	star := strings.IndexByte(target, '*')
	if star < 0 {
		if target == path || trimExt(target) == file {
			return pattern, true
		}
		return "", false
	}

	prefix, suffix := target[:star], trimExt(target[star+1:])
	if !strings.HasPrefix(file, prefix) || !strings.HasSuffix(file, suffix) || len(file) < len(prefix)+len(suffix) {
		return "", false
	}
	captured := filepath.ToSlash(file[len(prefix) : len(file)-len(suffix)])
	return strings.Replace(pattern, "*", captured, 1), true
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

// StripJSONC removes comments and trailing commas so tsconfig files parse as JSON.
func StripJSONC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch c {
			case '\\':
				if i+1 < len(data) {
					i++
					out = append(out, data[i])
				}
			case '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && (data[i] != '*' || data[i+1] != '/') {
				i++
			}
			i++
		case c == ',':
			if next := nextSignificant(data, i+1); next == '}' || next == ']' {
				continue
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// nextSignificant returns the next byte after whitespace and comments, or 0.
func nextSignificant(data []byte, i int) byte {
	for i < len(data) {
		switch {
		case data[i] == ' ' || data[i] == '\t' || data[i] == '\n' || data[i] == '\r':
			i++
		case data[i] == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case data[i] == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && (data[i] != '*' || data[i+1] != '/') {
				i++
			}
			i += 2
		default:
			return data[i]
		}
	}
	return 0
}
