package domain

import (
	"path/filepath"
	"strings"
)

// Language describes a source language the discovery engine understands.
type Language struct {
	Name       string
	Extensions []string
}

var languages = []Language{
	{Name: "javascript", Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
	{Name: "typescript", Extensions: []string{".ts", ".tsx", ".mts", ".cts"}},
	{Name: "python", Extensions: []string{".py"}},
	{Name: "go", Extensions: []string{".go"}},
}

// Languages returns all known languages.
func Languages() []Language {
	return languages
}

// LanguageByName returns the language with the given name, or nil.
func LanguageByName(name string) *Language {
	for i := range languages {
		if languages[i].Name == name {
			return &languages[i]
		}
	}
	return nil
}

// LanguageForFile returns the language name for a file path based on its
// extension, or "" when the extension is unknown.
func LanguageForFile(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	for _, l := range languages {
		for _, e := range l.Extensions {
			if e == ext {
				return l.Name
			}
		}
	}
	return ""
}

// FileStem returns the base name of path without its final extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
