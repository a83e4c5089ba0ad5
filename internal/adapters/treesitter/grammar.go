// Package treesitter extracts export metadata from source files with tree-sitter grammars.
package treesitter

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"go.trai.ch/seek/internal/core/domain"
)

// grammar binds a tree-sitter language to its export extraction.
type grammar struct {
	language string
	lang     *sitter.Language
	extract  func(root *sitter.Node, src []byte) *domain.ExportMetadata
	parsers  sync.Pool
}

func newGrammar(language string, lang *sitter.Language, extract func(*sitter.Node, []byte) *domain.ExportMetadata) *grammar {
	return &grammar{language: language, lang: lang, extract: extract}
}

// parse runs a pooled parser. Parsers are not safe for concurrent use, so
// each call takes its own; a parser whose run was cancelled is discarded.
func (g *grammar) parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	p, _ := g.parsers.Get().(*sitter.Parser)
	if p == nil {
		p = sitter.NewParser()
		p.SetLanguage(g.lang)
	}

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		p.Close()
		return nil, err
	}
	g.parsers.Put(p)
	return tree, nil
}

var (
	grammarsOnce sync.Once
	grammars     map[string]*grammar
)

// grammarFor returns the grammar for a file by extension, or nil.
func grammarFor(fileName string) *grammar {
	grammarsOnce.Do(func() {
		js := newGrammar("javascript", javascript.GetLanguage(), extractJavaScript)
		ts := newGrammar("typescript", typescript.GetLanguage(), extractJavaScript)
		tsxG := newGrammar("typescript", tsx.GetLanguage(), extractJavaScript)
		py := newGrammar("python", python.GetLanguage(), extractPython)
		goG := newGrammar("go", golang.GetLanguage(), extractGo)

		grammars = map[string]*grammar{
			".js":  js,
			".jsx": js,
			".mjs": js,
			".cjs": js,
			".ts":  ts,
			".mts": ts,
			".cts": ts,
			".tsx": tsxG,
			".py":  py,
			".go":  goG,
		}
	})
	return grammars[strings.ToLower(filepath.Ext(fileName))]
}

// Extensions lists the file extensions with a grammar.
func Extensions() []string {
	grammarFor("")
	exts := make([]string, 0, len(grammars))
	for ext := range grammars {
		exts = append(exts, ext)
	}
	return exts
}
