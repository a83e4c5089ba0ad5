package treesitter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/seek/internal/adapters/treesitter"
	"go.trai.ch/seek/internal/core/domain"
)

func extract(t *testing.T, fileName, src string) *domain.ExportMetadata {
	t.Helper()
	meta, err := treesitter.NewExtractor().Extract(context.Background(), []byte(src), fileName)
	require.NoError(t, err)
	require.NotNil(t, meta)
	return meta
}

func entry(t *testing.T, meta *domain.ExportMetadata, exportedName string) domain.ExportEntry {
	t.Helper()
	for _, e := range meta.Exports {
		if e.ExportedName == exportedName {
			return e
		}
	}
	require.Failf(t, "export not found", "no export %q in %+v", exportedName, meta.Exports)
	return domain.ExportEntry{}
}

func TestExtract_JavaScriptDefaultClass(t *testing.T) {
	meta := extract(t, "Calculator.js", `
class Base {}

export default class Calculator extends Base {
  constructor() {
    this.value = 0;
  }
  add(a, b) { return a + b; }
  subtract(a, b) { return a - b; }
}
`)

	assert.Equal(t, "javascript", meta.Language)
	e := entry(t, meta, domain.ExportsDefault)
	assert.Equal(t, domain.AccessDefault, e.Access.Type)
	assert.Equal(t, "Calculator", e.Info.Name)
	assert.Equal(t, domain.KindClass, e.Info.Kind)
	assert.Equal(t, []string{"add", "subtract"}, e.Info.Methods)
	assert.Equal(t, []string{"value"}, e.Info.Properties)
	assert.Equal(t, "Base", e.Info.Extends)

	require.Len(t, meta.Locals, 1)
	assert.Equal(t, "Base", meta.Locals[0].Name)
}

func TestExtract_JavaScriptNamedExports(t *testing.T) {
	meta := extract(t, "math.mjs", `
export function sum(a, b) { return a + b; }
export const config = { debug: true, log() {} };
class Helper { run() {} }
export { Helper as Tool };
`)

	assert.Equal(t, domain.KindFunction, entry(t, meta, "sum").Info.Kind)

	cfg := entry(t, meta, "config")
	assert.Equal(t, domain.AccessNamed, cfg.Access.Type)
	assert.Equal(t, domain.KindObject, cfg.Info.Kind)
	assert.Equal(t, []string{"log"}, cfg.Info.Methods)
	assert.Equal(t, []string{"debug"}, cfg.Info.Properties)

	tool := entry(t, meta, "Tool")
	assert.Equal(t, "Tool", tool.Access.Name)
	assert.Equal(t, "Helper", tool.Info.Name)
	assert.Equal(t, []string{"run"}, tool.Info.Methods)
}

func TestExtract_CommonJS(t *testing.T) {
	meta := extract(t, "calc.cjs", `
class Calculator {
  add(a, b) { return a + b; }
}
function helper() {}
module.exports = Calculator;
module.exports.helper = helper;
`)

	direct := meta.Primary()
	require.NotNil(t, direct)
	assert.Equal(t, domain.AccessDirect, direct.Access.Type)
	assert.Equal(t, "Calculator", direct.Info.Name)
	assert.Equal(t, []string{"add"}, direct.Info.Methods)

	h := entry(t, meta, "helper")
	assert.Equal(t, domain.KindFunction, h.Info.Kind)
}

func TestExtract_TypeScriptClass(t *testing.T) {
	meta := extract(t, "parser.ts", `
interface Runnable { run(): void }

export class Parser extends BaseParser implements Runnable {
  private depth: number = 0;
  parse(input: string): string { return input; }
  run(): void {}
}
`)

	assert.Equal(t, "typescript", meta.Language)
	e := entry(t, meta, "Parser")
	assert.Equal(t, domain.KindClass, e.Info.Kind)
	assert.Equal(t, "BaseParser", e.Info.Extends)
	assert.Equal(t, []string{"parse", "run"}, e.Info.Methods)
	assert.Equal(t, []string{"depth"}, e.Info.Properties)
}

func TestExtract_Python(t *testing.T) {
	meta := extract(t, "parser.py", `
__all__ = ["Parser"]

class Parser(BaseParser):
    kind = "json"

    def __init__(self):
        self.depth = 0

    def parse(self, text):
        return text

def helper():
    pass
`)

	assert.Equal(t, "python", meta.Language)
	require.Len(t, meta.Exports, 1)
	e := entry(t, meta, "Parser")
	assert.Equal(t, domain.AccessNamed, e.Access.Type)
	assert.Equal(t, domain.KindClass, e.Info.Kind)
	assert.Equal(t, "BaseParser", e.Info.Extends)
	assert.Equal(t, []string{"parse"}, e.Info.Methods)
	assert.ElementsMatch(t, []string{"kind", "depth"}, e.Info.Properties)

	require.Len(t, meta.Locals, 1)
	assert.Equal(t, "helper", meta.Locals[0].Name)
}

func TestExtract_PythonUnderscoreIsPrivate(t *testing.T) {
	meta := extract(t, "util.py", `
def _private():
    pass

def public():
    pass
`)

	require.Len(t, meta.Exports, 1)
	assert.Equal(t, "public", meta.Exports[0].ExportedName)
}

func TestExtract_Go(t *testing.T) {
	meta := extract(t, "store.go", `package cas

type base struct{}

type Store struct {
	base
	path, name string
}

func (s *Store) Get(key string) string { return key }
func (s *Store) Put(key string) {}

func NewStore() *Store { return &Store{} }
`)

	assert.Equal(t, "go", meta.Language)
	store := entry(t, meta, "Store")
	assert.Equal(t, domain.KindClass, store.Info.Kind)
	assert.Equal(t, []string{"Get", "Put"}, store.Info.Methods)
	assert.Equal(t, []string{"path", "name"}, store.Info.Properties)
	assert.Equal(t, "base", store.Info.Extends)

	assert.Equal(t, domain.KindFunction, entry(t, meta, "NewStore").Info.Kind)
	require.Len(t, meta.Locals, 1)
	assert.Equal(t, "base", meta.Locals[0].Name)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := treesitter.NewExtractor()
	assert.False(t, e.Supports("README.md"))

	_, err := e.Extract(context.Background(), []byte("# hi"), "README.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedLanguage))
}

func TestExtensions_CoverKnownLanguages(t *testing.T) {
	exts := treesitter.Extensions()
	for _, l := range domain.Languages() {
		for _, ext := range l.Extensions {
			assert.Contains(t, exts, ext, l.Name)
		}
	}
}
