package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/seek/internal/adapters/config"
	"go.trai.ch/seek/internal/adapters/fs"
	"go.trai.ch/seek/internal/adapters/loader"
	"go.trai.ch/seek/internal/adapters/treesitter"
	"go.trai.ch/seek/internal/app"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const calculatorJS = `export default class Calculator {
  add(a, b) { return a + b; }
  subtract(a, b) { return a - b; }
}
`

func newApp(t *testing.T) *app.App {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return app.New(config.NewLoader(log), fs.NewWalker(), treesitter.NewExtractor(), loader.NewRegistry(0), log)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func calculatorSignature() domain.Signature {
	return domain.Signature{Name: domain.LiteralName("Calculator"), Methods: []string{"add"}}
}

func TestApp_Find(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Calculator.js", calculatorJS)
	writeFile(t, root, "tests/Calculator.test.js", "import Calculator from '../src/Calculator';\n")
	a := newApp(t)

	res, err := a.Find(context.Background(), root, calculatorSignature(), app.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/src/Calculator.js", res.RelativePath)
	assert.Equal(t, filepath.Join(root, "src", "Calculator.js"), res.Path)
	assert.Equal(t, domain.AccessDefault, res.Access.Type)
	assert.False(t, res.FromCache)
	assert.FileExists(t, filepath.Join(root, domain.DefaultCachePath()))

	again, err := a.Find(context.Background(), root, calculatorSignature(), app.FindOptions{})
	require.NoError(t, err)
	assert.True(t, again.FromCache)
	assert.Equal(t, res.Path, again.Path)

	stats, ok := a.Stats(root, app.FindOptions{})
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.Traversals)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestApp_FindNoCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Calculator.js", calculatorJS)
	a := newApp(t)
	opts := app.FindOptions{NoCache: true}

	for range 2 {
		res, err := a.Find(context.Background(), root, calculatorSignature(), opts)
		require.NoError(t, err)
		assert.False(t, res.FromCache)
	}

	assert.NoFileExists(t, filepath.Join(root, domain.DefaultCachePath()))
	stats, ok := a.Stats(root, opts)
	require.True(t, ok)
	assert.Equal(t, int64(2), stats.Traversals)
}

func TestApp_FindLoose(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Calc.js", calculatorJS)
	a := newApp(t)

	_, err := a.Find(context.Background(), root, calculatorSignature(), app.FindOptions{NoCache: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoMatchingCandidate))

	res, err := a.Find(context.Background(), root, calculatorSignature(), app.FindOptions{NoCache: true, Loose: true})
	require.NoError(t, err)
	assert.Equal(t, "/src/Calc.js", res.RelativePath)
	penalty, ok := res.Breakdown.Get("loose-name-penalty")
	require.True(t, ok)
	assert.Negative(t, penalty)
}

func TestApp_FindAnnotatesAliases(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Calculator.ts", calculatorJS)
	writeFile(t, root, "tsconfig.json", `{"compilerOptions": {"baseUrl": ".", "paths": {"@app/*": ["src/*"]}}}`)

	res, err := newApp(t).Find(context.Background(), root, calculatorSignature(), app.FindOptions{NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"@app/Calculator"}, res.Aliases)
	assert.Equal(t, "src/Calculator", res.BaseImport)
}

func TestApp_FindUsesConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Calculator.js", calculatorJS)
	writeFile(t, root, domain.ConfigFileName, "discovery:\n  cache:\n    file: custom-cache.json\n")

	_, err := newApp(t).Find(context.Background(), root, calculatorSignature(), app.FindOptions{})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "custom-cache.json"))
}

func TestApp_FindErrors(t *testing.T) {
	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "Calculator.js", calculatorJS)

		_, err := newApp(t).Find(context.Background(), filepath.Join(root, "Calculator.js"), calculatorSignature(), app.FindOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrRootNotDirectory))
	})

	t.Run("root does not exist", func(t *testing.T) {
		_, err := newApp(t).Find(context.Background(), filepath.Join(t.TempDir(), "missing"), calculatorSignature(), app.FindOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrRootNotDirectory.Error())
	})

	t.Run("malformed config", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, domain.ConfigFileName, "discovery: [unclosed")

		_, err := newApp(t).Find(context.Background(), root, calculatorSignature(), app.FindOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrConfigParseFailed.Error())
	})

	t.Run("invalid signature", func(t *testing.T) {
		_, err := newApp(t).Find(context.Background(), t.TempDir(), domain.Signature{}, app.FindOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrInvalidSignature.Error())
		assert.True(t, errors.Is(err, domain.ErrEmptySignature))
	})
}

func TestApp_ClearCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Calculator.js", calculatorJS)
	a := newApp(t)

	_, err := a.Find(context.Background(), root, calculatorSignature(), app.FindOptions{})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, domain.DefaultCachePath()))

	require.NoError(t, a.ClearCache(context.Background(), root, ""))
	assert.NoFileExists(t, filepath.Join(root, domain.DefaultCachePath()))

	res, err := a.Find(context.Background(), root, calculatorSignature(), app.FindOptions{})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
}

func TestApp_EnginesShareCacheFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Calculator.js", calculatorJS)
	writeFile(t, root, "src/Widget.js", "export default class Widget { render() {} }\n")
	a := newApp(t)

	finds := []struct {
		sig  domain.Signature
		opts app.FindOptions
	}{
		{sig: domain.Signature{Name: domain.LiteralName("Widget")}, opts: app.FindOptions{Loose: true}},
		{sig: calculatorSignature()},
		{sig: domain.Signature{Name: domain.LiteralName("Widget"), Type: domain.KindClass}, opts: app.FindOptions{Loose: true}},
	}
	for _, f := range finds {
		_, err := a.Find(context.Background(), root, f.sig, f.opts)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(root, domain.DefaultCachePath()))
	require.NoError(t, err)
	var entries map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, len(finds))

	res, err := a.Find(context.Background(), root, calculatorSignature(), app.FindOptions{Loose: true})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
}

func TestApp_ClearCacheWhenDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, domain.ConfigFileName, "discovery:\n  cache:\n    enabled: false\n")
	writeFile(t, root, domain.DefaultCachePath(), "{}")

	require.NoError(t, newApp(t).ClearCache(context.Background(), root, ""))
	assert.NoFileExists(t, filepath.Join(root, domain.DefaultCachePath()))
}
