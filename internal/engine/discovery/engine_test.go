package discovery_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/seek/internal/adapters/cas"
	"go.trai.ch/seek/internal/adapters/fs"
	"go.trai.ch/seek/internal/adapters/loader"
	"go.trai.ch/seek/internal/adapters/treesitter"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports/mocks"
	"go.trai.ch/seek/internal/engine/discovery"
	"go.uber.org/mock/gomock"
)

const calculatorJS = `export default class Calculator {
  add(a, b) { return a + b; }
  subtract(a, b) { return a - b; }
  multiply(a, b) { return a * b; }
  divide(a, b) { return a / b; }
}
`

const calcJS = `export default class Calc {
  add(a, b) { return a + b; }
  subtract(a, b) { return a - b; }
  multiply(a, b) { return a * b; }
  divide(a, b) { return a / b; }
}
`

func calculatorSignature() domain.Signature {
	return domain.Signature{
		Name:    domain.LiteralName("Calculator"),
		Type:    domain.KindClass,
		Methods: []string{"add", "subtract"},
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	}
}

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func newEngine(t *testing.T, root string, cfg domain.Config, opts ...discovery.Option) *discovery.Engine {
	t.Helper()
	log := quietLogger(t)
	extractor := treesitter.NewExtractor()
	return discovery.New(root, cfg, discovery.Deps{
		Walker:    fs.NewWalker(),
		Extractor: extractor,
		Loader:    loader.New(extractor, loader.NewRegistry(0), cfg.Scoring.Target, 0),
		Store:     cas.NewStore(cfg.CachePath(root), log),
		Logger:    log,
	}, opts...)
}

func calculatorTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Calculator.js":   calculatorJS,
		"tests/Calculator.js": calculatorJS,
		"src/legacy/Calc.js":  calcJS,
	})
	return root
}

func TestDiscoverTarget_RanksSourceOverTests(t *testing.T) {
	root := calculatorTree(t)
	e := newEngine(t, root, domain.DefaultConfig())

	res, err := e.DiscoverTarget(context.Background(), calculatorSignature())
	require.NoError(t, err)

	assert.Equal(t, "/src/Calculator.js", res.RelativePath)
	assert.Equal(t, filepath.Join(root, "src", "Calculator.js"), res.Path)
	assert.False(t, res.FromCache)
	assert.Equal(t, domain.AccessDefault, res.Access.Type)
	assert.Equal(t, domain.StateResolved, e.State())

	assert.True(t, res.Breakdown.HasPrefix("path:", true), "expected a positive path factor")
	_, ok := res.Breakdown.Get("filename:exact")
	assert.True(t, ok, "expected an exact file name factor")
	methods, ok := res.Breakdown.Get("target:methods")
	require.True(t, ok)
	assert.Positive(t, methods)
	assert.InDelta(t, res.Breakdown.Total(), res.Score, 1e-9)
}

func TestDiscoverTarget_CacheIsIdempotent(t *testing.T) {
	root := calculatorTree(t)
	e := newEngine(t, root, domain.DefaultConfig())
	ctx := context.Background()

	first, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	second, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.SignatureHash, second.SignatureHash)

	stats := e.Stats()
	assert.Equal(t, int64(1), stats.Traversals)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestDiscoverTarget_EditInvalidatesCache(t *testing.T) {
	root := calculatorTree(t)
	e := newEngine(t, root, domain.DefaultConfig())
	ctx := context.Background()

	first, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	cached, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	require.True(t, cached.FromCache)

	touched := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(first.Path, touched, touched))

	again, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	assert.False(t, again.FromCache)
	assert.Equal(t, first.Path, again.Path)
	assert.Equal(t, int64(2), e.Stats().Traversals)
}

func TestDiscoverTarget_ExpiredEntryIsAMiss(t *testing.T) {
	root := calculatorTree(t)
	now := time.Now()
	clock := func() time.Time { return now }
	cfg := domain.DefaultConfig()
	cfg.Cache.TTL = time.Minute
	e := newEngine(t, root, cfg, discovery.WithClock(clock))
	ctx := context.Background()

	_, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	res, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, int64(2), e.Stats().Traversals)
}

func TestDiscoverTarget_PersistedCacheSurvivesEngines(t *testing.T) {
	root := calculatorTree(t)
	cfg := domain.DefaultConfig()

	first, err := newEngine(t, root, cfg).DiscoverTarget(context.Background(), calculatorSignature())
	require.NoError(t, err)
	assert.FileExists(t, cfg.CachePath(root))

	e := newEngine(t, root, cfg)
	res, err := e.DiscoverTarget(context.Background(), calculatorSignature())
	require.NoError(t, err)

	assert.True(t, res.FromCache)
	assert.Equal(t, first.Path, res.Path)
	assert.Equal(t, "/src/Calculator.js", res.RelativePath)
	assert.Zero(t, e.Stats().Traversals)
}

func TestDiscoverTarget_CacheDisabled(t *testing.T) {
	root := calculatorTree(t)
	cfg := domain.DefaultConfig()
	cfg.Cache.Enabled = false
	e := newEngine(t, root, cfg)
	ctx := context.Background()

	_, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	res, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	assert.Equal(t, int64(2), e.Stats().Traversals)
	assert.NoFileExists(t, cfg.CachePath(root))
}

func TestDiscoverTarget_UnsafeCandidateNeverWins(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Calculator.js":   calculatorJS + "process.exit(1);\n",
		"tests/Calculator.js": calculatorJS,
	})
	e := newEngine(t, root, domain.DefaultConfig())

	res, err := e.DiscoverTarget(context.Background(), calculatorSignature())
	require.NoError(t, err)

	assert.Equal(t, "/tests/Calculator.js", res.RelativePath)
	assert.Equal(t, int64(1), e.Stats().Unsafe)
}

func TestDiscoverTarget_TieBreakIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b/Widget.js": "export default class Widget { render() {} }\n",
		"a/Widget.js": "export default class Widget { render() {} }\n",
	})
	stamp := time.Now().Add(-time.Hour)
	for _, rel := range []string{"a/Widget.js", "b/Widget.js"} {
		require.NoError(t, os.Chtimes(filepath.Join(root, rel), stamp, stamp))
	}

	cfg := domain.DefaultConfig()
	cfg.Cache.Enabled = false
	now := time.Now()
	sig := domain.Signature{Name: domain.LiteralName("Widget"), Type: domain.KindClass}

	for range 5 {
		e := newEngine(t, root, cfg, discovery.WithClock(func() time.Time { return now }))
		res, err := e.DiscoverTarget(context.Background(), sig)
		require.NoError(t, err)
		assert.Equal(t, "/a/Widget.js", res.RelativePath)
	}
}

func TestDiscoverTarget_MocksOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tests/__mocks__/Calculator.js": calculatorJS,
	})
	e := newEngine(t, root, domain.DefaultConfig())

	res, err := e.DiscoverTarget(context.Background(), calculatorSignature())
	if err == nil {
		assert.Equal(t, "/tests/__mocks__/Calculator.js", res.RelativePath)
		assert.True(t, res.Breakdown.HasPrefix("path:", false))
		return
	}
	var exErr *domain.ExhaustionError
	require.ErrorAs(t, err, &exErr)
	require.NotEmpty(t, exErr.NearMisses)
	assert.Equal(t, "/tests/__mocks__/Calculator.js", exErr.NearMisses[0].Path)
}

func TestDiscoverTarget_ExhaustionDiagnostics(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Calculator.js": "export default class Calculator {\n  add(a, b) { return a + b; }\n}\n",
	})
	e := newEngine(t, root, domain.DefaultConfig())

	sig := domain.Signature{
		Name:    domain.LiteralName("Calculator"),
		Type:    domain.KindClass,
		Methods: []string{"add", "multiply"},
	}
	_, err := e.DiscoverTarget(context.Background(), sig)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoMatchingCandidate))
	assert.Equal(t, domain.StateExhausted, e.State())

	var exErr *domain.ExhaustionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, 1, exErr.Considered)
	require.Len(t, exErr.NearMisses, 1)
	assert.Equal(t, "/src/Calculator.js", exErr.NearMisses[0].Path)
	assert.Equal(t, "missing methods: multiply", exErr.NearMisses[0].Rejection)
	assert.LessOrEqual(t, len(exErr.NearMisses[0].Reasons), 3)

	require.NotNil(t, exErr.Suggested)
	assert.Equal(t, "Calculator", exErr.Suggested.Name.Literal)
	assert.Equal(t, domain.KindClass, exErr.Suggested.Type)
	assert.Equal(t, []string{"add"}, exErr.Suggested.Methods)
	assert.Equal(t, domain.ExportsDefault, exErr.Suggested.Exports)
}

func TestDiscoverTarget_NoCandidates(t *testing.T) {
	e := newEngine(t, t.TempDir(), domain.DefaultConfig())

	_, err := e.DiscoverTarget(context.Background(), calculatorSignature())

	var exErr *domain.ExhaustionError
	require.ErrorAs(t, err, &exErr)
	assert.Zero(t, exErr.Considered)
	assert.Nil(t, exErr.Suggested)
}

func TestDiscoverTarget_InvalidSignature(t *testing.T) {
	e := newEngine(t, t.TempDir(), domain.DefaultConfig())

	_, err := e.DiscoverTarget(context.Background(), domain.Signature{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidSignature.Error())
	assert.True(t, errors.Is(err, domain.ErrEmptySignature))
}

func TestDiscoverTarget_LooseMatchAddsPenalty(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/legacy/Calc.js": "export default class Calculator {\n  add(a, b) { return a + b; }\n  subtract(a, b) { return a - b; }\n}\n",
	})

	strict := newEngine(t, root, domain.DefaultConfig())
	_, err := strict.DiscoverTarget(context.Background(), calculatorSignature())
	require.Error(t, err)

	cfg := domain.DefaultConfig()
	cfg.Scoring.AllowLooseNameMatch = true
	cfg.Cache.Enabled = false
	res, err := newEngine(t, root, cfg).DiscoverTarget(context.Background(), calculatorSignature())
	require.NoError(t, err)

	assert.Equal(t, "/src/legacy/Calc.js", res.RelativePath)
	penalty, ok := res.Breakdown.Get("loose-name-penalty")
	require.True(t, ok)
	assert.InDelta(t, -cfg.Scoring.LooseNamePenalty, penalty, 1e-9)
}

func TestClearCache(t *testing.T) {
	root := calculatorTree(t)
	cfg := domain.DefaultConfig()
	e := newEngine(t, root, cfg)
	ctx := context.Background()

	_, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	require.FileExists(t, cfg.CachePath(root))

	require.NoError(t, e.ClearCache())
	assert.NoFileExists(t, cfg.CachePath(root))

	res, err := e.DiscoverTarget(ctx, calculatorSignature())
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, int64(2), e.Stats().Traversals)
}

func TestRank(t *testing.T) {
	cs := []*domain.Candidate{
		{RelativePath: "/b.js", Score: 5},
		{RelativePath: "/c.js", Score: 9},
		{RelativePath: "/a.js", Score: 5},
	}

	discovery.Rank(cs)

	got := []string{cs[0].RelativePath, cs[1].RelativePath, cs[2].RelativePath}
	assert.Equal(t, []string{"/c.js", "/a.js", "/b.js"}, got)
}
