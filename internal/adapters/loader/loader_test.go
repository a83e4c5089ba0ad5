package loader_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/seek/internal/adapters/loader"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func calculatorMeta() *domain.ExportMetadata {
	return &domain.ExportMetadata{
		Language: "javascript",
		Exports: []domain.ExportEntry{
			{
				ExportedName: "helper",
				Access:       domain.Access{Type: domain.AccessNamed, Name: "helper"},
				Info:         domain.ExportInfo{Name: "helper", Kind: domain.KindFunction},
			},
			{
				ExportedName: domain.ExportsDefault,
				Access:       domain.Access{Type: domain.AccessDefault},
				Info: domain.ExportInfo{
					Name:    "Calculator",
					Kind:    domain.KindClass,
					Methods: []string{"add", "subtract"},
				},
			},
		},
	}
}

func TestRegistry_EvictsOldestAtCapacity(t *testing.T) {
	r := loader.NewRegistry(domain.MaxCachedModules)
	for i := range domain.MaxCachedModules + 1 {
		r.Put(&domain.ModuleHandle{Path: fmt.Sprintf("/m%03d.js", i)})
	}

	assert.Equal(t, domain.MaxCachedModules, r.Len())
	_, ok := r.Get("/m000.js")
	assert.False(t, ok, "oldest module should be evicted")
	_, ok = r.Get(fmt.Sprintf("/m%03d.js", domain.MaxCachedModules))
	assert.True(t, ok)
}

func TestRegistry_LookupsDoNotRefresh(t *testing.T) {
	r := loader.NewRegistry(2)
	r.Put(&domain.ModuleHandle{Path: "/a.js"})
	r.Put(&domain.ModuleHandle{Path: "/b.js"})

	_, ok := r.Get("/a.js")
	require.True(t, ok)
	r.Put(&domain.ModuleHandle{Path: "/c.js"})

	assert.Equal(t, []string{"/b.js", "/c.js"}, r.Paths())
}

func TestRegistry_ResizeEvictsOldest(t *testing.T) {
	r := loader.NewRegistry(3)
	for _, p := range []string{"/a.js", "/b.js", "/c.js"} {
		r.Put(&domain.ModuleHandle{Path: p})
	}

	r.Resize(1)

	assert.Equal(t, []string{"/c.js"}, r.Paths())
}

func TestLoader_ReusesUnchangedModule(t *testing.T) {
	r := loader.NewRegistry(4)
	l := loader.New(nil, r, domain.DefaultConfig().Scoring.Target, 0)

	c := &domain.Candidate{Path: "/src/Calculator.js", MtimeMs: 10, Metadata: calculatorMeta()}
	first, err := l.Load(context.Background(), c)
	require.NoError(t, err)

	second, err := l.Load(context.Background(), &domain.Candidate{Path: c.Path, MtimeMs: 10})
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = l.Load(context.Background(), &domain.Candidate{Path: c.Path, MtimeMs: 11})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoMetadata))
}

func TestLoader_ExtractsMissingMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockMetadataExtractor(ctrl)
	extractor.EXPECT().
		Extract(gomock.Any(), []byte("export default class Calculator {}"), "/src/Calculator.js").
		Return(calculatorMeta(), nil)

	l := loader.New(extractor, loader.NewRegistry(4), domain.DefaultConfig().Scoring.Target, 0)
	h, err := l.Load(context.Background(), &domain.Candidate{
		Path:    "/src/Calculator.js",
		Content: "export default class Calculator {}",
	})

	require.NoError(t, err)
	assert.Equal(t, "Calculator", h.Metadata.Primary().Info.Name)
}

func TestLoader_ValidatePicksBestBonus(t *testing.T) {
	target := domain.DefaultConfig().Scoring.Target
	l := loader.New(nil, nil, target, 0)
	h := &domain.ModuleHandle{Path: "/src/Calculator.js", Metadata: calculatorMeta()}

	v, ok := l.Validate(h, domain.Signature{
		Name:    domain.LiteralName("Calculator"),
		Type:    domain.KindClass,
		Methods: []string{"add", "subtract"},
	})

	require.True(t, ok)
	require.NotNil(t, v.Entry)
	assert.Equal(t, domain.AccessDefault, v.Entry.Access.Type)
	got, _ := v.Bonus.Get("target:exactName")
	assert.InDelta(t, target.ExactName, got, 1e-9)
	got, _ = v.Bonus.Get("target:methods")
	assert.InDelta(t, 2*target.MethodMatch, got, 1e-9)
}

func TestLoader_ValidateReportsReason(t *testing.T) {
	l := loader.New(nil, nil, domain.DefaultConfig().Scoring.Target, 0)
	h := &domain.ModuleHandle{Path: "/src/Calculator.js", Metadata: calculatorMeta()}

	v, ok := l.Validate(h, domain.Signature{
		Name:    domain.LiteralName("Calculator"),
		Type:    domain.KindClass,
		Methods: []string{"add", "multiply"},
	})

	assert.False(t, ok)
	assert.Equal(t, "missing methods: multiply", v.Reason)
}

func TestLoader_ResetPurgesRegistry(t *testing.T) {
	r := loader.NewRegistry(4)
	l := loader.New(nil, r, domain.TargetWeights{}, 0)
	_, err := l.Load(context.Background(), &domain.Candidate{Path: "/a.js", Metadata: calculatorMeta()})
	require.NoError(t, err)

	l.Reset()

	assert.Zero(t, r.Len())
}
