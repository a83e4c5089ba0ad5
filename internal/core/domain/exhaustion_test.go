package domain_test

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/seek/internal/core/domain"
)

func TestExhaustionError_Message(t *testing.T) {
	err := &domain.ExhaustionError{
		Signature: domain.Signature{
			Name:    domain.LiteralName("Calculator"),
			Type:    domain.KindClass,
			Methods: []string{"add", "subtract"},
		},
		Considered: 3,
		NearMisses: []domain.NearMiss{
			{
				Path:  "/tests/__mocks__/Calculator.js",
				Score: 12.5,
				Reasons: domain.ScoreBreakdown{
					{Name: "filename:exact", Points: 25},
					{Name: "path:/__mocks__/", Points: -20},
					{Name: "path:/tests/", Points: -15},
				},
				Rejection: "missing methods: subtract",
			},
			{
				Path:      "/src/Calc.js",
				Score:     4,
				Rejection: domain.ErrNoMetadata.Error(),
			},
		},
		Suggested: &domain.Signature{
			Name:    domain.LiteralName("Calculator"),
			Type:    domain.KindClass,
			Exports: domain.ExportsDefault,
			Methods: []string{"add"},
		},
	}

	g := goldie.New(t)
	g.Assert(t, "exhaustion", []byte(err.Error()))
}

func TestExhaustionError_UnwrapsToSentinel(t *testing.T) {
	var err error = &domain.ExhaustionError{Signature: domain.Signature{Type: domain.KindClass}}

	assert.True(t, errors.Is(err, domain.ErrNoMatchingCandidate))
	assert.Contains(t, err.Error(), "considered 0 candidate(s)")
	assert.NotContains(t, err.Error(), "closest matches")
}
