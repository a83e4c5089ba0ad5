package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/seek/internal/core/domain"
)

func TestCandidate_AddScore(t *testing.T) {
	c := &domain.Candidate{}
	c.SetBreakdown(domain.ScoreBreakdown{{Name: "path:/src/", Points: 10}})

	c.AddScore("recency", 2.5)
	c.AddScore("noop", 0)
	c.AddScore("loose-name-penalty", -4)

	assert.InDelta(t, 8.5, c.Score, 1e-9)
	assert.InDelta(t, c.Breakdown.Total(), c.Score, 1e-9)
	assert.Len(t, c.Breakdown, 3)
	_, ok := c.Breakdown.Get("noop")
	assert.False(t, ok)
}
