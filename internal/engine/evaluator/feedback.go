package evaluator

import (
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
)

var _ ports.FeedbackProvider = (*HistoryFeedback)(nil)

// HistoryFeedback favours files that already won a resolution recorded in the
// persisted cache. The history is a snapshot taken at construction.
type HistoryFeedback struct {
	weight float64
	wins   map[string]struct{}
}

// NewHistoryFeedback snapshots the winners recorded in store.
func NewHistoryFeedback(store ports.CacheStore, weight float64) *HistoryFeedback {
	wins := make(map[string]struct{})
	if store != nil {
		for _, entry := range store.Entries() {
			wins[entry.Path] = struct{}{}
		}
	}
	return &HistoryFeedback{weight: weight, wins: wins}
}

// Bonus returns the configured weight for past winners, zero otherwise.
func (h *HistoryFeedback) Bonus(c *domain.Candidate, _ domain.Signature) float64 {
	if _, ok := h.wins[c.Path]; ok {
		return h.weight
	}
	return 0
}
