package ports

import "go.trai.ch/seek/internal/core/domain"

// CustomScorer contributes an extra score factor.
type CustomScorer interface {
	// Name labels the factor in the breakdown.
	Name() string
	// Score returns the points for candidate. Zero adds nothing.
	Score(candidate *domain.Candidate, sig domain.Signature, content string) float64
}

// FeedbackProvider awards a bonus based on past resolutions.
//
//go:generate go run go.uber.org/mock/mockgen -source=scorer.go -destination=mocks/mock_scorer.go -package=mocks
type FeedbackProvider interface {
	Bonus(candidate *domain.Candidate, sig domain.Signature) float64
}
