package domain

import (
	"fmt"
	"strings"
)

// NearMiss is a ranked candidate that failed validation.
type NearMiss struct {
	Path      string         `json:"path"`
	Score     float64        `json:"score"`
	Reasons   ScoreBreakdown `json:"reasons"`
	Rejection string         `json:"rejection"`
}

// ExhaustionError is returned when no candidate satisfies a signature.
// It unwraps to ErrNoMatchingCandidate.
type ExhaustionError struct {
	Signature  Signature
	Considered int
	NearMisses []NearMiss
	// Suggested is a signature derived from the best candidate, nil when
	// there was no candidate at all.
	Suggested *Signature
}

// Message returns the report without the wrapped sentinel.
func (e *ExhaustionError) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no candidate matched signature %s", e.Signature.String())

	if len(e.NearMisses) == 0 {
		fmt.Fprintf(&b, "\nconsidered %d candidate(s)", e.Considered)
	} else {
		fmt.Fprintf(&b, "\nconsidered %d candidate(s); closest matches:", e.Considered)
	}

	for i, nm := range e.NearMisses {
		fmt.Fprintf(&b, "\n  %d. %s (score %.2f)", i+1, nm.Path, nm.Score)
		if len(nm.Reasons) > 0 {
			parts := make([]string, 0, len(nm.Reasons))
			for _, r := range nm.Reasons {
				parts = append(parts, r.String())
			}
			fmt.Fprintf(&b, "\n     why: %s", strings.Join(parts, ", "))
		}
		if nm.Rejection != "" {
			fmt.Fprintf(&b, "\n     rejected: %s", nm.Rejection)
		}
	}

	if e.Suggested != nil {
		fmt.Fprintf(&b, "\nsuggested signature: %s", e.Suggested.String())
	}
	return b.String()
}

func (e *ExhaustionError) Error() string {
	return e.Message()
}

func (e *ExhaustionError) Unwrap() error {
	return ErrNoMatchingCandidate
}
