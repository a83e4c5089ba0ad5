package domain

import (
	"fmt"
	"slices"
	"strings"
)

// ScoreFactor is one named contribution to a candidate score.
type ScoreFactor struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// String renders the factor as "name +points".
func (f ScoreFactor) String() string {
	return fmt.Sprintf("%s %+.2f", f.Name, f.Points)
}

// ScoreBreakdown is the ordered list of factors that make up a score.
// The total is always the sum of the factors in order.
type ScoreBreakdown []ScoreFactor

// Add appends a factor. Zero contributions are dropped.
func (b *ScoreBreakdown) Add(name string, points float64) {
	if points == 0 {
		return
	}
	*b = append(*b, ScoreFactor{Name: name, Points: points})
}

// Total sums the breakdown.
func (b ScoreBreakdown) Total() float64 {
	var total float64
	for _, f := range b {
		total += f.Points
	}
	return total
}

// Get returns the sum of all factors with the given name.
func (b ScoreBreakdown) Get(name string) (float64, bool) {
	var total float64
	found := false
	for _, f := range b {
		if f.Name == name {
			total += f.Points
			found = true
		}
	}
	return total, found
}

// HasPrefix reports whether any factor name starts with prefix and contributes with the given sign.
func (b ScoreBreakdown) HasPrefix(prefix string, positive bool) bool {
	for _, f := range b {
		if strings.HasPrefix(f.Name, prefix) && (f.Points > 0) == positive {
			return true
		}
	}
	return false
}

// Top returns up to n factors with the largest absolute contribution.
func (b ScoreBreakdown) Top(n int) ScoreBreakdown {
	sorted := slices.Clone(b)
	slices.SortStableFunc(sorted, func(x, y ScoreFactor) int {
		ax, ay := abs(x.Points), abs(y.Points)
		switch {
		case ax > ay:
			return -1
		case ax < ay:
			return 1
		default:
			return 0
		}
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Candidate is a file that survived evaluation and carries a score.
type Candidate struct {
	// Path is the absolute file path.
	Path string
	// FileName is the base name.
	FileName string
	// RelativePath is "/" followed by the slash-separated path relative to the root.
	RelativePath string
	// Content is the file content as read during evaluation.
	Content string
	// MtimeMs is the modification time in milliseconds at evaluation time.
	MtimeMs int64
	// Size is the file size in bytes.
	Size int64
	// Language is the language name derived from the extension.
	Language string
	// QuickNameMatched records whether the cheap name pre-filter matched.
	QuickNameMatched bool
	// Metadata is the extracted export list, nil when extraction failed.
	Metadata *ExportMetadata
	// Score equals Breakdown.Total().
	Score     float64
	Breakdown ScoreBreakdown
	// Aliases are import specifiers that reach this file through path aliases.
	Aliases []string
	// BaseImport is the import specifier relative to the configured base URL.
	BaseImport string
}

// AddScore appends a factor and recomputes the score.
func (c *Candidate) AddScore(name string, points float64) {
	c.Breakdown.Add(name, points)
	c.Score = c.Breakdown.Total()
}

// SetBreakdown replaces the breakdown and recomputes the score.
func (c *Candidate) SetBreakdown(b ScoreBreakdown) {
	c.Breakdown = b
	c.Score = b.Total()
}
