// Package scoring computes heuristic candidate scores from independent weighted factors.
package scoring

import (
	"regexp"
	"sync"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
)

// Input is what every factor sees.
type Input struct {
	Candidate *domain.Candidate
	Signature domain.Signature
	Content   string
}

// Factor is one additive scoring strategy. Apply appends its contributions to b.
type Factor interface {
	Apply(in Input, b *domain.ScoreBreakdown)
}

// Result is a score and the breakdown it sums.
type Result struct {
	Total     float64
	Breakdown domain.ScoreBreakdown
}

// Engine composes factors in a fixed order.
type Engine struct {
	factors []Factor
}

// New creates an Engine with the default factor set driven by weights,
// followed by one factor per custom scorer.
func New(weights domain.ScoringConfig, custom ...ports.CustomScorer) *Engine {
	regexes := &RegexCache{}
	factors := []Factor{
		pathFactor{weights: weights.Paths},
		extensionFactor{weights: weights.Extensions},
		fileNameFactor{weights: weights.FileName},
		typeHintFactor{weights: weights.TypeHints, regexes: regexes},
		methodFactor{weights: weights.Methods, regexes: regexes},
		exportFactor{weights: weights.Exports, regexes: regexes},
		nameFactor{weights: weights.Names, regexes: regexes},
	}
	for _, s := range custom {
		factors = append(factors, customFactor{scorer: s})
	}
	return &Engine{factors: factors}
}

// Score runs every factor. The total is the sum of the breakdown.
func (e *Engine) Score(c *domain.Candidate, sig domain.Signature, content string) Result {
	in := Input{Candidate: c, Signature: sig, Content: content}
	var b domain.ScoreBreakdown
	for _, f := range e.factors {
		f.Apply(in, &b)
	}
	return Result{Total: b.Total(), Breakdown: b}
}

// TargetBonus computes the post-load bonus of entry: exact or pattern name
// agreement and one award per confirmed expected method.
func TargetBonus(w domain.TargetWeights, entry domain.ExportEntry, sig domain.Signature) domain.ScoreBreakdown {
	var b domain.ScoreBreakdown

	switch {
	case sig.Name.IsPattern():
		if sig.Name.Match(entry.Info.Name) || sig.Name.Match(entry.ExportedName) {
			b.Add("target:patternName", w.PatternName)
		}
	case sig.Name.Literal != "":
		if entry.Info.Name == sig.Name.Literal || entry.ExportedName == sig.Name.Literal {
			b.Add("target:exactName", w.ExactName)
		}
	}

	confirmed := 0
	for _, m := range sig.Methods {
		for _, have := range entry.Info.Methods {
			if have == m {
				confirmed++
				break
			}
		}
	}
	b.Add("target:methods", float64(confirmed)*w.MethodMatch)

	return b
}

// RegexCache memoizes compiled patterns. It is safe for concurrent use.
type RegexCache struct {
	m sync.Map
}

// Get returns the compiled expression, or nil when it does not compile.
func (c *RegexCache) Get(expr string) *regexp.Regexp {
	if v, ok := c.m.Load(expr); ok {
		re, _ := v.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = nil
	}
	v, _ := c.m.LoadOrStore(expr, re)
	cached, _ := v.(*regexp.Regexp)
	return cached
}

// Word returns a cached whole-word matcher for an identifier.
func (c *RegexCache) Word(ident string) *regexp.Regexp {
	if plainIdent.MatchString(ident) {
		return c.Get(`\b` + ident + `\b`)
	}
	return c.Get(`(^|[^A-Za-z0-9_$])` + regexp.QuoteMeta(ident) + `($|[^A-Za-z0-9_$])`)
}

var plainIdent = regexp.MustCompile(`^\w+$`)
