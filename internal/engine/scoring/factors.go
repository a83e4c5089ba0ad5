package scoring

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
)

// pathFactor sums every configured substring found in the relative path.
type pathFactor struct {
	weights domain.PathWeights
}

func (f pathFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	rel := strings.ToLower(in.Candidate.RelativePath)
	for _, table := range []map[string]float64{f.weights.Positive, f.weights.Negative} {
		for _, sub := range sortedKeys(table) {
			if strings.Contains(rel, strings.ToLower(sub)) {
				b.Add("path:"+sub, table[sub])
			}
		}
	}
}

// extensionFactor looks up the file extension.
type extensionFactor struct {
	weights map[string]float64
}

func (f extensionFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	ext := strings.ToLower(filepath.Ext(in.Candidate.FileName))
	if w, ok := f.weights[ext]; ok {
		b.Add("extension:"+ext, w)
	}
}

// fileNameFactor awards the single best file name tier.
type fileNameFactor struct {
	weights domain.FileNameWeights
}

func (f fileNameFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	stem := domain.FileStem(in.Candidate.FileName)
	sig := in.Signature

	if sig.Name.IsPattern() {
		if sig.Name.Pattern.MatchString(stem) {
			b.Add("filename:regex", f.weights.RegexMatch)
		}
		return
	}

	name := sig.ExpectedName()
	if name == "" {
		return
	}

	switch {
	case stem == name:
		b.Add("filename:exact", f.weights.ExactMatch)
	case strings.EqualFold(stem, name) || squash(stem) == squash(name):
		b.Add("filename:caseInsensitive", f.weights.CaseInsensitive)
	case partialMatch(stem, name):
		b.Add("filename:partial", f.weights.PartialMatch)
	}
}

func partialMatch(stem, name string) bool {
	s, n := squash(stem), squash(name)
	if len(s) < 3 || len(n) < 3 {
		return false
	}
	return strings.Contains(s, n) || strings.Contains(n, s)
}

// squash lowercases and drops separators so "calculator-service" equals "CalculatorService".
func squash(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// typeHintFactor looks for the declaration form of the expected kind.
type typeHintFactor struct {
	weights map[domain.Kind]float64
	regexes *RegexCache
}

var typeHintPatterns = map[domain.Kind]string{
	domain.KindClass:    `\bclass\s+[A-Za-z_$]|\btype\s+[A-Za-z_]\w*\s+(struct|interface)\b`,
	domain.KindFunction: `(?m)\bfunction\b|=>|^\s*(async\s+)?def\s+[A-Za-z_]|^func\s+[A-Za-z_]`,
	domain.KindObject:   `\bmodule\.exports\s*=\s*\{|\bexport\s+default\s+\{|\b(const|let|var)\s+[A-Za-z_$][\w$]*\s*=\s*\{`,
	domain.KindModule:   `(?m)\bmodule\.exports\b|\bexports\.[A-Za-z_$]|^export\s|__all__|^package\s+\w+`,
}

func (f typeHintFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	kind := in.Signature.Type
	if kind == "" {
		return
	}
	expr, ok := typeHintPatterns[kind]
	if !ok {
		return
	}
	if re := f.regexes.Get(expr); re != nil && re.MatchString(in.Content) {
		b.Add("type-hint:"+string(kind), f.weights[kind])
	}
}

// methodFactor awards each expected method mentioned in the text, up to a cap.
type methodFactor struct {
	weights domain.MentionWeights
	regexes *RegexCache
}

func (f methodFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	mentions := 0
	for _, m := range in.Signature.Methods {
		if mentions >= f.weights.MaxMentions {
			break
		}
		if re := f.regexes.Word(m); re != nil && re.MatchString(in.Content) {
			mentions++
		}
	}
	b.Add("methods:mentioned", float64(mentions)*f.weights.PerMention)
}

// exportFactor awards the strongest export hint present: named, then default, then generic.
type exportFactor struct {
	weights domain.ExportWeights
	regexes *RegexCache
}

const (
	defaultExportPattern = `\bexport\s+default\b|\bmodule\.exports\s*=`
	genericExportPattern = `\bexport\b|\bmodule\.exports\b|\bexports\.[A-Za-z_$][\w$]*\s*=|__all__`
)

func namedExportPattern(name string) string {
	q := regexp.QuoteMeta(name)
	pattern := `(?m)\bexport\s+(declare\s+)?(abstract\s+)?(async\s+)?(const|let|var|function\*?|class|interface|type|enum)\s+` + q + `\b` +
		`|\bexport\s*\{[^}]*\b` + q + `\b[^}]*\}` +
		`|\b(module\.)?exports\.` + q + `\s*=` +
		`|^(class|def|async\s+def)\s+` + q + `\b`
	if r := []rune(name); len(r) > 0 && unicode.IsUpper(r[0]) {
		pattern += `|^(func|type)\s+` + q + `\b`
	}
	return pattern
}

func (f exportFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	sig := in.Signature
	content := in.Content

	if name := sig.ExpectedName(); name != "" && sig.Exports != domain.ExportsDefault {
		if re := f.regexes.Get(namedExportPattern(name)); re != nil && re.MatchString(content) {
			b.Add("exports:named", f.weights.Named)
			return
		}
	}

	if sig.Exports == "" || sig.Exports == domain.ExportsDefault {
		if re := f.regexes.Get(defaultExportPattern); re != nil && re.MatchString(content) {
			b.Add("exports:default", f.weights.Default)
			return
		}
	}

	if re := f.regexes.Get(genericExportPattern); re != nil && re.MatchString(content) {
		b.Add("exports:generic", f.weights.Generic)
	}
}

// nameFactor awards textual mentions of the expected name, up to a cap.
type nameFactor struct {
	weights domain.MentionWeights
	regexes *RegexCache
}

func (f nameFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	var re *regexp.Regexp
	switch {
	case in.Signature.Name.IsPattern():
		re = in.Signature.Name.Pattern
	case in.Signature.ExpectedName() != "":
		re = f.regexes.Word(in.Signature.ExpectedName())
	}
	if re == nil || f.weights.MaxMentions <= 0 {
		return
	}
	mentions := len(re.FindAllStringIndex(in.Content, f.weights.MaxMentions))
	b.Add("names:mentioned", float64(mentions)*f.weights.PerMention)
}

// customFactor delegates to a pluggable scorer.
type customFactor struct {
	scorer ports.CustomScorer
}

func (f customFactor) Apply(in Input, b *domain.ScoreBreakdown) {
	b.Add("custom:"+f.scorer.Name(), f.scorer.Score(in.Candidate, in.Signature, in.Content))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
