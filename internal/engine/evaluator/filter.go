package evaluator

import (
	"path/filepath"
	"strings"
	"unicode"

	"go.trai.ch/seek/internal/core/domain"
)

// IsCandidateSafe reports whether content contains none of the blocked
// tokens, compared case-insensitively.
func IsCandidateSafe(content string, blocked []string) bool {
	if len(blocked) == 0 {
		return true
	}
	lower := strings.ToLower(content)
	for _, token := range blocked {
		if token == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(token)) {
			return false
		}
	}
	return true
}

// QuickNameMatch is the cheap pre-read filter. It passes when any token of
// the literal name occurs in the file name, when a pattern name matches the
// stem, when a non-default exports name occurs in the file name, or when the
// signature names nothing. All comparisons ignore case.
func QuickNameMatch(fileName string, sig domain.Signature) bool {
	lower := strings.ToLower(fileName)
	if sig.Name.IsPattern() {
		stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		if sig.Name.Pattern.MatchString(stem) {
			return true
		}
	} else if sig.Name.Literal != "" && anyTokenIn(lower, sig.Name.Literal) {
		return true
	}

	if sig.Exports != "" && sig.Exports != domain.ExportsDefault &&
		strings.Contains(lower, strings.ToLower(sig.Exports)) {
		return true
	}

	return sig.Name.IsZero() && (sig.Exports == "" || sig.Exports == domain.ExportsDefault)
}

// anyTokenIn reports whether some token of name is a substring of lower.
func anyTokenIn(lower, name string) bool {
	for _, tok := range Tokenize(name) {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// Tokenize splits an identifier on case changes and non-alphanumerics and lowercases the parts.
// "HTTPServerConfig" yields http, server, config.
func Tokenize(s string) []string {
	var tokens []string
	var cur []rune
	runes := []rune(s)

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return tokens
}
