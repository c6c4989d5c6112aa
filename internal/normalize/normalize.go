package normalize

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// legalSuffixes holds the core legal-entity tokens stripped from the end of
// a label. Generic business words (global, solutions, services, ...) are
// deliberately absent: they are frequently part of the name itself.
var legalSuffixes = map[string]struct{}{
	"inc":          {},
	"incorporated": {},
	"llc":          {},
	"ltd":          {},
	"limited":      {},
	"corp":         {},
	"corporation":  {},
	"co":           {},
	"company":      {},
	"plc":          {},
	"gmbh":         {},
	"ag":           {},
	"sa":           {},
	"nv":           {},
	"pvt":          {},
	"private":      {},
	"lp":           {},
	"llp":          {},
	"holding":      {},
	"holdings":     {},
}

// stopwords are excluded from token signatures; they are too common to
// discriminate between companies.
var stopwords = map[string]struct{}{
	"the": {},
	"and": {},
	"of":  {},
	"for": {},
	"in":  {},
	"a":   {},
	"an":  {},
	"to":  {},
	"at":  {},
	"by":  {},
	"on":  {},
}

// Normalize maps a raw company label to its canonical comparison form:
// lowercased, punctuation stripped, ampersands spelled out, one trailing
// legal suffix removed, leading/trailing "the" removed, and whitespace
// collapsed.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "&", " and ")
	s = stripPunctuation(s)

	tokens := trimTokens(strings.Fields(s))
	return strings.Join(tokens, " ")
}

// TokenSignature returns the sorted, stopword-filtered token string used as
// a blocking key. Single-character tokens are dropped along with stopwords.
func TokenSignature(normalized string) string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Eligible reports whether a normalized label is long enough to take part
// in matching. Labels shorter than two characters can never be paired.
func Eligible(normalized string) bool {
	return utf8.RuneCountInString(normalized) >= 2
}

// IsStopword reports whether the token is excluded from token signatures.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// HasLegalSuffix reports whether any token of the label is a known
// legal-entity suffix. Matching is case-insensitive and ignores trailing
// periods, so "Ltd." counts.
func HasLegalSuffix(label string) bool {
	for _, tok := range strings.Fields(strings.ToLower(label)) {
		tok = strings.TrimRight(tok, ".")
		if _, ok := legalSuffixes[tok]; ok {
			return true
		}
	}
	return false
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// trimTokens drops the trailing run of legal suffix tokens (plus a trailing
// or leading "the") in a single pass, always leaving at least one token
// behind. Only edge tokens are candidates, so interior words are never
// truncated and the result is stable under repeated normalization.
func trimTokens(tokens []string) []string {
	end := len(tokens)
	for end > 1 {
		last := tokens[end-1]
		if last != "the" {
			if _, ok := legalSuffixes[last]; !ok {
				break
			}
		}
		end--
	}
	tokens = tokens[:end]
	for len(tokens) > 1 && tokens[0] == "the" {
		tokens = tokens[1:]
	}
	return tokens
}
