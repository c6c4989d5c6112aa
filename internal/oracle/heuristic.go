package oracle

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"unify/internal/normalize"
)

// Heuristic adjudicates pairs with local rules only. It is the default
// engine: no network, no latency, deterministic verdicts.
type Heuristic struct{}

// Resolve applies the rule ladder in order and returns the first verdict
// that fires. It never returns an error.
func (Heuristic) Resolve(_ context.Context, pair LabelPair, score float64) (Verdict, error) {
	if pair.NormA != "" && pair.NormA == pair.NormB {
		return Verdict{SameCompany: true, Confidence: 0.99, Reasoning: "normalized names identical"}, nil
	}

	tokensA := contentTokens(pair.NormA)
	tokensB := contentTokens(pair.NormB)

	// Token-set containment: one name is a strict refinement of the other.
	if len(tokensA) > 0 && len(tokensB) > 0 && (subset(tokensA, tokensB) || subset(tokensB, tokensA)) {
		overlap := float64(intersectionSize(tokensA, tokensB)) / float64(max(len(tokensA), len(tokensB)))
		if overlap >= 0.6 && score >= 0.78 {
			return Verdict{
				SameCompany: true,
				Confidence:  round2(0.80 + overlap*0.15),
				Reasoning:   fmt.Sprintf("token containment (%.0f%%), score %.3f", overlap*100, score),
			}, nil
		}
	}

	// Raw substring match on the labels themselves.
	loA := strings.ToLower(strings.TrimSpace(pair.LabelA))
	loB := strings.ToLower(strings.TrimSpace(pair.LabelB))
	shorter, longer := loA, loB
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= 4 && strings.Contains(longer, shorter) {
		return Verdict{
			SameCompany: true,
			Confidence:  round2(0.82 + score*0.10),
			Reasoning:   fmt.Sprintf("substring match, score %.3f", score),
		}, nil
	}

	// Abbreviation: the shorter label spells the initials of the longer one.
	if len(tokensA) > 0 && len(tokensB) > 0 {
		shortLabel := strings.TrimSpace(pair.LabelA)
		longInitials := initials(pair.LabelB)
		if len(strings.TrimSpace(pair.LabelB)) < len(shortLabel) {
			shortLabel = strings.TrimSpace(pair.LabelB)
			longInitials = initials(pair.LabelA)
		}
		abbrev := strings.ToUpper(strings.NewReplacer(".", "", " ", "").Replace(shortLabel))
		if len(abbrev) >= 2 && len(abbrev) <= 5 && abbrev == longInitials && score >= 0.75 {
			return Verdict{SameCompany: true, Confidence: 0.80, Reasoning: "initials match"}, nil
		}
	}

	// Score bands with token overlap relative to the smaller token set.
	if len(tokensA) > 0 && len(tokensB) > 0 {
		overlap := float64(intersectionSize(tokensA, tokensB)) / float64(min(len(tokensA), len(tokensB)))
		if score >= 0.82 && overlap >= 0.5 {
			return Verdict{
				SameCompany: true,
				Confidence:  round2(score * 0.95),
				Reasoning:   fmt.Sprintf("high score (%.3f), %.0f%% token overlap", score, overlap*100),
			}, nil
		}
		if score >= 0.78 && overlap >= 0.3 {
			return Verdict{
				SameCompany: true,
				Confidence:  round2(score * 0.80),
				Reasoning:   fmt.Sprintf("moderate score (%.3f), %.0f%% overlap", score, overlap*100),
			}, nil
		}
	}

	return Verdict{
		SameCompany: false,
		Confidence:  round2(1.0 - score),
		Reasoning:   fmt.Sprintf("score %.3f below threshold", score),
	}, nil
}

// contentTokens splits a normalized name into its non-stopword tokens.
func contentTokens(normalized string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(normalized) {
		if normalize.IsStopword(token) {
			continue
		}
		tokens[token] = struct{}{}
	}
	return tokens
}

func subset(inner, outer map[string]struct{}) bool {
	if len(inner) > len(outer) {
		return false
	}
	for token := range inner {
		if _, ok := outer[token]; !ok {
			return false
		}
	}
	return true
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}

// initials extracts the uppercase first letters of each word, so
// "Tata Consultancy Services" yields "TCS".
func initials(label string) string {
	var sb strings.Builder
	for _, word := range strings.Fields(label) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) {
			sb.WriteRune(unicode.ToUpper(r))
		}
	}
	return sb.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
