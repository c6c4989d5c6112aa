// Package primary picks the canonical record for each duplicate group.
//
// Each candidate label is scored for quality (casing, completeness,
// cleanliness, garbage patterns); the best-scoring label wins, with the
// lowest id breaking ties. Groups whose best label is still below the
// quality floor get a synthesized title-cased replacement instead.
package primary

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	legalSuffixRe = regexp.MustCompile(`(?i)\b(?:inc|ltd|llc|corp|plc|gmbh|pvt|limited|corporation|incorporated)\b`)
	garbageRe     = regexp.MustCompile(`(?i)^(?:test|unknown|company\s*\d*|n/?a|none|--|-)$`)
	junkCharRe    = regexp.MustCompile(`[^\w\s.,&()\-/']`)
)

var titleCaser = cases.Title(language.English)

// QualityScore rates a label for primary selection; higher is better.
func QualityScore(label string) float64 {
	trimmed := strings.TrimSpace(label)
	if len(trimmed) < 2 {
		return -10
	}

	var score float64
	switch {
	case label == strings.ToUpper(label):
		score-- // shouty
	case label == strings.ToLower(label):
		score--
	case firstIsUpper(label):
		score += 2
	}

	if legalSuffixRe.MatchString(label) {
		score++
	}

	if length := len(trimmed); length >= 5 {
		bonus := float64(length) / 30.0
		if bonus > 1 {
			bonus = 1
		}
		score += bonus
	}

	if strings.Contains(label, "  ") || label != trimmed {
		score--
	}
	if junkCharRe.MatchString(label) {
		score--
	}
	if garbageRe.MatchString(trimmed) {
		score -= 5
	}

	return score
}

func firstIsUpper(label string) bool {
	for _, r := range label {
		return r >= 'A' && r <= 'Z'
	}
	return false
}

// Candidate is one group member up for primary selection.
type Candidate struct {
	ID    int64
	Label string
}

// Choice is the outcome of primary selection for one group.
type Choice struct {
	ID      int64
	Label   string
	Quality float64
	// Synthesized is non-empty when even the best label fails the quality
	// floor and a cleaned title-cased record should be created instead.
	Synthesized string
}

// ErrNoCandidates is returned when a group has no members to choose from.
var ErrNoCandidates = errors.New("primary: no candidates")

// Select picks the best-quality candidate, breaking score ties on the
// lowest id so repeated runs agree.
func Select(candidates []Candidate, qualityMin float64) (Choice, error) {
	if len(candidates) == 0 {
		return Choice{}, ErrNoCandidates
	}

	ranked := append([]Candidate(nil), candidates...)
	sort.Slice(ranked, func(i, j int) bool {
		qi, qj := QualityScore(ranked[i].Label), QualityScore(ranked[j].Label)
		if qi != qj {
			return qi > qj
		}
		return ranked[i].ID < ranked[j].ID
	})

	best := ranked[0]
	choice := Choice{ID: best.ID, Label: best.Label, Quality: QualityScore(best.Label)}
	if choice.Quality < qualityMin {
		if cleaned := Synthesize(best.Label); cleaned != "" {
			choice.Synthesized = cleaned
		}
	}
	return choice, nil
}

// Synthesize produces a cleaned title-cased label for a new primary
// record, or "" when nothing usable can be made.
func Synthesize(label string) string {
	cleaned := strings.TrimSpace(label)
	if cleaned == "" || cleaned == "-" {
		return ""
	}
	return titleCaser.String(strings.ToLower(cleaned))
}
