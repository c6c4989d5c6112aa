// Package oracle adjudicates candidate duplicate pairs that fuzzy scoring
// alone cannot settle.
//
// Two implementations exist: Heuristic runs local rules over the labels
// (containment, substrings, initials, score/overlap bands) and never fails,
// while Remote asks an OpenRouter-hosted model for a verdict. Both produce
// the same Verdict shape so the matching engine treats them uniformly.
package oracle
