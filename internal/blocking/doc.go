// Package blocking reduces the pairwise comparison space by grouping
// records under shared block keys and emitting only within-block candidate
// pairs. Two strategies run independently, a 3-character prefix key and a
// sorted-token signature key, and their pair sets are unioned.
//
// Blocking trades guaranteed completeness for tractability: two true
// duplicates that share no prefix and no token are never compared. That is
// an accepted property of the design, not a defect.
package blocking
