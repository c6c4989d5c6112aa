// Package scoring computes composite similarity scores for candidate
// pairs of normalized company labels.
//
// The composite blends four metrics, each normalized to [0,1]: a
// token-sort ratio that forgives word order, a token-set ratio that
// forgives subset/superset names, a plain edit-distance ratio, and a
// partial ratio that rewards a short name embedded in a longer one. All
// metrics and the composite are symmetric.
package scoring
