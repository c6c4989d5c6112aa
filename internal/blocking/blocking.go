package blocking

import (
	"sort"
	"strings"
	"unicode/utf8"

	"unify/internal/normalize"
)

const prefixLength = 3

// Pair is a canonical candidate pair: A is always the lower record id, so a
// pair has exactly one representation no matter how many keys produced it.
type Pair struct {
	A int64
	B int64
}

// NewPair canonicalizes the id order.
func NewPair(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Less provides the deterministic ordering used throughout the pipeline.
func (p Pair) Less(other Pair) bool {
	if p.A != other.A {
		return p.A < other.A
	}
	return p.B < other.B
}

// BuildPairs generates the deduplicated candidate pair set for the given
// normalized labels, keyed by record id. Blocks with fewer than two or more
// than maxBlockSize members are discarded, as are keys that reduce to a
// single token.
func BuildPairs(normalized map[int64]string, maxBlockSize int) []Pair {
	prefixBlocks := make(map[string][]int64)
	tokenBlocks := make(map[string][]int64)

	ids := make([]int64, 0, len(normalized))
	for id := range normalized {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		norm := normalized[id]
		if prefix := prefixKey(norm); prefix != "" {
			prefixBlocks[prefix] = append(prefixBlocks[prefix], id)
		}
		if sig := normalize.TokenSignature(norm); sig != "" && !genericKey(sig) {
			tokenBlocks[sig] = append(tokenBlocks[sig], id)
		}
	}

	seen := make(map[Pair]struct{})
	var pairs []Pair
	for _, blocks := range []map[string][]int64{prefixBlocks, tokenBlocks} {
		for _, members := range blocks {
			if len(members) < 2 || len(members) > maxBlockSize {
				continue
			}
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					pair := NewPair(members[i], members[j])
					if _, ok := seen[pair]; ok {
						continue
					}
					seen[pair] = struct{}{}
					pairs = append(pairs, pair)
				}
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })
	return pairs
}

func prefixKey(normalized string) string {
	runes := []rune(normalized)
	if len(runes) < prefixLength {
		return ""
	}
	return string(runes[:prefixLength])
}

// genericKey reports whether a token signature is too unselective to block
// on. Single-token keys group every company sharing one common word, which
// floods scoring with false positives.
func genericKey(sig string) bool {
	if utf8.RuneCountInString(sig) < 4 {
		return true
	}
	return !strings.Contains(sig, " ")
}
