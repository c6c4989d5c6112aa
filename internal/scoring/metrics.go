package scoring

import (
	"sort"
	"strings"
)

// indelDistance returns the insert/delete edit distance between two rune
// slices using the classic two-row dynamic program. A substitution counts
// as one delete plus one insert.
func indelDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 2
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// ratio is the indel similarity of two strings, normalized to [0,1] by
// the combined length.
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 1 - float64(indelDistance(ra, rb))/float64(total)
}

// tokenSortRatio compares the two labels with their tokens sorted, making
// the metric independent of word order.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortedTokens(a), sortedTokens(b))
}

// tokenSetRatio compares intersection-anchored token strings, so a name
// whose tokens are a subset of the other's scores 1.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return ratio(a, b)
	}

	var common, onlyA, onlyB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	full1 := joinNonEmpty(base, strings.Join(onlyA, " "))
	full2 := joinNonEmpty(base, strings.Join(onlyB, " "))

	best := ratio(full1, full2)
	if base != "" {
		if r := ratio(base, full1); r > best {
			best = r
		}
		if r := ratio(base, full2); r > best {
			best = r
		}
	}
	return best
}

// partialRatio slides the shorter label across the longer one and returns
// the best windowed indel ratio. A shorter string fully contained in the
// longer scores 1.
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	if strings.Contains(string(rb), string(ra)) {
		return 1
	}

	best := 0.0
	for start := 0; start+len(ra) <= len(rb); start++ {
		window := rb[start : start+len(ra)]
		dist := indelDistance(ra, window)
		score := 1 - float64(dist)/float64(len(ra)+len(window))
		if score > best {
			best = score
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
