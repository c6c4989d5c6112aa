package scoring

import (
	"runtime"
	"sync"

	"unify/internal/blocking"
)

// Metric weights. They sum to 1.0 so the composite stays in [0,1].
const (
	weightTokenSort = 0.30
	weightTokenSet  = 0.30
	weightRatio     = 0.20
	weightPartial   = 0.20
)

// Composite returns the weighted similarity of two normalized labels in
// [0,1]. It is symmetric, and Composite(a, a) is 1 for any non-empty a.
func Composite(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return weightTokenSort*tokenSortRatio(a, b) +
		weightTokenSet*tokenSetRatio(a, b) +
		weightRatio*ratio(a, b) +
		weightPartial*partialRatio(a, b)
}

// ScoredPair attaches a composite score to a candidate pair.
type ScoredPair struct {
	Pair  blocking.Pair
	Score float64
}

// ScorePairs scores every candidate pair against the normalized labels,
// sharding the work across the given number of workers. Results preserve
// the input pair order regardless of worker count, so the pipeline stays
// deterministic. Pairs whose labels are missing or empty score 0.
func ScorePairs(pairs []blocking.Pair, normalized map[int64]string, workers int) []ScoredPair {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}
	out := make([]ScoredPair, len(pairs))
	if len(pairs) == 0 {
		return out
	}

	var wg sync.WaitGroup
	chunk := (len(pairs) + workers - 1) / workers
	for start := 0; start < len(pairs); start += chunk {
		end := start + chunk
		if end > len(pairs) {
			end = len(pairs)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				pair := pairs[i]
				out[i] = ScoredPair{
					Pair:  pair,
					Score: Composite(normalized[pair.A], normalized[pair.B]),
				}
			}
		}(start, end)
	}
	wg.Wait()
	return out
}
