package blocking_test

import (
	"fmt"
	"testing"

	"unify/internal/blocking"
	"unify/internal/normalize"
)

func TestNewPairCanonicalOrder(t *testing.T) {
	if got := blocking.NewPair(9, 3); got.A != 3 || got.B != 9 {
		t.Fatalf("NewPair(9, 3) = %+v, want {3 9}", got)
	}
}

func TestBuildPairsSharedPrefix(t *testing.T) {
	normalized := map[int64]string{
		1: "tata motor finance",
		2: "tata motors",
		3: "zebra logistics",
	}
	pairs := blocking.BuildPairs(normalized, 500)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d: %v", len(pairs), pairs)
	}
	if pairs[0] != (blocking.Pair{A: 1, B: 2}) {
		t.Fatalf("unexpected pair: %+v", pairs[0])
	}
}

func TestBuildPairsDeduplicatesAcrossStrategies(t *testing.T) {
	// These two share both the prefix block and the token block; the pair
	// must still be emitted exactly once.
	normalized := map[int64]string{
		10: "acme widgets",
		11: "acme widgets",
	}
	pairs := blocking.BuildPairs(normalized, 500)
	if len(pairs) != 1 {
		t.Fatalf("expected deduplicated single pair, got %d: %v", len(pairs), pairs)
	}
}

func TestBuildPairsTokenKeyCatchesReorderedNames(t *testing.T) {
	// Different prefixes, same token signature.
	normalized := map[int64]string{
		1: "finance tata motor",
		2: "motor tata finance",
	}
	pairs := blocking.BuildPairs(normalized, 500)
	if len(pairs) != 1 {
		t.Fatalf("expected reordered tokens to share a block, got %v", pairs)
	}
}

func TestBuildPairsSkipsSingleTokenKeys(t *testing.T) {
	// Single-character tokens drop out of the signature, leaving both
	// records with the identical single-token key "hinduja". Prefixes
	// differ, so any pair could only come from the token strategy, and
	// single-token keys must be skipped.
	normalized := map[int64]string{
		1: "a hinduja",
		2: "b hinduja",
	}
	if pairs := blocking.BuildPairs(normalized, 500); len(pairs) != 0 {
		t.Fatalf("expected no pairs, got %v", pairs)
	}
}

func TestBuildPairsBlockSizeBoundary(t *testing.T) {
	const maxBlockSize = 10

	build := func(members int) []blocking.Pair {
		normalized := make(map[int64]string, members)
		for i := 0; i < members; i++ {
			// Same 3-char prefix, unique token signatures.
			normalized[int64(i+1)] = fmt.Sprintf("abc unique%04d", i)
		}
		return blocking.BuildPairs(normalized, maxBlockSize)
	}

	atLimit := build(maxBlockSize)
	wantPairs := maxBlockSize * (maxBlockSize - 1) / 2
	if len(atLimit) != wantPairs {
		t.Fatalf("block of exactly max size: got %d pairs, want %d", len(atLimit), wantPairs)
	}

	overLimit := build(maxBlockSize + 1)
	if len(overLimit) != 0 {
		t.Fatalf("block of max size + 1 must be discarded entirely, got %d pairs", len(overLimit))
	}
}

func TestBuildPairsDeterministicOrder(t *testing.T) {
	normalized := map[int64]string{}
	for i := int64(1); i <= 20; i++ {
		normalized[i] = "acme widgets"
	}
	first := blocking.BuildPairs(normalized, 500)
	second := blocking.BuildPairs(normalized, 500)
	if len(first) != len(second) {
		t.Fatalf("pair counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pair order differs at %d: %v vs %v", i, first[i], second[i])
		}
	}
	for i := 1; i < len(first); i++ {
		if !first[i-1].Less(first[i]) {
			t.Fatalf("pairs not sorted at %d: %v, %v", i, first[i-1], first[i])
		}
	}
}

func TestBuildPairsUsesNormalizeSignatures(t *testing.T) {
	sig := normalize.TokenSignature("tata motor finance")
	if sig != "finance motor tata" {
		t.Fatalf("unexpected signature %q", sig)
	}
}
