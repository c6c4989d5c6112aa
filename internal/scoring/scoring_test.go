package scoring_test

import (
	"testing"

	"unify/internal/blocking"
	"unify/internal/normalize"
	"unify/internal/scoring"
)

func TestCompositeBoundsAndSymmetry(t *testing.T) {
	labels := []string{
		"tata motor finance",
		"tata motors",
		"infosys",
		"global db solutions",
		"db",
		"johnson and johnson",
	}
	for _, a := range labels {
		for _, b := range labels {
			got := scoring.Composite(a, b)
			if got < 0 || got > 1 {
				t.Errorf("Composite(%q, %q) = %f out of [0,1]", a, b, got)
			}
			if rev := scoring.Composite(b, a); rev != got {
				t.Errorf("Composite not symmetric for (%q, %q): %f vs %f", a, b, got, rev)
			}
		}
	}
}

func TestCompositeIdentity(t *testing.T) {
	for _, label := range []string{"tata motors", "xy", "acme global services"} {
		if got := scoring.Composite(label, label); got != 1 {
			t.Errorf("Composite(%q, %q) = %f, want 1", label, label, got)
		}
	}
}

func TestCompositeEmpty(t *testing.T) {
	if got := scoring.Composite("", "tata motors"); got != 0 {
		t.Fatalf("empty label must score 0, got %f", got)
	}
}

func TestCompositeRewardsReorderedTokens(t *testing.T) {
	got := scoring.Composite("finance tata motor", "tata motor finance")
	if got < 0.8 {
		t.Fatalf("reordered identical token sets should score high, got %f", got)
	}
}

func TestCompositeRewardsTokenSubset(t *testing.T) {
	subset := scoring.Composite("tata motor finance", "tata motor")
	unrelated := scoring.Composite("tata motor finance", "zenith pharma")
	if subset <= unrelated {
		t.Fatalf("subset %f should beat unrelated %f", subset, unrelated)
	}
	if subset < 0.6 {
		t.Fatalf("subset names should score well, got %f", subset)
	}
}

func TestCompositeRewardsSmallEdits(t *testing.T) {
	close := scoring.Composite("tata motor finance", "tata motor finanse")
	if close < 0.9 {
		t.Fatalf("one-letter edit should score very high, got %f", close)
	}
}

func TestCompositeAutoDuplicateScenario(t *testing.T) {
	// "Tata Motor Finance Ltd." and "Tata Motor Finance" normalize to the
	// same string and must auto-match.
	a := normalize.Normalize("Tata Motor Finance Ltd.")
	b := normalize.Normalize("Tata Motor Finance")
	if got := scoring.Composite(a, b); got != 1 {
		t.Fatalf("suffix-only difference should score 1 after normalization, got %f", got)
	}
}

func TestScorePairsDeterministicAcrossWorkerCounts(t *testing.T) {
	normalized := map[int64]string{
		1: "tata motor finance",
		2: "tata motors",
		3: "tata motor finance limited",
		4: "zenith pharma",
		5: "zenith pharmaceuticals",
	}
	pairs := blocking.BuildPairs(normalized, 500)
	if len(pairs) == 0 {
		t.Fatal("expected candidate pairs")
	}

	sequential := scoring.ScorePairs(pairs, normalized, 1)
	parallel := scoring.ScorePairs(pairs, normalized, 4)
	if len(sequential) != len(parallel) {
		t.Fatalf("result lengths differ: %d vs %d", len(sequential), len(parallel))
	}
	for i := range sequential {
		if sequential[i] != parallel[i] {
			t.Fatalf("result %d differs: %+v vs %+v", i, sequential[i], parallel[i])
		}
	}
}

func TestScorePairsMissingLabelScoresZero(t *testing.T) {
	pairs := []blocking.Pair{{A: 1, B: 2}}
	got := scoring.ScorePairs(pairs, map[int64]string{1: "acme"}, 2)
	if got[0].Score != 0 {
		t.Fatalf("missing label should score 0, got %f", got[0].Score)
	}
}
