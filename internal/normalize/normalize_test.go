package normalize_test

import (
	"testing"

	"unify/internal/normalize"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercases and trims", "  Tata Motors  ", "tata motors"},
		{"ampersand spelled out", "Johnson & Johnson", "johnson and johnson"},
		{"punctuation stripped", "A.B.C. Tele-Services, Ltd.", "a b c tele services"},
		{"trailing legal suffix removed", "Tata Motor Finance Ltd.", "tata motor finance"},
		{"stacked suffixes removed", "Infollion Research Pvt Ltd", "infollion research"},
		{"suffix kept when interior", "Ltd Logistics India", "ltd logistics india"},
		{"generic words survive", "Global DB Solutions", "global db solutions"},
		{"leading article removed", "The Coca Cola Company", "coca cola"},
		{"trailing article removed", "Hive The", "hive"},
		{"never strips to empty", "Ltd", "ltd"},
		{"empty input", "", ""},
		{"whitespace collapsed", "acme    corp   india", "acme corp india"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalize.Normalize(tc.raw); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Tata Motor Finance Ltd.",
		"The ABC Co Ltd",
		"abc co ltd",
		"abc ltd the",
		"the the acme group",
		"Johnson & Johnson Inc.",
		"XYZ",
		"Ltd",
		"The",
		"n/a",
	}
	for _, raw := range inputs {
		once := normalize.Normalize(raw)
		twice := normalize.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}

func TestTokenSignature(t *testing.T) {
	cases := []struct {
		name       string
		normalized string
		want       string
	}{
		{"sorted tokens", "zeta alpha motors", "alpha motors zeta"},
		{"stopwords removed", "bank of america", "america bank"},
		{"single char tokens removed", "a b tele services", "services tele"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalize.TokenSignature(tc.normalized); got != tc.want {
				t.Fatalf("TokenSignature(%q) = %q, want %q", tc.normalized, got, tc.want)
			}
		})
	}
}

func TestEligible(t *testing.T) {
	if normalize.Eligible("x") {
		t.Error("single character label should not be eligible")
	}
	if normalize.Eligible("") {
		t.Error("empty label should not be eligible")
	}
	if !normalize.Eligible("xy") {
		t.Error("two character label should be eligible")
	}
}

func TestHasLegalSuffix(t *testing.T) {
	if !normalize.HasLegalSuffix("Tata Motors Ltd.") {
		t.Error("expected suffix for Ltd.")
	}
	if !normalize.HasLegalSuffix("ACME LLC") {
		t.Error("expected suffix for LLC")
	}
	if normalize.HasLegalSuffix("Global Solutions") {
		t.Error("generic words are not legal suffixes")
	}
}
