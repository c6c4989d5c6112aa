package classify_test

import (
	"testing"

	"unify/internal/classify"
)

func TestClassify(t *testing.T) {
	c := classify.New(0.92, 0.75)

	cases := []struct {
		score float64
		want  classify.Band
	}{
		{1.0, classify.BandDuplicate},
		{0.92, classify.BandDuplicate},
		{0.9199, classify.BandProbable},
		{0.75, classify.BandProbable},
		{0.7499, classify.BandReject},
		{0, classify.BandReject},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.score); got != tc.want {
			t.Errorf("Classify(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestBandString(t *testing.T) {
	if classify.BandProbable.String() != "probable" {
		t.Fatal("unexpected band label")
	}
}
