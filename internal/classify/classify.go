// Package classify maps composite similarity scores onto the three
// decision bands used by the pipeline.
package classify

import "fmt"

// Band is the threshold classification of a scored pair.
type Band int

const (
	// BandReject pairs are discarded and never grouped.
	BandReject Band = iota
	// BandProbable pairs are ambiguous and go to the decision oracle.
	BandProbable
	// BandDuplicate pairs are confirmed without oracle involvement.
	BandDuplicate
)

func (b Band) String() string {
	switch b {
	case BandReject:
		return "reject"
	case BandProbable:
		return "probable"
	case BandDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// Classifier is a pure threshold lookup over the two configured cut
// points. Thresholds are validated at startup, not here.
type Classifier struct {
	autoDuplicate float64
	probable      float64
}

// New builds a classifier from the configured thresholds.
func New(autoDuplicateThreshold, probableThreshold float64) Classifier {
	return Classifier{autoDuplicate: autoDuplicateThreshold, probable: probableThreshold}
}

// Classify maps a score to its band.
func (c Classifier) Classify(score float64) Band {
	switch {
	case score >= c.autoDuplicate:
		return BandDuplicate
	case score >= c.probable:
		return BandProbable
	default:
		return BandReject
	}
}
