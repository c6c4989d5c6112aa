package engine

import (
	"context"
	"time"

	"unify/internal/oracle"
)

// Record is one company row under consideration.
type Record struct {
	ID    int64
	Label string
}

// Member is a non-primary record inside a duplicate group.
type Member struct {
	ID       int64
	Label    string
	Score    float64
	Decision *oracle.Verdict
}

// GroupResult describes one resolved duplicate group ready to persist.
type GroupResult struct {
	PrimaryID    int64
	PrimaryLabel string
	// SynthesizedLabel is set when no existing label was clean enough and
	// a new primary record must be created with this label.
	SynthesizedLabel string
	Members          []Member
}

// ProbableMark flags a record whose best pair stayed in the uncertain band.
type ProbableMark struct {
	ID       int64
	Score    float64
	Decision *oracle.Verdict
}

// Summary aggregates the counters of one run.
type Summary struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	Records         int
	EligibleRecords int
	CandidatePairs  int
	AutoDuplicates  int
	Probables       int
	OracleCalls     int
	OracleConfirms  int
	Groups          int
	Synthesized     int
	Duplicates      int
	ProbablesMarked int
}

// Source supplies the records to deduplicate.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
	// MarkedProbables lists record ids already carrying a probable marking
	// from earlier runs.
	MarkedProbables(ctx context.Context) ([]int64, error)
}

// Sink persists the outcome of a run.
type Sink interface {
	// Reset clears classification state left by previous runs and removes
	// synthesized primaries. When keepProbables is true, records already
	// marked probable retain their status.
	Reset(ctx context.Context, keepProbables bool) error
	ApplyGroups(ctx context.Context, groups []GroupResult) error
	MarkProbables(ctx context.Context, marks []ProbableMark) error
	SaveSummary(ctx context.Context, summary Summary) error
}
