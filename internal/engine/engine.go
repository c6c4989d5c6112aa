package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"unify/internal/blocking"
	"unify/internal/classify"
	"unify/internal/config"
	"unify/internal/grouping"
	"unify/internal/logging"
	"unify/internal/normalize"
	"unify/internal/oracle"
	"unify/internal/primary"
	"unify/internal/scoring"
)

// Engine runs the deduplication pipeline.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
	source Source
	sink   Sink
	oracle oracle.Oracle
	sleep  func(time.Duration)
}

// New wires an engine from its collaborators. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger, source Source, sink Sink, orc oracle.Oracle) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "engine"),
		source: source,
		sink:   sink,
		oracle: orc,
		sleep:  time.Sleep,
	}
}

// Run executes one full deduplication pass and persists the outcome.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	e.logger.Info("run starting", "run_id", summary.RunID, "oracle", e.cfg.Oracle.Engine)

	if err := e.sink.Reset(ctx, !e.cfg.Oracle.RevisitProbables); err != nil {
		return nil, fmt.Errorf("reset previous state: %w", err)
	}

	records, err := e.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	summary.Records = len(records)

	labels := make(map[int64]string, len(records))
	normalized := make(map[int64]string, len(records))
	for _, record := range records {
		labels[record.ID] = record.Label
		norm := normalize.Normalize(record.Label)
		if !normalize.Eligible(norm) {
			continue
		}
		normalized[record.ID] = norm
	}
	summary.EligibleRecords = len(normalized)
	e.logger.Info("records loaded", "total", summary.Records, "eligible", summary.EligibleRecords)

	pairs := blocking.BuildPairs(normalized, e.cfg.Matching.MaxBlockSize)
	summary.CandidatePairs = len(pairs)
	e.logger.Info("candidate pairs blocked", "pairs", len(pairs))

	scored := scoring.ScorePairs(pairs, normalized, e.cfg.Matching.ScoreWorkers)

	classifier := classify.New(e.cfg.Matching.AutoDuplicateThreshold, e.cfg.Matching.ProbableThreshold)
	pairScores := make(map[blocking.Pair]float64, len(scored))
	var autoDuplicates, probables []scoring.ScoredPair
	for _, sp := range scored {
		pairScores[sp.Pair] = round3(sp.Score)
		switch classifier.Classify(sp.Score) {
		case classify.BandDuplicate:
			autoDuplicates = append(autoDuplicates, sp)
		case classify.BandProbable:
			probables = append(probables, sp)
		}
	}
	summary.AutoDuplicates = len(autoDuplicates)
	summary.Probables = len(probables)
	e.logger.Info("pairs classified",
		"scored", len(scored), "auto_duplicates", len(autoDuplicates), "probables", len(probables))

	ds := grouping.NewDisjointSet()
	for id := range normalized {
		ds.Find(id)
	}
	for _, sp := range autoDuplicates {
		ds.Union(sp.Pair.A, sp.Pair.B)
	}

	// With revisiting disabled, pairs both sides of which already carry a
	// probable marking keep it without spending another oracle call.
	settled := make(map[int64]struct{})
	if !e.cfg.Oracle.RevisitProbables {
		marked, err := e.source.MarkedProbables(ctx)
		if err != nil {
			return nil, fmt.Errorf("load probable markings: %w", err)
		}
		for _, id := range marked {
			settled[id] = struct{}{}
		}
	}

	decisions, err := e.adjudicate(ctx, ds, probables, labels, normalized, settled, summary)
	if err != nil {
		return nil, err
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("partition check: %w", err)
	}

	groups := e.buildGroups(ds, labels, normalized, pairScores, decisions)
	summary.Groups = len(groups)
	summary.Duplicates = countDuplicates(groups)
	for _, group := range groups {
		if group.SynthesizedLabel != "" {
			summary.Synthesized++
		}
	}

	marks := e.probableMarks(ds, groups, probables, pairScores, decisions)
	summary.ProbablesMarked = len(marks)

	if err := e.sink.ApplyGroups(ctx, groups); err != nil {
		return nil, fmt.Errorf("apply groups: %w", err)
	}
	if err := e.sink.MarkProbables(ctx, marks); err != nil {
		return nil, fmt.Errorf("mark probables: %w", err)
	}

	summary.FinishedAt = time.Now().UTC()
	if err := e.sink.SaveSummary(ctx, *summary); err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}

	e.logger.Info("run finished",
		"run_id", summary.RunID,
		"groups", summary.Groups,
		"duplicates", summary.Duplicates,
		"probables_marked", summary.ProbablesMarked,
		"synthesized", summary.Synthesized,
		"elapsed", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	return summary, nil
}

// adjudicate sends uncertain pairs to the oracle, best score first, and
// merges the ones it confirms. Pairs already connected through earlier
// merges are skipped without spending a call.
func (e *Engine) adjudicate(
	ctx context.Context,
	ds *grouping.DisjointSet,
	probables []scoring.ScoredPair,
	labels map[int64]string,
	normalized map[int64]string,
	settled map[int64]struct{},
	summary *Summary,
) (map[blocking.Pair]*oracle.Verdict, error) {
	ordered := append([]scoring.ScoredPair(nil), probables...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].Pair.Less(ordered[j].Pair)
	})

	// The call budget and interval protect the paid remote endpoint; the
	// heuristic engine is local and runs uncapped.
	remote := e.cfg.Oracle.Engine == config.OracleEngineOpenRouter
	maxCalls := 0
	if remote {
		maxCalls = e.cfg.Oracle.MaxCalls
	}
	interval := time.Duration(e.cfg.Oracle.CallIntervalMS) * time.Millisecond
	throttled := remote && interval > 0

	decisions := make(map[blocking.Pair]*oracle.Verdict)
	for _, sp := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if maxCalls > 0 && summary.OracleCalls >= maxCalls {
			e.logger.Warn("oracle call budget exhausted", "max_calls", maxCalls)
			break
		}
		if ds.SameClass(sp.Pair.A, sp.Pair.B) {
			continue
		}
		if _, okA := settled[sp.Pair.A]; okA {
			if _, okB := settled[sp.Pair.B]; okB {
				continue
			}
		}

		if throttled && summary.OracleCalls > 0 {
			e.sleep(interval)
		}
		verdict, err := e.oracle.Resolve(ctx, oracle.LabelPair{
			LabelA: labels[sp.Pair.A],
			LabelB: labels[sp.Pair.B],
			NormA:  normalized[sp.Pair.A],
			NormB:  normalized[sp.Pair.B],
		}, sp.Score)
		summary.OracleCalls++
		if err != nil {
			e.logger.Warn("oracle call failed", "pair_a", sp.Pair.A, "pair_b", sp.Pair.B, "error", err)
			continue
		}

		v := verdict
		decisions[sp.Pair] = &v
		if verdict.SameCompany && verdict.Confidence >= e.cfg.Oracle.ConfidenceAccept {
			ds.Union(sp.Pair.A, sp.Pair.B)
			summary.OracleConfirms++
		}
	}
	e.logger.Info("oracle adjudication done",
		"calls", summary.OracleCalls, "confirmed", summary.OracleConfirms)
	return decisions, nil
}

// buildGroups turns equivalence classes into persisted group results with
// a selected primary, per-member scores, and the coherence filter applied.
func (e *Engine) buildGroups(
	ds *grouping.DisjointSet,
	labels map[int64]string,
	normalized map[int64]string,
	pairScores map[blocking.Pair]float64,
	decisions map[blocking.Pair]*oracle.Verdict,
) []GroupResult {
	classes := ds.Groups()
	roots := make([]int64, 0, len(classes))
	for root := range classes {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	var groups []GroupResult
	for _, root := range roots {
		members := classes[root]
		candidates := make([]primary.Candidate, 0, len(members))
		for _, id := range members {
			candidates = append(candidates, primary.Candidate{ID: id, Label: labels[id]})
		}
		choice, err := primary.Select(candidates, e.cfg.Primary.QualityMin)
		if err != nil {
			continue
		}

		group := GroupResult{
			PrimaryID:        choice.ID,
			PrimaryLabel:     choice.Label,
			SynthesizedLabel: choice.Synthesized,
		}
		for _, id := range members {
			if id == choice.ID && group.SynthesizedLabel == "" {
				continue
			}
			pair := blocking.NewPair(choice.ID, id)
			score, ok := pairScores[pair]
			if !ok && id != choice.ID {
				// Transitive merge without a direct pair: score it now.
				score = round3(scoring.Composite(normalized[choice.ID], normalized[id]))
			}
			if id == choice.ID {
				// The old best label becomes a duplicate of the new record.
				score = 1.0
			}
			if score < e.cfg.Grouping.CoherenceMin && id != choice.ID {
				continue
			}
			group.Members = append(group.Members, Member{
				ID:       id,
				Label:    labels[id],
				Score:    score,
				Decision: decisions[pair],
			})
		}
		if len(group.Members) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

// probableMarks flags records whose pair the oracle leaned toward merging
// but could not confirm with enough confidence. Records already classified
// through a group, as primary or duplicate, keep that classification and
// are never marked.
func (e *Engine) probableMarks(
	ds *grouping.DisjointSet,
	groups []GroupResult,
	probables []scoring.ScoredPair,
	pairScores map[blocking.Pair]float64,
	decisions map[blocking.Pair]*oracle.Verdict,
) []ProbableMark {
	classified := make(map[int64]struct{})
	for _, group := range groups {
		classified[group.PrimaryID] = struct{}{}
		for _, member := range group.Members {
			classified[member.ID] = struct{}{}
		}
	}

	seen := make(map[int64]struct{})
	var marks []ProbableMark
	for _, sp := range probables {
		verdict := decisions[sp.Pair]
		if verdict == nil || !verdict.SameCompany || verdict.Confidence >= e.cfg.Oracle.ConfidenceAccept {
			continue
		}
		if ds.SameClass(sp.Pair.A, sp.Pair.B) {
			continue
		}
		for _, id := range []int64{sp.Pair.A, sp.Pair.B} {
			if _, ok := classified[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			marks = append(marks, ProbableMark{ID: id, Score: pairScores[sp.Pair], Decision: verdict})
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].ID < marks[j].ID })
	return marks
}

func countDuplicates(groups []GroupResult) int {
	total := 0
	for _, group := range groups {
		total += len(group.Members)
	}
	return total
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
