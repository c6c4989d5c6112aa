// Package report renders human-readable summaries of deduplication
// results: the duplicate group listing, the status distribution, and the
// counters of the last run.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"unify/internal/engine"
	"unify/internal/store"
)

// DefaultGroupLimit bounds how many groups the report shows.
const DefaultGroupLimit = 15

// Groups renders the duplicate group report. Oracle-validated groups are
// listed before auto-confirmed ones, best quality first.
func Groups(groups []engine.GroupResult, limit int) string {
	if limit <= 0 {
		limit = DefaultGroupLimit
	}

	validated, auto := splitByValidation(groups)
	ordered := append(sortByQuality(validated), sortByQuality(auto)...)
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Duplicate groups: %d (oracle-validated: %d, auto-confirmed: %d)\n",
		len(groups), len(validated), len(auto))

	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Group", "Role", "ID", "Label", "Score", "Oracle"})
	for i, group := range ordered {
		validatedTag := ""
		if hasDecision(group) {
			validatedTag = " *"
		}
		groupLabel := fmt.Sprintf("%d%s", i+1, validatedTag)

		if group.SynthesizedLabel != "" {
			tw.AppendRow(table.Row{groupLabel, "primary (new)", group.PrimaryID, group.SynthesizedLabel, "", ""})
		} else {
			tw.AppendRow(table.Row{groupLabel, "primary", group.PrimaryID, group.PrimaryLabel, "", ""})
		}
		for _, member := range group.Members {
			decision := ""
			if member.Decision != nil {
				decision = fmt.Sprintf("same=%t conf=%.2f", member.Decision.SameCompany, member.Decision.Confidence)
			}
			tw.AppendRow(table.Row{"", "duplicate", member.ID, member.Label,
				fmt.Sprintf("%.3f", member.Score), decision})
		}
		if i < len(ordered)-1 {
			tw.AppendSeparator()
		}
	}
	sb.WriteString(tw.Render())
	sb.WriteByte('\n')
	return sb.String()
}

// Status renders the classification distribution of the companies table.
func Status(stats store.Stats) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Status", "Count"})
	tw.AppendRow(table.Row{"primary", stats.Primaries})
	tw.AppendRow(table.Row{"duplicate", stats.Duplicates})
	tw.AppendRow(table.Row{"probable", stats.Probables})
	tw.AppendRow(table.Row{"unclassified", stats.Unclassified})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"total", stats.Total})
	tw.AppendRow(table.Row{"synthesized", stats.Synthesized})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render() + "\n"
}

// Run renders the counters of a completed run.
func Run(summary *engine.Summary) string {
	if summary == nil {
		return "No runs recorded yet.\n"
	}
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRow(table.Row{"run id", summary.RunID})
	tw.AppendRow(table.Row{"started", summary.StartedAt.UTC().Format(time.RFC3339)})
	tw.AppendRow(table.Row{"elapsed", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String()})
	tw.AppendRow(table.Row{"records", summary.Records})
	tw.AppendRow(table.Row{"eligible records", summary.EligibleRecords})
	tw.AppendRow(table.Row{"candidate pairs", summary.CandidatePairs})
	tw.AppendRow(table.Row{"auto duplicates", summary.AutoDuplicates})
	tw.AppendRow(table.Row{"probable pairs", summary.Probables})
	tw.AppendRow(table.Row{"oracle calls", summary.OracleCalls})
	tw.AppendRow(table.Row{"oracle confirms", summary.OracleConfirms})
	tw.AppendRow(table.Row{"groups", summary.Groups})
	tw.AppendRow(table.Row{"duplicates marked", summary.Duplicates})
	tw.AppendRow(table.Row{"probables marked", summary.ProbablesMarked})
	tw.AppendRow(table.Row{"primaries synthesized", summary.Synthesized})
	return tw.Render() + "\n"
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func hasDecision(group engine.GroupResult) bool {
	for _, member := range group.Members {
		if member.Decision != nil {
			return true
		}
	}
	return false
}

func splitByValidation(groups []engine.GroupResult) (validated, auto []engine.GroupResult) {
	for _, group := range groups {
		if hasDecision(group) {
			validated = append(validated, group)
		} else {
			auto = append(auto, group)
		}
	}
	return validated, auto
}

// sortByQuality orders groups by their weakest member score, then size,
// descending, so the most interesting merges surface first.
func sortByQuality(groups []engine.GroupResult) []engine.GroupResult {
	ordered := append([]engine.GroupResult(nil), groups...)
	sort.SliceStable(ordered, func(i, j int) bool {
		qi, si := qualityKey(ordered[i])
		qj, sj := qualityKey(ordered[j])
		if qi != qj {
			return qi > qj
		}
		if si != sj {
			return si > sj
		}
		return ordered[i].PrimaryID < ordered[j].PrimaryID
	})
	return ordered
}

func qualityKey(group engine.GroupResult) (float64, int) {
	minScore := 0.0
	for i, member := range group.Members {
		if i == 0 || member.Score < minScore {
			minScore = member.Score
		}
	}
	return minScore, len(group.Members)
}
