package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"unify/internal/engine"
	"unify/internal/oracle"
)

// Duplicate status values stored in companies.duplicate_status.
const (
	StatusPrimary   = "primary"
	StatusDuplicate = "duplicate"
	StatusProbable  = "probable"
)

// Record origin values stored in companies.record_origin.
const (
	OriginSource      = "source"
	OriginSynthesized = "synthesized"
)

// Records returns every company row, ordered by id.
func (s *Store) Records(ctx context.Context) ([]engine.Record, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT id, label FROM companies ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var records []engine.Record
	for rows.Next() {
		var record engine.Record
		if err := rows.Scan(&record.ID, &record.Label); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return records, nil
}

// MarkedProbables lists record ids still marked probable from earlier
// runs.
func (s *Store) MarkedProbables(ctx context.Context) ([]int64, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM companies WHERE duplicate_status = ? ORDER BY id", StatusProbable)
	if err != nil {
		return nil, fmt.Errorf("query probables: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan probable id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate probables: %w", err)
	}
	return ids, nil
}

// InsertLabels adds source records with the given labels, skipping blanks.
func (s *Store) InsertLabels(ctx context.Context, labels []string) (int, error) {
	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO companies (label, record_origin, created_at, updated_at) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		now := timestamp()
		for _, label := range labels {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, label, OriginSource, now, now); err != nil {
				return fmt.Errorf("insert label %q: %w", label, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// ImportCSV loads company labels from CSV data. A header row is honored
// when it contains a "label", "name", or "company" column; otherwise the
// first field of every row is taken as the label.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}

	labelCol := 0
	headerSkipped := false
	for i, field := range first {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "label", "name", "company", "company_name":
			labelCol = i
			headerSkipped = true
		}
	}

	var labels []string
	if !headerSkipped && len(first) > 0 {
		labels = append(labels, first[labelCol])
	}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv: %w", err)
		}
		if labelCol >= len(row) {
			continue
		}
		labels = append(labels, row[labelCol])
	}
	return s.InsertLabels(ctx, labels)
}

// Reset clears classification state from earlier runs and deletes
// synthesized primary records. When keepProbables is true, rows already
// marked probable are left untouched.
func (s *Store) Reset(ctx context.Context, keepProbables bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM companies WHERE record_origin = ?", OriginSynthesized); err != nil {
			return fmt.Errorf("delete synthesized primaries: %w", err)
		}

		query := `UPDATE companies SET duplicate_status = NULL, duplicate_of = NULL,
            duplicate_score = NULL, decision_json = NULL, updated_at = ?
            WHERE duplicate_status IS NOT NULL`
		args := []any{timestamp()}
		if keepProbables {
			query += " AND duplicate_status != ?"
			args = append(args, StatusProbable)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear duplicate status: %w", err)
		}
		return nil
	})
}

// ApplyGroups persists resolved duplicate groups in batched transactions.
func (s *Store) ApplyGroups(ctx context.Context, groups []engine.GroupResult) error {
	for start := 0; start < len(groups); start += s.batchSize {
		end := start + s.batchSize
		if end > len(groups) {
			end = len(groups)
		}
		chunk := groups[start:end]
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			for _, group := range chunk {
				if err := s.applyGroup(ctx, tx, group); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyGroup(ctx context.Context, tx *sql.Tx, group engine.GroupResult) error {
	now := timestamp()
	primaryID := group.PrimaryID

	if group.SynthesizedLabel != "" {
		id, err := upsertSynthesized(ctx, tx, group.SynthesizedLabel, now)
		if err != nil {
			return err
		}
		primaryID = id
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE companies SET duplicate_status = ?, duplicate_of = NULL,
                duplicate_score = NULL, updated_at = ? WHERE id = ?`,
			StatusPrimary, now, group.PrimaryID); err != nil {
			return fmt.Errorf("mark primary %d: %w", group.PrimaryID, err)
		}
	}

	for _, member := range group.Members {
		decision, err := encodeDecision(member.Decision)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE companies SET duplicate_status = ?, duplicate_of = ?,
                duplicate_score = ?, decision_json = ?, updated_at = ? WHERE id = ?`,
			StatusDuplicate, primaryID, member.Score, decision, now, member.ID); err != nil {
			return fmt.Errorf("mark duplicate %d: %w", member.ID, err)
		}
	}
	return nil
}

// upsertSynthesized creates the cleaned primary record, reusing an
// existing synthesized row with the same label if one survived.
func upsertSynthesized(ctx context.Context, tx *sql.Tx, label, now string) (int64, error) {
	var existing int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM companies WHERE label = ? AND record_origin = ? LIMIT 1",
		label, OriginSynthesized).Scan(&existing)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			"UPDATE companies SET duplicate_status = ?, updated_at = ? WHERE id = ?",
			StatusPrimary, now, existing); err != nil {
			return 0, fmt.Errorf("promote synthesized primary: %w", err)
		}
		return existing, nil
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			`INSERT INTO companies (label, record_origin, duplicate_status, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?)`,
			label, OriginSynthesized, StatusPrimary, now, now)
		if err != nil {
			return 0, fmt.Errorf("insert synthesized primary: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("synthesized primary id: %w", err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("lookup synthesized primary: %w", err)
	}
}

// MarkProbables flags records in the uncertain band.
func (s *Store) MarkProbables(ctx context.Context, marks []engine.ProbableMark) error {
	for start := 0; start < len(marks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(marks) {
			end = len(marks)
		}
		chunk := marks[start:end]
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			now := timestamp()
			for _, mark := range chunk {
				decision, err := encodeDecision(mark.Decision)
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx,
					`UPDATE companies SET duplicate_status = ?, duplicate_score = ?,
                        decision_json = ?, updated_at = ? WHERE id = ?`,
					StatusProbable, mark.Score, decision, now, mark.ID); err != nil {
					return fmt.Errorf("mark probable %d: %w", mark.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveSummary records the counters of a finished run.
func (s *Store) SaveSummary(ctx context.Context, summary engine.Summary) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (
            run_id, started_at, finished_at, records, eligible_records,
            candidate_pairs, auto_duplicates, probables, oracle_calls,
            oracle_confirms, groups_found, synthesized, duplicates_marked,
            probables_marked
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.StartedAt.Format(timeLayout),
		summary.FinishedAt.Format(timeLayout),
		summary.Records,
		summary.EligibleRecords,
		summary.CandidatePairs,
		summary.AutoDuplicates,
		summary.Probables,
		summary.OracleCalls,
		summary.OracleConfirms,
		summary.Groups,
		summary.Synthesized,
		summary.Duplicates,
		summary.ProbablesMarked,
	)
	if err != nil {
		return fmt.Errorf("save run summary: %w", err)
	}
	return nil
}

// LastRun returns the most recent run summary, or nil when no run has
// completed yet.
func (s *Store) LastRun(ctx context.Context) (*engine.Summary, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, started_at, finished_at, records, eligible_records,
            candidate_pairs, auto_duplicates, probables, oracle_calls,
            oracle_confirms, groups_found, synthesized, duplicates_marked,
            probables_marked
        FROM runs ORDER BY id DESC LIMIT 1`)

	var summary engine.Summary
	var startedRaw, finishedRaw string
	err := row.Scan(
		&summary.RunID, &startedRaw, &finishedRaw, &summary.Records,
		&summary.EligibleRecords, &summary.CandidatePairs, &summary.AutoDuplicates,
		&summary.Probables, &summary.OracleCalls, &summary.OracleConfirms,
		&summary.Groups, &summary.Synthesized, &summary.Duplicates,
		&summary.ProbablesMarked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load last run: %w", err)
	}
	summary.StartedAt, _ = parseTimestamp(startedRaw)
	summary.FinishedAt, _ = parseTimestamp(finishedRaw)
	return &summary, nil
}

// Stats summarizes record counts by classification status.
type Stats struct {
	Total        int
	Primaries    int
	Duplicates   int
	Probables    int
	Unclassified int
	Synthesized  int
}

// Stats returns the current status distribution of the companies table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(duplicate_status, ''), record_origin, COUNT(*)
        FROM companies GROUP BY duplicate_status, record_origin`)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status, origin string
		var count int
		if err := rows.Scan(&status, &origin, &count); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Total += count
		switch status {
		case StatusPrimary:
			stats.Primaries += count
		case StatusDuplicate:
			stats.Duplicates += count
		case StatusProbable:
			stats.Probables += count
		default:
			stats.Unclassified += count
		}
		if origin == OriginSynthesized {
			stats.Synthesized += count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}

// Groups reconstructs the persisted duplicate groups for reporting.
func (s *Store) Groups(ctx context.Context) ([]engine.GroupResult, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.label, COALESCE(d.duplicate_score, 0), d.decision_json,
            p.id, p.label, p.record_origin
        FROM companies d
        JOIN companies p ON d.duplicate_of = p.id
        WHERE d.duplicate_status = ?
        ORDER BY p.id, d.id`, StatusDuplicate)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []engine.GroupResult
	var current *engine.GroupResult
	for rows.Next() {
		var (
			member       engine.Member
			decisionRaw  sql.NullString
			primaryID    int64
			primaryLabel string
			origin       string
		)
		if err := rows.Scan(&member.ID, &member.Label, &member.Score, &decisionRaw,
			&primaryID, &primaryLabel, &origin); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		if decisionRaw.Valid {
			var verdict oracle.Verdict
			if err := json.Unmarshal([]byte(decisionRaw.String), &verdict); err == nil {
				member.Decision = &verdict
			}
		}

		if current == nil || current.PrimaryID != primaryID {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &engine.GroupResult{PrimaryID: primaryID, PrimaryLabel: primaryLabel}
			if origin == OriginSynthesized {
				current.SynthesizedLabel = primaryLabel
			}
		}
		current.Members = append(current.Members, member)
	}
	if current != nil {
		groups = append(groups, *current)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

func encodeDecision(verdict *oracle.Verdict) (any, error) {
	if verdict == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(verdict)
	if err != nil {
		return nil, fmt.Errorf("encode decision: %w", err)
	}
	return string(encoded), nil
}
