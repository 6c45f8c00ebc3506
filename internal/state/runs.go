package state

import (
	"context"
	"fmt"
	"time"
)

// Run summarizes one batch step.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Start      int
	End        int
	Total      int
	Enriched   int
	Skipped    int
	Complete   bool
}

// RecordRun appends a batch run to the history.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	complete := 0
	if run.Complete {
		complete = 1
	}
	err := s.exec(ctx,
		`INSERT INTO batch_runs (run_id, started_at, finished_at, range_start, range_end, total, enriched, skipped, complete)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Start, run.End, run.Total, run.Enriched, run.Skipped, complete,
	)
	if err != nil {
		return fmt.Errorf("record batch run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, finished_at, range_start, range_end, total, enriched, skipped, complete
		 FROM batch_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batch runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run               Run
			started, finished string
			complete          int
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.Start, &run.End, &run.Total, &run.Enriched, &run.Skipped, &complete); err != nil {
			return nil, fmt.Errorf("scan batch run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		run.Complete = complete == 1
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
