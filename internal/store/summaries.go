package store

import (
	"context"
	"fmt"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// InsertSummary records one batch-job outcome for operators to inspect.
func (p *Postgres) InsertSummary(ctx context.Context, s models.JobSummary) error {
	query := `
		INSERT INTO job_summaries (job, sport, updated, skipped, unmatched, errors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.db.ExecContext(ctx, query,
		s.Job, s.Sport, s.Updated, s.Skipped, s.Unmatched, s.Errors, s.StartedAt, s.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job summary %s: %w", s.Job, err)
	}
	return nil
}

// RecentSummaries returns the latest job outcomes, newest first.
func (p *Postgres) RecentSummaries(ctx context.Context, limit int) ([]models.JobSummary, error) {
	query := `
		SELECT job, sport, updated, skipped, unmatched, errors, started_at, finished_at
		FROM job_summaries
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query job summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.JobSummary
	for rows.Next() {
		var s models.JobSummary
		err := rows.Scan(&s.Job, &s.Sport, &s.Updated, &s.Skipped, &s.Unmatched, &s.Errors, &s.StartedAt, &s.FinishedAt)
		if err != nil {
			return nil, fmt.Errorf("scan job summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
