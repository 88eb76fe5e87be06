package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// EventsOnDate pages a source's events for one calendar day.
func (p *Postgres) EventsOnDate(ctx context.Context, source, sport string, day time.Time, limit, offset int) ([]models.EventRecord, error) {
	query := `
		SELECT id, source, source_id, sport, home_team, away_team, event_date,
		       home_score, away_score, spread_result, total_result
		FROM events
		WHERE source = $1 AND sport = $2 AND event_date = $3
		ORDER BY id
		LIMIT $4 OFFSET $5
	`

	rows, err := p.db.QueryContext(ctx, query, source, sport, day.Format("2006-01-02"), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.EventRecord
	for rows.Next() {
		var e models.EventRecord
		var spreadResult, totalResult *string
		err := rows.Scan(
			&e.ID,
			&e.Source,
			&e.SourceID,
			&e.Sport,
			&e.HomeTeamName,
			&e.AwayTeamName,
			&e.EventDate,
			&e.HomeScore,
			&e.AwayScore,
			&spreadResult,
			&totalResult,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if spreadResult != nil {
			r := models.SpreadOutcome(*spreadResult)
			e.SpreadResult = &r
		}
		if totalResult != nil {
			r := models.TotalOutcome(*totalResult)
			e.TotalResult = &r
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// UpsertEvent inserts or refreshes an event record, keyed by
// (source, source_id). Scores only move from null to a value on a
// corrective re-import.
func (p *Postgres) UpsertEvent(ctx context.Context, e models.EventRecord) error {
	query := `
		INSERT INTO events (source, source_id, sport, home_team, away_team, event_date, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source, source_id) DO UPDATE SET
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			event_date = EXCLUDED.event_date,
			home_score = COALESCE(EXCLUDED.home_score, events.home_score),
			away_score = COALESCE(EXCLUDED.away_score, events.away_score)
	`

	_, err := p.db.ExecContext(ctx, query,
		e.Source, e.SourceID, e.Sport, e.HomeTeamName, e.AwayTeamName,
		e.EventDate.Format("2006-01-02"), e.HomeScore, e.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("upsert event %s/%s: %w", e.Source, e.SourceID, err)
	}
	return nil
}

// UpdateEventResults writes the derived spread/total outcomes for a
// finished event.
func (p *Postgres) UpdateEventResults(ctx context.Context, eventID int64, spread models.SpreadOutcome, total *models.TotalOutcome) error {
	query := `
		UPDATE events
		SET spread_result = $1, total_result = $2
		WHERE id = $3
	`

	var totalVal *string
	if total != nil {
		s := string(*total)
		totalVal = &s
	}

	_, err := p.db.ExecContext(ctx, query, string(spread), totalVal, eventID)
	if err != nil {
		return fmt.Errorf("update results for event %d: %w", eventID, err)
	}
	return nil
}
