package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// UngradedBets pages bets whose CLV has not been attached yet. Paging is
// keyset (id > afterID) rather than offset: grading shrinks the filtered
// set mid-run, and an advancing offset over a shrinking set skips rows.
func (p *Postgres) UngradedBets(ctx context.Context, afterID int64, limit int) ([]models.BetRecord, error) {
	query := `
		SELECT id, event_id, sport, bet_type, side, line_at_pick, odds_at_pick, placed_at,
		       clv_value, closing_line_used, beat_close
		FROM bets
		WHERE clv_value IS NULL AND id > $1
		ORDER BY id
		LIMIT $2
	`
	return p.queryBets(ctx, query, afterID, limit)
}

// RecentlyGraded pages bets graded since a cutoff, for the CLV signal pass.
func (p *Postgres) RecentlyGraded(ctx context.Context, since time.Time, limit, offset int) ([]models.BetRecord, error) {
	query := `
		SELECT id, event_id, sport, bet_type, side, line_at_pick, odds_at_pick, placed_at,
		       clv_value, closing_line_used, beat_close
		FROM bets
		WHERE clv_value IS NOT NULL AND graded_at >= $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	return p.queryBets(ctx, query, since, limit, offset)
}

func (p *Postgres) queryBets(ctx context.Context, query string, args ...interface{}) ([]models.BetRecord, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	var bets []models.BetRecord
	for rows.Next() {
		var b models.BetRecord
		err := rows.Scan(
			&b.ID,
			&b.EventID,
			&b.Sport,
			&b.BetType,
			&b.Side,
			&b.LineAtPick,
			&b.OddsAtPick,
			&b.PlacedAt,
			&b.CLVValue,
			&b.ClosingLineUsed,
			&b.BeatClose,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}
		bets = append(bets, b)
	}

	return bets, rows.Err()
}

// AttachCLV writes the derived CLV fields for one bet. Guarded on
// clv_value IS NULL so grading stays write-once.
func (p *Postgres) AttachCLV(ctx context.Context, betID int64, value, closingUsed float64, beatClose bool) error {
	query := `
		UPDATE bets
		SET clv_value = $1, closing_line_used = $2, beat_close = $3, graded_at = NOW()
		WHERE id = $4 AND clv_value IS NULL
	`

	_, err := p.db.ExecContext(ctx, query, value, closingUsed, beatClose, betID)
	if err != nil {
		return fmt.Errorf("attach clv to bet %d: %w", betID, err)
	}
	return nil
}

// CLVReport aggregates graded bets per bet type for the API.
func (p *Postgres) CLVReport(ctx context.Context) ([]models.CLVBucket, error) {
	query := `
		SELECT bet_type,
		       COUNT(*),
		       AVG(clv_value),
		       AVG(CASE WHEN beat_close THEN 1.0 ELSE 0.0 END)
		FROM bets
		WHERE clv_value IS NOT NULL
		GROUP BY bet_type
		ORDER BY bet_type
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query clv report: %w", err)
	}
	defer rows.Close()

	var buckets []models.CLVBucket
	for rows.Next() {
		var b models.CLVBucket
		if err := rows.Scan(&b.BetType, &b.Count, &b.AvgCLV, &b.BeatCloseRate); err != nil {
			return nil, fmt.Errorf("scan clv bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}
