package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// UpsertSnapshot appends one line observation, keyed by
// (event_id, captured_at) so re-running a backfill is idempotent. is_closing
// is deliberately absent from the update set: promotion happens only through
// MarkClosing.
func (p *Postgres) UpsertSnapshot(ctx context.Context, s models.LineSnapshot) error {
	query := `
		INSERT INTO line_snapshots (event_id, captured_at, spread_home, total_line, moneyline_home, moneyline_away, is_closing)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		ON CONFLICT (event_id, captured_at) DO UPDATE SET
			spread_home = EXCLUDED.spread_home,
			total_line = EXCLUDED.total_line,
			moneyline_home = EXCLUDED.moneyline_home,
			moneyline_away = EXCLUDED.moneyline_away
	`

	_, err := p.db.ExecContext(ctx, query,
		s.EventID, s.CapturedAt, s.SpreadHome, s.TotalLine, s.MoneylineHome, s.MoneylineAway,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s@%s: %w", s.EventID, s.CapturedAt.Format(time.RFC3339), err)
	}
	return nil
}

// EventsAwaitingClose pages event IDs whose snapshot history began at least
// 24 hours before asOf and which have no closing snapshot yet. Keyset
// paging (event_id > afterEventID): resolving events removes them from this
// set mid-run, so an advancing offset would skip events.
func (p *Postgres) EventsAwaitingClose(ctx context.Context, asOf time.Time, afterEventID string, limit int) ([]string, error) {
	query := `
		SELECT event_id
		FROM line_snapshots
		WHERE event_id > $2
		GROUP BY event_id
		HAVING MIN(captured_at) <= $1
		   AND bool_or(is_closing) = false
		ORDER BY event_id
		LIMIT $3
	`

	rows, err := p.db.QueryContext(ctx, query, asOf.Add(-24*time.Hour), afterEventID, limit)
	if err != nil {
		return nil, fmt.Errorf("query events awaiting close: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan event id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// LatestSnapshot returns the most recent snapshot for an event, or nil.
func (p *Postgres) LatestSnapshot(ctx context.Context, eventID string) (*models.LineSnapshot, error) {
	return p.snapshotBy(ctx, `
		SELECT id, event_id, captured_at, spread_home, total_line, moneyline_home, moneyline_away, is_closing
		FROM line_snapshots
		WHERE event_id = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`, eventID)
}

// OpeningSnapshot returns the earliest snapshot for an event, or nil.
func (p *Postgres) OpeningSnapshot(ctx context.Context, eventID string) (*models.LineSnapshot, error) {
	return p.snapshotBy(ctx, `
		SELECT id, event_id, captured_at, spread_home, total_line, moneyline_home, moneyline_away, is_closing
		FROM line_snapshots
		WHERE event_id = $1
		ORDER BY captured_at ASC
		LIMIT 1
	`, eventID)
}

// ClosingSnapshot returns the event's closing snapshot, or nil if the
// resolver has not promoted one yet.
func (p *Postgres) ClosingSnapshot(ctx context.Context, eventID string) (*models.LineSnapshot, error) {
	return p.snapshotBy(ctx, `
		SELECT id, event_id, captured_at, spread_home, total_line, moneyline_home, moneyline_away, is_closing
		FROM line_snapshots
		WHERE event_id = $1 AND is_closing = true
		LIMIT 1
	`, eventID)
}

func (p *Postgres) snapshotBy(ctx context.Context, query, eventID string) (*models.LineSnapshot, error) {
	var s models.LineSnapshot
	err := p.db.QueryRowContext(ctx, query, eventID).Scan(
		&s.ID,
		&s.EventID,
		&s.CapturedAt,
		&s.SpreadHome,
		&s.TotalLine,
		&s.MoneylineHome,
		&s.MoneylineAway,
		&s.IsClosing,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot for event %s: %w", eventID, err)
	}
	return &s, nil
}

// MarkClosing promotes one snapshot to closing as a single conditional
// update: it succeeds only while the event has no closing snapshot, so two
// racing resolver runs cannot mark different snapshots.
func (p *Postgres) MarkClosing(ctx context.Context, snapshotID int64, eventID string) (bool, error) {
	query := `
		UPDATE line_snapshots
		SET is_closing = true
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM line_snapshots
			WHERE event_id = $2 AND is_closing = true
		  )
	`

	res, err := p.db.ExecContext(ctx, query, snapshotID, eventID)
	if err != nil {
		return false, fmt.Errorf("mark closing for event %s: %w", eventID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
