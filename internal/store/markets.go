package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// bookHistoryWindow bounds how much per-book history a market state carries;
// the steam detector only looks at the last 15 minutes of it.
const bookHistoryWindow = 2 * time.Hour

// MarketStates assembles detector input for a sport's upcoming events:
// opening/current snapshots, latest betting split, and recent per-book
// observations in ascending capture order.
func (p *Postgres) MarketStates(ctx context.Context, sport string, asOf time.Time, limit, offset int) ([]models.MarketState, error) {
	query := `
		SELECT source_id, sport, home_team, away_team
		FROM events
		WHERE source = 'oddsfeed' AND sport = $1 AND event_date >= $2
		ORDER BY event_date, id
		LIMIT $3 OFFSET $4
	`

	rows, err := p.db.QueryContext(ctx, query, sport, asOf.Format("2006-01-02"), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	defer rows.Close()

	var states []models.MarketState
	for rows.Next() {
		var s models.MarketState
		if err := rows.Scan(&s.EventID, &s.Sport, &s.HomeTeam, &s.AwayTeam); err != nil {
			return nil, fmt.Errorf("scan upcoming event: %w", err)
		}
		s.AsOf = asOf
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range states {
		if err := p.fillMarketState(ctx, &states[i]); err != nil {
			return nil, err
		}
	}

	return states, nil
}

func (p *Postgres) fillMarketState(ctx context.Context, s *models.MarketState) error {
	var err error
	if s.Opening, err = p.OpeningSnapshot(ctx, s.EventID); err != nil {
		return err
	}
	if s.Current, err = p.LatestSnapshot(ctx, s.EventID); err != nil {
		return err
	}
	if s.Split, err = p.latestSplit(ctx, s.EventID); err != nil {
		return err
	}
	if s.Books, err = p.bookLinesSince(ctx, s.EventID, s.AsOf.Add(-bookHistoryWindow)); err != nil {
		return err
	}
	return nil
}

func (p *Postgres) latestSplit(ctx context.Context, eventID string) (*models.BetSplit, error) {
	query := `
		SELECT event_id, sport, public_home_pct, money_home_pct, ticket_count, captured_at
		FROM bet_splits
		WHERE event_id = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`

	var split models.BetSplit
	err := p.db.QueryRowContext(ctx, query, eventID).Scan(
		&split.EventID,
		&split.Sport,
		&split.PublicHomePct,
		&split.MoneyHomePct,
		&split.TicketCount,
		&split.CapturedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query split for event %s: %w", eventID, err)
	}
	return &split, nil
}

func (p *Postgres) bookLinesSince(ctx context.Context, eventID string, since time.Time) ([]models.BookLine, error) {
	query := `
		SELECT book_key, spread_home, moneyline_home, moneyline_away, captured_at
		FROM book_lines
		WHERE event_id = $1 AND captured_at >= $2
		ORDER BY captured_at ASC
	`

	rows, err := p.db.QueryContext(ctx, query, eventID, since)
	if err != nil {
		return nil, fmt.Errorf("query book lines for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var lines []models.BookLine
	for rows.Next() {
		var l models.BookLine
		err := rows.Scan(&l.BookKey, &l.SpreadHome, &l.MoneylineHome, &l.MoneylineAway, &l.CapturedAt)
		if err != nil {
			return nil, fmt.Errorf("scan book line: %w", err)
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

// UpsertBetSplit records a betting-split observation, keyed by
// (event_id, captured_at).
func (p *Postgres) UpsertBetSplit(ctx context.Context, s models.BetSplit) error {
	query := `
		INSERT INTO bet_splits (event_id, sport, public_home_pct, money_home_pct, ticket_count, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, captured_at) DO UPDATE SET
			public_home_pct = EXCLUDED.public_home_pct,
			money_home_pct = EXCLUDED.money_home_pct,
			ticket_count = EXCLUDED.ticket_count
	`

	_, err := p.db.ExecContext(ctx, query,
		s.EventID, s.Sport, s.PublicHomePct, s.MoneyHomePct, s.TicketCount, s.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert bet split %s: %w", s.EventID, err)
	}
	return nil
}

// UpsertBookLine records a per-book price observation, keyed by
// (event_id, book_key, captured_at).
func (p *Postgres) UpsertBookLine(ctx context.Context, eventID string, l models.BookLine) error {
	query := `
		INSERT INTO book_lines (event_id, book_key, spread_home, moneyline_home, moneyline_away, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, book_key, captured_at) DO UPDATE SET
			spread_home = EXCLUDED.spread_home,
			moneyline_home = EXCLUDED.moneyline_home,
			moneyline_away = EXCLUDED.moneyline_away
	`

	_, err := p.db.ExecContext(ctx, query,
		eventID, l.BookKey, l.SpreadHome, l.MoneylineHome, l.MoneylineAway, l.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert book line %s/%s: %w", eventID, l.BookKey, err)
	}
	return nil
}
