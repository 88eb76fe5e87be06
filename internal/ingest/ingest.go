package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/internal/providers/oddsfeed"
	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// MarketStore persists per-book observations and betting splits.
type MarketStore interface {
	UpsertBookLine(ctx context.Context, eventID string, l models.BookLine) error
	UpsertBetSplit(ctx context.Context, s models.BetSplit) error
}

// OddsProvider fetches current per-book odds for one sport.
type OddsProvider interface {
	CurrentOdds(ctx context.Context, sport string) ([]oddsfeed.LiveEvent, error)
}

// Job refreshes the per-book history and betting splits the edge detectors
// read from. Upserts are keyed by capture time, so re-ingesting the same
// feed data is idempotent.
type Job struct {
	markets  MarketStore
	provider OddsProvider
}

// NewJob wires a market ingestion job.
func NewJob(markets MarketStore, provider OddsProvider) *Job {
	return &Job{markets: markets, provider: provider}
}

// Run ingests one sport's current markets. Per-event failures increment
// counters and never abort the batch; a quota stop returns what was
// ingested so far.
func (j *Job) Run(ctx context.Context, sport string) (models.JobSummary, error) {
	summary := models.JobSummary{
		Job:       "market-ingest",
		Sport:     sport,
		StartedAt: time.Now(),
	}

	events, err := j.provider.CurrentOdds(ctx, sport)
	if errors.Is(err, oddsfeed.ErrQuotaExhausted) {
		fmt.Printf("[Ingest] %s: quota exhausted, skipping cycle\n", sport)
		summary.FinishedAt = time.Now()
		return summary, nil
	}
	if err != nil {
		summary.FinishedAt = time.Now()
		return summary, fmt.Errorf("fetch current odds for %s: %w", sport, err)
	}

	for _, ev := range events {
		j.ingestEvent(ctx, sport, ev, &summary)
	}

	summary.FinishedAt = time.Now()
	fmt.Printf("[Ingest] %s: ✓ updated=%d skipped=%d errors=%d\n",
		sport, summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}

func (j *Job) ingestEvent(ctx context.Context, sport string, ev oddsfeed.LiveEvent, summary *models.JobSummary) {
	if len(ev.Books) == 0 && ev.Split == nil {
		summary.Skipped++
		return
	}

	wrote := false
	for _, book := range ev.Books {
		line := models.BookLine{
			BookKey:       book.BookKey,
			SpreadHome:    book.Spread,
			MoneylineHome: book.HomeMoneyline,
			MoneylineAway: book.AwayMoneyline,
			CapturedAt:    book.LastUpdate,
		}
		if err := j.markets.UpsertBookLine(ctx, ev.ID, line); err != nil {
			fmt.Printf("[Ingest] ❌ upsert book line %s/%s: %v\n", ev.ID, book.BookKey, err)
			summary.Errors++
			continue
		}
		wrote = true
	}

	if ev.Split != nil {
		split := models.BetSplit{
			EventID:       ev.ID,
			Sport:         sport,
			PublicHomePct: ev.Split.PublicHomePct,
			MoneyHomePct:  ev.Split.MoneyHomePct,
			TicketCount:   ev.Split.TicketCount,
			CapturedAt:    ev.Split.AsOf,
		}
		if err := j.markets.UpsertBetSplit(ctx, split); err != nil {
			fmt.Printf("[Ingest] ❌ upsert bet split %s: %v\n", ev.ID, err)
			summary.Errors++
		} else {
			wrote = true
		}
	}

	if wrote {
		summary.Updated++
	}
}
