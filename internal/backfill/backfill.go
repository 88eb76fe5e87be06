package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/internal/grading"
	"github.com/Rut304/Matchups-sub005/internal/matching"
	"github.com/Rut304/Matchups-sub005/internal/providers/oddsfeed"
	"github.com/Rut304/Matchups-sub005/internal/store"
	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// SourceOddsfeed is the source key under which provider events and their
// snapshots are stored.
const SourceOddsfeed = "oddsfeed"

// EventStore is the slice of event storage the backfill needs.
type EventStore interface {
	EventsOnDate(ctx context.Context, source, sport string, day time.Time, limit, offset int) ([]models.EventRecord, error)
	UpsertEvent(ctx context.Context, e models.EventRecord) error
	UpdateEventResults(ctx context.Context, eventID int64, spread models.SpreadOutcome, total *models.TotalOutcome) error
}

// SnapshotStore persists line observations.
type SnapshotStore interface {
	UpsertSnapshot(ctx context.Context, s models.LineSnapshot) error
}

// OddsProvider fetches historical odds for one sport and calendar day.
type OddsProvider interface {
	HistoricalOdds(ctx context.Context, sport string, day time.Time) ([]oddsfeed.EventOdds, error)
}

// Job reconciles a results source against the odds feed for a date range:
// it pairs events across the two sources, records line snapshots oriented to
// the results side, and grades finished events. Every write is an upsert, so
// re-running the same range is safe.
type Job struct {
	events    EventStore
	snapshots SnapshotStore
	provider  OddsProvider
	aliases   *matching.AliasTable
	refSource string
	pageSize  int
}

// NewJob wires a backfill job. refSource names the source whose events carry
// final scores (the reference side of each match).
func NewJob(events EventStore, snapshots SnapshotStore, provider OddsProvider, refSource string) *Job {
	return &Job{
		events:    events,
		snapshots: snapshots,
		provider:  provider,
		aliases:   matching.DefaultAliasTable(),
		refSource: refSource,
		pageSize:  store.PageSize,
	}
}

// Run processes one sport over the inclusive [from, to] day range. The
// provider fetch widens one day each direction so midnight-straddling events
// still find their odds.
func (j *Job) Run(ctx context.Context, sport string, from, to time.Time) (models.JobSummary, error) {
	summary := models.JobSummary{
		Job:       "backfill",
		Sport:     sport,
		StartedAt: time.Now(),
	}

	candidates, oddsByID, err := j.fetchCandidates(ctx, sport, from, to)
	if err != nil {
		return summary, err
	}
	fmt.Printf("[Backfill] %s: %d odds events fetched for %s..%s\n",
		sport, len(candidates), from.Format("2006-01-02"), to.Format("2006-01-02"))

	matcher := matching.NewMatcher(candidates, j.aliases)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := j.runDay(ctx, matcher, oddsByID, sport, day, &summary); err != nil {
			return summary, err
		}
	}

	summary.FinishedAt = time.Now()
	fmt.Printf("[Backfill] %s: ✓ updated=%d skipped=%d unmatched=%d errors=%d\n",
		sport, summary.Updated, summary.Skipped, summary.Unmatched, summary.Errors)
	return summary, nil
}

// fetchCandidates pulls the provider's odds for [from-1, to+1] and returns
// matchable event records alongside the raw odds keyed by provider event ID.
// Exhibition events never enter the candidate pool.
func (j *Job) fetchCandidates(ctx context.Context, sport string, from, to time.Time) ([]models.EventRecord, map[string]oddsfeed.EventOdds, error) {
	first, _ := matching.WindowAround(from)
	_, last := matching.WindowAround(to)

	var candidates []models.EventRecord
	oddsByID := make(map[string]oddsfeed.EventOdds)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		events, err := j.provider.HistoricalOdds(ctx, sport, day)
		if errors.Is(err, oddsfeed.ErrQuotaExhausted) {
			fmt.Printf("[Backfill] %s: quota exhausted, continuing with %d events fetched\n", sport, len(candidates))
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("fetch odds for %s: %w", day.Format("2006-01-02"), err)
		}

		for _, ev := range events {
			if matching.IsExhibition(ev.HomeTeam, ev.AwayTeam) {
				continue
			}
			commence := ev.CommenceTime.UTC()
			candidates = append(candidates, models.EventRecord{
				Source:       SourceOddsfeed,
				SourceID:     ev.ID,
				Sport:        sport,
				HomeTeamName: ev.HomeTeam,
				AwayTeamName: ev.AwayTeam,
				EventDate:    time.Date(commence.Year(), commence.Month(), commence.Day(), 0, 0, 0, 0, time.UTC),
			})
			oddsByID[ev.ID] = ev
		}
	}

	return candidates, oddsByID, nil
}

func (j *Job) runDay(ctx context.Context, matcher *matching.Matcher, oddsByID map[string]oddsfeed.EventOdds, sport string, day time.Time, summary *models.JobSummary) error {
	for offset := 0; ; offset += j.pageSize {
		refs, err := j.events.EventsOnDate(ctx, j.refSource, sport, day, j.pageSize, offset)
		if err != nil {
			return fmt.Errorf("page reference events for %s: %w", day.Format("2006-01-02"), err)
		}
		if len(refs) == 0 {
			return nil
		}

		for _, ref := range refs {
			j.reconcile(ctx, matcher, oddsByID, ref, summary)
		}

		if len(refs) < j.pageSize {
			return nil
		}
	}
}

// reconcile handles a single reference event. Per-event failures increment
// counters and never abort the batch.
func (j *Job) reconcile(ctx context.Context, matcher *matching.Matcher, oddsByID map[string]oddsfeed.EventOdds, ref models.EventRecord, summary *models.JobSummary) {
	if matching.IsExhibition(ref.HomeTeamName, ref.AwayTeamName) {
		summary.Skipped++
		return
	}

	match := matcher.Match(ref)
	if match == nil {
		summary.Unmatched++
		return
	}

	odds, ok := oddsByID[match.Candidate.SourceID]
	if !ok {
		summary.Unmatched++
		return
	}

	snapshot := orientSnapshot(odds, match.Reversed)

	if err := j.events.UpsertEvent(ctx, match.Candidate); err != nil {
		fmt.Printf("[Backfill] ❌ upsert event %s: %v\n", match.Candidate.SourceID, err)
		summary.Errors++
		return
	}
	if err := j.snapshots.UpsertSnapshot(ctx, snapshot); err != nil {
		fmt.Printf("[Backfill] ❌ upsert snapshot %s: %v\n", snapshot.EventID, err)
		summary.Errors++
		return
	}

	if ref.HasFinalScore() && snapshot.SpreadHome != nil {
		spread := grading.SpreadResult(*ref.HomeScore, *ref.AwayScore, *snapshot.SpreadHome)
		var total *models.TotalOutcome
		if snapshot.TotalLine != nil {
			t := grading.TotalResult(*ref.HomeScore, *ref.AwayScore, *snapshot.TotalLine)
			total = &t
		}
		if err := j.events.UpdateEventResults(ctx, ref.ID, spread, total); err != nil {
			fmt.Printf("[Backfill] ❌ grade event %d: %v\n", ref.ID, err)
			summary.Errors++
			return
		}
	}

	summary.Updated++
}

// orientSnapshot converts provider odds into a snapshot oriented to the
// reference event's home team. A reversed match negates the home spread and
// swaps the moneylines; totals are side-free.
func orientSnapshot(odds oddsfeed.EventOdds, reversed bool) models.LineSnapshot {
	capturedAt := odds.Lines.LastUpdate
	if capturedAt.IsZero() {
		capturedAt = odds.CommenceTime
	}

	s := models.LineSnapshot{
		EventID:       odds.ID,
		CapturedAt:    capturedAt,
		TotalLine:     odds.Lines.Total,
		MoneylineHome: odds.Lines.HomeMoneyline,
		MoneylineAway: odds.Lines.AwayMoneyline,
	}

	if odds.Lines.Spread != nil {
		spread := *odds.Lines.Spread
		if reversed {
			spread = -spread
		}
		s.SpreadHome = &spread
	}
	if reversed {
		s.MoneylineHome, s.MoneylineAway = odds.Lines.AwayMoneyline, odds.Lines.HomeMoneyline
	}

	return s
}
