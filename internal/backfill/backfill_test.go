package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rut304/Matchups-sub005/internal/matching"
	"github.com/Rut304/Matchups-sub005/internal/providers/oddsfeed"
	"github.com/Rut304/Matchups-sub005/pkg/models"
)

type fakeEventStore struct {
	refs        map[string][]models.EventRecord // day key -> reference events
	upserted    []models.EventRecord
	results     map[int64]models.SpreadOutcome
	failUpserts map[string]bool // source_id -> fail
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		refs:        make(map[string][]models.EventRecord),
		results:     make(map[int64]models.SpreadOutcome),
		failUpserts: make(map[string]bool),
	}
}

func (f *fakeEventStore) EventsOnDate(_ context.Context, source, sport string, day time.Time, limit, offset int) ([]models.EventRecord, error) {
	refs := f.refs[day.Format("2006-01-02")]
	if offset >= len(refs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(refs) {
		end = len(refs)
	}
	return refs[offset:end], nil
}

func (f *fakeEventStore) UpsertEvent(_ context.Context, e models.EventRecord) error {
	if f.failUpserts[e.SourceID] {
		return errors.New("connection reset")
	}
	f.upserted = append(f.upserted, e)
	return nil
}

func (f *fakeEventStore) UpdateEventResults(_ context.Context, eventID int64, spread models.SpreadOutcome, _ *models.TotalOutcome) error {
	f.results[eventID] = spread
	return nil
}

type fakeSnapshotStore struct {
	snapshots []models.LineSnapshot
}

func (f *fakeSnapshotStore) UpsertSnapshot(_ context.Context, s models.LineSnapshot) error {
	f.snapshots = append(f.snapshots, s)
	return nil
}

type fakeProvider struct {
	byDay      map[string][]oddsfeed.EventOdds
	quotaAfter int // calls before quota errors; 0 means unlimited
	calls      int
}

func (f *fakeProvider) HistoricalOdds(_ context.Context, _ string, day time.Time) ([]oddsfeed.EventOdds, error) {
	f.calls++
	if f.quotaAfter > 0 && f.calls > f.quotaAfter {
		return nil, oddsfeed.ErrQuotaExhausted
	}
	return f.byDay[day.Format("2006-01-02")], nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func iPtr(n int) *int         { return &n }
func fPtr(v float64) *float64 { return &v }

func oddsEvent(id, home, away, dayStr string, spread, total float64) oddsfeed.EventOdds {
	ev := oddsfeed.EventOdds{
		ID:           id,
		HomeTeam:     home,
		AwayTeam:     away,
		CommenceTime: day(dayStr).Add(18 * time.Hour),
	}
	ev.Lines.Spread = fPtr(spread)
	ev.Lines.Total = fPtr(total)
	ev.Lines.HomeMoneyline = iPtr(-160)
	ev.Lines.AwayMoneyline = iPtr(140)
	ev.Lines.LastUpdate = day(dayStr).Add(17 * time.Hour)
	return ev
}

func refEvent(id int64, home, away, dayStr string, homeScore, awayScore int) models.EventRecord {
	return models.EventRecord{
		ID:           id,
		Source:       "results",
		SourceID:     "r1",
		Sport:        "nfl",
		HomeTeamName: home,
		AwayTeamName: away,
		EventDate:    day(dayStr),
		HomeScore:    &homeScore,
		AwayScore:    &awayScore,
	}
}

func newTestJob(events *fakeEventStore, snaps *fakeSnapshotStore, provider *fakeProvider) *Job {
	return &Job{
		events:    events,
		snapshots: snaps,
		provider:  provider,
		aliases:   matching.DefaultAliasTable(),
		refSource: "results",
		pageSize:  100,
	}
}

func TestRunMatchesAndGrades(t *testing.T) {
	events := newFakeEventStore()
	events.refs["2024-01-14"] = []models.EventRecord{
		refEvent(7, "Kansas City Chiefs", "Miami Dolphins", "2024-01-14", 27, 20),
	}

	snaps := &fakeSnapshotStore{}
	provider := &fakeProvider{byDay: map[string][]oddsfeed.EventOdds{
		"2024-01-14": {oddsEvent("ev-1", "Kansas City Chiefs", "Miami Dolphins", "2024-01-14", -3.5, 44.5)},
	}}

	summary, err := newTestJob(events, snaps, provider).Run(context.Background(), "nfl", day("2024-01-14"), day("2024-01-14"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Unmatched)
	assert.Equal(t, 0, summary.Errors)

	require.Len(t, events.upserted, 1)
	assert.Equal(t, SourceOddsfeed, events.upserted[0].Source)
	assert.Equal(t, "ev-1", events.upserted[0].SourceID)

	require.Len(t, snaps.snapshots, 1)
	snap := snaps.snapshots[0]
	assert.Equal(t, "ev-1", snap.EventID)
	require.NotNil(t, snap.SpreadHome)
	assert.Equal(t, -3.5, *snap.SpreadHome)

	// 27 - 3.5 = 23.5 beats 20
	assert.Equal(t, models.SpreadHomeCover, events.results[7])
}

func TestRunReversedOrientation(t *testing.T) {
	events := newFakeEventStore()
	events.refs["2024-01-14"] = []models.EventRecord{
		refEvent(9, "Buffalo Bills", "Pittsburgh Steelers", "2024-01-14", 17, 31),
	}

	// Provider lists the matchup with home/away flipped.
	snaps := &fakeSnapshotStore{}
	provider := &fakeProvider{byDay: map[string][]oddsfeed.EventOdds{
		"2024-01-14": {oddsEvent("ev-2", "Pittsburgh Steelers", "Buffalo Bills", "2024-01-14", 9.5, 40.0)},
	}}

	summary, err := newTestJob(events, snaps, provider).Run(context.Background(), "nfl", day("2024-01-14"), day("2024-01-14"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	require.Len(t, snaps.snapshots, 1)
	snap := snaps.snapshots[0]
	require.NotNil(t, snap.SpreadHome)
	assert.Equal(t, -9.5, *snap.SpreadHome)
	assert.Equal(t, 140, *snap.MoneylineHome)
	assert.Equal(t, -160, *snap.MoneylineAway)

	// 17 - 9.5 = 7.5 loses to 31
	assert.Equal(t, models.SpreadAwayCover, events.results[9])
}

func TestRunCountsUnmatchedAndSkipped(t *testing.T) {
	events := newFakeEventStore()
	events.refs["2024-02-10"] = []models.EventRecord{
		refEvent(1, "Gonzaga Bulldogs", "Saint Mary's Gaels", "2024-02-10", 70, 65),
		refEvent(2, "AFC", "NFC", "2024-02-10", 35, 31),
	}

	snaps := &fakeSnapshotStore{}
	provider := &fakeProvider{byDay: map[string][]oddsfeed.EventOdds{}}

	summary, err := newTestJob(events, snaps, provider).Run(context.Background(), "ncaab", day("2024-02-10"), day("2024-02-10"))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, snaps.snapshots)
}

func TestRunQuotaExhaustedKeepsPartialFetch(t *testing.T) {
	events := newFakeEventStore()
	events.refs["2024-01-13"] = []models.EventRecord{
		refEvent(4, "Dallas Cowboys", "Green Bay Packers", "2024-01-13", 32, 48),
	}

	snaps := &fakeSnapshotStore{}
	// Fetch window is [12th, 15th]; quota dies after two days, but the
	// 13th's odds have already been fetched.
	provider := &fakeProvider{
		byDay: map[string][]oddsfeed.EventOdds{
			"2024-01-13": {oddsEvent("ev-3", "Dallas Cowboys", "Green Bay Packers", "2024-01-13", -7.0, 50.5)},
		},
		quotaAfter: 2,
	}

	summary, err := newTestJob(events, snaps, provider).Run(context.Background(), "nfl", day("2024-01-13"), day("2024-01-14"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
}

func TestRunEventErrorDoesNotAbortBatch(t *testing.T) {
	events := newFakeEventStore()
	events.failUpserts["ev-bad"] = true
	events.refs["2024-01-14"] = []models.EventRecord{
		refEvent(11, "Detroit Lions", "Los Angeles Rams", "2024-01-14", 24, 23),
		refEvent(12, "Houston Texans", "Cleveland Browns", "2024-01-14", 45, 14),
	}

	snaps := &fakeSnapshotStore{}
	provider := &fakeProvider{byDay: map[string][]oddsfeed.EventOdds{
		"2024-01-14": {
			oddsEvent("ev-bad", "Detroit Lions", "Los Angeles Rams", "2024-01-14", -3.0, 51.5),
			oddsEvent("ev-ok", "Houston Texans", "Cleveland Browns", "2024-01-14", -1.5, 44.0),
		},
	}}

	summary, err := newTestJob(events, snaps, provider).Run(context.Background(), "nfl", day("2024-01-14"), day("2024-01-14"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, models.SpreadHomeCover, events.results[12])
	_, graded := events.results[11]
	assert.False(t, graded)
}
