package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

const (
	// MinHistoryAge is how old an event's snapshot history must be before
	// the resolver considers it at all.
	MinHistoryAge = 24 * time.Hour

	// MinSnapshotAge is how stale the latest snapshot must be before it is
	// promoted to closing. An event whose feed went quiet less than this
	// long ago may still be receiving pre-game movement, so it is left
	// unresolved and retried on the next run.
	//
	// Known limitation: if the upstream feed stops updating well before
	// kickoff (a book pulling the market a day early), the last sample is
	// still promoted, so the "closing" line can be stale or mid-game. This
	// is preserved as-is for compatibility and is a known source of CLV
	// inaccuracy.
	MinSnapshotAge = 3 * time.Hour
)

// SnapshotRepo is the slice of the store the resolver needs.
type SnapshotRepo interface {
	// EventsAwaitingClose lists events whose snapshot history began at
	// least MinHistoryAge before asOf and that have no closing snapshot,
	// ordered by event ID, keyset-paged from afterEventID. Marking an
	// event removes it from this set mid-run, so offset paging would skip
	// events within a single run.
	EventsAwaitingClose(ctx context.Context, asOf time.Time, afterEventID string, limit int) ([]string, error)
	LatestSnapshot(ctx context.Context, eventID string) (*models.LineSnapshot, error)
	// MarkClosing promotes a snapshot iff the event still has no closing
	// snapshot. Returns false when another run already resolved the event.
	MarkClosing(ctx context.Context, snapshotID int64, eventID string) (bool, error)
}

// Resolver decides, per event, which line snapshot is the authoritative
// closing line. It is idempotent: events with a closing snapshot are never
// re-resolved, and the promote itself is a conditional store update, so
// concurrent runs converge on the same snapshot.
type Resolver struct {
	snapshots SnapshotRepo
	pageSize  int
}

// New creates a closing-line resolver.
func New(snapshots SnapshotRepo, pageSize int) *Resolver {
	return &Resolver{snapshots: snapshots, pageSize: pageSize}
}

// Run resolves closing lines for every eligible event as of now.
func (r *Resolver) Run(ctx context.Context, now time.Time) (models.JobSummary, error) {
	summary := models.JobSummary{Job: "closing-resolver", StartedAt: now}

	lastEventID := ""
	for {
		eventIDs, err := r.snapshots.EventsAwaitingClose(ctx, now, lastEventID, r.pageSize)
		if err != nil {
			summary.FinishedAt = time.Now()
			return summary, fmt.Errorf("list events awaiting close: %w", err)
		}

		for _, eventID := range eventIDs {
			lastEventID = eventID
			latest, err := r.snapshots.LatestSnapshot(ctx, eventID)
			if err != nil {
				fmt.Printf("[Resolver] latest snapshot lookup failed for event %s: %v\n", eventID, err)
				summary.Errors++
				continue
			}
			if latest == nil || latest.IsClosing {
				continue
			}

			if now.Sub(latest.CapturedAt) <= MinSnapshotAge {
				// Feed may still be moving; retry next run.
				summary.Skipped++
				continue
			}

			marked, err := r.snapshots.MarkClosing(ctx, latest.ID, eventID)
			if err != nil {
				fmt.Printf("[Resolver] failed to mark closing for event %s: %v\n", eventID, err)
				summary.Errors++
				continue
			}
			if marked {
				summary.Updated++
			}
		}

		if len(eventIDs) < r.pageSize {
			break
		}
	}

	summary.FinishedAt = time.Now()
	fmt.Printf("[Resolver] marked=%d deferred=%d errors=%d\n", summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}
