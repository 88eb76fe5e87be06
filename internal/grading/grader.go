package grading

import (
	"context"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// BetRepo is the slice of the store the grader needs. UngradedBets pages by
// keyset (id > afterID): attaching CLV shrinks the ungraded set while the
// run is still paging it, and offset paging over a shrinking set would skip
// bets within the run.
type BetRepo interface {
	UngradedBets(ctx context.Context, afterID int64, limit int) ([]models.BetRecord, error)
	AttachCLV(ctx context.Context, betID int64, value, closingUsed float64, beatClose bool) error
}

// SnapshotRepo resolves the closing snapshot for an event.
type SnapshotRepo interface {
	ClosingSnapshot(ctx context.Context, eventID string) (*models.LineSnapshot, error)
}

// Grader attaches CLV to bets whose event has a resolved closing line. Only
// rows with a null clv_value are considered, so re-running is idempotent.
type Grader struct {
	bets      BetRepo
	snapshots SnapshotRepo
	pageSize  int
}

// NewGrader creates a CLV grader.
func NewGrader(bets BetRepo, snapshots SnapshotRepo, pageSize int) *Grader {
	return &Grader{bets: bets, snapshots: snapshots, pageSize: pageSize}
}

// Run grades every ungraded bet it can and reports counts. A bet whose
// closing line is missing stays ungraded and is retried on the next run;
// a failed write never blocks sibling writes in the same batch.
func (g *Grader) Run(ctx context.Context) (models.JobSummary, error) {
	summary := models.JobSummary{Job: "clv-grader", StartedAt: time.Now()}

	var lastID int64
	for {
		bets, err := g.bets.UngradedBets(ctx, lastID, g.pageSize)
		if err != nil {
			summary.FinishedAt = time.Now()
			return summary, fmt.Errorf("list ungraded bets: %w", err)
		}

		for _, bet := range bets {
			lastID = bet.ID
			closing, err := g.snapshots.ClosingSnapshot(ctx, bet.EventID)
			if err != nil {
				fmt.Printf("[CLV] closing snapshot lookup failed for event %s: %v\n", bet.EventID, err)
				summary.Errors++
				continue
			}
			if closing == nil {
				// No closing line resolved yet; retried on a later run.
				summary.Skipped++
				continue
			}

			res, err := BetCLV(bet, *closing)
			if err != nil {
				fmt.Printf("[CLV] bet %d not gradable: %v\n", bet.ID, err)
				summary.Skipped++
				continue
			}

			if err := g.bets.AttachCLV(ctx, bet.ID, res.Value, res.ClosingLine, res.BeatClose); err != nil {
				fmt.Printf("[CLV] failed to update bet %d: %v\n", bet.ID, err)
				summary.Errors++
				continue
			}
			summary.Updated++
		}

		if len(bets) < g.pageSize {
			break
		}
	}

	summary.FinishedAt = time.Now()
	fmt.Printf("[CLV] graded=%d skipped=%d errors=%d\n", summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}
