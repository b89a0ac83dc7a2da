package schedule

import (
	"context"
	"time"

	"github.com/uwhrefbox/refbox/internal/core/period"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

// Reporter watches the snapshot stream for the edge transition into
// BetweenGames and posts the just-finished game's final score to the
// schedule provider (spec §6 "pulls from the TM: terminal snapshot at
// game end to post a score record").
type Reporter struct {
	client *Client
	prev   period.GamePeriod
	first  bool
}

// NewReporter constructs a Reporter with no prior snapshot observed.
func NewReporter(client *Client) *Reporter {
	return &Reporter{client: client, first: true}
}

// Observe inspects a fresh snapshot and, if it marks the BetweenGames edge
// for a game that was actually played (not the initial startup state),
// posts the final score. Safe to call from the tick driver's goroutine on
// every EventNewSnapshot.
func (r *Reporter) Observe(ctx context.Context, now time.Time, snap tournament.GameSnapshot) {
	wasBetween := !r.first && r.prev == period.BetweenGames
	justEntered := snap.CurrentPeriod == period.BetweenGames && r.prev != period.BetweenGames

	r.prev = snap.CurrentPeriod
	r.first = false

	if wasBetween || !justEntered || snap.IsOldGame {
		return
	}

	score := finalScoreWire{
		GameNumber: snap.GameNumber,
		BlackScore: snap.BlackScore,
		WhiteScore: snap.WhiteScore,
		EndedAt:    now,
	}
	if err := r.client.PostFinalScore(ctx, score); err != nil {
		telemetry.Warnf("schedule: post final score for game %d failed: %v", snap.GameNumber, err)
	}
}
