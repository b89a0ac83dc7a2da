package history

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/period"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

// Reporter watches the snapshot stream for the edge transition into
// BetweenGames and appends the just-finished game's final score to the
// local ledger — the fallback for "pushes a terminal snapshot to post a
// score record" (spec §6) when no remote schedule provider is configured.
// Mirrors schedule.Reporter's edge-detection shape.
type Reporter struct {
	store *Store
	prev  period.GamePeriod
	first bool
}

// NewReporter constructs a Reporter writing completed games to store.
func NewReporter(store *Store) *Reporter {
	return &Reporter{store: store, first: true}
}

// Observe inspects a fresh snapshot and appends a Record the first instant
// the game just ended (BetweenGames entered for a game that was actually
// played, not the process's initial startup state).
func (r *Reporter) Observe(now time.Time, snap tournament.GameSnapshot) {
	wasBetween := !r.first && r.prev == period.BetweenGames
	justEntered := snap.CurrentPeriod == period.BetweenGames && r.prev != period.BetweenGames

	r.prev = snap.CurrentPeriod
	r.first = false

	if wasBetween || !justEntered || snap.IsOldGame {
		return
	}

	rec := Record{
		GameNumber: snap.GameNumber,
		BlackScore: snap.BlackScore,
		WhiteScore: snap.WhiteScore,
		EndedAt:    now,
	}
	if err := r.store.Append(rec); err != nil {
		telemetry.Warnf("history: append game %d failed: %v", snap.GameNumber, err)
	}
}
