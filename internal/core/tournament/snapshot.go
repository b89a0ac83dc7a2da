package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

// RecentGoalView is the wire-ready view of the last scored goal, present
// only while it's within recentGoalTTL of the current clock time.
type RecentGoalView struct {
	Color  Color
	Player uint8
}

// GameSnapshot is the single authoritative view of game state handed to
// the codec and monitor layers (spec §4.1 generate_snapshot). Every field
// is a value, not a reference into Manager's internals, so a snapshot is
// safe to hold and compare after the Manager has moved on.
type GameSnapshot struct {
	EventID string

	GameNumber    uint32
	CurrentPeriod period.GamePeriod
	ClockTime     time.Duration
	ClockRunning  bool

	TimeoutKind clockstate.TimeoutKind
	TimeoutTime time.Duration

	BlackScore, WhiteScore uint8
	BlackPenalties         []PenaltySnapshot
	WhitePenalties         []PenaltySnapshot
	BlackTimeoutsUsed      uint16
	WhiteTimeoutsUsed      uint16
	TeamTimeoutsPerHalf    uint16

	// IsOldGame reports whether BlackScore/WhiteScore/penalties still belong
	// to the game that just ended rather than the upcoming one (true from
	// end_game until the between-games reset fires).
	IsOldGame bool

	// NextPeriodLenSecs is the configured length of the period that follows
	// the current one, used only by the binary codec's hide-time
	// transformation for BetweenGames/HalfTime/OvertimeHalfTime/PreOvertime.
	NextPeriodLenSecs time.Duration

	RecentGoal *RecentGoalView
}

// displayClockTime clamps an expired clock for display: a CountingDown
// clock that has already run past zero displays 0 rather than
// surfacing the "needs update" signal to the wire — Update(now) is what
// repairs the underlying state, generate_snapshot never mutates.
func displayClockTime(c clockstate.ClockState, now time.Time) time.Duration {
	d, ok := c.ClockTime(now)
	if !ok {
		return 0
	}
	return d
}

// GenerateSnapshot produces the current authoritative GameSnapshot. It does
// not call Update itself — callers (the tick driver) are expected to have
// called Update(now) first so clock-expiry transitions are already
// reflected.
func (m *Manager) GenerateSnapshot(now time.Time) GameSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := GameSnapshot{
		EventID:             uuidString(),
		GameNumber:          m.gameNumber,
		CurrentPeriod:       m.currentPeriod,
		ClockTime:           displayClockTime(m.clockState, now),
		ClockRunning:        m.isAnyClockRunning(),
		TimeoutKind:         m.timeoutState.Kind,
		BlackScore:          m.blackScore,
		WhiteScore:          m.whiteScore,
		BlackPenalties:      m.penaltySnapshots(ColorBlack, now),
		WhitePenalties:      m.penaltySnapshots(ColorWhite, now),
		BlackTimeoutsUsed:   m.blackTimeoutsUsed,
		WhiteTimeoutsUsed:   m.whiteTimeoutsUsed,
		TeamTimeoutsPerHalf: m.gameConfigFlags.teamTimeoutsPerHalf,
		IsOldGame:           !m.hasReset,
	}

	if m.timeoutState.IsActive() {
		snap.TimeoutTime = displayClockTime(m.timeoutState.Clock, now)
	}
	if m.recent != nil && !m.recentGoalExpired(now) {
		snap.RecentGoal = &RecentGoalView{Color: m.recent.Color, Player: m.recent.Player}
	}
	if m.currentPeriod == period.PreSuddenDeath {
		// Special-cased to zero rather than via the successor lookup below:
		// SuddenDeath has no fixed length (spec §4.2 hide-time rule).
		snap.NextPeriodLenSecs = 0
	} else if o := m.successor(); !o.endGame {
		if d, ok := m.effectiveConfig.Duration(o.next); ok {
			snap.NextPeriodLenSecs = d
		}
	}

	return snap
}
