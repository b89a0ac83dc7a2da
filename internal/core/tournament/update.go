package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

// Update advances all of the Manager's time-dependent state to now: it
// resets a finished game's scores/penalties once the between-games
// countdown has closed in on resetGameTime, expires the recent-goal tag,
// auto-ends an expired team timeout, and — if the main clock has reached
// zero — applies the deterministic period transition. It is idempotent:
// calling it twice with the same now is a no-op the second time (spec §8).
func (m *Manager) Update(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maybeResetBetweenGames(now)
	m.expireRecentGoal(now)
	m.checkTimeoutExpiry(now)

	if m.timeoutState.IsActive() {
		return nil
	}
	if m.clockState.Kind != clockstate.CountingDown {
		return nil
	}
	if d, ok := m.clockState.ClockTime(now); ok && d > 0 {
		return nil
	}

	m.applyTransition(now, m.successor())
	return nil
}

// maybeResetBetweenGames clears scores and penalties once the BetweenGames
// countdown has fallen to resetGameTime or below — i.e. once the crowd's
// attention has reasonably shifted to the next game — rather than waiting
// for the countdown to hit zero (original_source supplement, see
// DESIGN.md).
func (m *Manager) maybeResetBetweenGames(now time.Time) {
	if m.hasReset || m.currentPeriod != period.BetweenGames {
		return
	}
	remaining, ok := m.clockState.ClockTime(now)
	if !ok {
		remaining = 0
	}
	if remaining <= m.resetGameTime {
		m.blackScore, m.whiteScore = 0, 0
		m.blackPenalties, m.whitePenalties = nil, nil
		m.hasReset = true
	}
}

// NextUpdateTime returns the earliest instant at which calling Update would
// observably change any state, so a tick driver can sleep until exactly
// then instead of polling (spec §4.1 "Next update time").
func (m *Manager) NextUpdateTime(now time.Time) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidates := make([]time.Time, 0, 3)
	if t, ok := m.clockState.NextWholeSecondChange(now); ok {
		candidates = append(candidates, t)
	}
	if m.timeoutState.IsActive() {
		if t, ok := m.timeoutState.Clock.NextWholeSecondChange(now); ok {
			candidates = append(candidates, t)
		}
	}
	if m.recent != nil {
		candidates = append(candidates, now.Add(time.Second))
	}

	if len(candidates) == 0 {
		return now.Add(time.Second)
	}
	earliest := candidates[0]
	for _, t := range candidates[1:] {
		if t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}
