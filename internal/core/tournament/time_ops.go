package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

// activeClock reports the running/stoppable clock appropriate for the
// current state: the timeout clock if a timeout is active, else the main
// game clock (spec §4.1 start_clock/stop_clock).
func (m *Manager) activeClock() clockstate.ClockState {
	if m.timeoutState.IsActive() {
		return m.timeoutState.Clock
	}
	return m.clockState
}

func (m *Manager) setActiveClock(c clockstate.ClockState) {
	if m.timeoutState.IsActive() {
		m.timeoutState.Clock = c
		return
	}
	m.clockState = c
}

// StartClock starts whichever clock is appropriate (timeout clock if in a
// timeout, else the main game clock). It notifies the watch channel only on
// a real Stopped→running transition.
func (m *Manager) StartClock(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.activeClock()
	if cur.IsRunning() {
		return nil
	}

	var next clockstate.ClockState
	if m.countsUp() {
		next = clockstate.NewCountingUp(now, cur.StoppedAt)
	} else {
		next = clockstate.NewCountingDown(now, cur.StoppedAt)
	}
	m.setActiveClock(next)
	m.notifyClockRunning(true)
	return nil
}

// countsUp reports whether the clock that would start now counts up rather
// than down: a non-team timeout (Ref/PenaltyShot), or the main clock during
// SuddenDeath. BetweenGames is excluded even though period.IsOpenEnded
// reports it as "no fixed duration" — its clock always counts down toward
// a computed target (calc_time_to_next_game), never up.
func (m *Manager) countsUp() bool {
	if m.timeoutState.IsActive() {
		return !m.timeoutState.Kind.IsTeamTimeout()
	}
	return m.currentPeriod == period.SuddenDeath
}

// StopClock stops whichever clock is running, snapping to its current
// computed display value. Returns ErrNeedsUpdate if a CountingDown clock has
// already run past zero without an intervening Update call.
func (m *Manager) StopClock(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.activeClock()
	if !cur.IsRunning() {
		return nil
	}

	stopped, ok := cur.Stop(now)
	if !ok {
		return ErrNeedsUpdate
	}
	m.setActiveClock(stopped)
	m.notifyClockRunning(false)
	return nil
}

// HaltClock force-stops the main clock at its current value, clamping a
// would-be-negative result to 1ns instead of zero (spec §4.1). Used by the
// tick driver ahead of a period transition that would end the game, so the
// UI can interpose a score-confirmation step.
func (m *Manager) HaltClock(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasRunning := m.clockState.IsRunning()
	m.clockState = m.clockState.HaltAt(now)
	if wasRunning {
		m.notifyClockRunning(m.isAnyClockRunning())
	}
}

// SetGameClockTime sets the main clock's displayed value. Only valid while
// the main clock is Stopped.
func (m *Manager) SetGameClockTime(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clockState.IsRunning() {
		return ErrClockIsRunning
	}
	m.clockState = clockstate.NewStopped(d)
	return nil
}

// SetTimeoutClockTime sets the active timeout's displayed value. Only valid
// while a timeout is active and its clock is Stopped.
func (m *Manager) SetTimeoutClockTime(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.timeoutState.IsActive() {
		return ErrNotInTimeout
	}
	if m.timeoutState.Clock.IsRunning() {
		return ErrClockIsRunning
	}
	m.timeoutState.Clock = clockstate.NewStopped(d)
	return nil
}
