package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

// outcome describes where the state machine goes next: either a concrete
// period, or the end_game signal (spec §4.1 state diagram).
type outcome struct {
	endGame bool
	next    period.GamePeriod
}

// successor computes the deterministic next state for currentPeriod per
// spec §4.1's transition diagram. Only meaningful for periods that have a
// successor driven by clock-zero or manual advance — SuddenDeath ends on a
// score differential (handled in scoring.go), not here.
func (m *Manager) successor() outcome {
	switch m.currentPeriod {
	case period.BetweenGames:
		return outcome{next: period.FirstHalf}
	case period.FirstHalf:
		return outcome{next: period.HalfTime}
	case period.HalfTime:
		return outcome{next: period.SecondHalf}
	case period.SecondHalf:
		if m.blackScore != m.whiteScore || (!m.gameConfigFlags.overtimeAllowed && !m.gameConfigFlags.suddenDeathAllowed) {
			return outcome{endGame: true}
		}
		if m.gameConfigFlags.overtimeAllowed {
			return outcome{next: period.PreOvertime}
		}
		return outcome{next: period.PreSuddenDeath}
	case period.PreOvertime:
		return outcome{next: period.OvertimeFirstHalf}
	case period.OvertimeFirstHalf:
		return outcome{next: period.OvertimeHalfTime}
	case period.OvertimeHalfTime:
		return outcome{next: period.OvertimeSecondHalf}
	case period.OvertimeSecondHalf:
		if m.blackScore != m.whiteScore || !m.gameConfigFlags.suddenDeathAllowed {
			return outcome{endGame: true}
		}
		return outcome{next: period.PreSuddenDeath}
	case period.PreSuddenDeath:
		return outcome{next: period.SuddenDeath}
	default:
		return outcome{endGame: true}
	}
}

// cullsOnEntry is the set of periods whose entry triggers cullPenalties
// (spec §4.1 bullet 2: "On transitions into SecondHalf, OvertimeFirstHalf,
// OvertimeSecondHalf, SuddenDeath, cull completed penalties").
func cullsOnEntry(p period.GamePeriod) bool {
	switch p {
	case period.SecondHalf, period.OvertimeFirstHalf, period.OvertimeSecondHalf, period.SuddenDeath:
		return true
	default:
		return false
	}
}

// applyTransition moves the state machine into o, starting the appropriate
// clock for the destination period and running any period-entry side
// effects (start_game, timeout-counter reset, penalty cull).
func (m *Manager) applyTransition(now time.Time, o outcome) {
	if o.endGame {
		m.endGame(now)
		return
	}

	next := o.next
	switch next {
	case period.FirstHalf:
		m.startGame(now)
	case period.HalfTime:
		m.currentPeriod = period.HalfTime
		m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.HalfTime)
	case period.SecondHalf:
		m.currentPeriod = period.SecondHalf
		m.blackTimeoutsUsed = 0
		m.whiteTimeoutsUsed = 0
		m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.HalfPlay)
	case period.PreOvertime:
		m.currentPeriod = period.PreOvertime
		m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.PreOvertime)
	case period.OvertimeFirstHalf:
		m.currentPeriod = period.OvertimeFirstHalf
		m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.OTHalfPlay)
	case period.OvertimeHalfTime:
		m.currentPeriod = period.OvertimeHalfTime
		m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.OTHalfTime)
	case period.OvertimeSecondHalf:
		m.currentPeriod = period.OvertimeSecondHalf
		m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.OTHalfPlay)
	case period.PreSuddenDeath:
		m.currentPeriod = period.PreSuddenDeath
		m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.PreSuddenDeath)
	case period.SuddenDeath:
		m.currentPeriod = period.SuddenDeath
		m.clockState = clockstate.NewCountingUp(now, 0)
	}

	if cullsOnEntry(next) {
		m.cullPenalties(now)
	}
}

// StartPlayNow manually advances from any break period into the next play
// period immediately (spec §4.1).
func (m *Manager) StartPlayNow(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timeoutState.IsActive() {
		return ErrAlreadyInTimeout{Current: m.timeoutState.Kind}
	}
	if !m.currentPeriod.IsBreakPeriod() {
		return ErrAlreadyInPlayPeriod{Current: m.currentPeriod}
	}

	wasRunning := m.isAnyClockRunning()
	m.applyTransition(now, m.successor())
	if running := m.isAnyClockRunning(); running != wasRunning {
		m.notifyClockRunning(running)
	}
	return nil
}

// WouldEndGame reports whether calling Update(now) right now would end the
// game outright rather than advancing to another play period (spec §4.3):
// true exactly when the current period is SecondHalf or
// OvertimeSecondHalf, its clock is CountingDown and has reached zero, and
// the period's successor would be end_game. The tick driver uses this to
// halt the clock and defer to a score-confirmation step instead of calling
// Update unconditionally.
func (m *Manager) WouldEndGame(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentPeriod != period.SecondHalf && m.currentPeriod != period.OvertimeSecondHalf {
		return false
	}
	if m.clockState.Kind != clockstate.CountingDown {
		return false
	}
	if d, ok := m.clockState.ClockTime(now); ok && d > 0 {
		return false
	}
	return m.successor().endGame
}

// IsAnyClockRunning reports whether the main clock or the active timeout's
// clock is running.
func (m *Manager) IsAnyClockRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isAnyClockRunning()
}
