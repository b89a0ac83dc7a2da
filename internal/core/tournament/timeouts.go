package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

func (m *Manager) timeoutsUsed(c Color) *uint16 {
	if c == ColorBlack {
		return &m.blackTimeoutsUsed
	}
	return &m.whiteTimeoutsUsed
}

// canStartTeamTimeout reports whether c still has an allotment left this
// half, and whether the current period even permits a team timeout (play
// periods only, per spec §4.1).
func (m *Manager) canStartTeamTimeout(c Color) error {
	if !m.currentPeriod.IsPlayPeriod() {
		return ErrWrongGamePeriod{Actual: m.currentPeriod}
	}
	if *m.timeoutsUsed(c) >= m.gameConfigFlags.teamTimeoutsPerHalf {
		return ErrTooManyTeamTimeouts{Color: c}
	}
	return nil
}

// startTimeout enters kind with an initial clock value of initial. If the
// main clock was running, it halts at now (mirroring halt_clock(now,
// false): a timeout never itself ends the game, so the caller never needs
// the would-end-game signal that call would otherwise carry) and the
// timeout clock starts running from initial; otherwise the main clock was
// already stopped and the timeout clock starts Stopped at initial too —
// starting a timeout never starts a clock the game wasn't already running
// (spec §4.1).
func (m *Manager) startTimeout(now time.Time, kind clockstate.TimeoutKind, countUp bool, initial time.Duration) {
	wasRunning := m.clockState.IsRunning()
	if wasRunning {
		m.clockState = m.clockState.HaltAt(now)
	}

	var clock clockstate.ClockState
	switch {
	case !wasRunning:
		clock = clockstate.NewStopped(initial)
	case countUp:
		clock = clockstate.NewCountingUp(now, initial)
	default:
		clock = clockstate.NewCountingDown(now, initial)
	}

	m.timeoutState = clockstate.TimeoutState{Kind: kind, Clock: clock}
	m.notifyClockRunning(m.isAnyClockRunning())
}

// StartTeamTimeout starts a running countdown timeout for c, charging it
// against c's per-half allotment.
func (m *Manager) StartTeamTimeout(now time.Time, c Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timeoutState.IsActive() {
		return ErrAlreadyInTimeout{Current: m.timeoutState.Kind}
	}
	if err := m.canStartTeamTimeout(c); err != nil {
		return err
	}

	kind := clockstate.Black
	if c == ColorWhite {
		kind = clockstate.White
	}
	*m.timeoutsUsed(c)++
	m.startTimeout(now, kind, false, m.gameConfigFlags.teamTimeoutDuration)
	return nil
}

// StartRefTimeout starts a running count-up referee timeout.
func (m *Manager) StartRefTimeout(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timeoutState.IsActive() {
		return ErrAlreadyInTimeout{Current: m.timeoutState.Kind}
	}
	m.startTimeout(now, clockstate.Ref, true, 0)
	return nil
}

// StartPenaltyShotTimeout starts a running count-up penalty shot timeout.
//
// TODO: rugby-mode variants gate the penalty shot clock differently (it
// does not halt the main clock the same way); left unimplemented pending a
// concrete ruleset to build against.
func (m *Manager) StartPenaltyShotTimeout(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timeoutState.IsActive() {
		return ErrAlreadyInTimeout{Current: m.timeoutState.Kind}
	}
	m.startTimeout(now, clockstate.PenaltyShot, true, 0)
	return nil
}

// SwitchTimeoutKind changes the active timeout's kind without disturbing
// its elapsed/remaining clock value (spec §4.1 switch_to_*). Only the two
// direct transitions the state machine allows are valid: Black↔White and
// Ref↔PenaltyShot (spec §4.1 "state machine — timeouts"); switching
// Black/White decrements the previous color's used-timeout counter and
// increments the new one's.
func (m *Manager) SwitchTimeoutKind(newKind clockstate.TimeoutKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.timeoutState.IsActive() {
		return ErrNotInTimeout
	}
	cur := m.timeoutState.Kind
	if !isAllowedTimeoutSwitch(cur, newKind) {
		return ErrInvalidState
	}

	if cur.IsTeamTimeout() && newKind.IsTeamTimeout() {
		*m.timeoutsUsed(colorForTimeoutKind(cur))--
		*m.timeoutsUsed(colorForTimeoutKind(newKind))++
	}

	m.timeoutState = m.timeoutState.WithClock(newKind)
	return nil
}

// isAllowedTimeoutSwitch reports whether newKind is a direct switch
// destination from cur per the timeout state machine (spec §4.1): only
// Black↔White and Ref↔PenaltyShot, never across those two pairs.
func isAllowedTimeoutSwitch(cur, newKind clockstate.TimeoutKind) bool {
	switch cur {
	case clockstate.Black:
		return newKind == clockstate.White
	case clockstate.White:
		return newKind == clockstate.Black
	case clockstate.Ref:
		return newKind == clockstate.PenaltyShot
	case clockstate.PenaltyShot:
		return newKind == clockstate.Ref
	default:
		return false
	}
}

func colorForTimeoutKind(k clockstate.TimeoutKind) Color {
	if k == clockstate.White {
		return ColorWhite
	}
	return ColorBlack
}

// EndTimeout ends whatever timeout is active. If the timeout clock was
// counting, the main clock resumes in whatever run state it held before the
// timeout started; if the timeout clock was Stopped (the main clock was
// already stopped when the timeout started), the main clock is left exactly
// as it was — ending a timeout never starts a clock the game wasn't already
// running (spec §4.1).
func (m *Manager) EndTimeout(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.timeoutState.IsActive() {
		return ErrNotInTimeout
	}
	wasRunning := m.timeoutState.Clock.IsRunning()
	m.timeoutState = clockstate.None()
	if wasRunning {
		if m.currentPeriod != period.SuddenDeath {
			remaining, ok := m.clockState.ClockTime(now)
			if !ok {
				remaining = 0
			}
			m.clockState = clockstate.NewCountingDown(now, remaining)
		} else {
			cur, ok := m.clockState.ClockTime(now)
			if !ok {
				cur = 0
			}
			m.clockState = clockstate.NewCountingUp(now, cur)
		}
	}
	m.notifyClockRunning(m.isAnyClockRunning())
	return nil
}

// checkTimeoutExpiry auto-ends a team timeout whose countdown has run past
// zero — referee and penalty-shot timeouts count up and have no natural
// expiry (spec §4.1).
func (m *Manager) checkTimeoutExpiry(now time.Time) {
	if !m.timeoutState.IsActive() || !m.timeoutState.Kind.IsTeamTimeout() {
		return
	}
	if _, ok := m.timeoutState.Clock.ClockTime(now); ok {
		return
	}
	m.timeoutState = clockstate.None()
	// Only a running team timeout clock can ever report !ok here (a Stopped
	// clock's ClockTime never goes negative), so the main clock was halted
	// when this timeout started and always resumes counting down now.
	m.clockState = clockstate.NewCountingDown(now, m.clockState.StoppedAt)
	m.notifyClockRunning(true)
}
