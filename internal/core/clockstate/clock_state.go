// Package clockstate models the ClockState and TimeoutState tagged unions
// from spec §3: pure, allocation-free time models whose display value is a
// function of a caller-supplied "now" instant, never of wall-clock reads
// taken inside this package.
package clockstate

import "time"

// Kind discriminates ClockState's three variants.
type Kind uint8

const (
	Stopped Kind = iota
	CountingDown
	CountingUp
)

// ClockState is a tagged union over the three ways a clock can be
// displayed. Only the fields of the variant selected by Kind are
// meaningful — mirroring the Event{Type, Payload} tagged-envelope idiom used
// throughout the corpus's event bus.
type ClockState struct {
	Kind Kind

	// Stopped
	StoppedAt time.Duration

	// CountingDown
	StartTime        time.Time
	RemainingAtStart time.Duration

	// CountingUp (also uses StartTime)
	TimeAtStart time.Duration
}

// NewStopped returns a frozen clock displaying d.
func NewStopped(d time.Duration) ClockState {
	return ClockState{Kind: Stopped, StoppedAt: d}
}

// NewCountingDown returns a clock counting down from remaining, anchored at
// startTime.
func NewCountingDown(startTime time.Time, remaining time.Duration) ClockState {
	return ClockState{Kind: CountingDown, StartTime: startTime, RemainingAtStart: remaining}
}

// NewCountingUp returns a clock counting up from timeAtStart, anchored at
// startTime.
func NewCountingUp(startTime time.Time, timeAtStart time.Duration) ClockState {
	return ClockState{Kind: CountingUp, StartTime: startTime, TimeAtStart: timeAtStart}
}

// IsRunning reports whether the clock variant is CountingDown/CountingUp.
func (c ClockState) IsRunning() bool { return c.Kind != Stopped }

// ClockTime returns the display value at now, or (0, false) if a
// CountingDown clock has already run past zero — signaling the caller to
// run update(now) before trusting this value (spec §4.1 "generate_snapshot").
func (c ClockState) ClockTime(now time.Time) (time.Duration, bool) {
	switch c.Kind {
	case Stopped:
		return c.StoppedAt, true
	case CountingDown:
		elapsed := now.Sub(c.StartTime)
		remaining := c.RemainingAtStart - elapsed
		if remaining < 0 {
			return 0, false
		}
		return remaining, true
	case CountingUp:
		elapsed := now.Sub(c.StartTime)
		return c.TimeAtStart + elapsed, true
	default:
		return 0, false
	}
}

// NextWholeSecondChange returns the instant at which the clock's displayed
// whole-second value next changes, or (zero, false) for a Stopped clock
// (spec §4.1 "Next update time").
func (c ClockState) NextWholeSecondChange(now time.Time) (time.Time, bool) {
	d, ok := c.ClockTime(now)
	if !ok {
		return time.Time{}, false
	}
	switch c.Kind {
	case CountingDown:
		sub := d % time.Second
		if sub == 0 {
			sub = time.Second
		}
		return now.Add(sub), true
	case CountingUp:
		sub := time.Second - d%time.Second
		return now.Add(sub), true
	default:
		return time.Time{}, false
	}
}

// Stop freezes the clock at its current display value. Returns (state,
// false) if the clock was CountingDown and has already run past zero
// without an intervening update (spec's NeedsUpdate error case — the caller
// decides how to surface that).
func (c ClockState) Stop(now time.Time) (ClockState, bool) {
	if c.Kind == Stopped {
		return c, true
	}
	d, ok := c.ClockTime(now)
	if !ok {
		return c, false
	}
	return NewStopped(d), true
}

// HaltAt force-stops a CountingDown clock, clamping a would-be-negative
// value to 1ns instead of zero (spec §4.1 halt_clock) so reset-game-time
// comparisons downstream never misfire on an exact-zero value.
func (c ClockState) HaltAt(now time.Time) ClockState {
	d, ok := c.ClockTime(now)
	if !ok || d <= 0 {
		return NewStopped(1)
	}
	return NewStopped(d)
}
