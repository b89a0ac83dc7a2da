// Package penalty models a single penalty's lifecycle: its nominal kind,
// the elapsed/remaining-time arithmetic that spans period transitions, and
// the completion rule (spec §3, §4.1).
package penalty

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/period"
)

// Kind is one of the four penalty severities.
type Kind uint8

const (
	OneMinute Kind = iota
	TwoMinute
	FiveMinute
	TotalDismissal
)

// NominalDuration returns the served time at which a penalty of this kind
// completes. TotalDismissal has no nominal duration — it never completes
// within a game by elapsed time alone (see IsComplete).
func (k Kind) NominalDuration() (time.Duration, bool) {
	switch k {
	case OneMinute:
		return 1 * time.Minute, true
	case TwoMinute:
		return 2 * time.Minute, true
	case FiveMinute:
		return 5 * time.Minute, true
	default:
		return 0, false
	}
}

func (k Kind) String() string {
	switch k {
	case OneMinute:
		return "1m"
	case TwoMinute:
		return "2m"
	case FiveMinute:
		return "5m"
	case TotalDismissal:
		return "TotalDismissal"
	default:
		return "Unknown"
	}
}

// Penalty is one player's served (or serving) penalty.
type Penalty struct {
	Kind           Kind
	PlayerNumber   uint8 // invariant: < 100
	StartPeriod    period.GamePeriod
	StartClockTime time.Duration // time-in-period at which the penalty started
}

// periodCounts reports whether pn accrues time while the game sits in per;
// it depends on per alone (CountsPenalties), not on the penalty's start.
func (pn Penalty) periodCounts(per period.GamePeriod) bool {
	return per.CountsPenalties()
}

// TimeElapsed sums: (a) elapsed time within the start period, if that
// period counts penalties; (b) full durations of every intervening
// counting period; (c) elapsed time within the current period, if it
// counts — per spec §4.1.
//
// A play period's clock reading is a countdown (remaining time), except
// SuddenDeath's, which counts up from zero. So "elapsed since X" reads as
// (reading at X) - (current reading) for countdown periods, but directly
// as the current reading itself once play has moved into SuddenDeath.
func (pn Penalty) TimeElapsed(rules period.Rules, curPeriod period.GamePeriod, curClockTime time.Duration) time.Duration {
	if curPeriod.Ordinal() < pn.StartPeriod.Ordinal() {
		return 0
	}

	if curPeriod == pn.StartPeriod {
		if !pn.periodCounts(curPeriod) {
			return 0
		}
		elapsed := elapsedSincePeriodStart(curPeriod, pn.StartClockTime, curClockTime)
		if elapsed < 0 {
			return 0
		}
		return elapsed
	}

	var total time.Duration
	if pn.periodCounts(pn.StartPeriod) {
		// The penalty's start period is always a countdown period here —
		// SuddenDeath has no successor to cross into. Its reading at the
		// start instant already equals the time left to serve before the
		// period ends.
		total += pn.StartClockTime
	}

	for p := pn.StartPeriod + 1; p < curPeriod; p++ {
		if !pn.periodCounts(p) {
			continue
		}
		if d, ok := rules.Duration(p); ok {
			total += d
		}
	}

	if pn.periodCounts(curPeriod) {
		if curPeriod == period.SuddenDeath {
			total += curClockTime
		} else if d, ok := rules.Duration(curPeriod); ok {
			total += d - curClockTime
		}
	}

	if total < 0 {
		return 0
	}
	return total
}

// elapsedSincePeriodStart converts a pair of same-period clock readings
// into an elapsed duration, accounting for SuddenDeath counting up while
// every other play period counts down.
func elapsedSincePeriodStart(p period.GamePeriod, startReading, curReading time.Duration) time.Duration {
	if p == period.SuddenDeath {
		return curReading - startReading
	}
	return startReading - curReading
}

// TimeRemaining is max(0, nominal - elapsed). TotalDismissal has no
// representable remaining time.
func (pn Penalty) TimeRemaining(rules period.Rules, curPeriod period.GamePeriod, curClockTime time.Duration) (time.Duration, bool) {
	nominal, ok := pn.Kind.NominalDuration()
	if !ok {
		return 0, false
	}
	elapsed := pn.TimeElapsed(rules, curPeriod, curClockTime)
	remaining := nominal - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// IsComplete reports whether pn has finished serving. TotalDismissal is
// never complete within a game — it stays on the list through every OT/SD
// boundary — and is forced complete only once the game has actually ended,
// i.e. once curPeriod == BetweenGames (a TotalDismissal is only ever added
// while the game is live, so "started earlier" is automatic here).
func (pn Penalty) IsComplete(rules period.Rules, curPeriod period.GamePeriod, curClockTime time.Duration) bool {
	if pn.Kind == TotalDismissal {
		return curPeriod == period.BetweenGames
	}
	remaining, _ := pn.TimeRemaining(rules, curPeriod, curClockTime)
	return remaining == 0
}
