// Package period defines the GamePeriod enum and the static per-period rules
// table from spec §3 — configured duration, whether penalties accrue, and
// the enum's narrative (game) ordering. The dynamic part of period
// transitions (which successor a given period has, which depends on scores
// and config) lives in internal/core/tournament, since it isn't a pure
// function of the period alone.
package period

import "time"

// GamePeriod is a totally ordered (in narrative order) enum over the game's
// period sequence.
type GamePeriod uint8

const (
	BetweenGames GamePeriod = iota
	FirstHalf
	HalfTime
	SecondHalf
	PreOvertime
	OvertimeFirstHalf
	OvertimeHalfTime
	OvertimeSecondHalf
	PreSuddenDeath
	SuddenDeath

	numPeriods = int(SuddenDeath) + 1
)

var names = [numPeriods]string{
	"BetweenGames",
	"FirstHalf",
	"HalfTime",
	"SecondHalf",
	"PreOvertime",
	"OvertimeFirstHalf",
	"OvertimeHalfTime",
	"OvertimeSecondHalf",
	"PreSuddenDeath",
	"SuddenDeath",
}

func (p GamePeriod) String() string {
	if int(p) < numPeriods {
		return names[p]
	}
	return "Unknown"
}

// Ordinal returns the enum's position in narrative order, used to compare
// two (period, time) pairs for "not earlier than" per spec §8.
func (p GamePeriod) Ordinal() int { return int(p) }

// IsPlayPeriod reports whether p is one of the five periods during which
// play (and therefore penalty accrual and scoring) happens.
func (p GamePeriod) IsPlayPeriod() bool {
	switch p {
	case FirstHalf, SecondHalf, OvertimeFirstHalf, OvertimeSecondHalf, SuddenDeath:
		return true
	default:
		return false
	}
}

// CountsPenalties reports whether penalty time accrues during p. Identical
// to IsPlayPeriod: the five play periods are exactly the periods that can
// run penalty time (OT/SD periods are only ever current when enabled by
// config, since the TM's transition logic never enters a disabled period).
func (p GamePeriod) CountsPenalties() bool { return p.IsPlayPeriod() }

// IsBreakPeriod reports whether p is one of the breaks eligible for the
// hide-time display transformation and manual start_play_now advance.
func (p GamePeriod) IsBreakPeriod() bool {
	switch p {
	case BetweenGames, HalfTime, PreOvertime, OvertimeHalfTime, PreSuddenDeath:
		return true
	default:
		return false
	}
}

// IsOpenEnded reports whether p has no configured duration. BetweenGames'
// length is computed per game and its clock counts down; SuddenDeath has no
// end and its clock counts up.
func (p GamePeriod) IsOpenEnded() bool {
	return p == BetweenGames || p == SuddenDeath
}

// Rules is the static, config-derived duration table for every period with a
// fixed length. BetweenGames and SuddenDeath are intentionally absent.
type Rules struct {
	HalfPlay         time.Duration
	HalfTime         time.Duration
	PreOvertime      time.Duration
	OTHalfPlay       time.Duration
	OTHalfTime       time.Duration
	PreSuddenDeath   time.Duration
}

// Duration returns p's configured duration and true, or (0, false) if p has
// no fixed duration (BetweenGames, SuddenDeath).
func (r Rules) Duration(p GamePeriod) (time.Duration, bool) {
	switch p {
	case FirstHalf, SecondHalf:
		return r.HalfPlay, true
	case HalfTime:
		return r.HalfTime, true
	case PreOvertime:
		return r.PreOvertime, true
	case OvertimeFirstHalf, OvertimeSecondHalf:
		return r.OTHalfPlay, true
	case OvertimeHalfTime:
		return r.OTHalfTime, true
	case PreSuddenDeath:
		return r.PreSuddenDeath, true
	default:
		return 0, false
	}
}
