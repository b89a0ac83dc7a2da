package tournament

import (
	"fmt"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

// Color identifies a team for timeout/penalty operations.
type Color uint8

const (
	ColorBlack Color = iota
	ColorWhite
)

func (c Color) String() string {
	if c == ColorBlack {
		return "Black"
	}
	return "White"
}

// Sentinel / parameterized errors per spec §7 (Tournament Manager taxonomy).
var (
	ErrClockIsRunning  = fmt.Errorf("clock is running")
	ErrNotInTimeout    = fmt.Errorf("not in a timeout")
	ErrNeedsUpdate     = fmt.Errorf("update(now) must be called before this operation")
	ErrInvalidNowValue = fmt.Errorf("now is not after the clock's anchor instant")
	ErrGameInProgress  = fmt.Errorf("game already in progress")
	ErrInvalidState    = fmt.Errorf("tournament manager is in an invalid state")
	ErrNoNextGameInfo  = fmt.Errorf("no next game info configured")
)

// ErrWrongGamePeriod reports an operation attempted in a period that
// disallows it.
type ErrWrongGamePeriod struct {
	Attempted period.GamePeriod
	Actual    period.GamePeriod
}

func (e ErrWrongGamePeriod) Error() string {
	return fmt.Sprintf("wrong game period: attempted for %s, actual is %s", e.Attempted, e.Actual)
}

// ErrTooManyTeamTimeouts reports a team has used its per-half allotment.
type ErrTooManyTeamTimeouts struct{ Color Color }

func (e ErrTooManyTeamTimeouts) Error() string {
	return fmt.Sprintf("%s has used all team timeouts for this half", e.Color)
}

// ErrAlreadyInTimeout reports a timeout start attempted while one is active.
type ErrAlreadyInTimeout struct{ Current clockstate.TimeoutKind }

func (e ErrAlreadyInTimeout) Error() string {
	return fmt.Sprintf("already in a %s timeout", e.Current)
}

// ErrNotInSpecificTimeout reports an end/switch attempted against the wrong
// timeout kind (NotInRefTimeout, NotInPenaltyTimeout, NotInBlackTimeout,
// NotInWhiteTimeout collapse into this one parameterized type).
type ErrNotInSpecificTimeout struct{ Expected clockstate.TimeoutKind }

func (e ErrNotInSpecificTimeout) Error() string {
	return fmt.Sprintf("not in a %s timeout", e.Expected)
}

// ErrAlreadyInPlayPeriod reports start_play_now attempted while already
// playing.
type ErrAlreadyInPlayPeriod struct{ Current period.GamePeriod }

func (e ErrAlreadyInPlayPeriod) Error() string {
	return fmt.Sprintf("already in play period %s", e.Current)
}

// ErrTooManyPenalties reports a penalty list still exceeding limit after
// culling every completed entry from the front.
type ErrTooManyPenalties struct{ Limit int }

func (e ErrTooManyPenalties) Error() string {
	return fmt.Sprintf("more than %d active penalties", e.Limit)
}

// ErrInvalidIndex reports an out-of-range penalty index.
type ErrInvalidIndex struct {
	Color Color
	Index int
}

func (e ErrInvalidIndex) Error() string {
	return fmt.Sprintf("invalid penalty index %d for %s", e.Index, e.Color)
}
