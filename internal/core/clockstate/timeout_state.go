package clockstate

// TimeoutKind discriminates TimeoutState's five variants.
type TimeoutKind uint8

const (
	NoTimeout TimeoutKind = iota
	Black
	White
	Ref
	PenaltyShot
)

func (k TimeoutKind) String() string {
	switch k {
	case NoTimeout:
		return "None"
	case Black:
		return "Black"
	case White:
		return "White"
	case Ref:
		return "Ref"
	case PenaltyShot:
		return "PenaltyShot"
	default:
		return "Unknown"
	}
}

// IsTeamTimeout reports whether k is a team (Black/White) timeout, which
// counts down, as opposed to Ref/PenaltyShot, which count up from zero.
func (k TimeoutKind) IsTeamTimeout() bool { return k == Black || k == White }

// TimeoutState is the tagged union None | Black | White | Ref | PenaltyShot,
// each non-None variant carrying a ClockState (spec §3).
type TimeoutState struct {
	Kind  TimeoutKind
	Clock ClockState
}

// None is the TimeoutState value for "not in a timeout".
func None() TimeoutState { return TimeoutState{Kind: NoTimeout} }

func (t TimeoutState) IsActive() bool { return t.Kind != NoTimeout }

func (t TimeoutState) IsRunning() bool { return t.IsActive() && t.Clock.IsRunning() }

// WithClock returns t with its Kind changed to newKind, preserving the
// current ClockState — the mechanism behind switch_to_* (spec §4.1):
// switching between timeout types carries the running/stopped clock value
// across the variant change.
func (t TimeoutState) WithClock(newKind TimeoutKind) TimeoutState {
	return TimeoutState{Kind: newKind, Clock: t.Clock}
}
