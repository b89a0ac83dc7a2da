package clockstate

import "testing"

func TestIsTeamTimeout(t *testing.T) {
	tests := []struct {
		k    TimeoutKind
		want bool
	}{
		{NoTimeout, false},
		{Black, true},
		{White, true},
		{Ref, false},
		{PenaltyShot, false},
	}
	for _, tt := range tests {
		if got := tt.k.IsTeamTimeout(); got != tt.want {
			t.Errorf("%s.IsTeamTimeout() = %v, want %v", tt.k, got, tt.want)
		}
	}
}

func TestNoneIsNotActive(t *testing.T) {
	n := None()
	if n.IsActive() {
		t.Error("None() reports IsActive() true")
	}
	if n.IsRunning() {
		t.Error("None() reports IsRunning() true")
	}
}

func TestWithClockPreservesClockValue(t *testing.T) {
	orig := TimeoutState{Kind: Black, Clock: NewStopped(30)}
	switched := orig.WithClock(White)

	if switched.Kind != White {
		t.Errorf("WithClock kind = %s, want White", switched.Kind)
	}
	if switched.Clock != orig.Clock {
		t.Errorf("WithClock changed the clock value: got %+v, want %+v", switched.Clock, orig.Clock)
	}
}

func TestIsActiveAllNonNoneKinds(t *testing.T) {
	for _, k := range []TimeoutKind{Black, White, Ref, PenaltyShot} {
		ts := TimeoutState{Kind: k}
		if !ts.IsActive() {
			t.Errorf("TimeoutState{Kind: %s}.IsActive() = false, want true", k)
		}
	}
}
