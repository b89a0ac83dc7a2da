package clockstate

import (
	"testing"
	"time"
)

func TestStoppedClockTime(t *testing.T) {
	c := NewStopped(42 * time.Second)
	d, ok := c.ClockTime(time.Now())
	if !ok || d != 42*time.Second {
		t.Fatalf("ClockTime() = (%v, %v), want (42s, true)", d, ok)
	}
	if c.IsRunning() {
		t.Error("Stopped clock reports IsRunning() true")
	}
}

func TestCountingDownClockTime(t *testing.T) {
	start := time.Now()
	c := NewCountingDown(start, 10*time.Second)

	if !c.IsRunning() {
		t.Fatal("CountingDown clock reports IsRunning() false")
	}

	d, ok := c.ClockTime(start.Add(4 * time.Second))
	if !ok || d != 6*time.Second {
		t.Fatalf("ClockTime(+4s) = (%v, %v), want (6s, true)", d, ok)
	}

	// Past expiry: caller must see the needs-update signal, not a negative value.
	_, ok = c.ClockTime(start.Add(11 * time.Second))
	if ok {
		t.Fatal("ClockTime() past expiry should return ok=false")
	}
}

func TestCountingUpClockTime(t *testing.T) {
	start := time.Now()
	c := NewCountingUp(start, 5*time.Second)

	d, ok := c.ClockTime(start.Add(3 * time.Second))
	if !ok || d != 8*time.Second {
		t.Fatalf("ClockTime(+3s) = (%v, %v), want (8s, true)", d, ok)
	}
}

func TestNextWholeSecondChangeStoppedClock(t *testing.T) {
	c := NewStopped(10 * time.Second)
	if _, ok := c.NextWholeSecondChange(time.Now()); ok {
		t.Error("NextWholeSecondChange on a Stopped clock should report ok=false")
	}
}

func TestNextWholeSecondChangeCountingDown(t *testing.T) {
	start := time.Now()
	c := NewCountingDown(start, 10*time.Second)

	// Exactly on a whole-second boundary: next change is a full second away.
	next, ok := c.NextWholeSecondChange(start)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if got := next.Sub(start); got != time.Second {
		t.Errorf("NextWholeSecondChange at boundary = +%v, want +1s", got)
	}

	// Mid-second: next change is the remainder to the next boundary.
	mid := start.Add(250 * time.Millisecond)
	next, ok = c.NextWholeSecondChange(mid)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if got := next.Sub(mid); got != 750*time.Millisecond {
		t.Errorf("NextWholeSecondChange mid-second = +%v, want +750ms", got)
	}
}

func TestStopFreezesDisplayValue(t *testing.T) {
	start := time.Now()
	c := NewCountingDown(start, 10*time.Second)

	stopped, ok := c.Stop(start.Add(3 * time.Second))
	if !ok {
		t.Fatal("Stop() returned ok=false")
	}
	if stopped.Kind != Stopped {
		t.Fatalf("Stop() did not produce a Stopped clock: %+v", stopped)
	}
	d, _ := stopped.ClockTime(start.Add(time.Hour))
	if d != 7*time.Second {
		t.Errorf("frozen value = %v, want 7s (unaffected by further elapsed time)", d)
	}
}

func TestStopPastExpiryNeedsUpdate(t *testing.T) {
	start := time.Now()
	c := NewCountingDown(start, 5*time.Second)
	if _, ok := c.Stop(start.Add(10 * time.Second)); ok {
		t.Error("Stop() past expiry should return ok=false")
	}
}

func TestHaltAtClampsToOneNanosecond(t *testing.T) {
	start := time.Now()
	c := NewCountingDown(start, 5*time.Second)

	halted := c.HaltAt(start.Add(10 * time.Second))
	if halted.Kind != Stopped {
		t.Fatalf("HaltAt produced a non-Stopped clock: %+v", halted)
	}
	if halted.StoppedAt != time.Nanosecond {
		t.Errorf("HaltAt past expiry = %v, want 1ns", halted.StoppedAt)
	}
}

func TestHaltAtBeforeExpiry(t *testing.T) {
	start := time.Now()
	c := NewCountingDown(start, 5*time.Second)
	halted := c.HaltAt(start.Add(2 * time.Second))
	if halted.StoppedAt != 3*time.Second {
		t.Errorf("HaltAt before expiry = %v, want 3s", halted.StoppedAt)
	}
}
