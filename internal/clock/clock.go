// Package clock supplies the monotonic "now" source used by the tick driver.
// Every Tournament Manager method still takes an explicit now time.Time
// argument (spec §3/§4.1) — this package only exists so the process has one
// real clock in production and tests can inject a deterministic fake one,
// the way github.com/jonboulle/clockwork is used elsewhere in the corpus for
// exactly this purpose.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Source yields a strictly non-decreasing instant. Two calls with no
// intervening wall-clock progress may return the same value; they never go
// backwards.
type Source interface {
	Now() time.Time
}

// Real wraps clockwork.NewRealClock for production use.
func Real() Source { return realSource{clockwork.NewRealClock()} }

type realSource struct{ clockwork.Clock }

func (r realSource) Now() time.Time { return r.Clock.Now() }

// NewFake returns a deterministic Source pinned at t, plus the underlying
// clockwork.FakeClock so tests can advance it explicitly.
func NewFake(t time.Time) (Source, clockwork.FakeClock) {
	fc := clockwork.NewFakeClockAt(t)
	return realSource{fc}, fc
}
