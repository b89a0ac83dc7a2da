// Package tick implements the Tick Driver (spec §4.3): a single
// long-running loop that wakes either at the TM's next interesting instant
// or on a clock-running change, advances the Tournament Manager, and
// pushes the resulting snapshot out to the Update Sender and the UI bus.
package tick

import (
	"context"
	"time"

	"github.com/uwhrefbox/refbox/internal/clock"
	"github.com/uwhrefbox/refbox/internal/core/monitor"
	"github.com/uwhrefbox/refbox/internal/core/sender"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
	"github.com/uwhrefbox/refbox/internal/events"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

// Driver owns nothing the Tournament Manager doesn't already serialize
// through its mutex — it is safe to run on its own goroutine alongside UI
// calls into the same Manager.
type Driver struct {
	tm     *tournament.Manager
	clk    clock.Source
	server *sender.Server
	mon    *monitor.Monitor
	bus    *events.Bus

	whiteOnRight bool
	brightness   uint8
}

// New constructs a Driver. server, mon, and bus may be nil in tests that
// only care about the TM's own state transitions.
func New(tm *tournament.Manager, clk clock.Source, srv *sender.Server, mon *monitor.Monitor, bus *events.Bus) *Driver {
	return &Driver{tm: tm, clk: clk, server: srv, mon: mon, bus: bus}
}

// Run executes the driver loop until ctx is canceled (spec §4.3).
func (d *Driver) Run(ctx context.Context) {
	var nextTime time.Time
	haveNextTime := false

	for {
		woke, ok := d.waitForNext(ctx, nextTime, haveNextTime)
		if !ok {
			return
		}
		if woke.clockRunningChanged {
			d.publishClockRunningChanged(woke.clockRunning)
		}

		now := d.clk.Now()
		if d.tm.WouldEndGame(now) {
			d.tm.HaltClock(now)
			d.publishConfirmScores()
		} else {
			if err := d.tm.Update(now); err != nil {
				telemetry.Errorf("tick: update(%s) failed: %v", now, err)
				panic(err)
			}
			d.publishSnapshot(now)
		}

		if d.tm.IsAnyClockRunning() {
			nextTime = d.tm.NextUpdateTime(now)
			haveNextTime = true
		} else {
			haveNextTime = false
		}
	}
}

// wakeResult describes why waitForNext returned.
type wakeResult struct {
	clockRunningChanged bool
	clockRunning        bool
}

// waitForNext blocks until nextTime (if set and in the future), a
// clock-running change, or ctx cancellation — whichever comes first.
// The second return is false if ctx was canceled.
func (d *Driver) waitForNext(ctx context.Context, nextTime time.Time, have bool) (wakeResult, bool) {
	var timerC <-chan time.Time
	if have {
		if delta := nextTime.Sub(d.clk.Now()); delta > 0 {
			t := time.NewTimer(delta)
			defer t.Stop()
			timerC = t.C
		} else {
			fired := make(chan time.Time, 1)
			fired <- time.Time{}
			timerC = fired
		}
	}

	select {
	case <-ctx.Done():
		return wakeResult{}, false
	case <-timerC:
		return wakeResult{}, true
	case running := <-d.tm.ClockRunning():
		return wakeResult{clockRunningChanged: true, clockRunning: running}, true
	}
}

func (d *Driver) publishSnapshot(now time.Time) {
	snap := d.tm.GenerateSnapshot(now)
	if d.server != nil {
		if err := d.server.TrySend(sender.NewSnapshotMessage(snap, d.whiteOnRight, d.brightness)); err != nil {
			telemetry.Warnf("tick: dropping snapshot to sender: %v", err)
		}
	}
	if d.mon != nil {
		d.mon.Publish(snap)
	}
	if d.bus != nil {
		d.bus.Publish(events.Event{Type: events.EventNewSnapshot, Timestamp: now, Payload: snap})
	}
}

func (d *Driver) publishClockRunningChanged(running bool) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(events.Event{
		Type:      events.EventClockRunningChanged,
		Timestamp: d.clk.Now(),
		Payload:   events.ClockRunningEvent{Running: running},
	})
}

func (d *Driver) publishConfirmScores() {
	if d.bus == nil {
		return
	}
	black, white := d.tm.Scores()
	d.bus.Publish(events.Event{
		Type:      events.EventConfirmScores,
		Timestamp: d.clk.Now(),
		Payload:   events.ConfirmScoresEvent{GameNumber: d.tm.GameNumber(), BlackScore: black, WhiteScore: white},
	})
}

// SetDisplayOptions configures the white_on_right/brightness values passed
// along with every NewSnapshot message (spec §4.2 send_snapshot).
func (d *Driver) SetDisplayOptions(whiteOnRight bool, brightness uint8) {
	d.whiteOnRight = whiteOnRight
	d.brightness = brightness
}
