package events

import "time"

// Event is the envelope that flows through the UI-facing event bus.
// The Tick Driver and Tournament Manager publish notifications here for
// the (out-of-scope) UI layer to subscribe to; the Update Sender has its
// own, separate channel protocol (see internal/core/sender) for panel/TCP
// fan-out and does not use this bus.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	// EventNewSnapshot fires after every TM mutation that produced a fresh
	// snapshot. Payload is a tournament.GameSnapshot value.
	EventNewSnapshot EventType = "new_snapshot"
	// EventConfirmScores fires when the tick driver detects the game would
	// end on this tick; the UI must confirm the score before the period
	// transition actually runs. Payload is ConfirmScoresEvent.
	EventConfirmScores EventType = "confirm_scores"
	// EventClockRunningChanged mirrors the TM's watch channel onto the bus
	// for UI consumers that prefer the synchronous bus to a raw channel.
	EventClockRunningChanged EventType = "clock_running_changed"
)
