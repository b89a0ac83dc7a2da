// Package snapshotcodec implements the two wire encodings for a
// tournament.GameSnapshot (spec §4.2): a fixed 19-byte binary frame for
// scoreboard panels, and newline-terminated JSON for software consumers.
package snapshotcodec

import "fmt"

// FrameLen is the fixed size of the binary encoding (spec §4.2/§8).
const FrameLen = 19

// Error taxonomy for encode/decode failures (spec §7 Update Sender errors).
var (
	ErrTruncatedFrame    = fmt.Errorf("snapshotcodec: frame is not %d bytes", FrameLen)
	ErrInvalidPeriodByte = fmt.Errorf("snapshotcodec: invalid period id on decode")
	ErrInvalidTimeoutTag = fmt.Errorf("snapshotcodec: invalid timeout tag on decode")
)

// ErrPlayerNumTooLarge reports a player number that can't fit the frame's
// 7-bit field (valid range 0–99; 100+ is rejected, 127 is the empty-slot
// sentinel).
type ErrPlayerNumTooLarge struct{ PlayerNumber uint8 }

func (e ErrPlayerNumTooLarge) Error() string {
	return fmt.Sprintf("snapshotcodec: player number %d exceeds the 99 max", e.PlayerNumber)
}

// ErrPenaltySecsTooLarge reports a finite penalty remaining-time that
// doesn't fit the frame's 9-bit field (valid range 0–510; 511 is the
// TotalDismissal/indefinite sentinel and can't represent a finite time).
type ErrPenaltySecsTooLarge struct{ Seconds uint16 }

func (e ErrPenaltySecsTooLarge) Error() string {
	return fmt.Sprintf("snapshotcodec: penalty seconds %d exceeds the 510 max", e.Seconds)
}

// ErrTimeoutSecsTooLarge reports a timeout remaining-time that doesn't fit
// the frame's 13-bit field (valid range 0–8191).
type ErrTimeoutSecsTooLarge struct{ Seconds uint16 }

func (e ErrTimeoutSecsTooLarge) Error() string {
	return fmt.Sprintf("snapshotcodec: timeout seconds %d exceeds the 8191 max", e.Seconds)
}
