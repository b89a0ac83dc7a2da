// Package schedule is the client side of the opaque HTTP schedule provider
// (spec §6): it pushes set_next_game pulls into the Tournament Manager and
// pulls a terminal snapshot out to post a final score record. The provider
// itself is external and unspecified beyond that contract; this package
// only fixes a concrete JSON wire shape for it.
package schedule

import "time"

// nextGameWire is the provider's response to GET /next-game.
type nextGameWire struct {
	Number         uint32              `json:"number"`
	TimingOverride *timingOverrideWire `json:"timing_override,omitempty"`
	WallClockStart *time.Time          `json:"wall_clock_start,omitempty"`
}

// timingOverrideWire mirrors period.Rules in whole seconds over the wire.
type timingOverrideWire struct {
	HalfPlaySec       int64 `json:"half_play_sec"`
	HalfTimeSec       int64 `json:"half_time_sec"`
	PreOvertimeSec    int64 `json:"pre_overtime_sec"`
	OTHalfPlaySec     int64 `json:"ot_half_play_sec"`
	OTHalfTimeSec     int64 `json:"ot_half_time_sec"`
	PreSuddenDeathSec int64 `json:"pre_sudden_death_sec"`
}

// finalScoreWire is the body posted to POST /final-score once a game's
// terminal snapshot is available.
type finalScoreWire struct {
	GameNumber uint32    `json:"game_number"`
	BlackScore uint8     `json:"black_score"`
	WhiteScore uint8     `json:"white_score"`
	EndedAt    time.Time `json:"ended_at"`
}
