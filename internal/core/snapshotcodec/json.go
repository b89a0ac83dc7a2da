package snapshotcodec

import (
	"encoding/json"

	"github.com/uwhrefbox/refbox/internal/core/tournament"
)

// jsonPenalty mirrors tournament.PenaltySnapshot for the wire — its own
// fields are already exported, but we flatten TimeRemaining to whole
// seconds the way the rest of the JSON feed reports durations.
type jsonPenalty struct {
	PlayerNumber  uint8  `json:"player_number"`
	Kind          string `json:"kind"`
	SecsRemaining int    `json:"secs_remaining"`
	Indefinite    bool   `json:"indefinite"`
}

type jsonRecentGoal struct {
	Color  string `json:"color"`
	Player uint8  `json:"player"`
}

// jsonSnapshot is the full, untruncated JSON wire representation of a
// GameSnapshot (spec §4.2/§6: "no truncation, all penalties, includes
// event id, recent-goal, etc.").
type jsonSnapshot struct {
	EventID string `json:"event_id"`

	GameNumber    uint32 `json:"game_number"`
	CurrentPeriod string `json:"current_period"`
	ClockSecs     int    `json:"clock_secs"`
	ClockRunning  bool   `json:"clock_running"`

	TimeoutKind  string `json:"timeout_kind"`
	TimeoutSecs  int    `json:"timeout_secs,omitempty"`
	BlackScore   uint8  `json:"black_score"`
	WhiteScore   uint8  `json:"white_score"`

	BlackPenalties []jsonPenalty `json:"black_penalties"`
	WhitePenalties []jsonPenalty `json:"white_penalties"`

	BlackTimeoutsUsed   uint16 `json:"black_timeouts_used"`
	WhiteTimeoutsUsed   uint16 `json:"white_timeouts_used"`
	TeamTimeoutsPerHalf uint16 `json:"team_timeouts_per_half"`

	IsOldGame bool `json:"is_old_game"`

	RecentGoal *jsonRecentGoal `json:"recent_goal,omitempty"`
}

func toJSONPenalties(list []tournament.PenaltySnapshot) []jsonPenalty {
	out := make([]jsonPenalty, len(list))
	for i, p := range list {
		out[i] = jsonPenalty{
			PlayerNumber:  p.PlayerNumber,
			Kind:          p.Kind.String(),
			SecsRemaining: int(p.TimeRemaining.Seconds()),
			Indefinite:    p.Indefinite,
		}
	}
	return out
}

func toJSONSnapshot(snap tournament.GameSnapshot) jsonSnapshot {
	js := jsonSnapshot{
		EventID:             snap.EventID,
		GameNumber:          snap.GameNumber,
		CurrentPeriod:       snap.CurrentPeriod.String(),
		ClockSecs:           int(snap.ClockTime.Seconds()),
		ClockRunning:        snap.ClockRunning,
		TimeoutKind:         snap.TimeoutKind.String(),
		TimeoutSecs:         int(snap.TimeoutTime.Seconds()),
		BlackScore:          snap.BlackScore,
		WhiteScore:          snap.WhiteScore,
		BlackPenalties:      toJSONPenalties(snap.BlackPenalties),
		WhitePenalties:      toJSONPenalties(snap.WhitePenalties),
		BlackTimeoutsUsed:   snap.BlackTimeoutsUsed,
		WhiteTimeoutsUsed:   snap.WhiteTimeoutsUsed,
		TeamTimeoutsPerHalf: snap.TeamTimeoutsPerHalf,
		IsOldGame:           snap.IsOldGame,
	}
	if snap.RecentGoal != nil {
		js.RecentGoal = &jsonRecentGoal{Color: snap.RecentGoal.Color.String(), Player: snap.RecentGoal.Player}
	}
	return js
}

// EncodeJSON serializes snap into a single LF-terminated JSON line (spec
// §6: "one object per line, UTF-8, LF-terminated").
func EncodeJSON(snap tournament.GameSnapshot) ([]byte, error) {
	data, err := json.Marshal(toJSONSnapshot(snap))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
