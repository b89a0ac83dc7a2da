package snapshotcodec

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
)

const (
	emptySlotPlayer  = 0x7F // 7 bits all set; no real roster number reaches it
	indefiniteSecs   = 511  // 9-bit sentinel: TotalDismissal / no finite remaining time
	maxPenaltySecs   = 510
	maxPlayerNumber  = 99
	maxTimeoutSecs   = (1 << 13) - 1
	maxPeriodSecs    = (1 << 16) - 1
	hideTimeThreshold = 15 * time.Second
)

// PenaltySlot is one of a team's 3 fixed binary slots.
type PenaltySlot struct {
	Present      bool
	PlayerNumber uint8
	Seconds      uint16 // valid only if Present && !Indefinite
	Indefinite   bool
}

// BinarySnapshot is exactly what the 19-byte frame can represent — a lossy
// projection of the full tournament.GameSnapshot (spec §8: round-trip is
// scoped to "the 19-byte projection", not the full snapshot).
type BinarySnapshot struct {
	CurrentPeriod   period.GamePeriod
	SecondsInPeriod uint16

	TimeoutKind    clockstate.TimeoutKind
	TimeoutSeconds uint16

	BlackScore, WhiteScore uint8
	BlackPenalties         [3]PenaltySlot
	WhitePenalties         [3]PenaltySlot

	BlackTimeoutAvailable bool
	WhiteTimeoutAvailable bool
	IsOldGame             bool
}

func timeoutTag(k clockstate.TimeoutKind) (uint8, bool) {
	switch k {
	case clockstate.NoTimeout:
		return 0, true
	case clockstate.Black:
		return 1, true
	case clockstate.White:
		return 2, true
	case clockstate.Ref:
		return 3, true
	case clockstate.PenaltyShot:
		return 4, true
	default:
		return 0, false
	}
}

func tagToTimeoutKind(tag uint8) (clockstate.TimeoutKind, bool) {
	switch tag {
	case 0:
		return clockstate.NoTimeout, true
	case 1:
		return clockstate.Black, true
	case 2:
		return clockstate.White, true
	case 3:
		return clockstate.Ref, true
	case 4:
		return clockstate.PenaltyShot, true
	default:
		return clockstate.NoTimeout, false
	}
}

// Project reduces a full GameSnapshot to its 19-byte-representable fields,
// applying the hide-time transformation for break periods under 15 s
// remaining (spec §4.2). hideTime gates whether the transform runs at all —
// panels that haven't enabled it see the raw countdown even inside the
// window.
func Project(snap tournament.GameSnapshot, hideTime bool) BinarySnapshot {
	secs := clampSecs(snap.ClockTime, maxPeriodSecs)
	if hideTime && secs < uint16(hideTimeThreshold/time.Second) && isHideTimePeriod(snap.CurrentPeriod) {
		if snap.CurrentPeriod == period.PreSuddenDeath {
			secs = 0
		} else {
			secs = clampSecs(snap.NextPeriodLenSecs, maxPeriodSecs)
		}
	}

	b := BinarySnapshot{
		CurrentPeriod:         snap.CurrentPeriod,
		SecondsInPeriod:       secs,
		TimeoutKind:           snap.TimeoutKind,
		TimeoutSeconds:        clampSecs(snap.TimeoutTime, maxTimeoutSecs),
		BlackScore:            snap.BlackScore,
		WhiteScore:            snap.WhiteScore,
		BlackTimeoutAvailable: snap.BlackTimeoutsUsed < snap.TeamTimeoutsPerHalf,
		WhiteTimeoutAvailable: snap.WhiteTimeoutsUsed < snap.TeamTimeoutsPerHalf,
		IsOldGame:             snap.IsOldGame,
	}
	projectSlots(&b.BlackPenalties, snap.BlackPenalties)
	projectSlots(&b.WhitePenalties, snap.WhitePenalties)
	return b
}

func isHideTimePeriod(p period.GamePeriod) bool {
	switch p {
	case period.BetweenGames, period.HalfTime, period.OvertimeHalfTime, period.PreOvertime, period.PreSuddenDeath:
		return true
	default:
		return false
	}
}

func clampSecs(d time.Duration, max uint16) uint16 {
	secs := int64(d / time.Second)
	if secs < 0 {
		return 0
	}
	if secs > int64(max) {
		return max
	}
	return uint16(secs)
}

func projectSlots(dst *[3]PenaltySlot, src []tournament.PenaltySnapshot) {
	for i := range dst {
		dst[i] = PenaltySlot{PlayerNumber: emptySlotPlayer}
	}
	for i := 0; i < len(src) && i < 3; i++ {
		p := src[i]
		slot := PenaltySlot{Present: true, PlayerNumber: p.PlayerNumber}
		if p.Indefinite {
			slot.Indefinite = true
		} else {
			slot.Seconds = clampSecs(p.TimeRemaining, maxPenaltySecs)
		}
		dst[i] = slot
	}
}

func encodeSlot(s PenaltySlot) (uint16, error) {
	if !s.Present {
		return uint16(emptySlotPlayer) << 9, nil
	}
	if s.PlayerNumber > maxPlayerNumber {
		return 0, ErrPlayerNumTooLarge{PlayerNumber: s.PlayerNumber}
	}
	secs := uint16(indefiniteSecs)
	if !s.Indefinite {
		if s.Seconds > maxPenaltySecs {
			return 0, ErrPenaltySecsTooLarge{Seconds: s.Seconds}
		}
		secs = s.Seconds
	}
	return uint16(s.PlayerNumber)<<9 | secs, nil
}

func decodeSlot(v uint16) PenaltySlot {
	player := uint8(v >> 9)
	secs := v & 0x1FF
	if player == emptySlotPlayer {
		return PenaltySlot{PlayerNumber: emptySlotPlayer}
	}
	if secs == indefiniteSecs {
		return PenaltySlot{Present: true, PlayerNumber: player, Indefinite: true}
	}
	return PenaltySlot{Present: true, PlayerNumber: player, Seconds: secs}
}

// Encode packs b into the fixed 19-byte frame (spec §4.2), big-endian.
func Encode(b BinarySnapshot) ([FrameLen]byte, error) {
	var out [FrameLen]byte

	if int(b.CurrentPeriod) > 0xF {
		return out, ErrInvalidPeriodByte
	}
	tag, ok := timeoutTag(b.TimeoutKind)
	if !ok {
		return out, ErrInvalidTimeoutTag
	}
	if b.TimeoutSeconds > maxTimeoutSecs {
		return out, ErrTimeoutSecsTooLarge{Seconds: b.TimeoutSeconds}
	}

	out[0] = byte(b.CurrentPeriod) & 0x0F
	if b.WhiteTimeoutAvailable {
		out[0] |= 1 << 4
	}
	if b.BlackTimeoutAvailable {
		out[0] |= 1 << 5
	}
	if b.IsOldGame {
		out[0] |= 1 << 6
	}

	out[1] = byte(b.SecondsInPeriod >> 8)
	out[2] = byte(b.SecondsInPeriod)

	timeoutWord := uint16(tag)<<13 | (b.TimeoutSeconds & 0x1FFF)
	out[3] = byte(timeoutWord >> 8)
	out[4] = byte(timeoutWord)

	out[5] = b.BlackScore
	out[6] = b.WhiteScore

	for i, slot := range b.BlackPenalties {
		v, err := encodeSlot(slot)
		if err != nil {
			return out, err
		}
		out[7+i*2] = byte(v >> 8)
		out[7+i*2+1] = byte(v)
	}
	for i, slot := range b.WhitePenalties {
		v, err := encodeSlot(slot)
		if err != nil {
			return out, err
		}
		out[13+i*2] = byte(v >> 8)
		out[13+i*2+1] = byte(v)
	}

	return out, nil
}

// Decode unpacks a 19-byte frame into a BinarySnapshot.
func Decode(frame []byte) (BinarySnapshot, error) {
	var b BinarySnapshot
	if len(frame) != FrameLen {
		return b, ErrTruncatedFrame
	}

	periodID := frame[0] & 0x0F
	if int(periodID) >= 10 {
		return b, ErrInvalidPeriodByte
	}
	b.CurrentPeriod = period.GamePeriod(periodID)
	b.WhiteTimeoutAvailable = frame[0]&(1<<4) != 0
	b.BlackTimeoutAvailable = frame[0]&(1<<5) != 0
	b.IsOldGame = frame[0]&(1<<6) != 0

	b.SecondsInPeriod = uint16(frame[1])<<8 | uint16(frame[2])

	timeoutWord := uint16(frame[3])<<8 | uint16(frame[4])
	kind, ok := tagToTimeoutKind(uint8(timeoutWord >> 13))
	if !ok {
		return b, ErrInvalidTimeoutTag
	}
	b.TimeoutKind = kind
	b.TimeoutSeconds = timeoutWord & 0x1FFF

	b.BlackScore = frame[5]
	b.WhiteScore = frame[6]

	for i := range b.BlackPenalties {
		v := uint16(frame[7+i*2])<<8 | uint16(frame[7+i*2+1])
		b.BlackPenalties[i] = decodeSlot(v)
	}
	for i := range b.WhitePenalties {
		v := uint16(frame[13+i*2])<<8 | uint16(frame[13+i*2+1])
		b.WhitePenalties[i] = decodeSlot(v)
	}

	return b, nil
}
