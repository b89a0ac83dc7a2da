package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/penalty"
)

func (m *Manager) penaltyList(c Color) *[]penalty.Penalty {
	if c == ColorBlack {
		return &m.blackPenalties
	}
	return &m.whitePenalties
}

// activeClockTime is the current-period clock reading used for penalty
// elapsed-time arithmetic: the main game clock's value, clamped to 0 if it
// has run past zero (needs_update is the caller's problem, not this one's).
func (m *Manager) activeClockTime(now time.Time) time.Duration {
	d, ok := m.clockState.ClockTime(now)
	if !ok {
		return 0
	}
	return d
}

// AddPenalty records a new penalty against c, starting now, in the current
// period. Returns ErrTooManyPenalties if the list is already at its 3-slot
// display limit after culling anything already complete.
func (m *Manager) AddPenalty(now time.Time, c Color, player uint8, kind penalty.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.penaltyList(c)
	*list = m.cullList(*list, now)
	if len(*list) >= maxPenaltyListLen {
		return ErrTooManyPenalties{Limit: maxPenaltyListLen}
	}

	*list = append(*list, penalty.Penalty{
		Kind:           kind,
		PlayerNumber:   player,
		StartPeriod:    m.currentPeriod,
		StartClockTime: m.activeClockTime(now),
	})
	return nil
}

// EditPenalty replaces the player number and/or kind of the penalty at
// index, leaving its start period/time untouched.
func (m *Manager) EditPenalty(c Color, index int, player uint8, kind penalty.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := *m.penaltyList(c)
	if index < 0 || index >= len(list) {
		return ErrInvalidIndex{Color: c, Index: index}
	}
	list[index].PlayerNumber = player
	list[index].Kind = kind
	return nil
}

// DeletePenalty removes the penalty at index from c's list.
func (m *Manager) DeletePenalty(c Color, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.penaltyList(c)
	if index < 0 || index >= len(*list) {
		return ErrInvalidIndex{Color: c, Index: index}
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return nil
}

// cullList drops every completed penalty from list — spec §4.1's "served
// penalties are removed, not merely hidden" rule. A shorter penalty can
// complete before a longer one started earlier, so every entry is checked;
// the survivors keep their original order.
func (m *Manager) cullList(list []penalty.Penalty, now time.Time) []penalty.Penalty {
	curTime := m.activeClockTime(now)
	var kept []penalty.Penalty
	for _, p := range list {
		if !p.IsComplete(m.effectiveConfig, m.currentPeriod, curTime) {
			kept = append(kept, p)
		}
	}
	return kept
}

// cullPenalties runs cullList against both teams' penalty lists. Called on
// every transition into a period that counts penalties (spec §4.1).
func (m *Manager) cullPenalties(now time.Time) {
	m.blackPenalties = m.cullList(m.blackPenalties, now)
	m.whitePenalties = m.cullList(m.whitePenalties, now)
}

// PenaltySnapshot is the wire-ready view of one penalty: remaining display
// time (or "serving indefinitely" for TotalDismissal) alongside its
// identity fields.
type PenaltySnapshot struct {
	PlayerNumber uint8
	Kind         penalty.Kind
	TimeRemaining time.Duration
	Indefinite   bool
}

// penaltySnapshots builds the wire-ready view of c's penalty list. Called
// only from GenerateSnapshot, which already holds mu.
func (m *Manager) penaltySnapshots(c Color, now time.Time) []PenaltySnapshot {
	list := *m.penaltyList(c)
	curTime := m.activeClockTime(now)
	out := make([]PenaltySnapshot, 0, len(list))
	for _, p := range list {
		remaining, ok := p.TimeRemaining(m.effectiveConfig, m.currentPeriod, curTime)
		out = append(out, PenaltySnapshot{
			PlayerNumber:  p.PlayerNumber,
			Kind:          p.Kind,
			TimeRemaining: remaining,
			Indefinite:    !ok,
		})
	}
	return out
}
