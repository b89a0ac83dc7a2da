package tournament

import (
	"testing"
	"time"

	"github.com/uwhrefbox/refbox/internal/core/penalty"
)

func TestAddPenaltyAppendsAndStampsStart(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)

	if err := m.AddPenalty(now, ColorBlack, 7, penalty.TwoMinute); err != nil {
		t.Fatalf("AddPenalty: %v", err)
	}
	if len(m.blackPenalties) != 1 {
		t.Fatalf("blackPenalties len = %d, want 1", len(m.blackPenalties))
	}
	p := m.blackPenalties[0]
	if p.PlayerNumber != 7 || p.Kind != penalty.TwoMinute || p.StartClockTime != 10*time.Minute {
		t.Fatalf("stamped penalty = %+v, want player 7, 2m, start 10m", p)
	}
}

func TestAddPenaltyRejectsPastThreeSlotLimit(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)

	for i := 0; i < maxPenaltyListLen; i++ {
		if err := m.AddPenalty(now, ColorBlack, uint8(i), penalty.TotalDismissal); err != nil {
			t.Fatalf("AddPenalty #%d: %v", i, err)
		}
	}
	err := m.AddPenalty(now, ColorBlack, 99, penalty.TotalDismissal)
	if _, ok := err.(ErrTooManyPenalties); !ok {
		t.Fatalf("4th penalty = %v (%T), want ErrTooManyPenalties", err, err)
	}
}

func TestAddPenaltyAdmitsNewEntryAfterCullingCompletedOnes(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)

	// Fill all 3 slots with short penalties that will have long since
	// completed by the time we try a 4th.
	for i := 0; i < maxPenaltyListLen; i++ {
		if err := m.AddPenalty(now, ColorBlack, uint8(i), penalty.OneMinute); err != nil {
			t.Fatalf("AddPenalty #%d: %v", i, err)
		}
	}

	later := now.Add(2 * time.Minute)
	if err := m.AddPenalty(later, ColorBlack, 50, penalty.OneMinute); err != nil {
		t.Fatalf("AddPenalty after cull: %v", err)
	}
	if len(m.blackPenalties) != 1 {
		t.Fatalf("blackPenalties len after cull+add = %d, want 1 (only the fresh one)", len(m.blackPenalties))
	}
	if m.blackPenalties[0].PlayerNumber != 50 {
		t.Fatalf("surviving penalty player = %d, want 50", m.blackPenalties[0].PlayerNumber)
	}
}

func TestEditPenaltyUpdatesPlayerAndKind(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddPenalty(now, ColorWhite, 1, penalty.OneMinute)

	if err := m.EditPenalty(ColorWhite, 0, 22, penalty.FiveMinute); err != nil {
		t.Fatalf("EditPenalty: %v", err)
	}
	p := m.whitePenalties[0]
	if p.PlayerNumber != 22 || p.Kind != penalty.FiveMinute {
		t.Fatalf("edited penalty = %+v, want player 22 kind FiveMinute", p)
	}
	if p.StartClockTime != 10*time.Minute {
		t.Fatalf("EditPenalty must not disturb StartClockTime, got %v", p.StartClockTime)
	}
}

func TestEditPenaltyInvalidIndex(t *testing.T) {
	m := New(testConfig())
	err := m.EditPenalty(ColorBlack, 0, 1, penalty.OneMinute)
	if _, ok := err.(ErrInvalidIndex); !ok {
		t.Fatalf("EditPenalty out of range = %v (%T), want ErrInvalidIndex", err, err)
	}
}

func TestDeletePenaltyRemovesEntry(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddPenalty(now, ColorBlack, 1, penalty.OneMinute)
	_ = m.AddPenalty(now, ColorBlack, 2, penalty.TwoMinute)

	if err := m.DeletePenalty(ColorBlack, 0); err != nil {
		t.Fatalf("DeletePenalty: %v", err)
	}
	if len(m.blackPenalties) != 1 || m.blackPenalties[0].PlayerNumber != 2 {
		t.Fatalf("blackPenalties after delete = %+v, want only player 2 left", m.blackPenalties)
	}
}

func TestDeletePenaltyInvalidIndex(t *testing.T) {
	m := New(testConfig())
	err := m.DeletePenalty(ColorWhite, -1)
	if _, ok := err.(ErrInvalidIndex); !ok {
		t.Fatalf("DeletePenalty negative index = %v (%T), want ErrInvalidIndex", err, err)
	}
}

func TestPenaltySnapshotsReportIndefiniteForTotalDismissal(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddPenalty(now, ColorBlack, 3, penalty.TotalDismissal)

	snaps := m.penaltySnapshots(ColorBlack, now)
	if len(snaps) != 1 || !snaps[0].Indefinite {
		t.Fatalf("TotalDismissal snapshot = %+v, want a single indefinite entry", snaps)
	}
}

func TestPenaltySnapshotsReportRemainingTimeForFiniteKinds(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddPenalty(now, ColorBlack, 3, penalty.OneMinute)

	later := now.Add(20 * time.Second)
	snaps := m.penaltySnapshots(ColorBlack, later)
	if len(snaps) != 1 || snaps[0].Indefinite {
		t.Fatalf("OneMinute snapshot = %+v, want a finite entry", snaps)
	}
	if snaps[0].TimeRemaining != 40*time.Second {
		t.Fatalf("TimeRemaining after 20s served = %v, want 40s", snaps[0].TimeRemaining)
	}
}
