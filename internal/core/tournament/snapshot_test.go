package tournament

import (
	"testing"
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/penalty"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

func TestGenerateSnapshotReflectsBasicState(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddScore(now, ColorBlack, 1)

	snap := m.GenerateSnapshot(now)
	if snap.EventID == "" {
		t.Fatal("GenerateSnapshot should stamp a non-empty EventID")
	}
	if snap.GameNumber != 1 {
		t.Fatalf("snapshot game number = %d, want 1", snap.GameNumber)
	}
	if snap.CurrentPeriod != period.FirstHalf {
		t.Fatalf("snapshot period = %s, want FirstHalf", snap.CurrentPeriod)
	}
	if snap.ClockTime != 10*time.Minute {
		t.Fatalf("snapshot clock time = %v, want 10m", snap.ClockTime)
	}
	if !snap.ClockRunning {
		t.Fatal("snapshot ClockRunning should be true right after StartPlayNow")
	}
	if snap.BlackScore != 1 {
		t.Fatalf("snapshot black score = %d, want 1", snap.BlackScore)
	}
	if snap.RecentGoal == nil || snap.RecentGoal.Color != ColorBlack || snap.RecentGoal.Player != 1 {
		t.Fatalf("snapshot recent goal = %+v, want Black/1", snap.RecentGoal)
	}
}

func TestGenerateSnapshotHidesExpiredClockAsZero(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)

	past := now.Add(11 * time.Minute) // HalfPlay is 10m; clock has run past zero
	snap := m.GenerateSnapshot(past)
	if snap.ClockTime != 0 {
		t.Fatalf("snapshot clock time past expiry = %v, want 0 (clamped), not a negative/needs-update value", snap.ClockTime)
	}
}

func TestGenerateSnapshotNextPeriodLenSecsTracksSuccessor(t *testing.T) {
	m := New(testConfig())
	// Starting in BetweenGames: successor is FirstHalf.
	snap := m.GenerateSnapshot(epoch)
	if snap.NextPeriodLenSecs != 10*time.Minute {
		t.Fatalf("NextPeriodLenSecs from BetweenGames = %v, want 10m (FirstHalf)", snap.NextPeriodLenSecs)
	}
}

func TestGenerateSnapshotNextPeriodLenSecsZeroAtPreSuddenDeath(t *testing.T) {
	m := New(testConfig())
	m.currentPeriod = period.PreSuddenDeath
	snap := m.GenerateSnapshot(epoch)
	if snap.NextPeriodLenSecs != 0 {
		t.Fatalf("NextPeriodLenSecs at PreSuddenDeath = %v, want 0 (SuddenDeath has no fixed length)", snap.NextPeriodLenSecs)
	}
}

func TestGenerateSnapshotIsOldGameUntilReset(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(3*time.Minute + time.Second)
	_ = m.Update(now)
	_ = m.AddScore(now, ColorBlack, 9)

	cfg := testConfig()
	cfg.OvertimeAllowed, cfg.SuddenDeathAllowed = false, false
	m2 := New(cfg)
	_ = m2.StartPlayNow(now)
	now2 := now.Add(10*time.Minute + time.Second)
	_ = m2.Update(now2)
	now2 = now2.Add(3*time.Minute + time.Second)
	_ = m2.Update(now2)
	_ = m2.AddScore(now2, ColorBlack, 1)
	now2 = now2.Add(10*time.Minute + time.Second)
	_ = m2.Update(now2) // unlevel SecondHalf expiry -> end_game

	snap := m2.GenerateSnapshot(now2)
	if !snap.IsOldGame {
		t.Fatal("snapshot right after end_game should report IsOldGame until the between-games reset fires")
	}
}

func TestGenerateSnapshotIncludesTimeoutTimeWhileActive(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now) // a running main clock makes the ref timeout clock run
	_ = m.StartRefTimeout(now)

	later := now.Add(30 * time.Second)
	snap := m.GenerateSnapshot(later)
	if snap.TimeoutKind != clockstate.Ref {
		t.Fatalf("snapshot timeout kind = %s, want Ref", snap.TimeoutKind)
	}
	if snap.TimeoutTime != 30*time.Second {
		t.Fatalf("snapshot timeout time = %v, want 30s elapsed", snap.TimeoutTime)
	}
}

func TestGenerateSnapshotPenaltyListRoundTrips(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddPenalty(now, ColorWhite, 9, penalty.TwoMinute)

	snap := m.GenerateSnapshot(now)
	if len(snap.WhitePenalties) != 1 {
		t.Fatalf("snapshot white penalties = %+v, want 1 entry", snap.WhitePenalties)
	}
	if snap.WhitePenalties[0].PlayerNumber != 9 || snap.WhitePenalties[0].TimeRemaining != 2*time.Minute {
		t.Fatalf("snapshot penalty = %+v, want player 9 with 2m remaining", snap.WhitePenalties[0])
	}
}
