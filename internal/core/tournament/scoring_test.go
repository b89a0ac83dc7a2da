package tournament

import (
	"testing"
	"time"

	"github.com/uwhrefbox/refbox/internal/core/period"
)

func TestAddScoreIncrementsAndTagsRecent(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)

	if err := m.AddScore(now, ColorBlack, 5); err != nil {
		t.Fatalf("AddScore: %v", err)
	}
	black, white := m.Scores()
	if black != 1 || white != 0 {
		t.Fatalf("scores after AddScore = %d/%d, want 1/0", black, white)
	}
	if m.recent == nil || m.recent.Color != ColorBlack || m.recent.Player != 5 {
		t.Fatalf("recent goal tag = %+v, want Black/5", m.recent)
	}
}

func TestAddScoreRejectedOutsidePlayPeriod(t *testing.T) {
	m := New(testConfig())
	err := m.AddScore(epoch, ColorBlack, 1)
	if _, ok := err.(ErrWrongGamePeriod); !ok {
		t.Fatalf("AddScore during BetweenGames = %v (%T), want ErrWrongGamePeriod", err, err)
	}
}

func TestSetScoresClearsRecentGoal(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddScore(now, ColorWhite, 2)

	m.SetScores(now, 3, 4)
	black, white := m.Scores()
	if black != 3 || white != 4 {
		t.Fatalf("scores after SetScores = %d/%d, want 3/4", black, white)
	}
	if m.recent != nil {
		t.Fatal("SetScores should clear the recent-goal tag")
	}
}

func TestSetScoresUnlevelDuringSuddenDeathEndsGame(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(3*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now) // -> PreSuddenDeath
	now = now.Add(time.Minute + time.Second)
	_ = m.Update(now) // -> SuddenDeath

	now = now.Add(5 * time.Second)
	m.SetScores(now, 2, 1)
	if m.currentPeriod != period.BetweenGames {
		t.Fatalf("period after unlevel SetScores in sudden death = %s, want BetweenGames", m.currentPeriod)
	}
}

func TestSetScoresLevelDuringSuddenDeathDoesNotEndGame(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(3*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now) // -> PreSuddenDeath
	now = now.Add(time.Minute + time.Second)
	_ = m.Update(now) // -> SuddenDeath

	now = now.Add(5 * time.Second)
	m.SetScores(now, 3, 3)
	if m.currentPeriod != period.SuddenDeath {
		t.Fatalf("period after level SetScores in sudden death = %s, want SuddenDeath", m.currentPeriod)
	}
}

func TestRecentGoalExpiresAfterTTLInGameClockSeconds(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddScore(now, ColorBlack, 1)

	// 9 elapsed clock-seconds: still within the 10s TTL.
	almostExpired := now.Add(9 * time.Second)
	m.expireRecentGoal(almostExpired)
	if m.recent == nil {
		t.Fatal("recent goal expired too early")
	}

	// 11 elapsed clock-seconds: past the TTL.
	expired := now.Add(11 * time.Second)
	m.expireRecentGoal(expired)
	if m.recent != nil {
		t.Fatal("recent goal should have expired past the TTL window")
	}
}

func TestRecentGoalNeverExpiresWhileClockHalted(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddScore(now, ColorBlack, 1)
	m.HaltClock(now)

	// A halted clock's reading never advances, so elapsed stays at 0
	// regardless of how much wall time passes.
	m.expireRecentGoal(now.Add(time.Hour))
	if m.recent == nil {
		t.Fatal("recent goal should not expire while the clock is halted at the score instant")
	}
}

func TestRecentGoalExpiresImmediatelyOnPeriodChange(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	_ = m.AddScore(now, ColorBlack, 1)

	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now) // -> HalfTime; recent goal's Period no longer matches

	if m.recent != nil {
		t.Fatal("recent goal should be cleared once Update crosses into the next period")
	}
}

func TestSuddenDeathGoalEndsGameEvenWithRecentGoalCountingUp(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(3*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now) // -> PreSuddenDeath
	now = now.Add(time.Minute + time.Second)
	_ = m.Update(now) // -> SuddenDeath

	now = now.Add(5 * time.Second)
	if err := m.AddScore(now, ColorBlack, 9); err != nil {
		t.Fatalf("AddScore: %v", err)
	}
	if m.currentPeriod != period.BetweenGames {
		t.Fatalf("period after sudden-death goal = %s, want BetweenGames", m.currentPeriod)
	}
}
