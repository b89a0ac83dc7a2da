package tournament

import (
	"testing"
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

func TestSuccessorOvertimePreferredOverSuddenDeath(t *testing.T) {
	cfg := testConfig()
	cfg.OvertimeAllowed = true
	cfg.SuddenDeathAllowed = true
	m := New(cfg)
	m.currentPeriod = period.SecondHalf

	o := m.successor()
	if o.endGame || o.next != period.PreOvertime {
		t.Fatalf("successor() with both OT and SD enabled, level score = %+v, want PreOvertime", o)
	}
}

func TestSuccessorSuddenDeathWhenOTDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.OvertimeAllowed = false
	cfg.SuddenDeathAllowed = true
	m := New(cfg)
	m.currentPeriod = period.SecondHalf

	o := m.successor()
	if o.endGame || o.next != period.PreSuddenDeath {
		t.Fatalf("successor() OT disabled, SD enabled, level score = %+v, want PreSuddenDeath", o)
	}
}

func TestSuccessorEndsGameWhenNeitherEnabledAndLevel(t *testing.T) {
	cfg := testConfig()
	cfg.OvertimeAllowed = false
	cfg.SuddenDeathAllowed = false
	m := New(cfg)
	m.currentPeriod = period.SecondHalf

	o := m.successor()
	if !o.endGame {
		t.Fatalf("successor() with neither OT/SD, level score = %+v, want endGame", o)
	}
}

func TestSuccessorEndsGameWhenUnlevelEvenIfExtensionsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.OvertimeAllowed = true
	cfg.SuddenDeathAllowed = true
	m := New(cfg)
	m.currentPeriod = period.SecondHalf
	m.blackScore = 3
	m.whiteScore = 1

	o := m.successor()
	if !o.endGame {
		t.Fatalf("successor() unlevel score = %+v, want endGame regardless of OT/SD enablement", o)
	}
}

func TestSuccessorOvertimeSecondHalfEndsOnUnlevel(t *testing.T) {
	cfg := testConfig()
	cfg.SuddenDeathAllowed = true
	m := New(cfg)
	m.currentPeriod = period.OvertimeSecondHalf
	m.blackScore = 2
	m.whiteScore = 5

	o := m.successor()
	if !o.endGame {
		t.Fatalf("successor() OT second half unlevel = %+v, want endGame", o)
	}
}

func TestSuccessorOvertimeSecondHalfGoesToSuddenDeathWhenLevel(t *testing.T) {
	cfg := testConfig()
	cfg.SuddenDeathAllowed = true
	m := New(cfg)
	m.currentPeriod = period.OvertimeSecondHalf

	o := m.successor()
	if o.endGame || o.next != period.PreSuddenDeath {
		t.Fatalf("successor() OT second half level = %+v, want PreSuddenDeath", o)
	}
}

func TestWouldEndGameTrueOnlyAtZeroInSecondHalfUnlevel(t *testing.T) {
	cfg := testConfig()
	cfg.OvertimeAllowed = false
	cfg.SuddenDeathAllowed = false
	m := New(cfg)
	now := epoch
	_ = m.StartPlayNow(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now) // HalfTime
	now = now.Add(3*time.Minute + time.Second)
	_ = m.Update(now) // SecondHalf
	_ = m.AddScore(now, ColorBlack, 9)

	if m.WouldEndGame(now) {
		t.Fatal("WouldEndGame true before the clock has expired")
	}

	expiry := now.Add(10*time.Minute + time.Second)
	if !m.WouldEndGame(expiry) {
		t.Fatal("WouldEndGame false once SecondHalf has expired with an unlevel score and no extensions")
	}
}

func TestWouldEndGameFalseWhenExtensionApplies(t *testing.T) {
	m := New(testConfig()) // SuddenDeathAllowed true by default in testConfig
	now := epoch
	_ = m.StartPlayNow(now)
	now = now.Add(10*time.Minute + time.Second)
	_ = m.Update(now)
	now = now.Add(3*time.Minute + time.Second)
	_ = m.Update(now)

	expiry := now.Add(10*time.Minute + time.Second)
	if m.WouldEndGame(expiry) {
		t.Fatal("WouldEndGame true even though a level score routes to PreSuddenDeath, not end_game")
	}
}

func TestApplyTransitionSuddenDeathStartsCountingUpClock(t *testing.T) {
	m := New(testConfig())
	m.currentPeriod = period.PreSuddenDeath
	m.applyTransition(epoch, outcome{next: period.SuddenDeath})

	if m.clockState.Kind != clockstate.CountingUp {
		t.Fatalf("SuddenDeath entry clock kind = %v, want CountingUp", m.clockState.Kind)
	}
}

func TestIsAnyClockRunningReflectsTimeoutOverMainClock(t *testing.T) {
	m := New(testConfig())
	now := epoch
	_ = m.StartPlayNow(now)
	if !m.IsAnyClockRunning() {
		t.Fatal("main clock should be running right after StartPlayNow")
	}

	_ = m.StartRefTimeout(now)
	if !m.IsAnyClockRunning() {
		t.Fatal("timeout clock should be running once a ref timeout starts")
	}
	if m.clockState.IsRunning() {
		t.Fatal("main clock should be halted while a timeout is active")
	}
}
