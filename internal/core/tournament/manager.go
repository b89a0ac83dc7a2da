// Package tournament implements the Tournament Manager: the hierarchical
// state machine over game periods and timeout states, scoring, penalty
// accounting, and inter-game break scheduling described in spec §4.1.
//
// The Manager is the sole owner of all game state. Every method that
// mutates it takes an explicit now time.Time and returns a typed error
// (see errors.go) — no method reads the wall clock itself, so the whole
// reducer is deterministic and testable with a fixed now sequence.
package tournament

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/penalty"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

const maxPenaltyListLen = 3 // matches the 3-slot binary frame layout (spec §4.2)

// NextGameInfo is the schedule provider's push into the TM (spec §6
// set_next_game).
type NextGameInfo struct {
	Number         uint32
	TimingOverride *period.Rules // optional override applied only for the next game
	WallClockStart *time.Time    // optional target wall-clock instant
}

// recentGoal tags the last scoring play for the TTL-bounded "recent_goal"
// snapshot field (spec §4.1).
type recentGoal struct {
	Color      Color
	Player     uint8
	Period     period.GamePeriod
	ClockTime  time.Duration
}

// Manager is the Tournament Manager. Every exported method acquires mu for
// its critical section only — no I/O and no computed wall-clock read
// happens while mu is held (spec §5). The one channel operation under mu is
// the non-blocking, overwriting send on the clock-running watch channel.
type Manager struct {
	mu sync.Mutex

	baseConfig      period.Rules // as configured at construction / last config reload
	effectiveConfig period.Rules // baseConfig, or a next_game timing override applied for one game
	gameConfigFlags gameConfigFlags

	gameNumber    uint32
	currentPeriod period.GamePeriod
	clockState    clockstate.ClockState
	timeoutState  clockstate.TimeoutState

	blackScore, whiteScore uint8
	blackPenalties         []penalty.Penalty
	whitePenalties         []penalty.Penalty

	blackTimeoutsUsed, whiteTimeoutsUsed uint16

	nextGame          *NextGameInfo
	nextScheduledStart time.Time
	resetGameTime     time.Duration
	hasReset          bool

	recent *recentGoal

	clockRunning chan bool // buffered(1), overwrite-on-send "watch channel"
}

// gameConfigFlags are the non-Rules parts of config.GameConfig the manager
// needs: per-half timeout allotment and OT/SD enablement.
type gameConfigFlags struct {
	teamTimeoutDuration time.Duration
	teamTimeoutsPerHalf uint16
	overtimeAllowed     bool
	suddenDeathAllowed  bool
	nominalBreak        time.Duration
	minimumBreak        time.Duration
	postGameDuration    time.Duration
	location            *time.Location
}

// Config is the constructor-time game rules (spec §6 "Game Config").
type Config struct {
	HalfPlayDuration         time.Duration
	HalfTimeDuration         time.Duration
	NominalBreak             time.Duration
	MinimumBreak             time.Duration
	PreOvertimeBreak         time.Duration
	OvertimeHalfPlayDuration time.Duration
	OvertimeHalfTimeDuration time.Duration
	PreSuddenDeathDuration   time.Duration
	TeamTimeoutDuration      time.Duration
	TeamTimeoutsPerHalf      uint16
	OvertimeAllowed          bool
	SuddenDeathAllowed       bool
	PostGameDuration         time.Duration
	Location                 *time.Location
}

func (c Config) rules() period.Rules {
	return period.Rules{
		HalfPlay:       c.HalfPlayDuration,
		HalfTime:       c.HalfTimeDuration,
		PreOvertime:    c.PreOvertimeBreak,
		OTHalfPlay:     c.OvertimeHalfPlayDuration,
		OTHalfTime:     c.OvertimeHalfTimeDuration,
		PreSuddenDeath: c.PreSuddenDeathDuration,
	}
}

// New constructs a Manager parked in BetweenGames with a Stopped clock
// showing the nominal break. Update does not advance a Stopped clock, so the
// first game starts through StartPlayNow, or once the clock is started and
// counts down to zero.
func New(cfg Config) *Manager {
	rules := cfg.rules()
	m := &Manager{
		baseConfig:      rules,
		effectiveConfig: rules,
		gameConfigFlags: gameConfigFlags{
			teamTimeoutDuration: cfg.TeamTimeoutDuration,
			teamTimeoutsPerHalf: cfg.TeamTimeoutsPerHalf,
			overtimeAllowed:     cfg.OvertimeAllowed,
			suddenDeathAllowed:  cfg.SuddenDeathAllowed,
			nominalBreak:        cfg.NominalBreak,
			minimumBreak:        cfg.MinimumBreak,
			postGameDuration:    cfg.PostGameDuration,
			location:            cfg.Location,
		},
		currentPeriod: period.BetweenGames,
		clockState:    clockstate.NewStopped(cfg.NominalBreak),
		timeoutState:  clockstate.None(),
		hasReset:      true,
		clockRunning:  make(chan bool, 1),
	}
	if m.gameConfigFlags.location == nil {
		m.gameConfigFlags.location = time.UTC
	}
	return m
}

// ClockRunning returns the watch channel that emits on every transition of
// "is any clock running" (spec §3). Single-subscriber, latest-value
// semantics: a send that finds the buffer full drains the stale value
// first, so the reader only ever observes the most recent state.
func (m *Manager) ClockRunning() <-chan bool { return m.clockRunning }

func (m *Manager) notifyClockRunning(running bool) {
	select {
	case m.clockRunning <- running:
	default:
		select {
		case <-m.clockRunning:
		default:
		}
		m.clockRunning <- running
	}
}

// isAnyClockRunning reports whether the main clock or the timeout clock is
// running — never both (spec §3 invariant).
func (m *Manager) isAnyClockRunning() bool {
	return m.clockState.IsRunning() || m.timeoutState.IsRunning()
}

// GameNumber reports the current game number.
func (m *Manager) GameNumber() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameNumber
}

// uuidString is split out so tests can assert on call sites without pulling
// in the uuid package directly.
func uuidString() string { return uuid.NewString() }
