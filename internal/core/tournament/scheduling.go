package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

// maxLongStringableSecs is the largest duration (99:59:59) the mm:ss/h:mm:ss
// display transform can render without overflowing its digit budget (spec
// §4.1 calc_time_to_next_game). Anything computed larger is clamped here.
const maxLongStringableSecs = 359999 * time.Second

// SetNextGame records the schedule provider's push for the upcoming game
// (spec §6 set_next_game). A nil TimingOverride/WallClockStart leaves that
// part of the default schedule undisturbed.
func (m *Manager) SetNextGame(info NextGameInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextGame = &info
}

func (m *Manager) nextGameNumber() uint32 {
	if m.nextGame != nil && m.nextGame.Number != 0 {
		return m.nextGame.Number
	}
	return m.gameNumber + 1
}

// gameSpan estimates the wall-clock span of a single game under cfg, used to
// project nextScheduledStart forward across start_game (two halves, the
// half-time break, and the following nominal break).
func (m *Manager) gameSpan() time.Duration {
	return 2*m.effectiveConfig.HalfPlay + m.effectiveConfig.HalfTime + m.gameConfigFlags.nominalBreak
}

// calcTimeToNextGame computes the BetweenGames countdown duration (spec
// §4.1 / original_source calc_time_to_next_game): prefer an explicit
// WallClockStart from the schedule provider, falling back to the running
// nextScheduledStart projection, falling back to the configured nominal
// break — always clamped to [minimumBreak, maxLongStringableSecs].
func (m *Manager) calcTimeToNextGame(now time.Time) time.Duration {
	d := m.gameConfigFlags.nominalBreak

	switch {
	case m.nextGame != nil && m.nextGame.WallClockStart != nil:
		d = m.nextGame.WallClockStart.In(m.gameConfigFlags.location).Sub(now)
	case !m.nextScheduledStart.IsZero():
		d = m.nextScheduledStart.In(m.gameConfigFlags.location).Sub(now)
	}

	if d < m.gameConfigFlags.minimumBreak {
		d = m.gameConfigFlags.minimumBreak
	}
	if d > maxLongStringableSecs {
		d = maxLongStringableSecs
	}
	return d
}

// startGame runs the BetweenGames→FirstHalf entry side effects: clearing
// score/penalty state left over from the prior game if it hasn't already
// been reset, applying any one-shot timing override from the schedule
// provider, and starting the first-half clock.
func (m *Manager) startGame(now time.Time) {
	if !m.hasReset {
		m.blackScore, m.whiteScore = 0, 0
		m.blackPenalties, m.whitePenalties = nil, nil
		m.hasReset = true
	}

	m.gameNumber = m.nextGameNumber()
	if m.nextGame != nil && m.nextGame.TimingOverride != nil {
		m.effectiveConfig = *m.nextGame.TimingOverride
	} else {
		m.effectiveConfig = m.baseConfig
	}
	m.nextGame = nil

	m.currentPeriod = period.FirstHalf
	m.blackTimeoutsUsed, m.whiteTimeoutsUsed = 0, 0
	m.clockState = clockstate.NewCountingDown(now, m.effectiveConfig.HalfPlay)
	m.recent = nil

	if !m.nextScheduledStart.IsZero() {
		m.nextScheduledStart = m.nextScheduledStart.Add(m.gameSpan())
	} else {
		m.nextScheduledStart = now.Add(m.gameSpan())
	}
}

// endGame runs the →BetweenGames entry side effects: parking the clock on a
// countdown to the next game and arming the reset that clears
// scores/penalties once PostGameDuration of that countdown has elapsed
// (resetGameTime = break length minus PostGameDuration; spec §4.1,
// original_source supplement — see DESIGN.md).
func (m *Manager) endGame(now time.Time) {
	m.currentPeriod = period.BetweenGames
	breakDur := m.calcTimeToNextGame(now)
	m.clockState = clockstate.NewCountingDown(now, breakDur)
	m.resetGameTime = breakDur - m.gameConfigFlags.postGameDuration
	if m.resetGameTime < 0 {
		m.resetGameTime = 0
	}
	m.hasReset = false
	m.recent = nil
}
