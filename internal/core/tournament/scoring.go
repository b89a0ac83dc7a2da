package tournament

import (
	"time"

	"github.com/uwhrefbox/refbox/internal/core/period"
)

// recentGoalTTL bounds how long a scoring play stays tagged as "recent" in
// the snapshot (spec §4.1), measured in elapsed game-clock seconds rather
// than wall time so a paused clock doesn't silently age the tag out.
const recentGoalTTL = 10 * time.Second

// AddScore increments c's score by one and tags the play as the recent
// goal, only valid during a play period (spec §4.1).
func (m *Manager) AddScore(now time.Time, c Color, player uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.currentPeriod.IsPlayPeriod() {
		return ErrWrongGamePeriod{Actual: m.currentPeriod}
	}

	if c == ColorBlack {
		m.blackScore++
	} else {
		m.whiteScore++
	}
	m.recent = &recentGoal{
		Color:     c,
		Player:    player,
		Period:    m.currentPeriod,
		ClockTime: m.activeClockTime(now),
	}

	// Sudden death has no fixed length: it ends the instant the scores stop
	// being level, rather than waiting for a clock-zero crossing.
	if m.currentPeriod == period.SuddenDeath && m.blackScore != m.whiteScore {
		m.endGame(now)
	}
	return nil
}

// SetScores overwrites both scores directly (spec §6 manual score
// correction), clearing any pending recent-goal tag. A referee correction
// during sudden death that leaves the scores unlevel ends the game exactly
// as a scored goal would (spec §4.1 "Score setting").
func (m *Manager) SetScores(now time.Time, black, white uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blackScore, m.whiteScore = black, white
	m.recent = nil

	if m.currentPeriod == period.SuddenDeath && m.blackScore != m.whiteScore {
		m.endGame(now)
	}
}

// Scores returns the current black and white scores.
func (m *Manager) Scores() (black, white uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blackScore, m.whiteScore
}

// recentGoalExpired reports whether the tagged recent goal has aged out of
// the TTL window, measured against elapsed game-clock time within the
// period it was scored in — a clock halted or stopped at exactly the score
// instant never expires the tag.
func (m *Manager) recentGoalExpired(now time.Time) bool {
	if m.recent == nil {
		return false
	}
	if m.recent.Period != m.currentPeriod {
		return true
	}
	cur := m.activeClockTime(now)
	var elapsed time.Duration
	if m.currentPeriod.IsOpenEnded() {
		elapsed = cur - m.recent.ClockTime
	} else {
		elapsed = m.recent.ClockTime - cur
	}
	return elapsed < 0 || elapsed > recentGoalTTL
}

func (m *Manager) expireRecentGoal(now time.Time) {
	if m.recentGoalExpired(now) {
		m.recent = nil
	}
}
