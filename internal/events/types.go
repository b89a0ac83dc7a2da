package events

// ConfirmScoresEvent is published by the tick driver when a period transition
// would end the game: the main clock has been halted (see
// tournament.Manager.HaltClock) and the UI must present a confirmation step.
// The halted clock stays Stopped; the game ends once the clock is started
// again and the next Update finds it at zero.
type ConfirmScoresEvent struct {
	GameNumber uint32
	BlackScore uint8
	WhiteScore uint8
}

// ClockRunningEvent mirrors the Tournament Manager's watch channel.
type ClockRunningEvent struct {
	Running bool
}
