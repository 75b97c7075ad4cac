package session

// Guard admits at most one finalize per game id.
//
// It is not safe for concurrent use; a Session only touches it under its own
// mutex, next to the game id it compares against.
type Guard struct {
	hasFinalized        bool
	lastFinalizedGameID string
}

// TryFinalize reports whether a terminal signal raised for game signalled may
// finalize the game that is current now. A true result is recorded, so a
// second call for the same game returns false.
func (g *Guard) TryFinalize(current, signalled string) bool {
	if signalled == "" || signalled != current {
		return false
	}
	if g.hasFinalized || g.lastFinalizedGameID == current {
		return false
	}
	g.hasFinalized = true
	g.lastFinalizedGameID = current
	return true
}

// Reset re-arms the guard for a new game. The last finalized id is kept so
// a late signal for that game is still refused.
func (g *Guard) Reset() { g.hasFinalized = false }

// Finalized reports whether the current game has been admitted.
func (g *Guard) Finalized() bool { return g.hasFinalized }
