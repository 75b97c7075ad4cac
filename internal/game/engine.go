// apps/go-server/internal/game/engine.go
//
// Scoring shared by the game packages.
//
// Only the pipes game defines a numeric score:
//
//	score = max(0, floor(1000 - 5*elapsedSeconds - 10*moveCount))
//
// Pairs and grid report moves/time (and mistakes) without a derived score.
package game

const (
	pipesBase      = 1000
	pipesPerSecond = 5
	pipesPerMove   = 10
)

// PipesScore implements the pipes formula. Negative inputs are treated as 0.
func PipesScore(elapsedSeconds, moves int) int {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	if moves < 0 {
		moves = 0
	}
	s := pipesBase - pipesPerSecond*elapsedSeconds - pipesPerMove*moves
	if s < 0 {
		return 0
	}
	return s
}
