// apps/go-server/internal/game/types.go
//
// Shared type definitions for the puzzle games.
// Defines:
//   - Type:    which mini-game a board belongs to.
//   - Outcome: coarse result of a completion check (playing/solved/failed).
//   - Step:    the result of an accepted move (next board + whether it counts).

package game

import "fmt"

// Type identifies a mini-game. The string form is the wire value used by the
// attempt service.
type Type string

const (
	TypePairs Type = "pairs" // tile matching
	TypePipes Type = "pipes" // rotational connectivity
	TypeGrid  Type = "grid"  // 9x9 constraint grid
)

// ParseType validates a wire value.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypePairs, TypePipes, TypeGrid:
		return t, nil
	}
	return "", fmt.Errorf("game: unknown type %q", s)
}

// Outcome reports whether a board is still in play or terminal.
type Outcome int

const (
	Playing Outcome = iota
	Solved
	Failed
)

// Terminal is true for Solved and Failed.
func (o Outcome) Terminal() bool { return o != Playing }

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case Failed:
		return "failed"
	}
	return "playing"
}

// Step is what a validator returns for an accepted move.
type Step[B any] struct {
	Board   B
	Counted bool // true if the move increments the session move counter
}
