// apps/go-server/internal/game/grid/types.go
//
// Board model for the 9x9 constraint grid.
//   - Cell:  a value (0 = empty), a read-only flag for givens, and an error
//            flag for row/column/box conflicts.
//   - Board: the cells plus the mistake counter and its limit.

package grid

// Size is the side length of the grid.
const Size = 9

// DefaultMaxMistakes ends a session once this many conflicts were entered.
const DefaultMaxMistakes = 3

// Cell holds one square. Read-only cells are givens and never change.
type Cell struct {
	Value    uint8 `json:"value"`
	ReadOnly bool  `json:"isReadOnly"`
	Error    bool  `json:"isError"`
}

// Board is an immutable snapshot (it is a value type; copying copies cells).
type Board struct {
	Cells       [Size][Size]Cell `json:"cells"`
	Mistakes    int              `json:"mistakes"`
	MaxMistakes int              `json:"maxMistakes"`
}

// Move writes Value into (Row, Col). Value 0 clears the cell.
type Move struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Value uint8 `json:"value"`
}

// Difficulty controls how many givens a generated board keeps.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

// ParseDifficulty maps a wire value; unknown values are Easy.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "medium":
		return Medium
	case "hard":
		return Hard
	case "expert":
		return Expert
	}
	return Easy
}

func (d Difficulty) String() string {
	switch d {
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	}
	return "easy"
}

// Clone returns b; the board holds no references.
func (b Board) Clone() Board { return b }
