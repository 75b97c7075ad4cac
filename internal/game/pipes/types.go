// apps/go-server/internal/game/pipes/types.go
//
// Board model for the pipes (rotational connectivity) game.
//   - Kind:  tile shape, which fixes the number and layout of openings.
//   - Tile:  one grid cell with a rotation, a lock flag and a derived
//            connected flag.
//   - Board: row-major grid plus the source tile index.

package pipes

// Kind is a tile shape.
type Kind string

const (
	Empty    Kind = "empty"
	Endpoint Kind = "endpoint" // one opening
	Straight Kind = "straight" // two opposite openings
	Corner   Kind = "corner"   // two adjacent openings
	Tee      Kind = "tee"      // three openings
	Cross    Kind = "cross"    // four openings
)

// Tile is a single cell. Rotation is one of 0, 90, 180, 270 (clockwise).
// Connected is derived; it is recomputed after every move and ignored on input.
type Tile struct {
	ID        int  `json:"id"`
	Kind      Kind `json:"type"`
	Rotation  int  `json:"rotation"`
	Locked    bool `json:"locked"`
	Connected bool `json:"connected"`
}

// Board is an immutable snapshot of the grid.
type Board struct {
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Source int    `json:"source"`
	Tiles  []Tile `json:"tiles"`
}

// Direction of a rotation.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// Action selects what a Move does to a tile.
type Action string

const (
	ActionRotate Action = "rotate"
	ActionLock   Action = "lock"
)

// Move is a player input against one tile.
type Move struct {
	Tile      int       `json:"tile"`
	Action    Action    `json:"action"`
	Direction Direction `json:"direction,omitempty"`
}

const (
	DefaultRows = 5
	DefaultCols = 5
	MinSize     = 2
	MaxSize     = 10
)
