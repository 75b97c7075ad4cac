// apps/go-server/internal/game/pipes/engine.go
//
// Rules for the pipes game.
// Responsibilities:
//   - Generate solvable boards (random spanning tree, scrambled rotations).
//   - Validate and apply rotations and lock toggles.
//   - Keep the derived Connected flags current after every move.
//   - Detect completion.
//
// All functions are pure: the input board is never modified.
package pipes

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"slices"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

const maxScrambleTries = 50

// Apply dispatches a Move to Rotate or ToggleLock.
func Apply(b Board, m Move) (game.Step[Board], bool) {
	switch m.Action {
	case ActionLock:
		return ToggleLock(b, m.Tile)
	case ActionRotate, "":
		dir := m.Direction
		if dir == 0 {
			dir = Clockwise
		}
		return Rotate(b, m.Tile, dir)
	}
	return game.Step[Board]{Board: b}, false
}

// Rotate turns tile id a quarter turn. Locked and empty tiles are rejected.
// Every accepted rotation counts as a move.
func Rotate(b Board, id int, dir Direction) (game.Step[Board], bool) {
	if id < 0 || id >= len(b.Tiles) {
		return game.Step[Board]{Board: b}, false
	}
	t := b.Tiles[id]
	if t.Locked || t.Kind == Empty || (dir != Clockwise && dir != CounterClockwise) {
		return game.Step[Board]{Board: b}, false
	}
	next := b.Clone()
	next.Tiles[id].Rotation = (((t.Rotation + 90*int(dir)) % 360) + 360) % 360
	return game.Step[Board]{Board: Connect(next), Counted: true}, true
}

// ToggleLock flips the lock on tile id without rotating it. Not a move.
func ToggleLock(b Board, id int) (game.Step[Board], bool) {
	if id < 0 || id >= len(b.Tiles) || b.Tiles[id].Kind == Empty {
		return game.Step[Board]{Board: b}, false
	}
	next := b.Clone()
	next.Tiles[id].Locked = !next.Tiles[id].Locked
	return game.Step[Board]{Board: Connect(next)}, true
}

// Outcome is Solved once every non-empty tile is connected to the source.
func Outcome(b Board) game.Outcome {
	pieces := 0
	for _, t := range b.Tiles {
		if t.Kind == Empty {
			continue
		}
		pieces++
		if !t.Connected {
			return game.Playing
		}
	}
	if pieces == 0 {
		return game.Playing
	}
	return game.Solved
}

// Generate builds a rows×cols board whose solution is a random spanning tree
// rooted at the centre tile, then scrambles rotations until it is unsolved.
func Generate(rng *rand.Rand, rows, cols int) (Board, error) {
	if rows < MinSize || rows > MaxSize || cols < MinSize || cols > MaxSize {
		return Board{}, fmt.Errorf("pipes: size %dx%d out of range [%d,%d]", rows, cols, MinSize, MaxSize)
	}
	b := Board{Rows: rows, Cols: cols, Source: (rows/2)*cols + cols/2, Tiles: make([]Tile, rows*cols)}

	masks := make([]uint8, rows*cols)
	visited := make([]bool, rows*cols)
	stack := []int{b.Source}
	visited[b.Source] = true
	dirs := []uint8{north, east, south, west}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		var open []uint8
		for _, d := range dirs {
			if j := b.neighbor(i, d); j >= 0 && !visited[j] {
				open = append(open, d)
			}
		}
		if len(open) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := open[rng.Intn(len(open))]
		j := b.neighbor(i, d)
		masks[i] |= d
		masks[j] |= opposite(d)
		visited[j] = true
		stack = append(stack, j)
	}

	for i, m := range masks {
		k, rot := shapeFor(m)
		b.Tiles[i] = Tile{ID: i, Kind: k, Rotation: rot}
	}

	for try := 0; try < maxScrambleTries; try++ {
		for i := range b.Tiles {
			b.Tiles[i].Rotation = (b.Tiles[i].Rotation + 90*rng.Intn(4)) % 360
		}
		b = Connect(b)
		if Outcome(b) != game.Solved {
			break
		}
	}
	return b, nil
}

// Validate checks the structural invariants of a board.
func Validate(b Board) error {
	if b.Rows < MinSize || b.Rows > MaxSize || b.Cols < MinSize || b.Cols > MaxSize {
		return fmt.Errorf("pipes: size %dx%d out of range", b.Rows, b.Cols)
	}
	if len(b.Tiles) != b.Rows*b.Cols {
		return fmt.Errorf("pipes: %d tiles for a %dx%d grid", len(b.Tiles), b.Rows, b.Cols)
	}
	for i, t := range b.Tiles {
		if t.ID != i {
			return fmt.Errorf("pipes: tile %d has id %d", i, t.ID)
		}
		if _, ok := baseOpenings[t.Kind]; !ok {
			return fmt.Errorf("pipes: tile %d has type %q", i, t.Kind)
		}
		switch t.Rotation {
		case 0, 90, 180, 270:
		default:
			return fmt.Errorf("pipes: tile %d has rotation %d", i, t.Rotation)
		}
	}
	if b.Source < 0 || b.Source >= len(b.Tiles) || b.Tiles[b.Source].Kind == Empty {
		return fmt.Errorf("pipes: invalid source %d", b.Source)
	}
	return nil
}

// Decode parses a server layout and derives Connected.
func Decode(raw json.RawMessage) (Board, error) {
	var b Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return Board{}, fmt.Errorf("pipes: decode layout: %w", err)
	}
	if err := Validate(b); err != nil {
		return Board{}, err
	}
	return Connect(b), nil
}

// Clone returns a copy that shares no storage with b.
func (b Board) Clone() Board {
	b.Tiles = slices.Clone(b.Tiles)
	return b
}
