package grid

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
)

// carveSteps bounds the search nodes one uniqueness check may visit while
// carving. A check that runs out keeps the given, so a seed always yields the
// same board.
const carveSteps = 20000

func targetGivens(d Difficulty) int {
	switch d {
	case Easy:
		return 40
	case Medium:
		return 34
	case Hard:
		return 28
	default:
		return 24 // Expert
	}
}

// Generate builds a board with a unique solution: fill a random solution,
// then carve out givens while the puzzle stays uniquely solvable.
func Generate(rng *rand.Rand, d Difficulty, maxMistakes int) (Board, error) {
	var full [Size][Size]uint8
	if !fillRandom(rng, &full) {
		return Board{}, fmt.Errorf("grid: could not fill a solution")
	}

	puz := full
	positions := rng.Perm(Size * Size)
	target := targetGivens(d)
	givens := Size * Size
	for _, pos := range positions {
		if givens <= target {
			break
		}
		r, c := pos/Size, pos%Size
		old := puz[r][c]
		puz[r][c] = 0
		if countSolutions(&puz, 2, carveSteps) != 1 {
			puz[r][c] = old
			continue
		}
		givens--
	}
	return FromValues(puz, maxMistakes), nil
}

// FromValues builds a fresh board whose non-zero values are givens.
func FromValues(v [Size][Size]uint8, maxMistakes int) Board {
	if maxMistakes <= 0 {
		maxMistakes = DefaultMaxMistakes
	}
	b := Board{MaxMistakes: maxMistakes}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			b.Cells[r][c] = Cell{Value: v[r][c], ReadOnly: v[r][c] != 0}
		}
	}
	return b
}

// Layout is the wire form of a fresh board: 81 characters row-major, digits
// for givens and '0' or '.' for blanks.
type Layout struct {
	Givens      string `json:"givens"`
	MaxMistakes int    `json:"maxMistakes,omitempty"`
}

// Encode renders the givens of b.
func Encode(b Board) Layout {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if cell := b.Cells[r][c]; cell.ReadOnly {
				sb.WriteByte('0' + cell.Value)
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return Layout{Givens: sb.String(), MaxMistakes: b.MaxMistakes}
}

// Decode parses a server layout. Givens must not conflict with each other.
func Decode(raw json.RawMessage) (Board, error) {
	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return Board{}, fmt.Errorf("grid: decode layout: %w", err)
	}
	if len(l.Givens) != Size*Size {
		return Board{}, fmt.Errorf("grid: layout has %d cells, want %d", len(l.Givens), Size*Size)
	}
	var v [Size][Size]uint8
	for i := 0; i < Size*Size; i++ {
		ch := l.Givens[i]
		switch {
		case ch == '.' || ch == '0':
		case ch >= '1' && ch <= '9':
			v[i/Size][i%Size] = ch - '0'
		default:
			return Board{}, fmt.Errorf("grid: layout cell %d is %q", i, ch)
		}
	}
	b := FromValues(v, l.MaxMistakes)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.Cells[r][c].Value != 0 && b.conflicts(r, c) {
				return Board{}, fmt.Errorf("grid: given at (%d,%d) conflicts", r, c)
			}
		}
	}
	return b, nil
}

// fillRandom solves an empty grid into a full valid solution by random ordering.
func fillRandom(rng *rand.Rand, grid *[Size][Size]uint8) bool {
	var nums [Size]uint8
	for i := 0; i < Size; i++ {
		nums[i] = uint8(i + 1)
	}
	var dfs func(int, int) bool
	dfs = func(r, c int) bool {
		if r == Size {
			return true
		}
		nr, nc := r, c+1
		if nc == Size {
			nr, nc = r+1, 0
		}
		order := nums
		rng.Shuffle(Size, func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, v := range order {
			if allowed(grid, r, c, v) {
				grid[r][c] = v
				if dfs(nr, nc) {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	return dfs(0, 0)
}

// countSolutions counts solutions of g up to limit by backtracking. A positive
// steps caps the nodes visited; running out reports limit.
func countSolutions(g *[Size][Size]uint8, limit, steps int) int {
	grid := *g
	count := 0
	var dfs func() bool
	dfs = func() bool {
		if steps > 0 {
			steps--
			if steps == 0 {
				count = limit
				return true
			}
		}
		r, c, ok := findEmpty(&grid)
		if !ok {
			count++
			return count >= limit
		}
		for v := uint8(1); v <= Size; v++ {
			if allowed(&grid, r, c, v) {
				grid[r][c] = v
				if dfs() {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	dfs()
	return count
}

func findEmpty(b *[Size][Size]uint8) (int, int, bool) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// allowed mirrors row/col/box checks on a raw value grid.
func allowed(b *[Size][Size]uint8, r, c int, v uint8) bool {
	for i := 0; i < Size; i++ {
		if b[r][i] == v || b[i][c] == v {
			return false
		}
	}
	br, bc := (r/3)*3, (c/3)*3
	for dr := 0; dr < 3; dr++ {
		for dc := 0; dc < 3; dc++ {
			if b[br+dr][bc+dc] == v {
				return false
			}
		}
	}
	return true
}
